// Package qcplot draws the drift-versus-model diagnostic figures.
package qcplot

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/rotblauer/drifters/names"
	"github.com/rotblauer/drifters/qc"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	red     = color.RGBA{R: 255, A: 255}
	magenta = color.RGBA{R: 191, B: 191, A: 255}
	blue    = color.RGBA{B: 255, A: 255}
	black   = color.RGBA{A: 255}
	green   = color.RGBA{G: 128, A: 255}
)

const (
	figWidth  = 10 * vg.Inch
	figHeight = 6 * vg.Inch
	trackSize = 8 * vg.Inch
)

// style is a matplotlib-like format: a line, markers, or both.
type style struct {
	color  color.Color
	line   bool
	marker bool
}

func dotLine(c color.Color) style { return style{color: c, line: true, marker: true} }
func solid(c color.Color) style   { return style{color: c, line: true} }
func dots(c color.Color) style    { return style{color: c, marker: true} }

// FileNames are the outputs of Render for a drifter, in order.
func FileNames(r *qc.Report) []string {
	base := names.FileSafe(r.Series.ID)
	return []string{
		base + "_track.png",
		base + "_u.png",
		base + "_v.png",
		base + "_separation.png",
	}
}

// Render writes the track, U, V and separation figures to outDir
// and returns their paths.
func Render(outDir string, r *qc.Report) ([]string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	builders := []func(*qc.Report) (*plot.Plot, vg.Length, vg.Length, error){
		trackPlot, uPlot, vPlot, separationPlot,
	}
	var paths []string
	for i, name := range FileNames(r) {
		p, w, h, err := builders[i](r)
		if err != nil {
			return paths, fmt.Errorf("%s: %w", name, err)
		}
		path := filepath.Join(outDir, name)
		if err := p.Save(w, h, path); err != nil {
			return paths, fmt.Errorf("failed to save %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func title(r *qc.Report) string {
	return "ID_" + r.Series.ID.String()
}

func xLabel(r *qc.Report) string {
	return fmt.Sprintf("Yearday of %d,UTC", r.Year)
}

func newPlot(titleText, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Text = titleText
	p.X.Label.Text = x
	p.Y.Label.Text = y
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p
}

// runs splits (xs, ys) at non-finite values; plotters reject NaN.
func runs(xs, ys []float64) []plotter.XYs {
	var out []plotter.XYs
	var cur plotter.XYs
	for i := range xs {
		if !finite(xs[i]) || !finite(ys[i]) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: xs[i], Y: ys[i]})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// addSeries plots ys against xs with st, adding one legend entry if label is set.
// An all-NaN series is skipped.
func addSeries(p *plot.Plot, label string, xs, ys []float64, st style) error {
	if ys == nil {
		return nil
	}
	var legend []plot.Thumbnailer
	for _, xys := range runs(xs, ys) {
		if st.line && len(xys) > 1 {
			l, err := plotter.NewLine(xys)
			if err != nil {
				return err
			}
			l.Color = st.color
			l.Width = vg.Points(1)
			p.Add(l)
			if legend == nil {
				legend = append(legend, l)
			}
		}
		if st.marker || len(xys) == 1 {
			s, err := plotter.NewScatter(xys)
			if err != nil {
				return err
			}
			s.GlyphStyle.Color = st.color
			s.GlyphStyle.Shape = draw.CircleGlyph{}
			s.GlyphStyle.Radius = vg.Points(1.5)
			p.Add(s)
			if len(legend) < 2 && st.marker {
				legend = append(legend, s)
			}
		}
	}
	if label != "" && len(legend) > 0 {
		p.Legend.Add(label, legend...)
	}
	return nil
}

// trackPlot draws all positions in red, positions passing the domain and
// gap tests in magenta, and positions passing every test in blue.
func trackPlot(r *qc.Report) (*plot.Plot, vg.Length, vg.Length, error) {
	s := r.Series
	p := newPlot(title(r), "Longitude", "Latitude")
	series := []struct {
		label    string
		lon, lat []float64
		color    color.Color
	}{
		{"all", s.Lon, s.Lat, red},
		{"in domain, no gap", r.Mask.ApplyDomainGap(s.Lon), r.Mask.ApplyDomainGap(s.Lat), magenta},
		{"included", r.Mask.Apply(s.Lon), r.Mask.Apply(s.Lat), blue},
	}
	for _, ser := range series {
		if err := addSeries(p, ser.label, ser.lon, ser.lat, dotLine(ser.color)); err != nil {
			return nil, 0, 0, err
		}
	}
	equalizeAspect(p, r.Aspect)
	return p, trackSize, trackSize, nil
}

// equalizeAspect widens one axis so that a degree of latitude spans
// aspect times the length of a degree of longitude on a square canvas.
func equalizeAspect(p *plot.Plot, aspect float64) {
	lonSpan := p.X.Max - p.X.Min
	latSpan := p.Y.Max - p.Y.Min
	if lonSpan <= 0 || latSpan <= 0 || aspect <= 0 {
		return
	}
	if latSpan*aspect < lonSpan {
		mid := (p.Y.Max + p.Y.Min) / 2
		half := lonSpan / aspect / 2
		p.Y.Min, p.Y.Max = mid-half, mid+half
	} else {
		mid := (p.X.Max + p.X.Min) / 2
		half := latSpan * aspect / 2
		p.X.Min, p.X.Max = mid-half, mid+half
	}
}

func velocityPlot(r *qc.Report, component string, drift, model, driftRm, modelRm []float64) (*plot.Plot, vg.Length, vg.Length, error) {
	p := newPlot(component+" "+title(r), xLabel(r), component+" (m/s)")
	series := []struct {
		label string
		ys    []float64
		st    style
	}{
		{"Drift", drift, dotLine(blue)},
		{"FVCOM", model, dotLine(red)},
		{"Drift rmtide", driftRm, solid(black)},
		{"FVCOM rmtide", modelRm, solid(green)},
	}
	for _, ser := range series {
		if err := addSeries(p, ser.label, r.Yearday, ser.ys, ser.st); err != nil {
			return nil, 0, 0, err
		}
	}
	return p, figWidth, figHeight, nil
}

func uPlot(r *qc.Report) (*plot.Plot, vg.Length, vg.Length, error) {
	s := r.Series
	return velocityPlot(r, "U", s.UDrift, s.UModel, s.UDriftRmTide, s.UModelRmTide)
}

func vPlot(r *qc.Report) (*plot.Plot, vg.Length, vg.Length, error) {
	s := r.Series
	return velocityPlot(r, "V", s.VDrift, s.VModel, s.VDriftRmTide, s.VModelRmTide)
}

func separationPlot(r *qc.Report) (*plot.Plot, vg.Length, vg.Length, error) {
	p := newPlot("Separation km/day "+title(r), xLabel(r), "km")
	sep := r.Separation
	series := []struct {
		label  string
		xs, ys []float64
		st     style
	}{
		{"X delta", r.Yearday, sep.X, dots(green)},
		{"Y delta", r.Yearday, sep.Y, dots(blue)},
		{"X rmtide", r.Yearday, sep.XRmTide, solid(green)},
		{"Y rmtide", r.Yearday, sep.YRmTide, solid(blue)},
		{"Separ 1day", r.DailyYearday, r.Daily.Magnitude, dotLine(red)},
	}
	for _, ser := range series {
		if err := addSeries(p, ser.label, ser.xs, ser.ys, ser.st); err != nil {
			return nil, 0, 0, err
		}
	}
	return p, figWidth, figHeight, nil
}
