package qcplot

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/rotblauer/drifters/names"
	"github.com/rotblauer/drifters/qc"
)

// HTMLFileName is the interactive separation chart written by WriteHTML.
func HTMLFileName(r *qc.Report) string {
	return names.FileSafe(r.Series.ID) + "_separation.html"
}

// lineData pairs xs and ys for a value axis. ECharts reads "-" as a gap.
func lineData(xs, ys []float64) []opts.LineData {
	out := make([]opts.LineData, 0, len(ys))
	for i := range ys {
		var y interface{} = ys[i]
		if !finite(ys[i]) {
			y = "-"
		}
		out = append(out, opts.LineData{Value: []interface{}{xs[i], y}})
	}
	return out
}

// SeparationChart renders the separation figure as an HTML page.
func SeparationChart(w io.Writer, r *qc.Report) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Separation km/day " + title(r), Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Separation km/day " + title(r),
			Subtitle: fmt.Sprintf("daily mean %.3f km, %d days", r.SeparationSummary.Mean, r.Daily.Len()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: xLabel(r), NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "km", NameLocation: "middle", NameGap: 30}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	sep := r.Separation
	markers := charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)})
	line.AddSeries("X delta", lineData(r.Yearday, sep.X), markers, charts.WithLineStyleOpts(opts.LineStyle{Width: 0}))
	line.AddSeries("Y delta", lineData(r.Yearday, sep.Y), markers, charts.WithLineStyleOpts(opts.LineStyle{Width: 0}))
	if sep.XRmTide != nil {
		line.AddSeries("X rmtide", lineData(r.Yearday, sep.XRmTide), charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
		line.AddSeries("Y rmtide", lineData(r.Yearday, sep.YRmTide), charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	}
	line.AddSeries("Separ 1day", lineData(r.DailyYearday, r.Daily.Magnitude), charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}))
	return line.Render(w)
}

// WriteHTML writes SeparationChart to outDir and returns its path.
func WriteHTML(outDir string, r *qc.Report) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}
	path := filepath.Join(outDir, HTMLFileName(r))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	bw := bufio.NewWriter(f)
	if err := SeparationChart(bw, r); err != nil {
		f.Close()
		return "", fmt.Errorf("render %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
