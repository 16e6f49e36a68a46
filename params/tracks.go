package params

import (
	"fmt"
	"sort"
	"time"

	"github.com/paulmach/orb"
)

// Mode says whether the region of interest is where tracks start (source)
// or where they end up (sink).
type Mode string

const (
	ModeSource Mode = "source"
	ModeSink   Mode = "sink"
	// ModeBoth renders one map per mode from a single fetch.
	ModeBoth Mode = "both"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeSource, ModeSink, ModeBoth:
		return true
	}
	return false
}

// Containment names the point-in-polygon formulation.
type Containment string

const (
	// ContainmentCrossing is the classic crossing-number test,
	// bit-compatible with the reference drifter scripts.
	ContainmentCrossing Containment = "crossing"
	// ContainmentPlanar uses orb/planar ring containment, which treats
	// boundary points as inside.
	ContainmentPlanar Containment = "planar"
)

// GBox is a geographic bounding box in decimal degrees.
// Field order follows the data team's convention: maxlon, minlon, maxlat, minlat.
type GBox struct {
	MaxLon float64 `mapstructure:"maxlon"`
	MinLon float64 `mapstructure:"minlon"`
	MaxLat float64 `mapstructure:"maxlat"`
	MinLat float64 `mapstructure:"minlat"`
}

func (g GBox) Validate() error {
	if g.MinLon >= g.MaxLon {
		return fmt.Errorf("gbox: minlon %v must be less than maxlon %v", g.MinLon, g.MaxLon)
	}
	if g.MinLat >= g.MaxLat {
		return fmt.Errorf("gbox: minlat %v must be less than maxlat %v", g.MinLat, g.MaxLat)
	}
	if g.MinLat < -90 || g.MaxLat > 90 || g.MinLon < -180 || g.MaxLon > 180 {
		return fmt.Errorf("gbox: coordinates out of range: %+v", g)
	}
	return nil
}

func (g GBox) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{g.MinLon, g.MinLat}, Max: orb.Point{g.MaxLon, g.MaxLat}}
}

// Center is the map center: the mean of the box corners.
func (g GBox) Center() orb.Point {
	return orb.Point{(g.MaxLon + g.MinLon) / 2, (g.MaxLat + g.MinLat) / 2}
}

// RegionPresets are regions of interest used by the drifter group.
var RegionPresets = map[string]GBox{
	"nantucket-shoals": {MaxLon: -69.33, MinLon: -69.75, MaxLat: 41.5, MinLat: 41.0},
	"stellwagen":       {MaxLon: -70.035594, MinLon: -70.597883, MaxLat: 42.766619, MinLat: 42.093197},
}

const DefaultRegion = "nantucket-shoals"

func RegionNames() []string {
	out := make([]string, 0, len(RegionPresets))
	for k := range RegionPresets {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// TimeWindow is an inclusive [Start, End] pair of UTC instants.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

func (w TimeWindow) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return fmt.Errorf("time window: start and end are required")
	}
	if w.End.Before(w.Start) {
		return fmt.Errorf("time window: end %s before start %s", w.End.Format(time.RFC3339), w.Start.Format(time.RFC3339))
	}
	return nil
}

type TrackFilterConfig struct {
	// Days is the maximum time from a track's first sample that a
	// polygon entry may happen at.
	Days time.Duration

	// Months is an inclusive [lo, hi] month range, 1-12.
	Months [2]int

	Mode        Mode
	Containment Containment
}

func (c *TrackFilterConfig) Validate() error {
	if c.Days <= 0 {
		return fmt.Errorf("days must be positive, got %s", c.Days)
	}
	lo, hi := c.Months[0], c.Months[1]
	if lo < 1 || lo > 12 || hi < 1 || hi > 12 {
		return fmt.Errorf("months must be in 1..12, got [%d, %d]", lo, hi)
	}
	if lo > hi {
		return fmt.Errorf("month range [%d, %d] is reversed", lo, hi)
	}
	if !c.Mode.Valid() {
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	switch c.Containment {
	case ContainmentCrossing, ContainmentPlanar:
	default:
		return fmt.Errorf("unknown containment %q", c.Containment)
	}
	return nil
}

func DefaultTrackFilterConfig() *TrackFilterConfig {
	return &TrackFilterConfig{
		Days:        Days(6 * 7),
		Months:      [2]int{8, 9},
		Mode:        ModeSource,
		Containment: ContainmentCrossing,
	}
}

// Days converts a (possibly fractional) day count to a Duration.
func Days(d float64) time.Duration {
	return time.Duration(d * float64(24*time.Hour))
}

type TracksConfig struct {
	Window TimeWindow
	GBox   GBox
	Filter *TrackFilterConfig

	// Output is the HTML map file. In ModeBoth it is used as a base name,
	// and _source, _sink are appended before the extension.
	Output string

	// GeoJSONOutput, if set, receives a FeatureCollection of the rendered tracks.
	// A .gz suffix gzips it.
	GeoJSONOutput string

	MapZoom   int
	EdgeWidth float64

	Erddap *ErddapConfig
}

func (c *TracksConfig) Validate() error {
	if err := c.Window.Validate(); err != nil {
		return err
	}
	if err := c.GBox.Validate(); err != nil {
		return err
	}
	if c.Filter == nil {
		return fmt.Errorf("missing filter config")
	}
	if err := c.Filter.Validate(); err != nil {
		return err
	}
	if c.Output == "" {
		return fmt.Errorf("missing output path")
	}
	if c.Erddap == nil {
		return fmt.Errorf("missing erddap config")
	}
	return c.Erddap.Validate()
}

// DefaultTracksConfig reproduces the group's reference run:
// Nantucket Shoals as a source region, Aug-Sep, six weeks, 1980 through mid-October 2018.
func DefaultTracksConfig() *TracksConfig {
	return &TracksConfig{
		Window: TimeWindow{
			Start: time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2018, 10, 15, 0, 0, 0, 0, time.UTC),
		},
		GBox:      RegionPresets[DefaultRegion],
		Filter:    DefaultTrackFilterConfig(),
		Output:    "drifter_tracks.html",
		MapZoom:   9,
		EdgeWidth: 2.5,
		Erddap:    DefaultErddapConfig(),
	}
}
