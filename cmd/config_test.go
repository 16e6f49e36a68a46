package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rotblauer/drifters/params"
	"github.com/spf13/viper"
)

func TestTracksConfig_Defaults(t *testing.T) {
	cfg, region, err := tracksConfig(viper.New())
	if err != nil {
		t.Fatal(err)
	}
	if region != nil {
		t.Error("expected nil region without --region-file")
	}
	want := params.DefaultTracksConfig()
	if cfg.GBox != want.GBox || cfg.Filter.Months != want.Filter.Months || cfg.Filter.Days != want.Filter.Days {
		t.Errorf("got %+v, want defaults", cfg)
	}
	if cfg.Filter.Days != 42*24*time.Hour {
		t.Errorf("days = %s", cfg.Filter.Days)
	}
}

func TestTracksConfig_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("tracks.start", "2000-06-01")
	v.Set("tracks.end", "2001-01-01T12:00:00Z")
	v.Set("tracks.region", "stellwagen")
	v.Set("tracks.months", []int{6, 9})
	v.Set("tracks.days", 1.5)
	v.Set("tracks.mode", "sink")
	v.Set("tracks.format", "json")
	v.Set("tracks.id-lon-filter", false)

	cfg, _, err := tracksConfig(v)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Window.Start.Equal(time.Date(2000, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %s", cfg.Window.Start)
	}
	if !cfg.Window.End.Equal(time.Date(2001, 1, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %s", cfg.Window.End)
	}
	if cfg.GBox != params.RegionPresets["stellwagen"] {
		t.Errorf("gbox = %+v", cfg.GBox)
	}
	if cfg.Filter.Months != [2]int{6, 9} {
		t.Errorf("months = %v", cfg.Filter.Months)
	}
	if cfg.Filter.Days != 36*time.Hour {
		t.Errorf("days = %s", cfg.Filter.Days)
	}
	if cfg.Filter.Mode != params.ModeSink {
		t.Errorf("mode = %s", cfg.Filter.Mode)
	}
	if cfg.Erddap.Format != params.ErddapFormatJSON || cfg.Erddap.IDLonFilter {
		t.Errorf("erddap = %+v", cfg.Erddap)
	}
}

func TestTracksConfig_Box(t *testing.T) {
	v := viper.New()
	v.Set("tracks.maxlon", -69.0)
	v.Set("tracks.minlon", -73.0)
	v.Set("tracks.maxlat", 41.0)
	v.Set("tracks.minlat", 40.82)
	cfg, _, err := tracksConfig(v)
	if err != nil {
		t.Fatal(err)
	}
	want := params.GBox{MaxLon: -69, MinLon: -73, MaxLat: 41, MinLat: 40.82}
	if cfg.GBox != want {
		t.Errorf("got %+v, want %+v", cfg.GBox, want)
	}
}

func TestTracksConfig_PartialBox(t *testing.T) {
	v := viper.New()
	v.Set("tracks.region", "stellwagen")
	v.Set("tracks.maxlon", -69.0)
	v.Set("tracks.minlon", -70.0)
	v.Set("tracks.maxlat", 42.0)
	cfg, _, err := tracksConfig(v)
	if err != nil {
		t.Fatal(err)
	}
	want := params.GBox{MaxLon: -69, MinLon: -70, MaxLat: 42, MinLat: params.RegionPresets["stellwagen"].MinLat}
	if cfg.GBox != want {
		t.Errorf("got %+v, want %+v", cfg.GBox, want)
	}

	v = viper.New()
	v.Set("tracks.minlat", 41.2)
	cfg, _, err = tracksConfig(v)
	if err != nil {
		t.Fatal(err)
	}
	want = params.RegionPresets[params.DefaultRegion]
	want.MinLat = 41.2
	if cfg.GBox != want {
		t.Errorf("got %+v, want %+v", cfg.GBox, want)
	}
}

func TestTracksConfig_RegionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.geojson")
	body := `{"type":"Polygon","coordinates":[[[-70,41],[-69,41],[-69.5,42],[-70,41]]]}`
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	v := viper.New()
	v.Set("tracks.region-file", path)
	cfg, region, err := tracksConfig(v)
	if err != nil {
		t.Fatal(err)
	}
	if region == nil || len(region.Vertices) != 3 {
		t.Fatalf("region = %+v", region)
	}
	want := params.GBox{MaxLon: -69, MinLon: -70, MaxLat: 42, MinLat: 41}
	if cfg.GBox != want {
		t.Errorf("gbox = %+v, want %+v", cfg.GBox, want)
	}
}

func TestTracksConfig_Invalid(t *testing.T) {
	cases := map[string]any{
		"tracks.region": "atlantis",
		"tracks.months": []int{8},
		"tracks.mode":   "upstream",
		"tracks.start":  "last tuesday",
		"tracks.days":   -1.0,
		"tracks.maxlat": 10.0,
	}
	for key, val := range cases {
		v := viper.New()
		v.Set(key, val)
		if _, _, err := tracksConfig(v); err == nil {
			t.Errorf("%s=%v: expected error", key, val)
		}
	}
}

func TestQCConfig(t *testing.T) {
	v := viper.New()
	if _, err := qcConfig(v, nil); err == nil {
		t.Error("expected error without a dataset")
	}
	v.Set("qc.max-gap", "6h")
	v.Set("qc.html", false)
	cfg, err := qcConfig(v, []string{"ID_1.npz"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Dataset != "ID_1.npz" || cfg.MaxGap != 6*time.Hour || cfg.HTML {
		t.Errorf("got %+v", cfg)
	}
	if cfg.MaxSpeed != 2.7 || cfg.BinSize != 24 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestParseTime(t *testing.T) {
	for _, s := range []string{"2018-10-15", "2018-10-15T00:00:00Z", "2018-10-15T00:00:00"} {
		got, err := parseTime(s)
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(time.Date(2018, 10, 15, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("%s: got %s", s, got)
		}
	}
}

func TestPrintRegions(t *testing.T) {
	var buf bytes.Buffer
	printRegions(&buf)
	out := buf.String()
	if !strings.Contains(out, "nantucket-shoals (default)") || !strings.Contains(out, "stellwagen") {
		t.Errorf("got %q", out)
	}
}
