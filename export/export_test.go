package export

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/rotblauer/drifters/common"
	"github.com/rotblauer/drifters/types/drifttrack"
)

func TestWriteReadFile(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelWarn)()
	t0 := time.Date(2010, 8, 1, 0, 0, 0, 0, time.UTC)
	long := drifttrack.New("a", []drifttrack.Sample{
		{Time: t0, Lat: 41.25, Lon: -69.7},
		{Time: t0.Add(time.Hour), Lat: 41.26, Lon: -69.6},
	})
	short := drifttrack.New("b", []drifttrack.Sample{{Time: t0, Lat: 41, Lon: -69}})

	for _, name := range []string{"tracks.geojson", "tracks.geojson.gz"} {
		path := filepath.Join(t.TempDir(), name)
		err := WriteFile(path, []Tagged{{Track: long, Color: "#7f0000", Mode: "source"}, {Track: short}})
		if err != nil {
			t.Fatal(err)
		}
		fc, err := ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if len(fc.Features) != 1 {
			t.Fatalf("got %d features, want 1", len(fc.Features))
		}
		f := fc.Features[0]
		if got := f.Properties.MustString("id"); got != "a" {
			t.Errorf("id = %q", got)
		}
		if got := f.Properties.MustString("stroke"); got != "#7f0000" {
			t.Errorf("stroke = %q", got)
		}
		ls, ok := f.Geometry.(orb.LineString)
		if !ok || len(ls) != 2 {
			t.Fatalf("geometry = %v", f.Geometry)
		}
		if f.Properties.MustFloat64("length_m") <= 0 {
			t.Error("expected positive length")
		}
	}
}
