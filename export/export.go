// Package export writes rendered drifter tracks as GeoJSON.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/paulmach/orb/geojson"
	"github.com/rotblauer/drifters/gzfile"
	"github.com/rotblauer/drifters/types/drifttrack"
)

// Tagged is a track with the display properties it was rendered with.
type Tagged struct {
	Track *drifttrack.Track
	Color string
	Mode  string
}

// FeatureCollection builds one LineString feature per track.
// Tracks with fewer than two samples are left out.
func FeatureCollection(tracks []Tagged) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, t := range tracks {
		if t.Track.Len() < 2 {
			continue
		}
		f := t.Track.Feature()
		if t.Color != "" {
			f.Properties["stroke"] = t.Color
		}
		if t.Mode != "" {
			f.Properties["mode"] = t.Mode
		}
		fc.Append(f)
	}
	return fc
}

func Write(w io.Writer, tracks []Tagged) error {
	return json.NewEncoder(w).Encode(FeatureCollection(tracks))
}

// WriteFile writes the tracks to path, gzipped when path ends in .gz.
func WriteFile(path string, tracks []Tagged) error {
	w, err := gzfile.Create(path)
	if err != nil {
		return err
	}
	if err := Write(w, tracks); err != nil {
		w.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return err
	}
	if fi, err := os.Stat(path); err == nil {
		slog.Info("Wrote GeoJSON", "path", path, "tracks", len(tracks), "size", humanize.Bytes(uint64(fi.Size())))
	}
	return nil
}

// ReadFile reads a FeatureCollection written by WriteFile.
func ReadFile(path string) (*geojson.FeatureCollection, error) {
	r, err := gzfile.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return geojson.UnmarshalFeatureCollection(b)
}
