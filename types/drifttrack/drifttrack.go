package drifttrack

import (
	"fmt"
	"sort"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
	"github.com/rotblauer/drifters/conceptual"
)

// Sample is one GPS fix of a drifter.
type Sample struct {
	Time time.Time
	Lat  float64
	Lon  float64
}

// Point returns the sample as an orb (lon, lat) point.
func (s Sample) Point() orb.Point {
	return orb.Point{s.Lon, s.Lat}
}

func (s Sample) Validate() error {
	if s.Time.IsZero() {
		return fmt.Errorf("zero time")
	}
	if s.Lat < -90 || s.Lat > 90 {
		return fmt.Errorf("invalid coordinate: lat=%.6f", s.Lat)
	}
	if s.Lon < -180 || s.Lon > 180 {
		return fmt.Errorf("invalid coordinate: lon=%.6f", s.Lon)
	}
	return nil
}

// Track is the time-ordered samples of one drifter.
// Tracks are treated as read-only once fetched; Slice returns copies.
type Track struct {
	ID      conceptual.DrifterID
	Samples []Sample
}

func New(id conceptual.DrifterID, samples []Sample) *Track {
	return &Track{ID: id, Samples: samples}
}

func (t *Track) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Samples)
}

func (t *Track) IsEmpty() bool {
	return t.Len() == 0
}

// Slice returns a new track holding a copy of samples [i, j).
func (t *Track) Slice(i, j int) *Track {
	out := make([]Sample, j-i)
	copy(out, t.Samples[i:j])
	return &Track{ID: t.ID, Samples: out}
}

// Validate checks coordinates and chronological order.
func (t *Track) Validate() error {
	for i, s := range t.Samples {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("drifter %s sample %d: %w", t.ID, i, err)
		}
		if i > 0 && s.Time.Before(t.Samples[i-1].Time) {
			return fmt.Errorf("drifter %s sample %d: out of order (%s < %s)", t.ID, i,
				s.Time.Format(time.RFC3339), t.Samples[i-1].Time.Format(time.RFC3339))
		}
	}
	return nil
}

// SortByTime sorts samples chronologically, keeping the order of equal times.
func (t *Track) SortByTime() {
	sort.SliceStable(t.Samples, func(i, j int) bool {
		return t.Samples[i].Time.Before(t.Samples[j].Time)
	})
}

func (t *Track) Start() time.Time {
	if t.IsEmpty() {
		return time.Time{}
	}
	return t.Samples[0].Time
}

func (t *Track) End() time.Time {
	if t.IsEmpty() {
		return time.Time{}
	}
	return t.Samples[len(t.Samples)-1].Time
}

func (t *Track) Duration() time.Duration {
	return t.End().Sub(t.Start())
}

func (t *Track) LineString() orb.LineString {
	ls := make(orb.LineString, 0, t.Len())
	for _, s := range t.Samples {
		ls = append(ls, s.Point())
	}
	return ls
}

// Length is the geodesic path length in meters.
func (t *Track) Length() float64 {
	if t.Len() < 2 {
		return 0
	}
	return geo.Length(t.LineString())
}

func (t *Track) Lats() []float64 {
	out := make([]float64, t.Len())
	for i, s := range t.Samples {
		out[i] = s.Lat
	}
	return out
}

func (t *Track) Lons() []float64 {
	out := make([]float64, t.Len())
	for i, s := range t.Samples {
		out[i] = s.Lon
	}
	return out
}

// Feature returns the track as a GeoJSON LineString feature.
func (t *Track) Feature() *geojson.Feature {
	f := geojson.NewFeature(t.LineString())
	f.Properties["id"] = t.ID.String()
	f.Properties["samples"] = t.Len()
	if !t.IsEmpty() {
		f.Properties["time_start"] = t.Start().UTC().Format(time.RFC3339)
		f.Properties["time_end"] = t.End().UTC().Format(time.RFC3339)
	}
	f.Properties["length_m"] = t.Length()
	return f
}
