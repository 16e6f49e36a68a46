package sourcesink

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/rotblauer/drifters/params"
	"github.com/rotblauer/drifters/types/drifttrack"
)

// ErrUnknownMode is returned for a mode other than source, sink or both.
var ErrUnknownMode = errors.New("unknown source/sink mode")

// Container is a region that can test point membership.
// *poly.Polygon satisfies it.
type Container interface {
	Contains(pt orb.Point) bool
}

// Gate reports whether sample z of the track is eligible for an entry test:
// it is less than cfg.Days after the first sample, and its UTC month
// is within cfg.Months (inclusive).
func Gate(track *drifttrack.Track, z int, cfg *params.TrackFilterConfig) bool {
	t := track.Samples[z].Time
	if t.Sub(track.Samples[0].Time) >= cfg.Days {
		return false
	}
	m := int(t.UTC().Month())
	return m >= cfg.Months[0] && m <= cfg.Months[1]
}

// EntryIndex returns the first index z (0 <= z < len-1) that passes Gate
// and lies inside region, or -1.
// The last sample is never tested.
func EntryIndex(track *drifttrack.Track, region Container, cfg *params.TrackFilterConfig) int {
	for z := 0; z < track.Len()-1; z++ {
		if !Gate(track, z, cfg) {
			continue
		}
		if region.Contains(track.Samples[z].Point()) {
			return z
		}
	}
	return -1
}

// Filter cuts a track at its first qualifying entry into region.
// Source mode keeps samples [z, len); sink mode keeps [0, z).
// The input track is not modified. ok is false when the track never enters.
//
// A sink entry at z == 0 yields an empty, ok track.
func Filter(track *drifttrack.Track, region Container, cfg *params.TrackFilterConfig, mode params.Mode) (out *drifttrack.Track, ok bool, err error) {
	if mode != params.ModeSource && mode != params.ModeSink {
		return nil, false, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	z := EntryIndex(track, region, cfg)
	if z < 0 {
		return nil, false, nil
	}
	if mode == params.ModeSource {
		return track.Slice(z, track.Len()), true, nil
	}
	return track.Slice(0, z), true, nil
}

// Modes expands ModeBoth into its parts.
func Modes(m params.Mode) ([]params.Mode, error) {
	switch m {
	case params.ModeSource, params.ModeSink:
		return []params.Mode{m}, nil
	case params.ModeBoth:
		return []params.Mode{params.ModeSource, params.ModeSink}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, m)
}
