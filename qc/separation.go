package qc

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/rotblauer/drifters/common"
)

// KmPerDay converts a velocity in m/s to km/day.
const KmPerDay = 24 * 60 * 60 / 1000.0

// Separation is the drifter minus model velocity, in km/day.
// The RmTide pair is nil when the series has no tide-removed velocities.
type Separation struct {
	X       []float64
	Y       []float64
	XRmTide []float64
	YRmTide []float64
}

func NewSeparation(s *Series) Separation {
	sep := Separation{
		X: diffKmPerDay(s.UDrift, s.UModel),
		Y: diffKmPerDay(s.VDrift, s.VModel),
	}
	if s.HasRmTide() {
		sep.XRmTide = diffKmPerDay(s.UDriftRmTide, s.UModelRmTide)
		sep.YRmTide = diffKmPerDay(s.VDriftRmTide, s.VModelRmTide)
	}
	return sep
}

func diffKmPerDay(drift, model []float64) []float64 {
	out := make([]float64, len(drift))
	for i := range drift {
		out[i] = (drift[i] - model[i]) * KmPerDay
	}
	return out
}

// Summary describes the finite values of a column.
type Summary struct {
	Count  int
	Mean   float64
	Median float64
	Min    float64
	Max    float64
}

// Summarize ignores NaN and Inf values. An all-NaN column gives a zero Summary.
func Summarize(xs []float64) Summary {
	data := make(stats.Float64Data, 0, len(xs))
	for _, x := range xs {
		if finite(x) {
			data = append(data, x)
		}
	}
	if len(data) == 0 {
		return Summary{}
	}
	statsMustFloat := func(fn func() (float64, error)) float64 {
		out, _ := fn()
		return common.DecimalToFixed(out, 3)
	}
	return Summary{
		Count:  len(data),
		Mean:   statsMustFloat(data.Mean),
		Median: statsMustFloat(data.Median),
		Min:    statsMustFloat(data.Min),
		Max:    statsMustFloat(data.Max),
	}
}

// SpeedOf returns the per-sample magnitude of (u, v).
func SpeedOf(u, v []float64) []float64 {
	out := make([]float64, len(u))
	for i := range u {
		out[i] = math.Hypot(u[i], v[i])
	}
	return out
}
