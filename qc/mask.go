package qc

import (
	"math"

	"github.com/rotblauer/drifters/params"
)

// Mask holds the three per-sample inclusion tests.
// A sample is included when all three pass.
type Mask struct {
	InDomain []bool
	GapFree  []bool
	SpeedOK  []bool
}

// NewMask evaluates s against cfg.
//
// In-domain is taken from the finiteness of the model velocity (the model
// is NaN outside its grid), or from s.Flag with cfg.UseStoredFlag.
// A sample is gap-free unless its gap is longer than cfg.MaxGap, and
// plausible unless its speed is greater than cfg.MaxSpeed.
// NaN gaps and speeds do not exclude.
func NewMask(s *Series, cfg *params.QCConfig) Mask {
	n := s.Len()
	m := Mask{
		InDomain: make([]bool, n),
		GapFree:  make([]bool, n),
		SpeedOK:  make([]bool, n),
	}
	maxGapDays := cfg.MaxGap.Hours() / 24
	for i := 0; i < n; i++ {
		if cfg.UseStoredFlag && s.Flag != nil {
			m.InDomain[i] = finite(s.Flag[i]) && s.Flag[i] != 0
		} else {
			m.InDomain[i] = finite(s.UModel[i])
		}
		m.GapFree[i] = !(s.Gap[i] > maxGapDays)
		m.SpeedOK[i] = !(math.Hypot(s.UDrift[i], s.VDrift[i]) > cfg.MaxSpeed)
	}
	return m
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (m Mask) Len() int {
	return len(m.InDomain)
}

func (m Mask) Include(i int) bool {
	return m.InDomain[i] && m.GapFree[i] && m.SpeedOK[i]
}

// IncludeDomainGap ignores the speed test.
func (m Mask) IncludeDomainGap(i int) bool {
	return m.InDomain[i] && m.GapFree[i]
}

// Count is the number of included samples.
func (m Mask) Count() int {
	c := 0
	for i := 0; i < m.Len(); i++ {
		if m.Include(i) {
			c++
		}
	}
	return c
}

// Factors returns 1 for included samples and NaN otherwise.
func (m Mask) Factors() []float64 {
	return m.factors(m.Include)
}

func (m Mask) factors(include func(int) bool) []float64 {
	out := make([]float64, m.Len())
	for i := range out {
		if include(i) {
			out[i] = 1
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// Apply returns xs with excluded samples set to NaN.
func (m Mask) Apply(xs []float64) []float64 {
	return apply(xs, m.Include)
}

// ApplyDomainGap is Apply without the speed test.
func (m Mask) ApplyDomainGap(xs []float64) []float64 {
	return apply(xs, m.IncludeDomainGap)
}

func apply(xs []float64, include func(int) bool) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		if include(i) {
			out[i] = x
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}
