package qc

import (
	"math"

	"github.com/rotblauer/drifters/params"
)

// Report is everything the diagnostic figures need for one drifter.
type Report struct {
	Series *Series
	Mask   Mask

	// Year is the year of the first sample; Yearday is relative to its Jan 1.
	Year    int
	Yearday []float64

	Separation Separation
	Daily      DailySeparation

	// DailyYearday is the yearday at the first sample of each daily bin.
	DailyYearday []float64

	// Aspect is the y/x axis ratio for a lon/lat plot at the mean
	// latitude of the included samples, 1/cos(lat).
	Aspect float64

	// Speed is the drifter speed in m/s.
	Speed []float64

	SeparationSummary Summary
	SpeedSummary      Summary
}

// Analyze masks, converts and bins a validated series.
func Analyze(s *Series, cfg *params.QCConfig) (*Report, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	r := &Report{
		Series:     s,
		Mask:       NewMask(s, cfg),
		Separation: NewSeparation(s),
	}
	r.Year, r.Yearday = Yeardays(s.Time)

	daily, err := DailyMeans(r.Separation.X, r.Separation.Y, cfg.BinSize)
	if err != nil {
		return nil, err
	}
	r.Daily = daily
	r.DailyYearday = make([]float64, daily.Len())
	for k, i := range daily.Start {
		r.DailyYearday[k] = r.Yearday[i]
	}

	r.Aspect = aspect(r.Mask.ApplyDomainGap(s.Lat))
	r.Speed = SpeedOf(s.UDrift, s.VDrift)
	r.SeparationSummary = Summarize(daily.Magnitude)
	r.SpeedSummary = Summarize(r.Mask.Apply(r.Speed))
	return r, nil
}

// aspect is 1/cos of the mean finite latitude, or 1 when there is none.
func aspect(lats []float64) float64 {
	var sum float64
	n := 0
	for _, l := range lats {
		if finite(l) {
			sum += l
			n++
		}
	}
	if n == 0 {
		return 1
	}
	return 1 / math.Cos(sum/float64(n)*math.Pi/180)
}
