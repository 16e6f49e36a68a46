package qc

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rotblauer/drifters/conceptual"
)

var ErrLengthMismatch = errors.New("qc: array length mismatch")

// Series is one drifter's hourly record matched to a hindcast model,
// as columns aligned by index.
//
// Velocities are m/s. Gap is the length of the data gap preceding each
// sample, in days. Time is a proleptic Gregorian ordinal: day 1 is
// 0001-01-01 and the fraction is the time of day.
type Series struct {
	ID conceptual.DrifterID

	Time []float64 // tdh
	Lon  []float64 // londh
	Lat  []float64 // latdh

	UDrift []float64 // udh
	VDrift []float64 // vdh
	UModel []float64 // umoh
	VModel []float64 // vmoh

	Gap  []float64 // tgap
	Flag []float64 // flag

	// Tide-removed and tidal components. Optional.
	UDriftRmTide []float64 // udm
	VDriftRmTide []float64 // vdm
	UDriftTide   []float64 // udti
	VDriftTide   []float64 // vdti
	UModelRmTide []float64 // umom
	VModelRmTide []float64 // vmom
	UModelTide   []float64 // umoti
	VModelTide   []float64 // vmoti
}

func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Time)
}

// HasRmTide reports whether the tide-removed velocities are present.
func (s *Series) HasRmTide() bool {
	return s.UDriftRmTide != nil && s.VDriftRmTide != nil && s.UModelRmTide != nil && s.VModelRmTide != nil
}

func (s *Series) columns() map[string][]float64 {
	return map[string][]float64{
		"tdh": s.Time, "londh": s.Lon, "latdh": s.Lat,
		"udh": s.UDrift, "vdh": s.VDrift, "umoh": s.UModel, "vmoh": s.VModel,
		"tgap": s.Gap, "flag": s.Flag,
		"udm": s.UDriftRmTide, "vdm": s.VDriftRmTide, "udti": s.UDriftTide, "vdti": s.VDriftTide,
		"umom": s.UModelRmTide, "vmom": s.VModelRmTide, "umoti": s.UModelTide, "vmoti": s.VModelTide,
	}
}

var requiredColumns = []string{"tdh", "londh", "latdh", "udh", "vdh", "umoh", "vmoh", "tgap"}

// Validate checks required columns are present and every present column
// has the length of Time.
func (s *Series) Validate() error {
	n := s.Len()
	if n == 0 {
		return fmt.Errorf("qc: empty series %s", s.ID)
	}
	cols := s.columns()
	for _, name := range requiredColumns {
		if cols[name] == nil {
			return fmt.Errorf("qc: series %s: missing %s", s.ID, name)
		}
	}
	for name, col := range cols {
		if col != nil && len(col) != n {
			return fmt.Errorf("%w: %s has %d, tdh has %d", ErrLengthMismatch, name, len(col), n)
		}
	}
	return nil
}

// Sample is one row of the series.
type Sample struct {
	Time   time.Time
	Lon    float64
	Lat    float64
	U      float64
	V      float64
	UModel float64
	VModel float64
	Gap    time.Duration
}

func (s *Series) Sample(i int) Sample {
	return Sample{
		Time:   OrdinalTime(s.Time[i]),
		Lon:    s.Lon[i],
		Lat:    s.Lat[i],
		U:      s.UDrift[i],
		V:      s.VDrift[i],
		UModel: s.UModel[i],
		VModel: s.VModel[i],
		Gap:    time.Duration(s.Gap[i] * float64(24*time.Hour)),
	}
}

// Speed is the drifter speed in m/s.
func (s Sample) Speed() float64 {
	return math.Hypot(s.U, s.V)
}
