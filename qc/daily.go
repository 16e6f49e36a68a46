package qc

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// DailySeparation holds per-bin means of a separation pair.
// Start[k] is the index of the first sample of bin k.
type DailySeparation struct {
	X         []float64
	Y         []float64
	Magnitude []float64
	Start     []int
}

func (d DailySeparation) Len() int {
	return len(d.X)
}

// DailyMeans averages xs and ys over consecutive non-overlapping bins of
// m samples, dropping a trailing partial bin, and combines each pair of
// means into a Euclidean magnitude. NaNs propagate into their bin.
func DailyMeans(xs, ys []float64, m int) (DailySeparation, error) {
	if len(xs) != len(ys) {
		return DailySeparation{}, fmt.Errorf("%w: x has %d, y has %d", ErrLengthMismatch, len(xs), len(ys))
	}
	if m < 1 {
		return DailySeparation{}, fmt.Errorf("qc: bin size must be at least 1, got %d", m)
	}
	bins := len(xs) / m
	d := DailySeparation{
		X:         make([]float64, bins),
		Y:         make([]float64, bins),
		Magnitude: make([]float64, bins),
		Start:     make([]int, bins),
	}
	for k := 0; k < bins; k++ {
		lo, hi := k*m, (k+1)*m
		mx, err := stats.Mean(stats.Float64Data(xs[lo:hi]))
		if err != nil {
			return DailySeparation{}, err
		}
		my, err := stats.Mean(stats.Float64Data(ys[lo:hi]))
		if err != nil {
			return DailySeparation{}, err
		}
		d.X[k] = mx
		d.Y[k] = my
		d.Magnitude[k] = math.Sqrt(mx*mx + my*my)
		d.Start[k] = lo
	}
	return d, nil
}
