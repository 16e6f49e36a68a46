package params

import (
	"fmt"
	"time"
)

type QCConfig struct {
	// Dataset is a per-drifter .npz archive of hindcast-matched arrays.
	Dataset string
	OutDir  string

	// MaxGap excludes samples following a data gap longer than this.
	MaxGap time.Duration

	// MaxSpeed excludes samples with drifter speed above this, in m/s.
	MaxSpeed float64

	// BinSize is the number of (hourly) samples per daily bin.
	BinSize int

	// UseStoredFlag takes the in-domain flag from the archive's flag array.
	// Otherwise a sample is in-domain when its model velocity is finite.
	UseStoredFlag bool

	// HTML also writes an interactive separation chart.
	HTML bool
}

func (c *QCConfig) Validate() error {
	if c.Dataset == "" {
		return fmt.Errorf("qc: missing dataset path")
	}
	if c.MaxGap <= 0 {
		return fmt.Errorf("qc: max gap must be positive")
	}
	if c.MaxSpeed <= 0 {
		return fmt.Errorf("qc: max speed must be positive")
	}
	if c.BinSize < 1 {
		return fmt.Errorf("qc: bin size must be at least 1")
	}
	return nil
}

func DefaultQCConfig() *QCConfig {
	return &QCConfig{
		OutDir:   ".",
		MaxGap:   12 * time.Hour,
		MaxSpeed: 2.7,
		BinSize:  24,
		HTML:     true,
	}
}
