package params

import (
	"fmt"
	"time"
)

type ErddapFormat string

const (
	ErddapFormatCSV  ErddapFormat = "csv"
	ErddapFormatJSON ErddapFormat = "json"
)

type ErddapConfig struct {
	// BaseURL is the tabledap dataset URL without a file type extension.
	BaseURL string

	Format  ErddapFormat
	Timeout time.Duration

	// IDLonFilter drops per-drifter samples east of IDMaxLon.
	// The default keeps the Atlantic basin only.
	IDLonFilter bool
	IDMaxLon    float64

	UserAgent string
}

func (c *ErddapConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("erddap: missing base url")
	}
	switch c.Format {
	case ErddapFormatCSV, ErddapFormatJSON:
	default:
		return fmt.Errorf("erddap: unknown format %q", c.Format)
	}
	return nil
}

func DefaultErddapConfig() *ErddapConfig {
	return &ErddapConfig{
		BaseURL:     "http://comet.nefsc.noaa.gov/erddap/tabledap/drifters",
		Format:      ErddapFormatCSV,
		Timeout:     5 * time.Minute,
		IDLonFilter: true,
		IDMaxLon:    -20,
		UserAgent:   AppName,
	}
}
