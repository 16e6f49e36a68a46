package api

import (
	"context"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/rotblauer/drifters/params"
	"github.com/rotblauer/drifters/qc"
	"github.com/rotblauer/drifters/qc/dataset"
	"github.com/rotblauer/drifters/render/qcplot"
)

type DiagnosticsReport struct {
	Report *qc.Report
	Files  []string
}

// Diagnostics loads one drifter archive, masks and bins it, and writes
// the diagnostic figures to cfg.OutDir.
func Diagnostics(ctx context.Context, cfg *params.QCConfig) (*DiagnosticsReport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	series, err := dataset.Load(cfg.Dataset)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report, err := qc.Analyze(series, cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("Quality mask",
		"id", series.ID,
		"samples", humanize.Comma(int64(series.Len())),
		"included", humanize.Comma(int64(report.Mask.Count())),
		"days", report.Daily.Len(),
		"max_speed", report.SpeedSummary.Max,
		"separation_mean_km", report.SeparationSummary.Mean,
	)

	files, err := qcplot.Render(cfg.OutDir, report)
	if err != nil {
		return nil, err
	}
	if cfg.HTML {
		path, err := qcplot.WriteHTML(cfg.OutDir, report)
		if err != nil {
			return nil, err
		}
		files = append(files, path)
	}
	for _, f := range files {
		slog.Info("Wrote figure", "path", f)
	}
	return &DiagnosticsReport{Report: report, Files: files}, nil
}
