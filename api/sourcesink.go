package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rotblauer/drifters/conceptual"
	"github.com/rotblauer/drifters/export"
	"github.com/rotblauer/drifters/geo/poly"
	"github.com/rotblauer/drifters/geo/sourcesink"
	"github.com/rotblauer/drifters/palette"
	"github.com/rotblauer/drifters/params"
	"github.com/rotblauer/drifters/render/gmap"
	"github.com/rotblauer/drifters/types/drifttrack"
)

var ErrNoDrifters = errors.New("no drifters found in region and time window")

// TrackSource lists drifters and fetches their tracks.
// *erddap.Client satisfies it.
type TrackSource interface {
	DrifterIDs(ctx context.Context, window params.TimeWindow, box params.GBox) ([]conceptual.DrifterID, error)
	Track(ctx context.Context, id conceptual.DrifterID, window params.TimeWindow) (*drifttrack.Track, error)
}

// RenderedMap is one HTML map written by SourceSink.
type RenderedMap struct {
	Mode   params.Mode
	Path   string
	Tracks []export.Tagged

	// Skipped counts drifters that never entered the region.
	Skipped int
}

type SourceSinkResult struct {
	IDs     []conceptual.DrifterID
	Colors  []string
	Maps    []RenderedMap
	GeoJSON string
}

// OutputPath is the map file for mode. When rendering both modes,
// _source or _sink is inserted before the extension of base.
func OutputPath(base string, mode, configured params.Mode) string {
	if configured != params.ModeBoth {
		return base
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_" + string(mode) + ext
}

// SourceSink fetches every drifter seen in the box during the window,
// cuts each track at its first qualifying entry into region, and renders
// one map per configured mode. A nil region is built from cfg.GBox.
//
// Drifter ids are sorted, so colors are stable between runs.
func SourceSink(ctx context.Context, cfg *params.TracksConfig, region *poly.Polygon, source TrackSource) (*SourceSinkResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if region == nil {
		var err error
		region, err = poly.FromGBox(cfg.GBox, cfg.Filter.Containment)
		if err != nil {
			return nil, err
		}
	}
	modes, err := sourcesink.Modes(cfg.Filter.Mode)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	ids, err := source.DrifterIDs(ctx, cfg.Window, cfg.GBox)
	if err != nil {
		return nil, fmt.Errorf("list drifters: %w", err)
	}
	if len(ids) == 0 {
		return nil, ErrNoDrifters
	}
	colors, err := palette.HexColors(len(ids))
	if err != nil {
		return nil, err
	}
	res := &SourceSinkResult{IDs: ids, Colors: colors[:len(ids)]}
	for _, m := range modes {
		res.Maps = append(res.Maps, RenderedMap{Mode: m, Path: OutputPath(cfg.Output, m, cfg.Filter.Mode)})
	}

	for k, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		track, err := source.Track(ctx, id, cfg.Window)
		if err != nil {
			return nil, err
		}
		for i := range res.Maps {
			rm := &res.Maps[i]
			cut, ok, err := sourcesink.Filter(track, region, cfg.Filter, rm.Mode)
			if err != nil {
				return nil, err
			}
			if !ok {
				rm.Skipped++
				slog.Debug("Drifter never entered region", "id", id, "mode", rm.Mode, "samples", track.Len())
				continue
			}
			rm.Tracks = append(rm.Tracks, export.Tagged{Track: cut, Color: colors[k], Mode: string(rm.Mode)})
		}
	}

	for _, rm := range res.Maps {
		if err := writeMap(cfg, region, rm); err != nil {
			return nil, err
		}
	}

	if cfg.GeoJSONOutput != "" {
		var all []export.Tagged
		for _, rm := range res.Maps {
			all = append(all, rm.Tracks...)
		}
		if err := export.WriteFile(cfg.GeoJSONOutput, all); err != nil {
			return nil, err
		}
		res.GeoJSON = cfg.GeoJSONOutput
	}

	slog.Info("Source/sink maps complete", "drifters", len(ids), "elapsed", time.Since(started).Round(time.Millisecond))
	return res, nil
}

func writeMap(cfg *params.TracksConfig, region *poly.Polygon, rm RenderedMap) error {
	m := &gmap.Map{
		Title: fmt.Sprintf("Drifter tracks, %s, %s to %s", rm.Mode,
			cfg.Window.Start.UTC().Format(time.DateOnly), cfg.Window.End.UTC().Format(time.DateOnly)),
		Center:  region.Center(),
		Zoom:    cfg.MapZoom,
		Outline: &gmap.Polyline{Label: "region", Path: region.Ring()},
	}
	for _, t := range rm.Tracks {
		m.Lines = append(m.Lines, gmap.Polyline{
			Label: t.Track.ID.String(),
			Path:  t.Track.LineString(),
			Color: t.Color,
			Width: cfg.EdgeWidth,
		})
	}
	if err := gmap.WriteFile(rm.Path, m); err != nil {
		return err
	}
	attrs := []any{"mode", rm.Mode, "path", rm.Path, "tracks", len(rm.Tracks), "skipped", rm.Skipped}
	if fi, err := os.Stat(rm.Path); err == nil {
		attrs = append(attrs, "size", humanize.Bytes(uint64(fi.Size())))
	}
	slog.Info("Wrote map", attrs...)
	return nil
}
