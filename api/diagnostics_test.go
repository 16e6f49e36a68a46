package api

import (
	"context"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotblauer/drifters/common"
	"github.com/rotblauer/drifters/params"
	"github.com/rotblauer/drifters/qc"
	"github.com/rotblauer/drifters/qc/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArchive(t *testing.T, n int) string {
	t.Helper()
	s := &qc.Series{}
	for i := 0; i < n; i++ {
		f := float64(i)
		s.Time = append(s.Time, 734624+f/24)
		s.Lon = append(s.Lon, -70+f*0.01)
		s.Lat = append(s.Lat, 41.5)
		s.UDrift = append(s.UDrift, 0.4)
		s.VDrift = append(s.VDrift, 0.1)
		s.UModel = append(s.UModel, 0.3)
		s.VModel = append(s.VModel, 0.1)
		s.Gap = append(s.Gap, 1.0/24)
		s.Flag = append(s.Flag, 1)
	}
	s.UModel[5] = math.NaN()
	path := filepath.Join(t.TempDir(), "ID_100390731.npz")
	require.NoError(t, dataset.Save(path, s))
	return path
}

func TestDiagnostics(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelWarn)()
	cfg := params.DefaultQCConfig()
	cfg.Dataset = writeArchive(t, 72)
	cfg.OutDir = filepath.Join(t.TempDir(), "out")

	rep, err := Diagnostics(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, rep.Files, 5)
	for _, f := range rep.Files {
		_, err := os.Stat(f)
		assert.NoError(t, err)
	}
	assert.Equal(t, 3, rep.Report.Daily.Len())
	assert.True(t, math.IsNaN(rep.Report.Daily.Magnitude[0]))
	assert.InDelta(t, 8.64, rep.Report.Daily.Magnitude[1], 1e-9)
	assert.Equal(t, 71, rep.Report.Mask.Count())
}

func TestDiagnostics_NoHTML(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelWarn)()
	cfg := params.DefaultQCConfig()
	cfg.Dataset = writeArchive(t, 30)
	cfg.OutDir = t.TempDir()
	cfg.HTML = false

	rep, err := Diagnostics(context.Background(), cfg)
	require.NoError(t, err)
	assert.Len(t, rep.Files, 4)
}

func TestDiagnostics_MissingDataset(t *testing.T) {
	cfg := params.DefaultQCConfig()
	_, err := Diagnostics(context.Background(), cfg)
	assert.Error(t, err)

	cfg.Dataset = filepath.Join(t.TempDir(), "ID_0.npz")
	_, err = Diagnostics(context.Background(), cfg)
	assert.Error(t, err)
}
