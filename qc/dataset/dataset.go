// Package dataset reads per-drifter hindcast archives (ID_<id>.npz).
package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rotblauer/drifters/names"
	"github.com/rotblauer/drifters/qc"
	"github.com/sbinet/npyio/npz"
)

var ErrMissingArray = errors.New("dataset: missing array")

// Array names in the archive.
const (
	Time         = "tdh"
	Lon          = "londh"
	Lat          = "latdh"
	UDrift       = "udh"
	VDrift       = "vdh"
	UModel       = "umoh"
	VModel       = "vmoh"
	Gap          = "tgap"
	Flag         = "flag"
	UDriftRmTide = "udm"
	VDriftRmTide = "vdm"
	UDriftTide   = "udti"
	VDriftTide   = "vdti"
	UModelRmTide = "umom"
	VModelRmTide = "vmom"
	UModelTide   = "umoti"
	VModelTide   = "vmoti"
)

// Required arrays must be present; the rest are read when found.
var (
	Required = []string{Time, Lon, Lat, UDrift, VDrift, UModel, VModel, Gap}
	Optional = []string{Flag, UDriftRmTide, VDriftRmTide, UDriftTide, VDriftTide, UModelRmTide, VModelRmTide, UModelTide, VModelTide}
)

func targets(s *qc.Series) map[string]*[]float64 {
	return map[string]*[]float64{
		Time: &s.Time, Lon: &s.Lon, Lat: &s.Lat,
		UDrift: &s.UDrift, VDrift: &s.VDrift, UModel: &s.UModel, VModel: &s.VModel,
		Gap: &s.Gap, Flag: &s.Flag,
		UDriftRmTide: &s.UDriftRmTide, VDriftRmTide: &s.VDriftRmTide,
		UDriftTide: &s.UDriftTide, VDriftTide: &s.VDriftTide,
		UModelRmTide: &s.UModelRmTide, VModelRmTide: &s.VModelRmTide,
		UModelTide: &s.UModelTide, VModelTide: &s.VModelTide,
	}
}

// Load reads the archive at path into a validated series.
// The drifter ID is taken from the file name.
func Load(path string) (*qc.Series, error) {
	r, err := npz.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer r.Close()

	keys := map[string]string{}
	for _, k := range r.Keys() {
		keys[strings.TrimSuffix(k, ".npy")] = k
	}

	s := &qc.Series{ID: names.IDFromDatasetPath(path)}
	dst := targets(s)
	for _, name := range Required {
		if _, ok := keys[name]; !ok {
			return nil, fmt.Errorf("%w: %s in %s", ErrMissingArray, name, path)
		}
	}
	for _, name := range append(append([]string{}, Required...), Optional...) {
		key, ok := keys[name]
		if !ok {
			slog.Debug("Optional array not in archive", "array", name, "path", path)
			continue
		}
		var arr []float64
		if err := r.Read(key, &arr); err != nil {
			return nil, fmt.Errorf("read %s from %s: %w", name, path, err)
		}
		*dst[name] = arr
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Save writes a series as an archive with the array names Load reads.
// Nil columns are skipped.
func Save(path string, s *qc.Series) error {
	w, err := npz.Create(path)
	if err != nil {
		return err
	}
	src := targets(s)
	for _, name := range append(append([]string{}, Required...), Optional...) {
		col := *src[name]
		if col == nil {
			continue
		}
		if err := w.Write(name, col); err != nil {
			w.Close()
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return w.Close()
}
