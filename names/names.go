package names

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rotblauer/drifters/conceptual"
)

const UnknownName = "_unknown"

var invalidFileChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

// SanitizeID trims quotes and whitespace the data service sometimes
// leaves around identifiers.
func SanitizeID(raw string) conceptual.DrifterID {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"'`)
	return conceptual.DrifterID(s)
}

// FileSafe returns a name usable as a file name component.
func FileSafe(id conceptual.DrifterID) string {
	s := invalidFileChars.ReplaceAllString(id.String(), "_")
	s = strings.Trim(s, "_.")
	if s == "" {
		return UnknownName
	}
	return s
}

// IDFromDatasetPath derives a drifter ID from an archive file name,
// eg. driftfvcom_data3/ID_100390731.npz -> 100390731.
func IDFromDatasetPath(path string) conceptual.DrifterID {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimPrefix(base, "ID_")
	if base == "" || base == "." {
		return conceptual.DrifterID(UnknownName)
	}
	return conceptual.DrifterID(base)
}
