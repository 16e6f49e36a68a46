package testdata

import (
	"os"
	"path/filepath"
	"runtime"
)

// basepath is the root directory of this package.
var basepath string

func init() {
	_, currentFile, _, _ := runtime.Caller(0)
	basepath = filepath.Dir(currentFile)
}

// Path returns the absolute path the given relative file or directory path,
// relative to this testdata/ directory in the user's GOPATH.
// If rel is already absolute, it is returned unmodified.
// Taken from https://github.com/grpc/grpc-go/blob/master/testdata/testdata.go.
func Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}

	return filepath.Join(basepath, rel)
}

// ERDDAP response bodies.
//
//	Source_ERDDAPRange: two drifters in the Nantucket Shoals box, one row repeated.
//	Source_ERDDAPID: drifter 118410701, ten hourly fixes entering the box at
//	index 3, plus one fix east of 20W.
var (
	Source_ERDDAPRange  = "erddap_range.csv"
	Source_ERDDAPID     = "erddap_id.csv"
	Source_ERDDAPIDJSON = "erddap_id.json"
)

// MustRead returns the contents of a testdata file, panicking on error.
func MustRead(rel string) []byte {
	b, err := os.ReadFile(Path(rel))
	if err != nil {
		panic(err)
	}
	return b
}
