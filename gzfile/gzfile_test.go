package gzfile

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestCreateOpen(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"tracks.geojson", "tracks.geojson.gz", "nested/dir/tracks.GZ"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			w, err := Create(path)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := io.WriteString(w, "hello drifters\n"); err != nil {
				t.Fatal(err)
			}
			if err := w.Close(); err != nil {
				t.Fatal(err)
			}

			r, err := Open(path)
			if err != nil {
				t.Fatal(err)
			}
			defer r.Close()
			b, err := io.ReadAll(r)
			if err != nil {
				t.Fatal(err)
			}
			if string(b) != "hello drifters\n" {
				t.Errorf("got %q", b)
			}
		})
	}
}

func TestWriterTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.gz")
	for _, s := range []string{"first run, longer", "second"} {
		w, err := NewWriter(path, DefaultWriterConfig())
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(s)); err != nil {
			t.Fatal(err)
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}
		// Double close is a no-op.
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	gzr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := io.ReadAll(gzr)
	if string(b) != "second" {
		t.Errorf("got %q, want %q", b, "second")
	}
}

func TestNewReader_NotGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.gz")
	if err := os.WriteFile(path, []byte("not gzip"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewReader(path); err == nil {
		t.Error("expected error")
	}
}
