// Package gzfile opens output files, gzipping those named *.gz.
package gzfile

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

type WriterConfig struct {
	CompressionLevel int
	Flag             int
	FilePerm         os.FileMode
	DirPerm          os.FileMode
}

func DefaultWriterConfig() *WriterConfig {
	return &WriterConfig{
		CompressionLevel: gzip.DefaultCompression,
		Flag:             os.O_WRONLY | os.O_TRUNC | os.O_CREATE,
		FilePerm:         0644,
		DirPerm:          0755,
	}
}

// Writer gzips to a file. The file is flocked exclusively on first write;
// the lock goes away when the file is closed.
type Writer struct {
	f      *os.File
	gzw    *gzip.Writer
	locked bool
	closed bool
}

func NewWriter(path string, config *WriterConfig) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), config.DirPerm); err != nil {
		return nil, err
	}
	fi, err := os.OpenFile(path, config.Flag, config.FilePerm)
	if err != nil {
		return nil, err
	}
	gzw, err := gzip.NewWriterLevel(fi, config.CompressionLevel)
	if err != nil {
		fi.Close()
		return nil, err
	}
	return &Writer{f: fi, gzw: gzw}, nil
}

func (g *Writer) Write(p []byte) (int, error) {
	g.lock()
	return g.gzw.Write(p)
}

func (g *Writer) lock() {
	if g.locked || g.closed || g.f == nil {
		return
	}
	_ = syscall.Flock(int(g.f.Fd()), syscall.LOCK_EX)
	g.locked = true
}

func (g *Writer) Close() error {
	if g.closed {
		return nil
	}
	defer func() {
		g.closed = true
	}()
	if err := g.gzw.Close(); err != nil {
		g.f.Close()
		return err
	}
	return g.f.Close()
}

func (g *Writer) Path() string {
	return g.f.Name()
}

// Reader reads a gzipped file.
type Reader struct {
	f   *os.File
	gzr *gzip.Reader
}

func NewReader(path string) (*Reader, error) {
	fi, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	gzr, err := gzip.NewReader(fi)
	if err != nil {
		fi.Close()
		return nil, err
	}
	return &Reader{f: fi, gzr: gzr}, nil
}

func (g *Reader) Read(p []byte) (int, error) {
	return g.gzr.Read(p)
}

func (g *Reader) Close() error {
	if err := g.gzr.Close(); err != nil {
		g.f.Close()
		return err
	}
	return g.f.Close()
}

// IsGZ reports whether path names a gzip file.
func IsGZ(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}

type bufferedFile struct {
	*bufio.Writer
	f *os.File
}

func (b *bufferedFile) Close() error {
	if err := b.Flush(); err != nil {
		b.f.Close()
		return err
	}
	return b.f.Close()
}

// Create opens path for writing, truncating it, gzipped if IsGZ(path).
func Create(path string) (io.WriteCloser, error) {
	if IsGZ(path) {
		return NewWriter(path, DefaultWriterConfig())
	}
	cfg := DefaultWriterConfig()
	if err := os.MkdirAll(filepath.Dir(path), cfg.DirPerm); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, cfg.Flag, cfg.FilePerm)
	if err != nil {
		return nil, err
	}
	return &bufferedFile{Writer: bufio.NewWriter(f), f: f}, nil
}

// Open opens path for reading, gunzipping if IsGZ(path).
func Open(path string) (io.ReadCloser, error) {
	if IsGZ(path) {
		return NewReader(path)
	}
	return os.Open(path)
}
