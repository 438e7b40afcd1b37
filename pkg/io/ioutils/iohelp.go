package ioutils

import (
	"bufio"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// OpenMaybeCompressed opens a file path or stdin ("-") and returns a reader.
// If the input appears to be gzip (by extension or magic), it wraps with gzip.
func OpenMaybeCompressed(path string) (io.ReadCloser, error) {
	if path == "-" || path == "" {
		br := bufio.NewReader(os.Stdin)
		if isGzip(br) {
			return gzip.NewReader(br)
		}
		return io.NopCloser(br), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(f)
	if filepath.Ext(path) == ".gz" || isGzip(br) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		return readCloser{Reader: zr, closeFn: func() error { _ = zr.Close(); return f.Close() }}, nil
	}
	return readCloser{Reader: br, closeFn: f.Close}, nil
}

func isGzip(br *bufio.Reader) bool {
	b, err := br.Peek(2)
	return err == nil && b[0] == 0x1f && b[1] == 0x8b
}

// CreateMaybeCompressed creates a file (or stdout if path is "-") and
// returns a writer. Missing parent directories are created. If the path
// ends in .gz, the writer is gzip compressed.
func CreateMaybeCompressed(path string) (io.WriteCloser, error) {
	if path == "-" || path == "" {
		return nopWriteCloser{Writer: bufio.NewWriter(os.Stdout)}, nil
	}
	if err := EnsureDir(path); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(path) == ".gz" {
		zw := gzip.NewWriter(f)
		return writeCloser{Writer: zw, closeFn: func() error {
			if err := zw.Close(); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		}}, nil
	}
	return writeCloser{Writer: bufio.NewWriter(f), closeFn: f.Close}, nil
}

// EnsureDir creates the parent directory of path.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Ext returns the extension of path without a trailing .gz, lowercased.
func Ext(path string) string {
	p := strings.ToLower(path)
	p = strings.TrimSuffix(p, ".gz")
	return filepath.Ext(p)
}

type readCloser struct {
	io.Reader
	closeFn func() error
}

func (r readCloser) Close() error {
	if r.closeFn != nil {
		return r.closeFn()
	}
	return errors.New("no closeFn")
}

type writeCloser struct {
	io.Writer
	closeFn func() error
}

func (w writeCloser) Close() error {
	if bw, ok := w.Writer.(*bufio.Writer); ok {
		if err := bw.Flush(); err != nil {
			_ = w.closeFn()
			return err
		}
	}
	if w.closeFn != nil {
		return w.closeFn()
	}
	return errors.New("no closeFn")
}

type nopWriteCloser struct{ io.Writer }

func (n nopWriteCloser) Close() error {
	if bw, ok := n.Writer.(*bufio.Writer); ok {
		return bw.Flush()
	}
	return nil
}
