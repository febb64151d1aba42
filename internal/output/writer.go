// Package output renders stars as text tables and writes them, optionally
// compressed, to a file or standard output.
package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression is the codec applied to an output file.
type Compression int

const (
	None Compression = iota
	Zstd
	LZ4
)

// CompressionFor picks the codec from the file extension.
func CompressionFor(path string) Compression {
	switch {
	case strings.HasSuffix(path, ".zst"), strings.HasSuffix(path, ".zstd"):
		return Zstd
	case strings.HasSuffix(path, ".lz4"):
		return LZ4
	}
	return None
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// stack closes its layers innermost first.
type stack struct {
	io.Writer
	closers []io.Closer
}

func (s *stack) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// Wrap returns a writer that compresses into w with c. Closing it flushes
// the codec but does not close w.
func Wrap(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case Zstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		return enc, nil
	case LZ4:
		return lz4.NewWriter(w), nil
	}
	return nopCloser{w}, nil
}

// Create opens path for writing, compressed according to its extension.
// An empty path or "-" writes to stdout uncompressed, os.Stdout when
// stdout is nil.
func Create(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		if stdout == nil {
			stdout = os.Stdout
		}
		return nopCloser{stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	cw, err := Wrap(f, CompressionFor(path))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &stack{Writer: cw, closers: []io.Closer{cw, f}}, nil
}

// Open reads a file written by Create, decompressing by extension.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch CompressionFor(path) {
	case Zstd:
		dec, err := zstd.NewReader(bufio.NewReader(f))
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		return &readStack{Reader: dec, close: func() error {
			dec.Close()
			return f.Close()
		}}, nil
	case LZ4:
		return &readStack{Reader: lz4.NewReader(f), close: f.Close}, nil
	}
	return f, nil
}

type readStack struct {
	io.Reader
	close func() error
}

func (r *readStack) Close() error { return r.close() }
