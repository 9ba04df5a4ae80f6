// Package iox opens JSONL input and report output, gzip-transparent by
// extension, and reads whole inputs as UTF-8 text.
package iox

import (
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var ErrInvalidUTF8 = errors.New("stream did not contain valid UTF-8")

// OpenAuto opens path for reading; ".gz" files are decompressed on the fly.
func OpenAuto(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if isGzip(path) {
		gr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return gzipReadCloser{gr, closeAll{gr, f}}, nil
	}
	return f, nil
}

// CreateAuto creates path for writing; ".gz" files are compressed.
func CreateAuto(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if isGzip(path) {
		gw := gzip.NewWriter(f)
		return gzipWriteCloser{gw, closeAll{gw, f}}, nil
	}
	return f, nil
}

// ReadText reads the whole (possibly gzipped) file and requires it to be UTF-8.
func ReadText(path string) (string, error) {
	in, err := OpenAuto(path)
	if err != nil {
		return "", err
	}
	defer in.Close()

	b, err := io.ReadAll(in)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

func isGzip(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".gz")
}

// closeAll closes every closer in order and keeps the first error;
// gzip stream first, file last.
type closeAll []io.Closer

func (cs closeAll) Close() error {
	var first error
	for _, c := range cs {
		if err := c.Close(); first == nil && err != nil {
			first = err
		}
	}
	return first
}

type gzipReadCloser struct {
	io.Reader
	closeAll
}

type gzipWriteCloser struct {
	io.Writer
	closeAll
}
