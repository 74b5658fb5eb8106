// Package reader yields the lines of a JSONL input, decompressing it first
// when needed.
package reader

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	stderrors "errors"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/mcncl/jsonsum/internal/errors"
	"github.com/pierrec/lz4/v4"
)

// Compression names an input encoding.
type Compression string

const (
	CompressionAuto Compression = "auto"
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// ParseCompression validates a compression name. The empty string means auto.
func ParseCompression(name string) (Compression, error) {
	switch c := Compression(strings.ToLower(strings.TrimSpace(name))); c {
	case "":
		return CompressionAuto, nil
	case CompressionAuto, CompressionNone, CompressionGzip, CompressionZstd, CompressionLZ4:
		return c, nil
	default:
		return "", errors.NewInputError(fmt.Sprintf("unknown compression %q", name), errors.ErrUnknownCompression)
	}
}

// Line is one line of input without its line terminator. Err is set when the
// line could not be read as text; the text is still returned for logging.
type Line struct {
	Number uint64
	Text   []byte
	Err    error
}

// LineReader reads lines from an input stream.
type LineReader struct {
	br      *bufio.Reader
	closers []func() error
	line    uint64
	done    bool
}

// Open opens path for reading. An empty path or "-" reads stdin.
func Open(path string, compression Compression) (*LineReader, error) {
	if path == "" || path == "-" {
		return NewLineReader(os.Stdin, compression)
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(fmt.Sprintf("file '%s' not found", path), errors.ErrFileNotFound)
		}
		return nil, errors.NewInputError(fmt.Sprintf("failed to open file '%s'", path), err)
	}

	r, err := NewLineReader(file, compression)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	r.closers = append(r.closers, file.Close)
	return r, nil
}

// NewLineReader wraps r, decompressing it as requested. With CompressionAuto
// the encoding is detected from the leading magic bytes.
func NewLineReader(r io.Reader, compression Compression) (*LineReader, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	if compression == "" || compression == CompressionAuto {
		compression = sniff(br)
	}

	lr := &LineReader{}
	switch compression {
	case CompressionNone:
		lr.br = br
	case CompressionGzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, errors.NewInputError("failed to open gzip stream", err)
		}
		lr.br = bufio.NewReaderSize(gz, 64*1024)
		lr.closers = append(lr.closers, gz.Close)
	case CompressionZstd:
		zr, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, errors.NewInputError("failed to open zstd stream", err)
		}
		lr.br = bufio.NewReaderSize(zr, 64*1024)
		lr.closers = append(lr.closers, func() error { zr.Close(); return nil })
	case CompressionLZ4:
		lr.br = bufio.NewReaderSize(lz4.NewReader(br), 64*1024)
	default:
		return nil, errors.NewInputError(fmt.Sprintf("unknown compression %q", compression), errors.ErrUnknownCompression)
	}
	return lr, nil
}

func sniff(br *bufio.Reader) Compression {
	head, _ := br.Peek(4)
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		return CompressionGzip
	case bytes.HasPrefix(head, zstdMagic):
		return CompressionZstd
	case bytes.HasPrefix(head, lz4Magic):
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// Next returns the next line. It returns io.EOF once the input is exhausted.
// Any other error means the stream itself failed and no more lines follow.
func (r *LineReader) Next() (Line, error) {
	if r.done {
		return Line{}, io.EOF
	}

	text, err := r.br.ReadBytes('\n')
	if err != nil {
		if !stderrors.Is(err, io.EOF) {
			r.done = true
			return Line{}, errors.NewInputError(
				fmt.Sprintf("failed to read line %d", r.line+1),
				fmt.Errorf("%w: %v", errors.ErrUnreadableLine, err),
			)
		}
		r.done = true
		if len(text) == 0 {
			return Line{}, io.EOF
		}
	}

	r.line++
	text = bytes.TrimSuffix(text, []byte("\n"))
	text = bytes.TrimSuffix(text, []byte("\r"))

	line := Line{Number: r.line, Text: text}
	if !utf8.Valid(text) {
		line.Err = errors.NewInputError("line is not valid UTF-8 text", errors.ErrUnreadableLine)
	}
	return line, nil
}

// Close releases the decompressor and the underlying file, if any.
func (r *LineReader) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return stderrors.Join(errs...)
}
