// Package record reads and writes flat streams of sample pairs.
//
// A stream is a sequence of 8-byte records, each holding two big-endian
// signed 32-bit integers. There is no header, footer or length prefix.
package record

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
)

// Size is the size in bytes of one record.
const Size = 8

// ErrClosed is returned by Append on a closed Writer.
var ErrClosed = errors.New("record: writer closed")

// Writer appends records to a file. Each record reaches the file in the
// Append call that produced it, so a killed process loses at most the
// record being written and a write error names the record that failed.
type Writer struct {
	f   *os.File
	buf [Size]byte
	n   int64
}

// Create creates or truncates the named file and returns a Writer to it.
func Create(name string) (*Writer, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("record: could not create %q: %w", name, err)
	}
	return &Writer{f: f}, nil
}

// Append writes one record holding a then b.
func (w *Writer) Append(a, b int32) error {
	if w.f == nil {
		return ErrClosed
	}
	binary.BigEndian.PutUint32(w.buf[0:4], uint32(a))
	binary.BigEndian.PutUint32(w.buf[4:8], uint32(b))
	if _, err := w.f.Write(w.buf[:]); err != nil {
		return fmt.Errorf("record: could not append record #%d: %w", w.n, err)
	}
	w.n++
	return nil
}

// Len returns the number of records appended so far.
func (w *Writer) Len() int64 { return w.n }

// Sync commits the appended records to stable storage.
func (w *Writer) Sync() error {
	if w.f == nil {
		return ErrClosed
	}
	return w.f.Sync()
}

// Close syncs and closes the file. Closing a closed Writer is a no-op.
func (w *Writer) Close() error {
	if w.f == nil {
		return nil
	}
	err := multierr.Append(w.f.Sync(), w.f.Close())
	w.f = nil
	if err != nil {
		return fmt.Errorf("record: could not close: %w", err)
	}
	return nil
}

// Reader reads records from a file.
type Reader struct {
	f   *os.File
	r   *bufio.Reader
	buf [Size]byte
}

// Open opens the named file for reading.
func Open(name string) (*Reader, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("record: could not open %q: %w", name, err)
	}
	return &Reader{f: f, r: bufio.NewReader(f)}, nil
}

// Next returns the next record. It returns io.EOF at the end of the stream
// and io.ErrUnexpectedEOF if the stream ends inside a record.
func (r *Reader) Next() (a, b int32, err error) {
	if _, err := io.ReadFull(r.r, r.buf[:]); err != nil {
		return 0, 0, err
	}
	a = int32(binary.BigEndian.Uint32(r.buf[0:4]))
	b = int32(binary.BigEndian.Uint32(r.buf[4:8]))
	return a, b, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}
