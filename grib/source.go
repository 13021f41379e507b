// Package grib exposes safe access to self-describing binary records: open
// a source, iterate messages, read keys by static or discovered type, and
// never touch a handle past its lifetime.
//
// The package wraps the low-level engine so that every failure surfaces as
// an error value and every handle is released exactly once. Three message
// variants cover the ownership patterns:
//
//   - Message: borrowed from a MessageIter, valid until the next advance
//   - SharedMessage: owns its handle, keeps the shared source alive
//   - ClonedMessage: fully independent deep copy, the only writable variant
package grib

import (
	"fmt"

	"github.com/nwpio/gribcodes/errs"
	"github.com/nwpio/gribcodes/internal/engine"
)

// ProductKind identifies the product family expected in a source.
type ProductKind uint8

const (
	// ProductGRIB marks gridded meteorological records.
	ProductGRIB ProductKind = iota
)

func (k ProductKind) String() string {
	if k == ProductGRIB {
		return "GRIB"
	}

	return "Unknown"
}

// Source is an open sequence of records, backed by a file or a memory
// buffer. A Source supports one iteration style at a time: Messages for
// exclusive borrowing, SharedMessages to hand the source to messages that
// outlive the loop.
type Source struct {
	stream *engine.Stream
	kind   ProductKind
	name   string
	closed bool
}

// OpenFile opens a record file.
func OpenFile(path string, kind ProductKind) (*Source, error) {
	s, st := engine.Open(path)
	if st.IsFailure() {
		return nil, fmt.Errorf("%w: %s: %s", errs.ErrStreamOpen, path, st)
	}

	return &Source{stream: s, kind: kind, name: path}, nil
}

// OpenBuffer opens an in-memory record sequence. The buffer must not be
// mutated while the source or any message derived from it is alive.
func OpenBuffer(buf []byte, kind ProductKind) (*Source, error) {
	s, st := engine.OpenBytes(buf)
	if st.IsFailure() {
		return nil, fmt.Errorf("%w: %s", errs.ErrStreamOpen, st)
	}

	return &Source{stream: s, kind: kind, name: "buffer"}, nil
}

// Kind reports the product family the source was opened for.
func (f *Source) Kind() ProductKind {
	return f.kind
}

// Close releases the underlying stream. Closing an already closed source
// is a no-op; any other use after Close fails with ErrSourceClosed.
func (f *Source) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if st := f.stream.Close(); st.IsFailure() {
		return errorFromStatus(st)
	}

	return nil
}
