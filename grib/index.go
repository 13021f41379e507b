package grib

import (
	"github.com/nwpio/gribcodes/internal/engine"
)

// Index selects records out of files by the values of a fixed key set,
// without decoding more than asked for. Indexes can be persisted and
// reloaded, entries included.
//
// Every Index operation takes a process-wide lock; the index machinery is
// the one part of the engine that is not safe to call concurrently, even
// on distinct indexes.
type Index struct {
	x      *engine.Index
	closed bool
}

// NewIndex creates an empty index over the given keys.
func NewIndex(keys ...string) (*Index, error) {
	x, st := engine.NewIndex(keys)
	if st.IsFailure() {
		return nil, errorFromStatus(st)
	}

	return &Index{x: x}, nil
}

// ReadIndexFile loads an index previously persisted with WriteFile.
func ReadIndexFile(path string) (*Index, error) {
	x, st := engine.ReadIndex(path)
	if st.IsFailure() {
		return nil, errorFromStatus(st)
	}

	return &Index{x: x}, nil
}

// AddFile indexes every record of a file.
func (i *Index) AddFile(path string) error {
	return errorFromStatus(i.x.AddFile(path))
}

// SelectInt64 narrows the selection to records whose key equals v.
// Changing any selection restarts message iteration.
func (i *Index) SelectInt64(key string, v int64) error {
	return errorFromStatus(i.x.SelectLong(key, v))
}

// SelectFloat64 narrows the selection to records whose key equals v.
func (i *Index) SelectFloat64(key string, v float64) error {
	return errorFromStatus(i.x.SelectDouble(key, v))
}

// SelectString narrows the selection to records whose key equals v.
func (i *Index) SelectString(key, v string) error {
	return errorFromStatus(i.x.SelectString(key, v))
}

// Next returns the next message matching the selection, or nil with a nil
// error once the selection is exhausted. Returned messages own their
// handles, accept writes, and stay valid after the index is closed.
func (i *Index) Next() (*ClonedMessage, error) {
	h, st := i.x.Next()
	if st.IsFailure() {
		return nil, errorFromStatus(st)
	}
	if h == nil {
		return nil, nil
	}

	return &ClonedMessage{message: message{h: h}}, nil
}

// WriteFile persists the index, entries included.
func (i *Index) WriteFile(path string) error {
	return errorFromStatus(i.x.Write(path))
}

// Close releases the index. Closing twice is a no-op; messages previously
// returned by Next are unaffected.
func (i *Index) Close() error {
	if i.closed {
		return nil
	}
	i.closed = true

	return errorFromStatus(i.x.Release())
}
