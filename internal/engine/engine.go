// Package engine implements the native record engine: frame scanning,
// record decoding, key access, nearest-gridpoint search and record indexes.
//
// The package is deliberately low level. Every fallible call returns a
// status.Status instead of an error, handles must be released explicitly,
// and a released handle fails all further calls with status.NullHandle.
// The exported layer above wraps these primitives with lifetime tracking
// and error translation; nothing outside that layer should call into the
// engine directly.
package engine

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/nwpio/gribcodes/format"
	"github.com/nwpio/gribcodes/status"
)

// Handle is a decoded record held by the engine. A Handle stays valid until
// Release; afterwards every method fails with status.NullHandle.
type Handle struct {
	rec *record
}

func (h *Handle) valid() bool {
	return h != nil && h.rec != nil
}

// Release frees the handle. Releasing an already released handle is a no-op.
func (h *Handle) Release() status.Status {
	if h == nil {
		return status.NullHandle
	}
	h.rec = nil

	return status.Success
}

// Clone produces an independent deep copy of the handle.
func (h *Handle) Clone() (*Handle, status.Status) {
	if !h.valid() {
		return nil, status.NullHandle
	}

	return &Handle{rec: h.rec.clone()}, status.Success
}

// Bytes serializes the handle's record into a caller-owned frame.
func (h *Handle) Bytes() ([]byte, status.Status) {
	if !h.valid() {
		return nil, status.NullHandle
	}

	return h.rec.encode()
}

// Packing reports the payload packing the record was framed with.
func (h *Handle) Packing() (format.PackingType, status.Status) {
	if !h.valid() {
		return 0, status.NullHandle
	}

	return h.rec.packing, status.Success
}

// Stream scans a byte sequence for record frames. Frames may be separated
// by arbitrary garbage; the scanner resynchronizes on the next magic.
type Stream struct {
	data   []byte
	pos    int
	closed bool
}

// Open opens a record file for scanning. The whole file is read up front;
// record files are bounded by the per-record length header.
func Open(path string) (*Stream, status.Status) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, status.FileNotFound
		}

		return nil, status.IOProblem
	}

	return &Stream{data: data}, status.Success
}

// OpenBytes opens an in-memory byte sequence for scanning. The stream does
// not copy buf; the caller must not mutate it while the stream is open.
func OpenBytes(buf []byte) (*Stream, status.Status) {
	return &Stream{data: buf}, status.Success
}

// Next decodes the next record frame. At end of stream it returns a nil
// handle with status.Success; callers distinguish exhaustion from failure
// by the status alone.
func (s *Stream) Next() (*Handle, status.Status) {
	if s == nil || s.closed {
		return nil, status.InvalidFile
	}

	i := bytes.Index(s.data[s.pos:], recordMagic)
	if i < 0 {
		s.pos = len(s.data)
		return nil, status.Success
	}
	start := s.pos + i

	if start+recordHeaderSize > len(s.data) {
		return nil, status.PrematureEndOfFile
	}
	length := int(wire.Uint64(s.data[start+4 : start+12]))
	if length < recordHeaderSize+recordMinTailSize {
		return nil, status.WrongLength
	}
	if start+length > len(s.data) {
		return nil, status.PrematureEndOfFile
	}

	rec, st := decodeRecord(s.data[start : start+length])
	if st.IsFailure() {
		return nil, st
	}
	s.pos = start + length

	return &Handle{rec: rec}, status.Success
}

// Close releases the stream. Further Next calls fail with InvalidFile.
func (s *Stream) Close() status.Status {
	if s == nil || s.closed {
		return status.InvalidFile
	}
	s.closed = true
	s.data = nil

	return status.Success
}

// CountRecords scans r and reports how many well-formed record frames it
// holds without retaining any of them.
func CountRecords(r io.Reader) (int, status.Status) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, status.IOProblem
	}

	s, st := OpenBytes(data)
	if st.IsFailure() {
		return 0, st
	}

	n := 0
	for {
		h, st := s.Next()
		if st.IsFailure() {
			return n, st
		}
		if h == nil {
			return n, status.Success
		}
		n++
		h.Release()
	}
}
