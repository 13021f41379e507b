package engine

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/nwpio/gribcodes/format"
	"github.com/nwpio/gribcodes/internal/hash"
	"github.com/nwpio/gribcodes/internal/pool"
	"github.com/nwpio/gribcodes/packing"
	"github.com/nwpio/gribcodes/status"
)

// indexLock serializes every index primitive process-wide. The index
// machinery shares mutable scan state across handles, so concurrent index
// calls are not safe even on distinct Index values.
var indexLock sync.Mutex

var indexMagic = []byte{'G', 'R', 'X', 1}

type indexEntry struct {
	vals  []string
	frame []byte
}

// Index is a selection structure over records keyed by a fixed set of key
// values. Records are added from files, filtered with Select calls, and
// retrieved as fresh handles.
type Index struct {
	keys     []string
	entries  []indexEntry
	selects  map[string]string
	matches  []int
	pos      int
	stale    bool
	released bool
}

// NewIndex creates an empty index over the given keys.
func NewIndex(keys []string) (*Index, status.Status) {
	indexLock.Lock()
	defer indexLock.Unlock()

	if len(keys) == 0 {
		return nil, status.InvalidArgument
	}

	return &Index{
		keys:    append([]string(nil), keys...),
		selects: make(map[string]string),
		stale:   true,
	}, status.Success
}

// canonicalValue renders a key's value in the index's canonical string
// form. Select calls render their argument the same way, so matching is a
// plain string compare.
func canonicalValue(h *Handle, key string) string {
	nt, st := h.NativeType(key)
	if st.IsFailure() {
		return ""
	}

	switch nt {
	case format.TypeLong:
		v, st := h.GetLong(key)
		if st.IsFailure() {
			return ""
		}
		return strconv.FormatInt(v, 10)
	case format.TypeDouble:
		v, st := h.GetDouble(key)
		if st.IsFailure() {
			return ""
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	case format.TypeString:
		b, st := h.GetStringBytes(key)
		if st.IsFailure() {
			return ""
		}
		return strings.TrimRight(string(b), "\x00")
	default:
		return ""
	}
}

// AddFile scans a record file and indexes every record in it.
func (x *Index) AddFile(path string) status.Status {
	indexLock.Lock()
	defer indexLock.Unlock()

	if x == nil || x.released {
		return status.NullIndex
	}

	s, st := Open(path)
	if st.IsFailure() {
		return st
	}
	defer s.Close()

	for {
		h, st := s.Next()
		if st.IsFailure() {
			return st
		}
		if h == nil {
			break
		}

		vals := make([]string, len(x.keys))
		for i, k := range x.keys {
			vals[i] = canonicalValue(h, k)
		}
		frame, st := h.Bytes()
		h.Release()
		if st.IsFailure() {
			return st
		}
		x.entries = append(x.entries, indexEntry{vals: vals, frame: frame})
	}
	x.stale = true

	return status.Success
}

func (x *Index) selectValue(key, val string) status.Status {
	indexLock.Lock()
	defer indexLock.Unlock()

	if x == nil || x.released {
		return status.NullIndex
	}

	found := false
	for _, k := range x.keys {
		if k == key {
			found = true
			break
		}
	}
	if !found {
		return status.NotFound
	}

	x.selects[key] = val
	x.stale = true

	return status.Success
}

// SelectLong narrows the index to records whose key equals v.
func (x *Index) SelectLong(key string, v int64) status.Status {
	return x.selectValue(key, strconv.FormatInt(v, 10))
}

// SelectDouble narrows the index to records whose key equals v.
func (x *Index) SelectDouble(key string, v float64) status.Status {
	return x.selectValue(key, strconv.FormatFloat(v, 'g', -1, 64))
}

// SelectString narrows the index to records whose key equals v.
func (x *Index) SelectString(key, v string) status.Status {
	return x.selectValue(key, v)
}

// Next returns a fresh handle for the next matching record, or a nil
// handle with status.Success once the selection is exhausted. Changing any
// selection restarts the iteration.
func (x *Index) Next() (*Handle, status.Status) {
	indexLock.Lock()
	defer indexLock.Unlock()

	if x == nil || x.released {
		return nil, status.NullIndex
	}

	if x.stale {
		x.matches = x.matches[:0]
		for i, e := range x.entries {
			ok := true
			for ki, k := range x.keys {
				want, selected := x.selects[k]
				if selected && e.vals[ki] != want {
					ok = false
					break
				}
			}
			if ok {
				x.matches = append(x.matches, i)
			}
		}
		x.pos = 0
		x.stale = false
	}

	if x.pos >= len(x.matches) {
		return nil, status.Success
	}

	rec, st := decodeRecord(x.entries[x.matches[x.pos]].frame)
	if st.IsFailure() {
		return nil, st
	}
	x.pos++

	return &Handle{rec: rec}, status.Success
}

// Write persists the index, entries included, to a file. The body is
// S2-packed and checksummed.
func (x *Index) Write(path string) status.Status {
	indexLock.Lock()
	defer indexLock.Unlock()

	if x == nil || x.released {
		return status.NullIndex
	}

	body := pool.GetIndexBuffer()
	defer pool.PutIndexBuffer(body)

	body.B = wire.AppendUint16(body.B, uint16(len(x.keys)))
	for _, k := range x.keys {
		body.B = wire.AppendUint16(body.B, uint16(len(k)))
		body.MustWrite([]byte(k))
	}
	body.B = wire.AppendUint32(body.B, uint32(len(x.entries)))
	for _, e := range x.entries {
		for _, v := range e.vals {
			body.B = wire.AppendUint16(body.B, uint16(len(v)))
			body.MustWrite([]byte(v))
		}
		body.B = wire.AppendUint32(body.B, uint32(len(e.frame)))
		body.MustWrite(e.frame)
	}

	codec, err := packing.GetCodec(format.PackingS2)
	if err != nil {
		return status.EncodingError
	}
	packed, err := codec.Compress(body.Bytes())
	if err != nil {
		return status.EncodingError
	}

	out := make([]byte, 0, len(indexMagic)+4+len(packed)+8)
	out = append(out, indexMagic...)
	out = wire.AppendUint32(out, uint32(len(packed)))
	out = append(out, packed...)
	out = wire.AppendUint64(out, hash.Checksum(packed))

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return status.IOProblem
	}

	return status.Success
}

// ReadIndex loads an index previously persisted with Write.
func ReadIndex(path string) (*Index, status.Status) {
	indexLock.Lock()
	defer indexLock.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, status.FileNotFound
		}

		return nil, status.IOProblem
	}

	if len(data) < len(indexMagic)+4+8 || string(data[:4]) != string(indexMagic) {
		return nil, status.CorruptedIndex
	}
	packedLen := int(wire.Uint32(data[4:]))
	if 8+packedLen+8 != len(data) {
		return nil, status.CorruptedIndex
	}
	packed := data[8 : 8+packedLen]
	if wire.Uint64(data[8+packedLen:]) != hash.Checksum(packed) {
		return nil, status.CorruptedIndex
	}

	codec, err := packing.GetCodec(format.PackingS2)
	if err != nil {
		return nil, status.CorruptedIndex
	}
	body, err := codec.Decompress(packed)
	if err != nil {
		return nil, status.CorruptedIndex
	}

	pos := 0
	readU16 := func() (int, bool) {
		if pos+2 > len(body) {
			return 0, false
		}
		v := int(wire.Uint16(body[pos:]))
		pos += 2
		return v, true
	}
	readU32 := func() (int, bool) {
		if pos+4 > len(body) {
			return 0, false
		}
		v := int(wire.Uint32(body[pos:]))
		pos += 4
		return v, true
	}
	readBytes := func(n int) ([]byte, bool) {
		if n < 0 || pos+n > len(body) {
			return nil, false
		}
		b := body[pos : pos+n]
		pos += n
		return b, true
	}

	keyCount, ok := readU16()
	if !ok || keyCount == 0 {
		return nil, status.CorruptedIndex
	}
	keys := make([]string, keyCount)
	for i := range keys {
		n, ok := readU16()
		if !ok {
			return nil, status.CorruptedIndex
		}
		b, ok := readBytes(n)
		if !ok {
			return nil, status.CorruptedIndex
		}
		keys[i] = string(b)
	}

	entryCount, ok := readU32()
	if !ok {
		return nil, status.CorruptedIndex
	}
	entries := make([]indexEntry, 0, entryCount)
	for ec := 0; ec < entryCount; ec++ {
		vals := make([]string, keyCount)
		for i := range vals {
			n, ok := readU16()
			if !ok {
				return nil, status.CorruptedIndex
			}
			b, ok := readBytes(n)
			if !ok {
				return nil, status.CorruptedIndex
			}
			vals[i] = string(b)
		}
		n, ok := readU32()
		if !ok {
			return nil, status.CorruptedIndex
		}
		frame, ok := readBytes(n)
		if !ok {
			return nil, status.CorruptedIndex
		}
		entries = append(entries, indexEntry{vals: vals, frame: append([]byte(nil), frame...)})
	}

	return &Index{
		keys:    keys,
		entries: entries,
		selects: make(map[string]string),
		stale:   true,
	}, status.Success
}

// Release frees the index. Releasing twice is a no-op.
func (x *Index) Release() status.Status {
	indexLock.Lock()
	defer indexLock.Unlock()

	if x == nil {
		return status.NullIndex
	}
	x.released = true
	x.entries = nil
	x.matches = nil

	return status.Success
}
