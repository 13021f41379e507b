package engine

import (
	"github.com/nwpio/gribcodes/internal/pool"
	"github.com/nwpio/gribcodes/status"
)

// Key iteration flags. Combine with bitwise OR.
const (
	IterAllKeys             uint32 = 0
	IterSkipReadOnly        uint32 = 1 << 0
	IterSkipOptional        uint32 = 1 << 1
	IterSkipEditionSpecific uint32 = 1 << 2
	IterSkipCoded           uint32 = 1 << 3
	IterSkipComputed        uint32 = 1 << 4
	IterSkipDuplicates      uint32 = 1 << 5
	IterSkipFunction        uint32 = 1 << 6
	IterDumpOnly            uint32 = 1 << 7
)

// KeysIterator walks the key names of a record in directory order. The
// name list is snapshotted at creation, so later writes to the record do
// not disturb an iteration in progress.
type KeysIterator struct {
	names   []string
	pos     int
	cleanup func()
}

// NewKeysIterator creates an iterator over the handle's keys, filtered by
// flags and namespace. An unknown namespace yields an empty iterator, not
// a failure. An empty namespace matches every key.
func NewKeysIterator(h *Handle, flags uint32, namespace string) (*KeysIterator, status.Status) {
	if !h.valid() {
		return nil, status.NullHandle
	}

	keep := func(e *keyEntry) bool {
		if namespace != "" && e.namespace != namespace {
			return false
		}
		if flags&IterSkipReadOnly != 0 && e.flags&flagReadOnly != 0 {
			return false
		}
		if flags&IterSkipOptional != 0 && e.flags&flagOptional != 0 {
			return false
		}
		if flags&IterSkipEditionSpecific != 0 && e.flags&flagEditionSpecific != 0 {
			return false
		}
		if flags&IterSkipCoded != 0 && e.flags&flagCoded != 0 {
			return false
		}
		if flags&IterSkipComputed != 0 && e.flags&flagComputed != 0 {
			return false
		}
		if flags&IterSkipDuplicates != 0 && e.flags&flagDuplicate != 0 {
			return false
		}
		if flags&IterSkipFunction != 0 && e.flags&flagFunction != 0 {
			return false
		}
		if flags&IterDumpOnly != 0 && e.flags&(flagCoded|flagComputed) == 0 {
			return false
		}

		return true
	}

	n := 0
	for _, e := range h.rec.entries {
		if keep(e) {
			n++
		}
	}

	names, cleanup := pool.GetStringSlice(n)
	i := 0
	for _, e := range h.rec.entries {
		if keep(e) {
			names[i] = e.name
			i++
		}
	}

	return &KeysIterator{names: names, cleanup: cleanup}, status.Success
}

// Next returns the next key name. The second result is false once the
// iterator is exhausted or released.
func (it *KeysIterator) Next() (string, bool) {
	if it == nil || it.names == nil || it.pos >= len(it.names) {
		return "", false
	}
	name := it.names[it.pos]
	it.pos++

	return name, true
}

// Release frees the iterator's snapshot. Releasing twice is a no-op.
func (it *KeysIterator) Release() status.Status {
	if it == nil {
		return status.InvalidKeysIterator
	}
	if it.cleanup != nil {
		it.cleanup()
		it.cleanup = nil
	}
	it.names = nil

	return status.Success
}
