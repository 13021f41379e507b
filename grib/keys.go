package grib

import (
	"github.com/nwpio/gribcodes/errs"
	"github.com/nwpio/gribcodes/internal/engine"
)

// KeyFlags filters the keys visited by a KeysIterator.
type KeyFlags uint32

const (
	// AllKeys visits every key of the message.
	AllKeys KeyFlags = KeyFlags(engine.IterAllKeys)
	// SkipReadOnly drops keys that reject writes.
	SkipReadOnly KeyFlags = KeyFlags(engine.IterSkipReadOnly)
	// SkipOptional drops optional keys.
	SkipOptional KeyFlags = KeyFlags(engine.IterSkipOptional)
	// SkipEditionSpecific drops keys tied to a single format edition.
	SkipEditionSpecific KeyFlags = KeyFlags(engine.IterSkipEditionSpecific)
	// SkipCoded drops keys stored directly in the record payload.
	SkipCoded KeyFlags = KeyFlags(engine.IterSkipCoded)
	// SkipComputed drops keys derived from other keys.
	SkipComputed KeyFlags = KeyFlags(engine.IterSkipComputed)
	// SkipDuplicates drops duplicated key names.
	SkipDuplicates KeyFlags = KeyFlags(engine.IterSkipDuplicates)
	// SkipFunction drops function keys.
	SkipFunction KeyFlags = KeyFlags(engine.IterSkipFunction)
	// DumpOnly visits only keys that appear in a dump.
	DumpOnly KeyFlags = KeyFlags(engine.IterDumpOnly)
)

// KeysIterator walks the key names of a message. The name set is fixed at
// creation; concurrent writes to a cloned message do not disturb it.
type KeysIterator struct {
	it     *engine.KeysIterator
	closed bool
}

// Keys creates an iterator over the message's key names, filtered by flags
// and namespace. An unknown namespace yields an empty iterator rather than
// an error; an empty namespace matches every key.
func (m *message) Keys(flags KeyFlags, namespace string) (*KeysIterator, error) {
	h, err := m.handle()
	if err != nil {
		return nil, err
	}

	it, st := engine.NewKeysIterator(h, uint32(flags), namespace)
	if st.IsFailure() {
		return nil, errs.ErrKeysIteratorFailed
	}

	return &KeysIterator{it: it}, nil
}

// Next returns the next key name. The boolean result is false once the
// iterator is exhausted. Using a closed iterator is an error.
func (it *KeysIterator) Next() (string, bool, error) {
	if it.closed {
		return "", false, errs.ErrKeysIteratorFailed
	}
	name, ok := it.it.Next()

	return name, ok, nil
}

// Close releases the iterator. Closing twice is a no-op.
func (it *KeysIterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	if st := it.it.Release(); st.IsFailure() {
		return errs.ErrKeysIteratorFailed
	}

	return nil
}
