package grib

import (
	"github.com/nwpio/gribcodes/errs"
	"github.com/nwpio/gribcodes/format"
)

// Value is a key value read with its discovered type. The concrete types
// are Int, Float, Str, Bytes, IntArray and FloatArray; switch on them to
// recover the payload.
type Value interface {
	isValue()
}

type (
	// Int holds a scalar integer key value.
	Int int64
	// Float holds a scalar float key value.
	Float float64
	// Str holds a string key value.
	Str string
	// Bytes holds a raw byte key value.
	Bytes []byte
	// IntArray holds an integer array key value.
	IntArray []int64
	// FloatArray holds a float array key value.
	FloatArray []float64
)

func (Int) isValue()        {}
func (Float) isValue()      {}
func (Str) isValue()        {}
func (Bytes) isValue()      {}
func (IntArray) isValue()   {}
func (FloatArray) isValue() {}

// ReadKeyDynamic reads a key according to its discovered native type and
// cardinality. Keys whose type reads as missing fail with ErrMissingKey,
// and a cardinality below one fails with ErrIncorrectKeySize. When the
// typed read fails for any other reason the value is re-read as raw bytes,
// so a surprising key still comes back usable rather than failing the
// whole message.
func (m *message) ReadKeyDynamic(key string) (Value, error) {
	h, err := m.handle()
	if err != nil {
		return nil, err
	}

	nt, st := h.NativeType(key)
	if st.IsFailure() {
		return nil, errorFromStatus(st)
	}
	if nt == format.TypeMissing {
		return nil, errs.ErrMissingKey
	}

	n, st := h.Size(key)
	if st.IsFailure() {
		return nil, errorFromStatus(st)
	}
	if n < 1 {
		return nil, errs.ErrIncorrectKeySize
	}

	v, err := m.readTyped(key, nt, n)
	if err == nil {
		return v, nil
	}

	raw, rawErr := m.ReadBytesUnchecked(key)
	if rawErr != nil {
		return nil, rawErr
	}

	return Bytes(raw), nil
}

func (m *message) readTyped(key string, nt format.NativeType, n int) (Value, error) {
	switch nt {
	case format.TypeLong:
		if n > 1 {
			v, err := m.ReadInt64SliceUnchecked(key)
			if err != nil {
				return nil, err
			}
			return IntArray(v), nil
		}
		v, err := m.ReadInt64Unchecked(key)
		if err != nil {
			return nil, err
		}
		return Int(v), nil
	case format.TypeDouble:
		if n > 1 {
			v, err := m.ReadFloat64SliceUnchecked(key)
			if err != nil {
				return nil, err
			}
			return FloatArray(v), nil
		}
		v, err := m.ReadFloat64Unchecked(key)
		if err != nil {
			return nil, err
		}
		return Float(v), nil
	case format.TypeString:
		v, err := m.ReadStringUnchecked(key)
		if err != nil {
			return nil, err
		}
		return Str(v), nil
	default:
		v, err := m.ReadBytesUnchecked(key)
		if err != nil {
			return nil, err
		}
		return Bytes(v), nil
	}
}
