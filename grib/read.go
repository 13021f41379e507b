package grib

import (
	"bytes"
	"unicode/utf8"

	"github.com/nwpio/gribcodes/errs"
	"github.com/nwpio/gribcodes/format"
	"github.com/nwpio/gribcodes/internal/engine"
)

// Checked readers verify the key before touching its value: the discovered
// native type must match the requested one (ErrWrongRequestedKeyType), and
// the cardinality must fit the requested shape. Scalar reads of an array
// key fail with ErrWrongRequestedKeySize; any read of a key with fewer than
// one element fails with ErrIncorrectKeySize. Unchecked readers skip both
// verifications and accept whatever conversion the engine applies, which is
// faster but can silently mangle the value on a type mismatch.

// KeyType reports the native type discovered for the key.
func (m *message) KeyType(key string) (format.NativeType, error) {
	h, err := m.handle()
	if err != nil {
		return format.TypeUndefined, err
	}
	nt, st := h.NativeType(key)
	if st.IsFailure() {
		return format.TypeUndefined, errorFromStatus(st)
	}

	return nt, nil
}

// KeySize reports the number of elements stored under the key.
func (m *message) KeySize(key string) (int, error) {
	h, err := m.handle()
	if err != nil {
		return 0, err
	}
	n, st := h.Size(key)
	if st.IsFailure() {
		return 0, errorFromStatus(st)
	}

	return n, nil
}

// checkKey verifies native type and cardinality ahead of a checked read.
// wantScalar additionally rejects multi-element keys.
func (m *message) checkKey(key string, want format.NativeType, wantScalar bool) (*engine.Handle, error) {
	h, err := m.handle()
	if err != nil {
		return nil, err
	}

	nt, st := h.NativeType(key)
	if st.IsFailure() {
		return nil, errorFromStatus(st)
	}
	if nt != want {
		return nil, errs.ErrWrongRequestedKeyType
	}

	n, st := h.Size(key)
	if st.IsFailure() {
		return nil, errorFromStatus(st)
	}
	if n < 1 {
		return nil, errs.ErrIncorrectKeySize
	}
	if wantScalar && n > 1 {
		return nil, errs.ErrWrongRequestedKeySize
	}

	return h, nil
}

// ReadInt64 reads a scalar integer key, verifying type and cardinality.
func (m *message) ReadInt64(key string) (int64, error) {
	if _, err := m.checkKey(key, format.TypeLong, true); err != nil {
		return 0, err
	}

	return m.ReadInt64Unchecked(key)
}

// ReadInt64Unchecked reads a scalar integer without verification.
func (m *message) ReadInt64Unchecked(key string) (int64, error) {
	h, err := m.handle()
	if err != nil {
		return 0, err
	}
	v, st := h.GetLong(key)
	if st.IsFailure() {
		return 0, errorFromStatus(st)
	}

	return v, nil
}

// ReadFloat64 reads a scalar float key, verifying type and cardinality.
func (m *message) ReadFloat64(key string) (float64, error) {
	if _, err := m.checkKey(key, format.TypeDouble, true); err != nil {
		return 0, err
	}

	return m.ReadFloat64Unchecked(key)
}

// ReadFloat64Unchecked reads a scalar float without verification.
func (m *message) ReadFloat64Unchecked(key string) (float64, error) {
	h, err := m.handle()
	if err != nil {
		return 0, err
	}
	v, st := h.GetDouble(key)
	if st.IsFailure() {
		return 0, errorFromStatus(st)
	}

	return v, nil
}

// ReadString reads a string key, verifying type and cardinality.
func (m *message) ReadString(key string) (string, error) {
	if _, err := m.checkKey(key, format.TypeString, false); err != nil {
		return "", err
	}

	return m.ReadStringUnchecked(key)
}

// ReadStringUnchecked reads a key as a string without type verification.
// Numeric keys render in their decimal form.
func (m *message) ReadStringUnchecked(key string) (string, error) {
	h, err := m.handle()
	if err != nil {
		return "", err
	}
	raw, st := h.GetStringBytes(key)
	if st.IsFailure() {
		return "", errorFromStatus(st)
	}

	return stringFromKeyBytes(raw)
}

// stringFromKeyBytes converts raw key bytes to a string. A single trailing
// NUL is tolerated and stripped; interior NULs and invalid UTF-8 are not.
func stringFromKeyBytes(raw []byte) (string, error) {
	if n := len(raw); n > 0 && raw[n-1] == 0 {
		raw = raw[:n-1]
	}
	if bytes.IndexByte(raw, 0) >= 0 || !utf8.Valid(raw) {
		return "", errs.ErrInvalidString
	}

	return string(raw), nil
}

// ReadBytes reads a raw byte key, verifying type and cardinality.
func (m *message) ReadBytes(key string) ([]byte, error) {
	if _, err := m.checkKey(key, format.TypeBytes, false); err != nil {
		return nil, err
	}

	return m.ReadBytesUnchecked(key)
}

// ReadBytesUnchecked reads the raw byte representation of any key.
func (m *message) ReadBytesUnchecked(key string) ([]byte, error) {
	h, err := m.handle()
	if err != nil {
		return nil, err
	}
	raw, st := h.GetBytes(key)
	if st.IsFailure() {
		return nil, errorFromStatus(st)
	}

	return raw, nil
}

// ReadInt64Slice reads an integer array key, verifying type and
// cardinality.
func (m *message) ReadInt64Slice(key string) ([]int64, error) {
	if _, err := m.checkKey(key, format.TypeLong, false); err != nil {
		return nil, err
	}

	return m.ReadInt64SliceUnchecked(key)
}

// ReadInt64SliceUnchecked reads an integer array without verification.
func (m *message) ReadInt64SliceUnchecked(key string) ([]int64, error) {
	h, err := m.handle()
	if err != nil {
		return nil, err
	}
	v, st := h.GetLongArray(key)
	if st.IsFailure() {
		return nil, errorFromStatus(st)
	}

	return v, nil
}

// ReadFloat64Slice reads a float array key, verifying type and
// cardinality.
func (m *message) ReadFloat64Slice(key string) ([]float64, error) {
	if _, err := m.checkKey(key, format.TypeDouble, false); err != nil {
		return nil, err
	}

	return m.ReadFloat64SliceUnchecked(key)
}

// ReadFloat64SliceUnchecked reads a float array without verification.
func (m *message) ReadFloat64SliceUnchecked(key string) ([]float64, error) {
	h, err := m.handle()
	if err != nil {
		return nil, err
	}
	v, st := h.GetDoubleArray(key)
	if st.IsFailure() {
		return nil, errorFromStatus(st)
	}

	return v, nil
}
