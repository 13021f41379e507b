package engine

import (
	"math"
	"strconv"
	"strings"

	"github.com/nwpio/gribcodes/format"
	"github.com/nwpio/gribcodes/status"
)

// Scalar getters on array keys return the first element. Numeric keys
// convert freely between long and double, and format themselves as strings;
// everything else fails with WrongConversion. These are the raw engine
// semantics; the layer above enforces stricter typed contracts.

// NativeType reports the discovered type of the key.
func (h *Handle) NativeType(name string) (format.NativeType, status.Status) {
	if !h.valid() {
		return format.TypeUndefined, status.NullHandle
	}
	e := h.rec.lookup(name)
	if e == nil {
		return format.TypeUndefined, status.NotFound
	}

	return e.ntype, status.Success
}

// Size reports the number of elements stored under the key.
func (h *Handle) Size(name string) (int, status.Status) {
	if !h.valid() {
		return 0, status.NullHandle
	}
	e := h.rec.lookup(name)
	if e == nil {
		return 0, status.NotFound
	}

	return e.count(), status.Success
}

// Length reports the byte length of the key's string form, including the
// terminating NUL.
func (h *Handle) Length(name string) (int, status.Status) {
	if !h.valid() {
		return 0, status.NullHandle
	}
	e := h.rec.lookup(name)
	if e == nil {
		return 0, status.NotFound
	}

	switch e.ntype {
	case format.TypeString:
		return len(e.str) + 1, status.Success
	case format.TypeLong:
		if len(e.longs) == 0 {
			return 0, status.NotFound
		}
		return len(strconv.FormatInt(e.longs[0], 10)) + 1, status.Success
	case format.TypeDouble:
		if len(e.doubles) == 0 {
			return 0, status.NotFound
		}
		return len(strconv.FormatFloat(e.doubles[0], 'g', -1, 64)) + 1, status.Success
	default:
		return 0, status.WrongConversion
	}
}

// KeyFlags reports the attribute flags of the key.
func (h *Handle) KeyFlags(name string) (uint8, status.Status) {
	if !h.valid() {
		return 0, status.NullHandle
	}
	e := h.rec.lookup(name)
	if e == nil {
		return 0, status.NotFound
	}

	return e.flags, status.Success
}

func (h *Handle) GetLong(name string) (int64, status.Status) {
	if !h.valid() {
		return 0, status.NullHandle
	}
	e := h.rec.lookup(name)
	if e == nil {
		return 0, status.NotFound
	}

	switch e.ntype {
	case format.TypeLong:
		if len(e.longs) == 0 {
			return 0, status.NotFound
		}
		return e.longs[0], status.Success
	case format.TypeDouble:
		if len(e.doubles) == 0 {
			return 0, status.NotFound
		}
		return int64(math.Round(e.doubles[0])), status.Success
	case format.TypeString:
		v, err := strconv.ParseInt(strings.TrimRight(string(e.str), "\x00"), 10, 64)
		if err != nil {
			return 0, status.WrongConversion
		}
		return v, status.Success
	default:
		return 0, status.WrongConversion
	}
}

func (h *Handle) GetDouble(name string) (float64, status.Status) {
	if !h.valid() {
		return 0, status.NullHandle
	}
	e := h.rec.lookup(name)
	if e == nil {
		return 0, status.NotFound
	}

	switch e.ntype {
	case format.TypeDouble:
		if len(e.doubles) == 0 {
			return 0, status.NotFound
		}
		return e.doubles[0], status.Success
	case format.TypeLong:
		if len(e.longs) == 0 {
			return 0, status.NotFound
		}
		return float64(e.longs[0]), status.Success
	case format.TypeString:
		v, err := strconv.ParseFloat(strings.TrimRight(string(e.str), "\x00"), 64)
		if err != nil {
			return 0, status.WrongConversion
		}
		return v, status.Success
	default:
		return 0, status.WrongConversion
	}
}

// GetStringBytes returns the raw string bytes as stored. The terminating
// NUL is not guaranteed; callers must tolerate its absence.
func (h *Handle) GetStringBytes(name string) ([]byte, status.Status) {
	if !h.valid() {
		return nil, status.NullHandle
	}
	e := h.rec.lookup(name)
	if e == nil {
		return nil, status.NotFound
	}

	switch e.ntype {
	case format.TypeString:
		return append([]byte(nil), e.str...), status.Success
	case format.TypeLong:
		if len(e.longs) != 1 {
			return nil, status.WrongConversion
		}
		return []byte(strconv.FormatInt(e.longs[0], 10)), status.Success
	case format.TypeDouble:
		if len(e.doubles) != 1 {
			return nil, status.WrongConversion
		}
		return []byte(strconv.FormatFloat(e.doubles[0], 'g', -1, 64)), status.Success
	default:
		return nil, status.WrongConversion
	}
}

func (h *Handle) GetLongArray(name string) ([]int64, status.Status) {
	if !h.valid() {
		return nil, status.NullHandle
	}
	e := h.rec.lookup(name)
	if e == nil {
		return nil, status.NotFound
	}

	switch e.ntype {
	case format.TypeLong:
		return append([]int64(nil), e.longs...), status.Success
	case format.TypeDouble:
		out := make([]int64, len(e.doubles))
		for i, v := range e.doubles {
			out[i] = int64(math.Round(v))
		}
		return out, status.Success
	default:
		return nil, status.WrongConversion
	}
}

func (h *Handle) GetDoubleArray(name string) ([]float64, status.Status) {
	if !h.valid() {
		return nil, status.NullHandle
	}
	e := h.rec.lookup(name)
	if e == nil {
		return nil, status.NotFound
	}

	switch e.ntype {
	case format.TypeDouble:
		return append([]float64(nil), e.doubles...), status.Success
	case format.TypeLong:
		out := make([]float64, len(e.longs))
		for i, v := range e.longs {
			out[i] = float64(v)
		}
		return out, status.Success
	default:
		return nil, status.WrongConversion
	}
}

// GetBytes returns the raw byte representation of the key's value. Numeric
// keys serialize big-endian, eight bytes per element.
func (h *Handle) GetBytes(name string) ([]byte, status.Status) {
	if !h.valid() {
		return nil, status.NullHandle
	}
	e := h.rec.lookup(name)
	if e == nil {
		return nil, status.NotFound
	}

	switch e.ntype {
	case format.TypeBytes:
		return append([]byte(nil), e.raw...), status.Success
	case format.TypeString:
		return append([]byte(nil), e.str...), status.Success
	case format.TypeLong:
		out := make([]byte, 0, len(e.longs)*8)
		for _, v := range e.longs {
			out = wire.AppendUint64(out, uint64(v))
		}
		return out, status.Success
	case format.TypeDouble:
		out := make([]byte, 0, len(e.doubles)*8)
		for _, v := range e.doubles {
			out = wire.AppendUint64(out, math.Float64bits(v))
		}
		return out, status.Success
	case format.TypeMissing:
		return nil, status.NotFound
	default:
		return nil, status.Success
	}
}

// mutable returns the entry for a write, creating it with the given type
// when absent. Writes to read-only keys fail with ReadOnly.
func (h *Handle) mutable(name string, created format.NativeType) (*keyEntry, status.Status) {
	if !h.valid() {
		return nil, status.NullHandle
	}
	e := h.rec.lookup(name)
	if e == nil {
		e = &keyEntry{name: name, ntype: created, flags: flagCoded}
		h.rec.put(e)

		return e, status.Success
	}
	if e.flags&flagReadOnly != 0 {
		return nil, status.ReadOnly
	}

	return e, status.Success
}

func (e *keyEntry) clearValues() {
	e.longs = nil
	e.doubles = nil
	e.str = nil
	e.raw = nil
}

// SetLong stores a scalar integer. On a double key the value is coerced to
// the key's native type.
func (h *Handle) SetLong(name string, v int64) status.Status {
	e, st := h.mutable(name, format.TypeLong)
	if st.IsFailure() {
		return st
	}

	switch e.ntype {
	case format.TypeLong, format.TypeMissing:
		e.clearValues()
		e.ntype = format.TypeLong
		e.longs = []int64{v}
	case format.TypeDouble:
		e.clearValues()
		e.doubles = []float64{float64(v)}
	default:
		return status.WrongType
	}

	return status.Success
}

// SetDouble stores a scalar float. On a long key the value is rounded to
// the key's native type.
func (h *Handle) SetDouble(name string, v float64) status.Status {
	e, st := h.mutable(name, format.TypeDouble)
	if st.IsFailure() {
		return st
	}

	switch e.ntype {
	case format.TypeDouble, format.TypeMissing:
		e.clearValues()
		e.ntype = format.TypeDouble
		e.doubles = []float64{v}
	case format.TypeLong:
		e.clearValues()
		e.longs = []int64{int64(math.Round(v))}
	default:
		return status.WrongType
	}

	return status.Success
}

func (h *Handle) SetString(name string, v string) status.Status {
	e, st := h.mutable(name, format.TypeString)
	if st.IsFailure() {
		return st
	}
	if e.ntype != format.TypeString && e.ntype != format.TypeMissing {
		return status.WrongType
	}
	e.clearValues()
	e.ntype = format.TypeString
	e.str = []byte(v)

	return status.Success
}

func (h *Handle) SetLongArray(name string, v []int64) status.Status {
	e, st := h.mutable(name, format.TypeLong)
	if st.IsFailure() {
		return st
	}

	switch e.ntype {
	case format.TypeLong, format.TypeMissing:
		e.clearValues()
		e.ntype = format.TypeLong
		e.longs = append([]int64(nil), v...)
	case format.TypeDouble:
		e.clearValues()
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		e.doubles = out
	default:
		return status.WrongType
	}

	return status.Success
}

func (h *Handle) SetDoubleArray(name string, v []float64) status.Status {
	e, st := h.mutable(name, format.TypeDouble)
	if st.IsFailure() {
		return st
	}

	switch e.ntype {
	case format.TypeDouble, format.TypeMissing:
		e.clearValues()
		e.ntype = format.TypeDouble
		e.doubles = append([]float64(nil), v...)
	case format.TypeLong:
		e.clearValues()
		out := make([]int64, len(v))
		for i, x := range v {
			out[i] = int64(math.Round(x))
		}
		e.longs = out
	default:
		return status.WrongType
	}

	return status.Success
}

func (h *Handle) SetBytes(name string, v []byte) status.Status {
	e, st := h.mutable(name, format.TypeBytes)
	if st.IsFailure() {
		return st
	}
	if e.ntype != format.TypeBytes && e.ntype != format.TypeMissing {
		return status.WrongType
	}
	e.clearValues()
	e.ntype = format.TypeBytes
	e.raw = []byte(nil)
	e.raw = append(e.raw, v...)

	return status.Success
}

// SetMissing marks an existing key as missing, dropping its value.
func (h *Handle) SetMissing(name string) status.Status {
	if !h.valid() {
		return status.NullHandle
	}
	e := h.rec.lookup(name)
	if e == nil {
		return status.NotFound
	}
	if e.flags&flagReadOnly != 0 {
		return status.ReadOnly
	}
	e.clearValues()
	e.ntype = format.TypeMissing

	return status.Success
}
