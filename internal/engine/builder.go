package engine

import (
	"fmt"
	"os"

	"github.com/nwpio/gribcodes/format"
	"github.com/nwpio/gribcodes/internal/options"
	"github.com/nwpio/gribcodes/status"
)

// Builder assembles records key by key, mostly for producing fixture files
// and synthetic grids. Added keys are flagged as coded until marked
// otherwise.
type Builder struct {
	rec *record
}

// WithPacking selects the payload packing for built records.
func WithPacking(pt format.PackingType) options.Option[*Builder] {
	return options.New(func(b *Builder) error {
		switch pt {
		case format.PackingNone, format.PackingZstd, format.PackingS2, format.PackingLZ4:
			b.rec.packing = pt
			return nil
		default:
			return fmt.Errorf("unsupported packing type: %s", pt)
		}
	})
}

// NewBuilder creates a record builder. Without options records pack with
// PackingNone.
func NewBuilder(opts ...options.Option[*Builder]) (*Builder, error) {
	b := &Builder{rec: newRecord(format.PackingNone)}
	if err := options.Apply(b, opts...); err != nil {
		return nil, err
	}

	return b, nil
}

func (b *Builder) add(e *keyEntry) *Builder {
	if e.ntype != format.TypeMissing {
		e.flags = flagCoded
	}
	b.rec.put(e)

	return b
}

// AddLong adds an integer key. One value makes a scalar, several an array.
func (b *Builder) AddLong(name string, vals ...int64) *Builder {
	return b.add(&keyEntry{
		name:  name,
		ntype: format.TypeLong,
		longs: append([]int64(nil), vals...),
	})
}

// AddDouble adds a float key. One value makes a scalar, several an array.
func (b *Builder) AddDouble(name string, vals ...float64) *Builder {
	return b.add(&keyEntry{
		name:    name,
		ntype:   format.TypeDouble,
		doubles: append([]float64(nil), vals...),
	})
}

func (b *Builder) AddString(name, v string) *Builder {
	return b.add(&keyEntry{
		name:  name,
		ntype: format.TypeString,
		str:   []byte(v),
	})
}

func (b *Builder) AddBytes(name string, v []byte) *Builder {
	return b.add(&keyEntry{
		name:  name,
		ntype: format.TypeBytes,
		raw:   append([]byte(nil), v...),
	})
}

// AddMissing adds a key whose value is missing. Its size reads as zero.
func (b *Builder) AddMissing(name string) *Builder {
	return b.add(&keyEntry{name: name, ntype: format.TypeMissing})
}

// ReadOnly marks existing keys read-only.
func (b *Builder) ReadOnly(names ...string) *Builder {
	return b.mark(flagReadOnly, names)
}

// Computed marks existing keys computed instead of coded.
func (b *Builder) Computed(names ...string) *Builder {
	for _, name := range names {
		if e := b.rec.lookup(name); e != nil {
			e.flags = e.flags&^flagCoded | flagComputed
		}
	}

	return b
}

func (b *Builder) mark(flag uint8, names []string) *Builder {
	for _, name := range names {
		if e := b.rec.lookup(name); e != nil {
			e.flags |= flag
		}
	}

	return b
}

// Namespace tags existing keys with a namespace.
func (b *Builder) Namespace(ns string, names ...string) *Builder {
	for _, name := range names {
		if e := b.rec.lookup(name); e != nil {
			e.namespace = ns
		}
	}

	return b
}

// Build serializes the record under construction. The builder stays usable
// afterwards.
func (b *Builder) Build() ([]byte, status.Status) {
	return b.rec.encode()
}

// Handle returns a fresh handle over an independent copy of the record.
func (b *Builder) Handle() *Handle {
	return &Handle{rec: b.rec.clone()}
}

// WriteFile appends the built record to a file, creating it when absent.
func (b *Builder) WriteFile(path string) status.Status {
	frame, st := b.Build()
	if st.IsFailure() {
		return st
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return status.IOProblem
	}
	defer f.Close()

	if _, err := f.Write(frame); err != nil {
		return status.IOProblem
	}

	return status.Success
}
