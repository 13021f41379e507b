// Package gribcodes provides safe, typed access to self-describing binary
// weather records without exposing raw engine handles.
//
// Records are opened from files or memory buffers, iterated message by
// message, and read key by key. Every message wraps a native engine handle
// whose lifetime the package tracks: a released or superseded handle fails
// cleanly with an error instead of touching freed state.
//
// # Core Features
//
//   - Borrowed, shared and cloned message variants for the three ownership
//     patterns (one-at-a-time loops, cross-goroutine fan-out, mutation)
//   - Checked key reads that verify native type and cardinality first, with
//     unchecked variants when the schema is trusted
//   - Dynamic reads that follow the key's discovered type and fall back to
//     raw bytes rather than failing the message
//   - Nearest-gridpoint search over regular latitude/longitude grids
//   - Record indexes with value selection and on-disk persistence
//   - Optional payload packing (None, Zstd, S2, LZ4)
//
// # Basic Usage
//
// Iterating a file and reading keys:
//
//	import "github.com/nwpio/gribcodes"
//
//	src, _ := gribcodes.OpenFile("forecast.grc")
//	defer src.Close()
//
//	iter, _ := src.Messages()
//	for {
//	    msg, err := iter.Next()
//	    if err != nil || msg == nil {
//	        break
//	    }
//	    shortName, _ := msg.ReadString("shortName")
//	    values, _ := msg.ReadFloat64Slice("values")
//	    fmt.Printf("%s: %d points\n", shortName, len(values))
//	}
//
// Selecting records through an index:
//
//	idx, _ := gribcodes.NewIndex("shortName", "dataDate")
//	idx.AddFile("forecast.grc")
//	idx.SelectString("shortName", "2t")
//	for {
//	    msg, err := idx.Next()
//	    if err != nil || msg == nil {
//	        break
//	    }
//	    // ...
//	    msg.Release()
//	}
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the grib
// package, simplifying the most common use cases. For product kinds,
// shared iteration and fine-grained control, use the grib package
// directly.
package gribcodes

import (
	"github.com/nwpio/gribcodes/grib"
)

// OpenFile opens a record file for iteration, expecting GRIB products.
func OpenFile(path string) (*grib.Source, error) {
	return grib.OpenFile(path, grib.ProductGRIB)
}

// OpenBuffer opens an in-memory record sequence, expecting GRIB products.
// The buffer must not be mutated while the source or any message derived
// from it is alive.
func OpenBuffer(buf []byte) (*grib.Source, error) {
	return grib.OpenBuffer(buf, grib.ProductGRIB)
}

// NewIndex creates an empty record index over the given keys.
func NewIndex(keys ...string) (*grib.Index, error) {
	return grib.NewIndex(keys...)
}

// ReadIndexFile loads an index previously persisted with Index.WriteFile.
func ReadIndexFile(path string) (*grib.Index, error) {
	return grib.ReadIndexFile(path)
}
