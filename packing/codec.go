package packing

import (
	"fmt"

	"github.com/nwpio/gribcodes/format"
)

// Compressor compresses record payloads before they are framed on the wire.
//
// A payload is the concatenated value area of a record: key directory
// entries point into it by offset, so compression always applies to the
// whole area, never to individual keys.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller
	//   - Input slice is not modified
	//   - Internal buffers may be reused for efficiency
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a record payload from its packed wire form.
//
// Implementations validate the input format and return an error if the
// data is corrupted or was packed with an incompatible algorithm.
//
// Thread safety: Decompressor implementations must be safe for concurrent
// use; record handles on different goroutines may share one codec.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original result.
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller
	//   - Input slice is not modified
	//   - Internal buffers may be reused for efficiency
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
//
// Record readers and writers hold a single Codec selected by the packing
// type stamped in the record header.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec is a factory function that creates a Codec based on the specified packing type.
//
// Parameters:
//   - packingType: Type of payload packing (None, Zstd, S2, or LZ4)
//   - target: Description of target usage (for error messages)
//
// Returns:
//   - Codec: Codec instance for the specified type
//   - error: Invalid packing type error
func CreateCodec(packingType format.PackingType, target string) (Codec, error) {
	switch packingType {
	case format.PackingNone:
		return NewNoOpCodec(), nil
	case format.PackingZstd:
		return NewZstdCodec(), nil
	case format.PackingS2:
		return NewS2Codec(), nil
	case format.PackingLZ4:
		return NewLZ4Codec(), nil
	default:
		return nil, fmt.Errorf("invalid %s packing: %s", target, packingType)
	}
}

// builtinCodecs holds one shared instance per packing type, created through
// the factory. Every implementation is safe for concurrent use.
var builtinCodecs = newBuiltinCodecs()

func newBuiltinCodecs() map[format.PackingType]Codec {
	types := []format.PackingType{
		format.PackingNone,
		format.PackingZstd,
		format.PackingS2,
		format.PackingLZ4,
	}

	m := make(map[format.PackingType]Codec, len(types))
	for _, pt := range types {
		codec, err := CreateCodec(pt, "record payload")
		if err != nil {
			continue
		}
		m[pt] = codec
	}

	return m
}

// GetCodec retrieves the shared built-in Codec for the specified packing
// type. Unknown types fall through to CreateCodec, which reports them.
func GetCodec(packingType format.PackingType) (Codec, error) {
	if codec, ok := builtinCodecs[packingType]; ok {
		return codec, nil
	}

	return CreateCodec(packingType, "record payload")
}
