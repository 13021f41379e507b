// Package endian provides byte order utilities for the record wire format.
//
// The package combines ByteOrder and AppendByteOrder from encoding/binary
// into a single EndianEngine interface so codecs can both read fields in
// place and append them without intermediate buffers.
//
// The record wire format is big-endian throughout, matching the convention
// of the meteorological formats it carries; GetBigEndianEngine() is the
// engine used by the record codec. Little-endian is kept for host-order
// scratch structures and tests.
//
// All functions and returned engines are stateless and safe for concurrent
// use.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface for byte order operations. It is satisfied by
// binary.BigEndian and binary.LittleEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness determines the host's byte order from a fixed integer.
func CheckEndianness() binary.ByteOrder {
	// For a little-endian host the LSB (0x00) sits at the lowest address.
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

func IsNativeBigEndian() bool {
	return CheckEndianness() == binary.BigEndian
}

// CompareNativeEndian reports whether the given engine matches the host order.
func CompareNativeEndian(engine EndianEngine) bool {
	return engine == CheckEndianness()
}

// GetBigEndianEngine returns the big-endian engine used by the record codec.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}
