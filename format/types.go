package format

type (
	NativeType  uint8
	PackingType uint8
)

const (
	TypeUndefined NativeType = 0x0 // TypeUndefined represents a key with no discoverable type.
	TypeLong      NativeType = 0x1 // TypeLong represents a signed 64-bit integer key.
	TypeDouble    NativeType = 0x2 // TypeDouble represents a 64-bit float key.
	TypeString    NativeType = 0x3 // TypeString represents a UTF-8 string key.
	TypeBytes     NativeType = 0x4 // TypeBytes represents a raw byte array key.
	TypeSection   NativeType = 0x5 // TypeSection represents a section marker key.
	TypeLabel     NativeType = 0x6 // TypeLabel represents a label key.
	TypeMissing   NativeType = 0x7 // TypeMissing represents a key whose value is missing.

	PackingNone PackingType = 0x1 // PackingNone represents no payload packing.
	PackingZstd PackingType = 0x2 // PackingZstd represents Zstandard payload packing.
	PackingS2   PackingType = 0x3 // PackingS2 represents S2 payload packing.
	PackingLZ4  PackingType = 0x4 // PackingLZ4 represents LZ4 payload packing.
)

func (t NativeType) String() string {
	switch t {
	case TypeUndefined:
		return "Undefined"
	case TypeLong:
		return "Long"
	case TypeDouble:
		return "Double"
	case TypeString:
		return "String"
	case TypeBytes:
		return "Bytes"
	case TypeSection:
		return "Section"
	case TypeLabel:
		return "Label"
	case TypeMissing:
		return "Missing"
	default:
		return "Unknown"
	}
}

func (p PackingType) String() string {
	switch p {
	case PackingNone:
		return "None"
	case PackingZstd:
		return "Zstd"
	case PackingS2:
		return "S2"
	case PackingLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
