package packing

// NoOpCodec bypasses payload data without packing.
//
// Records written with PackingNone carry their payload verbatim; this codec
// keeps the read and write paths uniform so callers never branch on the
// packing type themselves.
type NoOpCodec struct{}

var _ Codec = (*NoOpCodec)(nil)

// NewNoOpCodec creates a new no-operation codec that bypasses data.
func NewNoOpCodec() NoOpCodec {
	return NoOpCodec{}
}

// Compress returns the input slice as-is without copying.
//
// Note: The returned slice shares the same underlying memory as the input.
// Callers should not modify the input data after calling this method if they
// plan to use the returned slice.
func (c NoOpCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns the input slice as-is without copying.
//
// Note: The returned slice shares the same underlying memory as the input.
func (c NoOpCodec) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
