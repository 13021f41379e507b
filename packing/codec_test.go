package packing

import (
	"bytes"
	"testing"

	"github.com/nwpio/gribcodes/format"
	"github.com/stretchr/testify/require"
)

func samplePayload() []byte {
	// A payload shaped like a real record value area: a run of slowly
	// varying big-endian float bits plus some string key material.
	var buf bytes.Buffer
	for i := 0; i < 2048; i++ {
		buf.WriteByte(byte(i / 16))
	}
	buf.WriteString("regular_ll")
	buf.WriteString("shortName=msl")

	return buf.Bytes()
}

func TestCreateCodec(t *testing.T) {
	for _, pt := range []format.PackingType{
		format.PackingNone,
		format.PackingZstd,
		format.PackingS2,
		format.PackingLZ4,
	} {
		codec, err := CreateCodec(pt, "payload")
		require.NoError(t, err, "packing type %s", pt)
		require.NotNil(t, codec)
	}
}

func TestCreateCodecInvalid(t *testing.T) {
	codec, err := CreateCodec(format.PackingType(0xEE), "payload")
	require.Error(t, err)
	require.Nil(t, codec)
	require.Contains(t, err.Error(), "invalid payload packing")
}

func TestGetCodec(t *testing.T) {
	codec, err := GetCodec(format.PackingZstd)
	require.NoError(t, err)
	require.NotNil(t, codec)

	// The shared instance is handed out on every call.
	again, err := GetCodec(format.PackingZstd)
	require.NoError(t, err)
	require.Same(t, codec, again)

	// Unknown types route through the factory, which reports them.
	_, err = GetCodec(format.PackingType(0xEE))
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid record payload packing")
}

func TestCodecRoundTrip(t *testing.T) {
	payload := samplePayload()

	for _, pt := range []format.PackingType{
		format.PackingNone,
		format.PackingZstd,
		format.PackingS2,
		format.PackingLZ4,
	} {
		t.Run(pt.String(), func(t *testing.T) {
			codec, err := GetCodec(pt)
			require.NoError(t, err)

			packed, err := codec.Compress(payload)
			require.NoError(t, err)

			unpacked, err := codec.Decompress(packed)
			require.NoError(t, err)
			require.Equal(t, payload, unpacked)
		})
	}
}

func TestCodecCompressesRepetitivePayload(t *testing.T) {
	payload := bytes.Repeat([]byte("500 hPa geopotential "), 512)

	for _, pt := range []format.PackingType{
		format.PackingZstd,
		format.PackingS2,
		format.PackingLZ4,
	} {
		codec, err := GetCodec(pt)
		require.NoError(t, err)

		packed, err := codec.Compress(payload)
		require.NoError(t, err)
		require.Less(t, len(packed), len(payload), "packing type %s", pt)
	}
}

func TestNoOpCodecSharesBuffer(t *testing.T) {
	codec := NewNoOpCodec()
	payload := samplePayload()

	packed, err := codec.Compress(payload)
	require.NoError(t, err)
	require.Same(t, &payload[0], &packed[0])

	unpacked, err := codec.Decompress(packed)
	require.NoError(t, err)
	require.Same(t, &payload[0], &unpacked[0])
}

func TestDecompressEmptyInput(t *testing.T) {
	for _, pt := range []format.PackingType{
		format.PackingZstd,
		format.PackingS2,
		format.PackingLZ4,
	} {
		codec, err := GetCodec(pt)
		require.NoError(t, err)

		out, err := codec.Decompress(nil)
		require.NoError(t, err, "packing type %s", pt)
		require.Nil(t, out)
	}
}

func TestDecompressCorruptedInput(t *testing.T) {
	garbage := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01, 0x02, 0x03}

	zstdCodec, err := GetCodec(format.PackingZstd)
	require.NoError(t, err)
	_, err = zstdCodec.Decompress(garbage)
	require.Error(t, err)

	s2Codec, err := GetCodec(format.PackingS2)
	require.NoError(t, err)
	_, err = s2Codec.Decompress(garbage)
	require.Error(t, err)
}
