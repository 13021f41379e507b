package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckEndianness(t *testing.T) {
	order := CheckEndianness()
	require.NotNil(t, order)

	if order == binary.LittleEndian {
		require.True(t, IsNativeLittleEndian())
		require.False(t, IsNativeBigEndian())
	} else {
		require.True(t, IsNativeBigEndian())
		require.False(t, IsNativeLittleEndian())
	}
}

func TestCompareNativeEndian(t *testing.T) {
	require.True(t, CompareNativeEndian(CheckEndianness().(EndianEngine)))

	big := GetBigEndianEngine()
	little := GetLittleEndianEngine()
	require.NotEqual(t, CompareNativeEndian(big), CompareNativeEndian(little))
}

func TestEngineRoundTrip(t *testing.T) {
	for _, engine := range []EndianEngine{GetBigEndianEngine(), GetLittleEndianEngine()} {
		buf := engine.AppendUint64(nil, 0x0102030405060708)
		require.Len(t, buf, 8)
		require.Equal(t, uint64(0x0102030405060708), engine.Uint64(buf))

		buf = engine.AppendUint16(nil, 0xBEEF)
		require.Equal(t, uint16(0xBEEF), engine.Uint16(buf))
	}
}

func TestBigEndianWireLayout(t *testing.T) {
	buf := GetBigEndianEngine().AppendUint32(nil, 0x11223344)
	require.Equal(t, []byte{0x11, 0x22, 0x33, 0x44}, buf)
}
