package status

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromCode(t *testing.T) {
	st, ok := FromCode(0)
	require.True(t, ok)
	require.Equal(t, Success, st)
	require.False(t, st.IsFailure())

	st, ok = FromCode(-20)
	require.True(t, ok)
	require.Equal(t, NullHandle, st)
	require.True(t, st.IsFailure())

	// Unrecognized codes map to Unknown instead of panicking.
	st, ok = FromCode(-9999)
	require.False(t, ok)
	require.Equal(t, Unknown, st)
	require.True(t, st.IsFailure())
}

func TestStatusAsError(t *testing.T) {
	var err error = NotFound
	require.Contains(t, err.Error(), "-10")
	require.Contains(t, err.Error(), "key/value not found")
}

func TestStringUnknownCode(t *testing.T) {
	require.Contains(t, Status(-77).String(), "-77")
	require.Equal(t, "null handle", NullHandle.String())
}
