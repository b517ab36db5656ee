package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	h, err := HashPassword("correct horse")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse", h)
	require.True(t, CheckPassword(h, "correct horse"))
	require.False(t, CheckPassword(h, "battery staple"))
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", 73))
	require.ErrorIs(t, err, ErrTooLong)
}
