package handlers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShares(t *testing.T) {
	for in, want := range map[string]int64{"1": 1, " 42 ": 42, "9000": 9000} {
		got, err := ParseShares(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, in := range []string{"", "0", "-1", "1.5", "1e3", "ten", "99999999999999999999"} {
		_, err := ParseShares(in)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), in)
		assert.Equal(t, "Shares must be a positive whole number", verr.Message)
	}
}

func TestParseSymbol(t *testing.T) {
	got, err := ParseSymbol("  nflx ")
	require.NoError(t, err)
	assert.Equal(t, "NFLX", got)

	_, err = ParseSymbol("   ")
	assert.EqualError(t, err, "Must provide a symbol")
}
