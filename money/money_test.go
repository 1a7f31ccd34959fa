package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
	}{
		{"10.50", 1050},
		{"10.5", 1050},
		{"25", 2500},
		{"0.01", 1},
		{"10.555", 1056}, // half away from zero, no float drift
		{"10.554", 1055},
		{"0.005", 1},
		{"0.0049", 0},
		{"-10.555", -1056},
		{"1e2", 10000},
		{"5e-3", 1},
		{"10.500000000000000000000", 1050},
		{"1e-20000000", 0},
		{"-7e-25", 0},
		{"0e20000000", 0},
	}
	for _, tc := range cases {
		got, err := ToCents(decimal.RequireFromString(tc.in))
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.out, got, tc.in)
	}
}

func TestToCents_OutOfRange(t *testing.T) {
	huge := decimal.RequireFromString("92233720368547758.08")
	_, err := ToCents(huge)
	assert.ErrorIs(t, err, ErrAmountOutOfRange)

	edge := decimal.RequireFromString("92233720368547758.07")
	cents, err := ToCents(edge)
	require.NoError(t, err)
	assert.Equal(t, int64(9223372036854775807), cents)
}

func TestToCents_ExtremeExponents(t *testing.T) {
	for _, in := range []string{"1e20000000", "1e19", "-3e2000000000", "1.00000000000000000000000000000000000001"} {
		_, err := ToCents(decimal.RequireFromString(in))
		assert.ErrorIs(t, err, ErrAmountOutOfRange, in)
	}
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 10,50", FormatBRL(1050))
	assert.Equal(t, "R$ 0,05", FormatBRL(5))
	assert.Equal(t, "R$ 25,00", FormatBRL(2500))
	assert.Equal(t, "-R$ 2,50", FormatBRL(-250))
}
