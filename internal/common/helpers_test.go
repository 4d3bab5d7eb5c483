package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLamportsToSOLRoundTrip(t *testing.T) {
	cases := []struct {
		lamports uint64
		sol      string
	}{
		{0, "0.000000000"},
		{1, "0.000000001"},
		{1_500_000_000, "1.500000000"},
		{24_981_836, "0.024981836"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.sol, LamportsToSOL(tc.lamports))
		back, err := SOLToLamports(tc.sol)
		require.NoError(t, err)
		require.Equal(t, tc.lamports, back)
	}
}

func TestSOLToLamportsAcceptsShortFractions(t *testing.T) {
	v, err := SOLToLamports("1.5")
	require.NoError(t, err)
	require.Equal(t, uint64(1_500_000_000), v)

	v, err = SOLToLamports("2")
	require.NoError(t, err)
	require.Equal(t, uint64(2_000_000_000), v)
}

func TestSOLToLamportsRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "1.2.3", "abc", "-1"} {
		_, err := SOLToLamports(in)
		require.Error(t, err, "input %q", in)
	}
}

func TestCompareSOLAmounts(t *testing.T) {
	cmp, err := CompareSOLAmounts("1.5", "1.50")
	require.NoError(t, err)
	require.Equal(t, 0, cmp)

	cmp, err = CompareSOLAmounts("0.1", "1")
	require.NoError(t, err)
	require.Equal(t, -1, cmp)

	cmp, err = CompareSOLAmounts("2", "1.999999999")
	require.NoError(t, err)
	require.Equal(t, 1, cmp)
}
