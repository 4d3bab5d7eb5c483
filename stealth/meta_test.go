package stealth

import (
	"testing"

	"github.com/AlexZinkM/sip-wallet/internal/model"

	"github.com/stretchr/testify/require"
)

func TestMetaAddressRoundTrip(t *testing.T) {
	for _, chain := range []string{ChainSolana, ChainSui, ChainAptos} {
		t.Run(chain, func(t *testing.T) {
			keys, err := GenerateKeys()
			require.NoError(t, err)
			defer keys.Zero()

			meta := keys.MetaAddress(chain)
			text, err := meta.Format()
			require.NoError(t, err)

			parsed, err := ParseMetaAddress(text)
			require.NoError(t, err)
			require.True(t, meta.Equal(parsed))
		})
	}
}

func TestMetaAddressRoundTripWithAmount(t *testing.T) {
	keys, err := GenerateKeys()
	require.NoError(t, err)
	defer keys.Zero()

	meta := keys.MetaAddress(ChainSolana)
	meta.Amount = "1.5"
	text, err := meta.Format()
	require.NoError(t, err)

	parsed, err := ParseMetaAddress(text)
	require.NoError(t, err)
	require.Equal(t, "1.5", parsed.Amount)

	// Round trip back to the same text.
	again, err := parsed.Format()
	require.NoError(t, err)
	require.Equal(t, text, again)
}

func TestParseMetaAddressTrimsWhitespace(t *testing.T) {
	keys, err := GenerateKeys()
	require.NoError(t, err)
	defer keys.Zero()

	text, err := keys.MetaAddress(ChainSolana).Format()
	require.NoError(t, err)

	parsed, err := ParseMetaAddress("  " + text + "\n")
	require.NoError(t, err)
	require.True(t, keys.MetaAddress(ChainSolana).Equal(parsed))
}

func TestParseMetaAddressRejectsUnknownChain(t *testing.T) {
	keys, err := GenerateKeys()
	require.NoError(t, err)
	defer keys.Zero()

	meta := keys.MetaAddress(ChainSolana)
	meta.Chain = "dogecoin"
	_, err = meta.Format()
	require.True(t, model.IsKind(err, model.KindValidation))

	_, err = ParseMetaAddress("sip:dogecoin:abc:def")
	require.True(t, model.IsKind(err, model.KindValidation))
}

func TestParseMetaAddressRejectsMalformed(t *testing.T) {
	for _, in := range []string{
		"",
		"sip:solana:onlyonekey",
		"nzp:solana:a:b",
		"sip:solana:!!!!:????",
		"sip:solana:a:b?amount=",
		"sip:solana:a:b?memo=x",
	} {
		_, err := ParseMetaAddress(in)
		require.Error(t, err, "input %q", in)
	}
}

func TestParseMetaAddressRejectsOffCurveKeys(t *testing.T) {
	keys, err := GenerateKeys()
	require.NoError(t, err)
	defer keys.Zero()

	meta := keys.MetaAddress(ChainSolana)
	// An all-0xFF string is not a valid point encoding.
	bad := make([]byte, 32)
	for i := range bad {
		bad[i] = 0xFF
	}
	meta.SpendingPublicKey = bad
	text, err := meta.Format()
	require.NoError(t, err)

	_, err = ParseMetaAddress(text)
	require.True(t, model.IsKind(err, model.KindValidation))
}
