package curve

import (
	"crypto/ed25519"
	"testing"

	"filippo.io/edwards25519"
	"github.com/stretchr/testify/require"
)

func TestScalarFromSeedMatchesEd25519(t *testing.T) {
	seed, err := NewSeed()
	require.NoError(t, err)

	pub, err := PublicKeyFromSeed(seed)
	require.NoError(t, err)

	// The clamped-scalar public key must equal the standard ed25519 one.
	stdPriv := ed25519.NewKeyFromSeed(seed)
	require.Equal(t, []byte(stdPriv.Public().(ed25519.PublicKey)), pub)
}

func TestScalarFromSeedRejectsBadLength(t *testing.T) {
	_, err := ScalarFromSeed(make([]byte, 16))
	require.ErrorIs(t, err, ErrInvalidSeed)
}

func TestScalarFromHashDeterministic(t *testing.T) {
	a := ScalarFromHash([]byte("domain"), []byte("payload"))
	b := ScalarFromHash([]byte("domain"), []byte("payload"))
	require.Equal(t, a.Bytes(), b.Bytes())

	c := ScalarFromHash([]byte("domain"), []byte("other"))
	require.NotEqual(t, a.Bytes(), c.Bytes())
}

func TestDecodePointRejectsGarbage(t *testing.T) {
	_, err := DecodePoint(make([]byte, 31))
	require.ErrorIs(t, err, ErrInvalidPoint)

	bad := make([]byte, 32)
	for i := range bad {
		bad[i] = 0xFF
	}
	_, err = DecodePoint(bad)
	require.ErrorIs(t, err, ErrInvalidPoint)
}

func TestSharedPointSymmetry(t *testing.T) {
	seedA, err := NewSeed()
	require.NoError(t, err)
	seedB, err := NewSeed()
	require.NoError(t, err)

	sA, err := ScalarFromSeed(seedA)
	require.NoError(t, err)
	sB, err := ScalarFromSeed(seedB)
	require.NoError(t, err)

	pubA, err := DecodePoint(PublicKey(sA))
	require.NoError(t, err)
	pubB, err := DecodePoint(PublicKey(sB))
	require.NoError(t, err)

	require.Equal(t, SharedPoint(sA, pubB), SharedPoint(sB, pubA))
}

func TestAddTweakMirrorsScalarAddition(t *testing.T) {
	seed, err := NewSeed()
	require.NoError(t, err)
	base, err := ScalarFromSeed(seed)
	require.NoError(t, err)
	tweak := ScalarFromHash([]byte("tweak"))

	basePoint, err := DecodePoint(PublicKey(base))
	require.NoError(t, err)
	tweaked := AddTweak(basePoint, tweak)

	sum := edwards25519.NewScalar().Add(base, tweak)
	require.Equal(t, PublicKey(sum), tweaked.Bytes())
}
