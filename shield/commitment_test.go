package shield

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitDeterministic(t *testing.T) {
	c, err := NewCommitment(1_000_000)
	require.NoError(t, err)

	again, err := Commit(1_000_000, c.BlindingFactor)
	require.NoError(t, err)
	assert.Equal(t, c.Commitment, again)
}

func TestFreshBlindingHidesEqualValues(t *testing.T) {
	a, err := NewCommitment(42)
	require.NoError(t, err)
	b, err := NewCommitment(42)
	require.NoError(t, err)

	assert.NotEqual(t, a.BlindingFactor, b.BlindingFactor)
	assert.NotEqual(t, a.Commitment, b.Commitment)
}

func TestCommitmentBindsValue(t *testing.T) {
	c, err := NewCommitment(7)
	require.NoError(t, err)

	other, err := Commit(8, c.BlindingFactor)
	require.NoError(t, err)
	assert.NotEqual(t, c.Commitment, other)
}

func TestCommitRejectsBadBlinding(t *testing.T) {
	_, err := Commit(1, make([]byte, 5))
	assert.Error(t, err)

	// 32 bytes that are not a canonical scalar (all 0xff exceeds the order).
	bad := make([]byte, 32)
	for i := range bad {
		bad[i] = 0xff
	}
	_, err = Commit(1, bad)
	assert.Error(t, err)
}

func TestCommitmentWireFormat(t *testing.T) {
	c, err := NewCommitment(123)
	require.NoError(t, err)

	assert.Len(t, c.Commitment[:], CommitmentLen)
	assert.EqualValues(t, 0x02, c.Commitment[0])
}

func TestCompressUncompressRoundTrip(t *testing.T) {
	c, err := NewCommitment(99)
	require.NoError(t, err)

	raw, err := UncompressPoint(c.Commitment)
	require.NoError(t, err)
	require.Len(t, raw, 32)

	back, err := CompressPoint(raw)
	require.NoError(t, err)
	assert.Equal(t, c.Commitment, back)
}

func TestUncompressRejectsBadPrefix(t *testing.T) {
	c, err := NewCommitment(5)
	require.NoError(t, err)

	tampered := c.Commitment
	tampered[0] = 0x03
	_, err = UncompressPoint(tampered)
	assert.Error(t, err)
}

func TestGeneratorHIndependentOfBase(t *testing.T) {
	// A commitment to zero is blinding*H alone; if H collapsed onto the
	// base point, commitments to (0, b) and (b, 0) would collide.
	c, err := NewCommitment(0)
	require.NoError(t, err)

	var value uint64
	for i := 0; i < 8; i++ {
		value |= uint64(c.BlindingFactor[i]) << (8 * i)
	}
	zeroBlinding := make([]byte, 32)
	swapped, err := Commit(value, zeroBlinding)
	require.NoError(t, err)
	assert.NotEqual(t, c.Commitment, swapped)
}

func TestCommitmentZeroWipesBlinding(t *testing.T) {
	c, err := NewCommitment(1)
	require.NoError(t, err)

	c.Zero()
	for _, b := range c.BlindingFactor {
		require.Zero(t, b)
	}
}
