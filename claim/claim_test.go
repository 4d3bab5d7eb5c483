package claim

import (
	"crypto/ed25519"
	"testing"

	"github.com/AlexZinkM/sip-wallet/internal/curve"
	"github.com/AlexZinkM/sip-wallet/internal/model"
	"github.com/AlexZinkM/sip-wallet/shield"
	"github.com/AlexZinkM/sip-wallet/stealth"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignWithScalarVerifiesUnderEd25519(t *testing.T) {
	seed, err := curve.NewSeed()
	require.NoError(t, err)
	scalar, err := curve.ScalarFromSeed(seed)
	require.NoError(t, err)
	pub := curve.PublicKey(scalar)

	message := []byte("claim authorization payload")
	sig, err := SignWithScalar(message, scalar)
	require.NoError(t, err)
	require.Len(t, sig, ed25519.SignatureSize)

	assert.True(t, ed25519.Verify(ed25519.PublicKey(pub), message, sig))
}

func TestSignWithScalarRejectsTampering(t *testing.T) {
	seed, err := curve.NewSeed()
	require.NoError(t, err)
	scalar, err := curve.ScalarFromSeed(seed)
	require.NoError(t, err)
	pub := ed25519.PublicKey(curve.PublicKey(scalar))

	message := []byte("claim authorization payload")
	sig, err := SignWithScalar(message, scalar)
	require.NoError(t, err)

	for _, bit := range []int{0, 1, 200, 511} {
		flipped := append([]byte(nil), sig...)
		flipped[bit/8] ^= 1 << (bit % 8)
		assert.False(t, ed25519.Verify(pub, message, flipped), "flipped bit %d", bit)
	}

	assert.False(t, ed25519.Verify(pub, []byte("different message"), sig))
}

func TestSignWithTweakedScalar(t *testing.T) {
	// The claim path signs with a scalar that never came from a seed:
	// wallet scalar plus a derivation tweak.
	keys, err := stealth.GenerateKeys()
	require.NoError(t, err)
	defer keys.Zero()

	meta := keys.MetaAddress(stealth.ChainSolana)
	ota, ephSeed, err := stealth.DeriveOneTimeAddress(meta)
	require.NoError(t, err)
	defer curve.Zero(ephSeed)

	scalar, err := stealth.DeriveSpendingScalar(ota, keys.SpendingPrivateKey, keys.ViewingPrivateKey)
	require.NoError(t, err)

	message := []byte("spend it")
	sig, err := SignWithScalar(message, scalar)
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(ed25519.PublicKey(ota.Address), message, sig))
}

func TestNullifierDeterministicAndDistinct(t *testing.T) {
	seed, err := curve.NewSeed()
	require.NoError(t, err)
	scalar, err := curve.ScalarFromSeed(seed)
	require.NoError(t, err)

	recA := solana.NewWallet().PublicKey()
	recB := solana.NewWallet().PublicKey()

	assert.Equal(t, ComputeNullifier(recA, scalar), ComputeNullifier(recA, scalar))
	assert.NotEqual(t, ComputeNullifier(recA, scalar), ComputeNullifier(recB, scalar))

	otherSeed, err := curve.NewSeed()
	require.NoError(t, err)
	otherScalar, err := curve.ScalarFromSeed(otherSeed)
	require.NoError(t, err)
	assert.NotEqual(t, ComputeNullifier(recA, scalar), ComputeNullifier(recA, otherScalar))
}

func buildTestRecord(t *testing.T) (*shield.TransferRecord, *stealth.KeyPair, *stealth.OneTimeAddress) {
	t.Helper()

	keys, err := stealth.GenerateKeys()
	require.NoError(t, err)
	t.Cleanup(keys.Zero)

	ota, ephSeed, err := stealth.DeriveOneTimeAddress(keys.MetaAddress(stealth.ChainSolana))
	require.NoError(t, err)
	curve.Zero(ephSeed)

	c, err := shield.NewCommitment(1_000_000)
	require.NoError(t, err)
	t.Cleanup(c.Zero)

	eph, err := shield.CompressPoint(ota.EphemeralPublicKey)
	require.NoError(t, err)

	rec := &shield.TransferRecord{
		Sender:           solana.NewWallet().PublicKey(),
		AmountCommitment: c.Commitment,
		EphemeralPubkey:  eph,
	}
	copy(rec.StealthRecipient[:], ota.Address)
	return rec, keys, ota
}

func TestBuildClaim(t *testing.T) {
	rec, keys, ota := buildTestRecord(t)
	scalar, err := stealth.DeriveSpendingScalar(ota, keys.SpendingPrivateKey, keys.ViewingPrivateKey)
	require.NoError(t, err)

	program := solana.NewWallet().PublicKey()
	recordAddr := solana.NewWallet().PublicKey()
	recipient := solana.NewWallet().PublicKey()

	req, err := Build(program, recordAddr, rec, scalar, recipient)
	require.NoError(t, err)

	assert.Equal(t, ComputeNullifier(recordAddr, scalar), req.Nullifier)
	assert.Equal(t, program, req.Instruction.ProgramID())

	data, err := req.Instruction.Data()
	require.NoError(t, err)
	require.Len(t, data, 8+NullifierLen+ed25519.SignatureSize)
	assert.Equal(t, shield.ClaimInstructionTag[:], data[:8])

	wantNullifierAddr, _, err := shield.NullifierAddress(program, req.Nullifier[:])
	require.NoError(t, err)
	assert.Equal(t, wantNullifierAddr, req.NullifierAddress)
}

func TestBuildFailsFastOnForeignScalar(t *testing.T) {
	rec, _, _ := buildTestRecord(t)

	seed, err := curve.NewSeed()
	require.NoError(t, err)
	foreign, err := curve.ScalarFromSeed(seed)
	require.NoError(t, err)

	_, err = Build(solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), rec, foreign, solana.NewWallet().PublicKey())
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindCrypto))
}

func TestBuildRefusesClaimedRecord(t *testing.T) {
	rec, keys, ota := buildTestRecord(t)
	rec.Claimed = true

	scalar, err := stealth.DeriveSpendingScalar(ota, keys.SpendingPrivateKey, keys.ViewingPrivateKey)
	require.NoError(t, err)

	_, err = Build(solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), rec, scalar, solana.NewWallet().PublicKey())
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindValidation))
}
