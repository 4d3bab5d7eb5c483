package shield

import (
	"testing"
	"time"

	"github.com/AlexZinkM/sip-wallet/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInstruction(t *testing.T) *TransferInstruction {
	t.Helper()

	c, err := NewCommitment(1_500_000)
	require.NoError(t, err)
	defer c.Zero()

	ix := &TransferInstruction{
		Commitment:      c.Commitment,
		EncryptedAmount: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		Proof:           []byte{0xaa, 0xbb, 0xcc},
		Amount:          1_500_000,
	}
	copy(ix.StealthPubkey[:], solana.NewWallet().PublicKey().Bytes())
	ix.EphemeralPubkey = c.Commitment // any valid 33-byte point encoding
	copy(ix.ViewingKeyHash[:], solana.NewWallet().PublicKey().Bytes())
	return ix
}

func TestTransferInstructionRoundTrip(t *testing.T) {
	ix := sampleInstruction(t)

	encoded := ix.Encode()
	wantLen := 8 + CommitmentLen + 32 + CommitmentLen + 32 +
		4 + len(ix.EncryptedAmount) + 4 + len(ix.Proof) + 8
	require.Len(t, encoded, wantLen)

	decoded, err := DecodeTransferInstruction(encoded)
	require.NoError(t, err)
	assert.Equal(t, ix, decoded)
}

func TestDecodeInstructionRejectsTruncation(t *testing.T) {
	encoded := sampleInstruction(t).Encode()

	for _, cut := range []int{0, 7, 8, 40, len(encoded) / 2, len(encoded) - 1} {
		_, err := DecodeTransferInstruction(encoded[:cut])
		require.Error(t, err, "cut at %d", cut)
		assert.True(t, model.IsKind(err, model.KindValidation))
	}
}

func TestDecodeInstructionRejectsTrailingBytes(t *testing.T) {
	encoded := append(sampleInstruction(t).Encode(), 0x00)

	_, err := DecodeTransferInstruction(encoded)
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindValidation))
}

func TestDecodeInstructionRejectsUnknownTag(t *testing.T) {
	encoded := sampleInstruction(t).Encode()
	encoded[0] ^= 0xff

	_, err := DecodeTransferInstruction(encoded)
	assert.Error(t, err)
}

func TestDecodeInstructionRejectsOversizedLengthPrefix(t *testing.T) {
	encoded := sampleInstruction(t).Encode()
	// Corrupt the encrypted-amount length prefix to claim more bytes than
	// the buffer holds.
	off := 8 + CommitmentLen + 32 + CommitmentLen + 32
	encoded[off] = 0xff
	encoded[off+1] = 0xff
	encoded[off+2] = 0xff
	encoded[off+3] = 0xff

	_, err := DecodeTransferInstruction(encoded)
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindValidation))
}

func sampleRecord(t *testing.T, mint *solana.PublicKey) *TransferRecord {
	t.Helper()

	c, err := NewCommitment(250_000)
	require.NoError(t, err)
	defer c.Zero()

	rec := &TransferRecord{
		Sender:           solana.NewWallet().PublicKey(),
		StealthRecipient: solana.NewWallet().PublicKey(),
		AmountCommitment: c.Commitment,
		EphemeralPubkey:  c.Commitment,
		EncryptedAmount: EncryptedAmount{
			Nonce:      make([]byte, NonceLen),
			Ciphertext: []byte{9, 8, 7, 6, 5, 4, 3, 2, 1},
		},
		Timestamp: time.Now().Unix(),
		TokenMint: mint,
	}
	copy(rec.ViewingKeyHash[:], solana.NewWallet().PublicKey().Bytes())
	for i := range rec.EncryptedAmount.Nonce {
		rec.EncryptedAmount.Nonce[i] = byte(i)
	}
	return rec
}

func TestTransferRecordRoundTrip(t *testing.T) {
	rec := sampleRecord(t, nil)

	decoded, err := DecodeTransferRecord(rec.Encode())
	require.NoError(t, err)
	assert.Equal(t, rec, decoded)
}

func TestTransferRecordRoundTripWithMint(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	rec := sampleRecord(t, &mint)
	rec.Claimed = true

	decoded, err := DecodeTransferRecord(rec.Encode())
	require.NoError(t, err)
	assert.Equal(t, rec, decoded)
	assert.True(t, decoded.Claimed)
	require.NotNil(t, decoded.TokenMint)
	assert.Equal(t, mint, *decoded.TokenMint)
}

func TestDecodeRecordRejectsWrongDiscriminator(t *testing.T) {
	encoded := sampleRecord(t, nil).Encode()
	encoded[3] ^= 0x01

	_, err := DecodeTransferRecord(encoded)
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindValidation))
}

func TestDecodeRecordRejectsTruncation(t *testing.T) {
	encoded := sampleRecord(t, nil).Encode()

	for cut := 0; cut < len(encoded); cut += 13 {
		_, err := DecodeTransferRecord(encoded[:cut])
		require.Error(t, err, "cut at %d", cut)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	cfg := &Config{
		Authority: solana.NewWallet().PublicKey(),
		FeeBps:    25,
		Paused:    true,
		Bump:      254,
	}

	encoded := cfg.Encode()
	require.Len(t, encoded, 8+32+2+1+1)

	decoded, err := DecodeConfig(encoded)
	require.NoError(t, err)
	assert.Equal(t, cfg, decoded)
}

func TestDecodeConfigRejectsRecordBlob(t *testing.T) {
	_, err := DecodeConfig(sampleRecord(t, nil).Encode())
	assert.Error(t, err)
}

func TestDiscriminatorsAreDistinct(t *testing.T) {
	seen := map[[8]byte]bool{}
	for _, d := range [][8]byte{
		TransferInstructionTag,
		ClaimInstructionTag,
		TransferRecordDiscriminator,
		ConfigDiscriminator,
	} {
		assert.False(t, seen[d])
		seen[d] = true
	}
}
