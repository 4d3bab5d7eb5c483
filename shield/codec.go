package shield

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"

	"github.com/AlexZinkM/sip-wallet/internal/curve"
	"github.com/AlexZinkM/sip-wallet/internal/model"

	"github.com/gagliardetto/solana-go"
)

// Instruction and account discriminators follow the Anchor convention:
// the first 8 bytes of SHA-256 over a namespaced name. Byte values are a
// compatibility contract with the on-chain program and must not drift.
var (
	TransferInstructionTag = discriminator("global", "shielded_transfer")
	ClaimInstructionTag    = discriminator("global", "claim_transfer")

	TransferRecordDiscriminator = discriminator("account", "ShieldedTransfer")
	ConfigDiscriminator         = discriminator("account", "ShieldConfig")
)

func discriminator(namespace, name string) [8]byte {
	digest := sha256.Sum256([]byte(namespace + ":" + name))
	var out [8]byte
	copy(out[:], digest[:8])
	return out
}

// TransferInstruction is the decoded form of the shielded transfer
// instruction payload. Layout (all little-endian):
//
//	8B  instruction tag
//	33B amount commitment
//	32B stealth (one-time) pubkey
//	33B ephemeral pubkey
//	32B viewing-key hash
//	u32 | encrypted amount (nonce || ciphertext)
//	u32 | proof
//	8B  amount
type TransferInstruction struct {
	Commitment      [CommitmentLen]byte
	StealthPubkey   [32]byte
	EphemeralPubkey [CommitmentLen]byte
	ViewingKeyHash  [32]byte
	EncryptedAmount []byte
	Proof           []byte
	Amount          uint64
}

// Encode serializes the instruction payload in the fixed wire layout.
func (ix *TransferInstruction) Encode() []byte {
	size := 8 + CommitmentLen + 32 + CommitmentLen + 32 +
		4 + len(ix.EncryptedAmount) + 4 + len(ix.Proof) + 8
	buf := make([]byte, 0, size)

	buf = append(buf, TransferInstructionTag[:]...)
	buf = append(buf, ix.Commitment[:]...)
	buf = append(buf, ix.StealthPubkey[:]...)
	buf = append(buf, ix.EphemeralPubkey[:]...)
	buf = append(buf, ix.ViewingKeyHash[:]...)
	buf = appendBytes32(buf, ix.EncryptedAmount)
	buf = appendBytes32(buf, ix.Proof)
	buf = binary.LittleEndian.AppendUint64(buf, ix.Amount)
	return buf
}

// DecodeTransferInstruction is the exact inverse of Encode. Truncated and
// over-length buffers are both rejected.
func DecodeTransferInstruction(data []byte) (*TransferInstruction, error) {
	r := newReader(data)

	tag, err := r.bytes(8)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(tag, TransferInstructionTag[:]) {
		return nil, model.Ef(model.KindValidation, "unknown instruction tag")
	}

	var ix TransferInstruction
	if err := r.array(ix.Commitment[:]); err != nil {
		return nil, err
	}
	if err := r.array(ix.StealthPubkey[:]); err != nil {
		return nil, err
	}
	if err := r.array(ix.EphemeralPubkey[:]); err != nil {
		return nil, err
	}
	if err := r.array(ix.ViewingKeyHash[:]); err != nil {
		return nil, err
	}
	if ix.EncryptedAmount, err = r.bytes32(); err != nil {
		return nil, err
	}
	if ix.Proof, err = r.bytes32(); err != nil {
		return nil, err
	}
	if ix.Amount, err = r.uint64(); err != nil {
		return nil, err
	}
	if err := r.done(); err != nil {
		return nil, err
	}
	return &ix, nil
}

// TransferRecord is the on-ledger account written by a shielded transfer.
// Write-once except Claimed, which flips exactly once on a successful
// claim. Layout:
//
//	8B  account discriminator
//	32B sender
//	32B stealth recipient
//	33B amount commitment
//	33B ephemeral pubkey
//	32B viewing-key hash
//	12B nonce
//	u32 | ciphertext
//	i64 timestamp
//	u8  claimed
//	u8  has mint [+ 32B mint]
type TransferRecord struct {
	Sender           solana.PublicKey
	StealthRecipient solana.PublicKey
	AmountCommitment [CommitmentLen]byte
	EphemeralPubkey  [CommitmentLen]byte
	ViewingKeyHash   [32]byte
	EncryptedAmount  EncryptedAmount
	Timestamp        int64
	Claimed          bool
	TokenMint        *solana.PublicKey
}

// Encode serializes the record in the fixed account layout.
func (rec *TransferRecord) Encode() []byte {
	buf := make([]byte, 0, 256)
	buf = append(buf, TransferRecordDiscriminator[:]...)
	buf = append(buf, rec.Sender[:]...)
	buf = append(buf, rec.StealthRecipient[:]...)
	buf = append(buf, rec.AmountCommitment[:]...)
	buf = append(buf, rec.EphemeralPubkey[:]...)
	buf = append(buf, rec.ViewingKeyHash[:]...)
	buf = append(buf, rec.EncryptedAmount.Nonce...)
	buf = appendBytes32(buf, rec.EncryptedAmount.Ciphertext)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(rec.Timestamp))
	if rec.Claimed {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	if rec.TokenMint != nil {
		buf = append(buf, 1)
		buf = append(buf, rec.TokenMint[:]...)
	} else {
		buf = append(buf, 0)
	}
	return buf
}

// DecodeTransferRecord parses a raw account blob. The discriminator prefix
// gates whether the blob is recognized as a transfer record at all.
func DecodeTransferRecord(data []byte) (*TransferRecord, error) {
	r := newReader(data)

	disc, err := r.bytes(8)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(disc, TransferRecordDiscriminator[:]) {
		return nil, model.Ef(model.KindValidation, "not a shielded transfer record")
	}

	var rec TransferRecord
	if err := r.array(rec.Sender[:]); err != nil {
		return nil, err
	}
	if err := r.array(rec.StealthRecipient[:]); err != nil {
		return nil, err
	}
	if err := r.array(rec.AmountCommitment[:]); err != nil {
		return nil, err
	}
	if err := r.array(rec.EphemeralPubkey[:]); err != nil {
		return nil, err
	}
	if err := r.array(rec.ViewingKeyHash[:]); err != nil {
		return nil, err
	}
	nonce, err := r.bytes(NonceLen)
	if err != nil {
		return nil, err
	}
	rec.EncryptedAmount.Nonce = append([]byte(nil), nonce...)
	if rec.EncryptedAmount.Ciphertext, err = r.bytes32(); err != nil {
		return nil, err
	}
	ts, err := r.uint64()
	if err != nil {
		return nil, err
	}
	rec.Timestamp = int64(ts)
	claimed, err := r.byte()
	if err != nil {
		return nil, err
	}
	rec.Claimed = claimed == 1
	hasMint, err := r.byte()
	if err != nil {
		return nil, err
	}
	if hasMint == 1 {
		var mint solana.PublicKey
		if err := r.array(mint[:]); err != nil {
			return nil, err
		}
		rec.TokenMint = &mint
	}
	if err := r.done(); err != nil {
		return nil, err
	}
	return &rec, nil
}

// OneTimePubkey returns the record's stealth recipient as a raw point and
// validates it is on the curve.
func (rec *TransferRecord) OneTimePubkey() ([]byte, error) {
	if !curve.ValidatePoint(rec.StealthRecipient[:]) {
		return nil, model.Ef(model.KindCrypto, "stealth recipient is not a curve point")
	}
	return rec.StealthRecipient[:], nil
}

// Config is the on-chain program configuration account. A paused program
// rejects new transfers; the client checks this before doing any expensive
// cryptographic work.
type Config struct {
	Authority solana.PublicKey
	FeeBps    uint16
	Paused    bool
	Bump      uint8
}

// Encode serializes the config account layout.
func (c *Config) Encode() []byte {
	buf := make([]byte, 0, 8+32+2+1+1)
	buf = append(buf, ConfigDiscriminator[:]...)
	buf = append(buf, c.Authority[:]...)
	buf = binary.LittleEndian.AppendUint16(buf, c.FeeBps)
	if c.Paused {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = append(buf, c.Bump)
	return buf
}

// DecodeConfig parses the program configuration account.
func DecodeConfig(data []byte) (*Config, error) {
	r := newReader(data)

	disc, err := r.bytes(8)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(disc, ConfigDiscriminator[:]) {
		return nil, model.Ef(model.KindValidation, "not a shield config account")
	}

	var c Config
	if err := r.array(c.Authority[:]); err != nil {
		return nil, err
	}
	fee, err := r.bytes(2)
	if err != nil {
		return nil, err
	}
	c.FeeBps = binary.LittleEndian.Uint16(fee)
	paused, err := r.byte()
	if err != nil {
		return nil, err
	}
	c.Paused = paused == 1
	if c.Bump, err = r.byte(); err != nil {
		return nil, err
	}
	if err := r.done(); err != nil {
		return nil, err
	}
	return &c, nil
}

func appendBytes32(buf, b []byte) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(b)))
	return append(buf, b...)
}

// reader is a strict cursor over a wire buffer: every short read is a
// validation error, and done() rejects trailing bytes.
type reader struct {
	data []byte
	off  int
}

func newReader(data []byte) *reader { return &reader{data: data} }

func (r *reader) bytes(n int) ([]byte, error) {
	if r.off+n > len(r.data) {
		return nil, model.Ef(model.KindValidation, "truncated buffer at offset %d", r.off)
	}
	out := r.data[r.off : r.off+n]
	r.off += n
	return out, nil
}

func (r *reader) array(dst []byte) error {
	b, err := r.bytes(len(dst))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

func (r *reader) byte() (byte, error) {
	b, err := r.bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) uint64() (uint64, error) {
	b, err := r.bytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// bytes32 reads a u32 length prefix followed by that many bytes.
func (r *reader) bytes32() ([]byte, error) {
	lb, err := r.bytes(4)
	if err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint32(lb)
	if uint64(r.off)+uint64(n) > uint64(len(r.data)) {
		return nil, model.Ef(model.KindValidation, "length prefix %d exceeds buffer", n)
	}
	b, err := r.bytes(int(n))
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

func (r *reader) done() error {
	if r.off != len(r.data) {
		return model.Ef(model.KindValidation, "%d trailing bytes after decode", len(r.data)-r.off)
	}
	return nil
}
