package shield

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/AlexZinkM/sip-wallet/internal/curve"
	"github.com/AlexZinkM/sip-wallet/internal/model"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	sharedSecretDomain = "sip-wallet/shared-secret/v1"
	amountKeyDomain    = "sip-wallet/amount-key/v1"

	// NonceLen is the ChaCha20-Poly1305 nonce length.
	NonceLen = chacha20poly1305.NonceSize

	// SharedSecretLen is the length of a derived shared secret.
	SharedSecretLen = 32

	amountPlaintextLen = 8
)

// DeriveSharedSecret performs the ECDH scalar multiply (with the seed
// clamped per the curve's signing convention) and hashes the resulting
// point. The sender calls it with (ephemeral seed, recipient viewing pub);
// the recipient with (viewing seed, ephemeral pub); both derive the same
// 32 bytes.
func DeriveSharedSecret(privateSeed, publicKey []byte) ([]byte, error) {
	s, err := curve.ScalarFromSeed(privateSeed)
	if err != nil {
		return nil, err
	}
	p, err := curve.DecodePoint(publicKey)
	if err != nil {
		return nil, model.E(model.KindValidation, "invalid public key", err)
	}

	shared := curve.SharedPoint(s, p)
	h := sha256.New()
	h.Write([]byte(sharedSecretDomain))
	h.Write(shared)
	return h.Sum(nil), nil
}

// EncryptedAmount is the authenticated ciphertext of the 8-byte
// little-endian transfer amount.
type EncryptedAmount struct {
	Nonce      []byte
	Ciphertext []byte
}

// Bytes serializes nonce followed by ciphertext, the form carried inside
// the length-prefixed instruction field.
func (e *EncryptedAmount) Bytes() []byte {
	out := make([]byte, 0, len(e.Nonce)+len(e.Ciphertext))
	out = append(out, e.Nonce...)
	out = append(out, e.Ciphertext...)
	return out
}

// ParseEncryptedAmount splits a serialized nonce||ciphertext blob.
func ParseEncryptedAmount(b []byte) (*EncryptedAmount, error) {
	if len(b) < NonceLen+amountPlaintextLen {
		return nil, model.Ef(model.KindValidation, "encrypted amount too short: %d bytes", len(b))
	}
	return &EncryptedAmount{
		Nonce:      append([]byte(nil), b[:NonceLen]...),
		Ciphertext: append([]byte(nil), b[NonceLen:]...),
	}, nil
}

func amountKey(sharedSecret []byte) []byte {
	h := sha256.New()
	h.Write([]byte(amountKeyDomain))
	h.Write(sharedSecret)
	return h.Sum(nil)
}

// EncryptAmount encrypts the amount under a key hashed from the shared
// secret, with a freshly drawn nonce.
func EncryptAmount(value uint64, sharedSecret []byte) (*EncryptedAmount, error) {
	key := amountKey(sharedSecret)
	defer clear(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	nonce := make([]byte, NonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to draw nonce: %w", err)
	}

	plaintext := make([]byte, amountPlaintextLen)
	binary.LittleEndian.PutUint64(plaintext, value)
	defer clear(plaintext)

	return &EncryptedAmount{
		Nonce:      nonce,
		Ciphertext: aead.Seal(nil, nonce, plaintext, nil),
	}, nil
}

// DecryptAmount is the inverse of EncryptAmount. It fails closed: any
// authentication failure (wrong secret, flipped bit in nonce or
// ciphertext) returns a crypto error, never partial plaintext.
func DecryptAmount(enc *EncryptedAmount, sharedSecret []byte) (uint64, error) {
	if len(enc.Nonce) != NonceLen {
		return 0, model.Ef(model.KindValidation, "nonce must be %d bytes", NonceLen)
	}

	key := amountKey(sharedSecret)
	defer clear(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return 0, fmt.Errorf("failed to create cipher: %w", err)
	}

	plaintext, err := aead.Open(nil, enc.Nonce, enc.Ciphertext, nil)
	if err != nil {
		return 0, model.E(model.KindCrypto, "amount decryption failed", nil)
	}
	defer clear(plaintext)

	if len(plaintext) != amountPlaintextLen {
		return 0, model.Ef(model.KindCrypto, "unexpected amount plaintext length %d", len(plaintext))
	}
	return binary.LittleEndian.Uint64(plaintext), nil
}

// ViewingKeyHash commits to the recipient's viewing public key inside the
// transfer record, letting a disclosed viewing key be matched to records
// for compliance review without identifying anyone else.
func ViewingKeyHash(viewingPublicKey []byte) [32]byte {
	return sha256.Sum256(viewingPublicKey)
}
