// Package curve wraps the edwards25519 arithmetic shared by the stealth,
// shield and claim packages: seed-to-scalar clamping, wide-reduced hash
// scalars, and strict compressed-point decoding.
package curve

import (
	"crypto/rand"
	"crypto/sha512"
	"errors"
	"fmt"
	"io"

	"filippo.io/edwards25519"
)

const (
	// SeedLen is the length of a raw private key seed.
	SeedLen = 32
	// PointLen is the length of a compressed curve point.
	PointLen = 32
	// ScalarLen is the length of a canonical scalar encoding.
	ScalarLen = 32
)

var (
	// ErrInvalidPoint is returned when bytes do not decode to a curve point.
	ErrInvalidPoint = errors.New("invalid curve point encoding")
	// ErrInvalidScalar is returned when bytes are not a canonical scalar.
	ErrInvalidScalar = errors.New("invalid scalar encoding")
	// ErrInvalidSeed is returned when a private key seed has the wrong length.
	ErrInvalidSeed = errors.New("invalid seed length")
)

// NewSeed draws a fresh 32-byte private key seed from crypto/rand.
func NewSeed() ([]byte, error) {
	seed := make([]byte, SeedLen)
	if _, err := io.ReadFull(rand.Reader, seed); err != nil {
		return nil, fmt.Errorf("failed to draw seed: %w", err)
	}
	return seed, nil
}

// ScalarFromSeed converts a raw 32-byte seed into a clamped scalar using the
// ed25519 signing convention: SHA-512 the seed and clamp the low 32 bytes.
// The matching public key is scalar*G, identical to crypto/ed25519's.
func ScalarFromSeed(seed []byte) (*edwards25519.Scalar, error) {
	if len(seed) != SeedLen {
		return nil, ErrInvalidSeed
	}
	h := sha512.Sum512(seed)
	s, err := edwards25519.NewScalar().SetBytesWithClamping(h[:32])
	if err != nil {
		return nil, fmt.Errorf("failed to clamp seed: %w", err)
	}
	return s, nil
}

// ScalarFromHash hashes the given byte strings with SHA-512 and reduces the
// 64-byte digest modulo the group order. Used for tweaks, nonces and
// Fiat-Shamir style challenges; the wide reduction keeps the result uniform.
func ScalarFromHash(data ...[]byte) *edwards25519.Scalar {
	h := sha512.New()
	for _, d := range data {
		h.Write(d)
	}
	digest := h.Sum(nil)
	// SetUniformBytes only fails on a wrong input length; digest is 64 bytes.
	s, _ := edwards25519.NewScalar().SetUniformBytes(digest)
	return s
}

// ScalarFromBytes decodes a canonical 32-byte little-endian scalar.
func ScalarFromBytes(b []byte) (*edwards25519.Scalar, error) {
	if len(b) != ScalarLen {
		return nil, ErrInvalidScalar
	}
	s, err := edwards25519.NewScalar().SetCanonicalBytes(b)
	if err != nil {
		return nil, ErrInvalidScalar
	}
	return s, nil
}

// PublicKey returns the compressed public point scalar*G.
func PublicKey(s *edwards25519.Scalar) []byte {
	return new(edwards25519.Point).ScalarBaseMult(s).Bytes()
}

// PublicKeyFromSeed derives the compressed public point for a raw seed.
func PublicKeyFromSeed(seed []byte) ([]byte, error) {
	s, err := ScalarFromSeed(seed)
	if err != nil {
		return nil, err
	}
	return PublicKey(s), nil
}

// DecodePoint decodes a 32-byte compressed point, rejecting any encoding
// that is not on the curve.
func DecodePoint(b []byte) (*edwards25519.Point, error) {
	if len(b) != PointLen {
		return nil, ErrInvalidPoint
	}
	p, err := new(edwards25519.Point).SetBytes(b)
	if err != nil {
		return nil, ErrInvalidPoint
	}
	return p, nil
}

// ValidatePoint reports whether b is a valid compressed curve point.
func ValidatePoint(b []byte) bool {
	_, err := DecodePoint(b)
	return err == nil
}

// SharedPoint computes the ECDH point scalar*point and returns its
// compressed encoding.
func SharedPoint(s *edwards25519.Scalar, p *edwards25519.Point) []byte {
	return new(edwards25519.Point).ScalarMult(s, p).Bytes()
}

// AddTweak returns base + tweak*G, the additive one-time key derivation.
func AddTweak(base *edwards25519.Point, tweak *edwards25519.Scalar) *edwards25519.Point {
	tG := new(edwards25519.Point).ScalarBaseMult(tweak)
	return new(edwards25519.Point).Add(base, tG)
}

// Zero wipes a secret byte slice.
func Zero(b []byte) {
	clear(b)
}
