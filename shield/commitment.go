// Package shield implements the shielded transfer codec: Pedersen value
// commitments, authenticated amount encryption, the on-chain instruction
// and account byte layouts, and deterministic program-derived addresses.
package shield

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/AlexZinkM/sip-wallet/internal/curve"
	"github.com/AlexZinkM/sip-wallet/internal/model"

	"filippo.io/edwards25519"
)

const (
	// CommitmentLen is the wire length of a commitment: a format byte
	// followed by the 32-byte compressed point.
	CommitmentLen = 33

	// commitmentPrefix tags the compressed-point encoding on the wire.
	commitmentPrefix = 0x02

	// hDomain seeds the second Pedersen generator. H is derived by hashing
	// this string with an incrementing counter until the digest decodes as
	// a curve point, so nobody knows log_G(H).
	hDomain = "sip-wallet/pedersen-generator-h/v1"

	// hMaxAttempts bounds the H derivation search.
	hMaxAttempts = 256
)

// generatorH is the blinding generator, fixed at startup. The derivation is
// deterministic and auditable: re-running it always lands on the same point.
var generatorH = deriveGeneratorH()

func deriveGeneratorH() *edwards25519.Point {
	for i := 0; i < hMaxAttempts; i++ {
		digest := sha256.Sum256(append([]byte(hDomain), byte(i)))
		if p, err := new(edwards25519.Point).SetBytes(digest[:]); err == nil {
			return p
		}
	}
	// Bounded search exhausted: fall back to hash(domain)*G, still
	// deterministic though no longer independent of G.
	return new(edwards25519.Point).ScalarBaseMult(curve.ScalarFromHash([]byte(hDomain)))
}

// Commitment is a Pedersen commitment C = value*G + blinding*H. The
// blinding factor is sender-side secret material: it feeds proof generation
// once and must be zeroed afterwards; it is never transmitted.
type Commitment struct {
	Commitment     [CommitmentLen]byte
	BlindingFactor []byte // 32-byte canonical scalar
}

// Zero wipes the blinding factor.
func (c *Commitment) Zero() {
	curve.Zero(c.BlindingFactor)
}

// NewCommitment commits to value with a freshly drawn blinding scalar.
func NewCommitment(value uint64) (*Commitment, error) {
	var wide [64]byte
	if _, err := io.ReadFull(rand.Reader, wide[:]); err != nil {
		return nil, fmt.Errorf("failed to draw blinding factor: %w", err)
	}
	blindingScalar, err := edwards25519.NewScalar().SetUniformBytes(wide[:])
	if err != nil {
		return nil, fmt.Errorf("failed to reduce blinding factor: %w", err)
	}
	clear(wide[:])

	blinding := blindingScalar.Bytes()
	point, err := commitmentPoint(value, blindingScalar)
	if err != nil {
		return nil, err
	}

	return &Commitment{
		Commitment:     encodeCommitment(point),
		BlindingFactor: blinding,
	}, nil
}

// Commit recomputes the commitment for a known (value, blinding) pair.
// Committing the same pair twice yields identical bytes.
func Commit(value uint64, blinding []byte) ([CommitmentLen]byte, error) {
	s, err := curve.ScalarFromBytes(blinding)
	if err != nil {
		return [CommitmentLen]byte{}, model.E(model.KindValidation, "invalid blinding factor", err)
	}
	point, err := commitmentPoint(value, s)
	if err != nil {
		return [CommitmentLen]byte{}, err
	}
	return encodeCommitment(point), nil
}

func commitmentPoint(value uint64, blinding *edwards25519.Scalar) (*edwards25519.Point, error) {
	var vbytes [32]byte
	binary.LittleEndian.PutUint64(vbytes[:8], value)
	v, err := edwards25519.NewScalar().SetCanonicalBytes(vbytes[:])
	if err != nil {
		return nil, fmt.Errorf("failed to encode value scalar: %w", err)
	}

	vG := new(edwards25519.Point).ScalarBaseMult(v)
	bH := new(edwards25519.Point).ScalarMult(blinding, generatorH)
	return new(edwards25519.Point).Add(vG, bH), nil
}

func encodeCommitment(p *edwards25519.Point) [CommitmentLen]byte {
	var out [CommitmentLen]byte
	out[0] = commitmentPrefix
	copy(out[1:], p.Bytes())
	return out
}

// CompressPoint prefixes a 32-byte compressed point for the 33-byte wire
// encoding shared by commitments and ephemeral keys.
func CompressPoint(p []byte) ([CommitmentLen]byte, error) {
	var out [CommitmentLen]byte
	if len(p) != curve.PointLen {
		return out, model.Ef(model.KindValidation, "point must be %d bytes", curve.PointLen)
	}
	out[0] = commitmentPrefix
	copy(out[1:], p)
	return out, nil
}

// UncompressPoint strips the wire prefix and returns the 32-byte point.
func UncompressPoint(b [CommitmentLen]byte) ([]byte, error) {
	if b[0] != commitmentPrefix {
		return nil, model.Ef(model.KindValidation, "unknown point format byte 0x%02x", b[0])
	}
	return append([]byte(nil), b[1:]...), nil
}
