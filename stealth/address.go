package stealth

import (
	"crypto/sha512"
	"crypto/subtle"

	"github.com/AlexZinkM/sip-wallet/internal/curve"
	"github.com/AlexZinkM/sip-wallet/internal/model"

	"filippo.io/edwards25519"
)

// derivationDomain separates the stealth tweak hash from every other use of
// the shared point.
const derivationDomain = "sip-wallet/stealth-tweak/v1"

// OneTimeAddress is a single-use receiving address announced alongside a
// transfer. The view tag is the first byte of the derivation digest and
// lets a scanner drop 255/256 of non-matching announcements without the
// full point recomputation.
type OneTimeAddress struct {
	Address            []byte // 32-byte one-time public key
	EphemeralPublicKey []byte // 32-byte sender ephemeral point
	ViewTag            byte

	// NoViewTag marks announcements recovered from the on-ledger record
	// format, which does not carry the tag byte. Ownership checks skip
	// the tag prefilter and go straight to the full recomputation.
	NoViewTag bool
}

// derivationDigest hashes the shared point under the stealth domain. The
// first byte is the view tag; the full 64 bytes reduce to the tweak scalar.
func derivationDigest(sharedPoint []byte) [64]byte {
	h := sha512.New()
	h.Write([]byte(derivationDomain))
	h.Write(sharedPoint)
	var digest [64]byte
	copy(digest[:], h.Sum(nil))
	return digest
}

func tweakFromDigest(digest [64]byte) *edwards25519.Scalar {
	// SetUniformBytes only fails on a wrong input length.
	s, _ := edwards25519.NewScalar().SetUniformBytes(digest[:])
	return s
}

// DeriveOneTimeAddress derives a fresh one-time address for the recipient
// described by meta. A new ephemeral key pair is generated per call; its
// private seed is returned so the caller can derive the amount-encryption
// secret for the same transfer, and must be discarded right after.
//
// Shared point: ephemeralPriv * viewingPub. One-time key: spendingPub +
// tweak*G (additive, so only the spending key holder can recover the
// scalar).
func DeriveOneTimeAddress(meta *MetaAddress) (*OneTimeAddress, []byte, error) {
	if _, ok := recognizedChains[meta.Chain]; !ok {
		return nil, nil, model.Ef(model.KindValidation, "unrecognized chain %q", meta.Chain)
	}

	viewPoint, err := curve.DecodePoint(meta.ViewingPublicKey)
	if err != nil {
		return nil, nil, model.E(model.KindValidation, "invalid viewing public key", err)
	}
	spendPoint, err := curve.DecodePoint(meta.SpendingPublicKey)
	if err != nil {
		return nil, nil, model.E(model.KindValidation, "invalid spending public key", err)
	}

	ephSeed, err := curve.NewSeed()
	if err != nil {
		return nil, nil, err
	}
	ephScalar, err := curve.ScalarFromSeed(ephSeed)
	if err != nil {
		return nil, nil, err
	}

	shared := curve.SharedPoint(ephScalar, viewPoint)
	digest := derivationDigest(shared)
	tweak := tweakFromDigest(digest)

	oneTime := curve.AddTweak(spendPoint, tweak)

	return &OneTimeAddress{
		Address:            oneTime.Bytes(),
		EphemeralPublicKey: curve.PublicKey(ephScalar),
		ViewTag:            digest[0],
	}, ephSeed, nil
}

// CheckOwnership reports whether candidate was derived from the key pair
// holding spendingPrivate and viewingPrivate (raw 32-byte seeds).
//
// Two stages: the announced view tag is compared first (cheap rejection),
// and only on a match is the full one-time key recomputed and compared.
// Both comparisons go through crypto/subtle so the timing of a comparison
// does not depend on which bytes matched.
func CheckOwnership(candidate *OneTimeAddress, spendingPrivate, viewingPrivate []byte) (bool, error) {
	ephPoint, err := curve.DecodePoint(candidate.EphemeralPublicKey)
	if err != nil {
		return false, model.E(model.KindValidation, "invalid ephemeral public key", err)
	}

	viewScalar, err := curve.ScalarFromSeed(viewingPrivate)
	if err != nil {
		return false, err
	}

	shared := curve.SharedPoint(viewScalar, ephPoint)
	digest := derivationDigest(shared)

	if !candidate.NoViewTag && subtle.ConstantTimeByteEq(digest[0], candidate.ViewTag) != 1 {
		return false, nil
	}

	spendPub, err := curve.PublicKeyFromSeed(spendingPrivate)
	if err != nil {
		return false, err
	}
	spendPoint, err := curve.DecodePoint(spendPub)
	if err != nil {
		return false, err
	}

	derived := curve.AddTweak(spendPoint, tweakFromDigest(digest))
	return subtle.ConstantTimeCompare(derived.Bytes(), candidate.Address) == 1, nil
}

// DeriveSpendingScalar recovers the raw private scalar of the one-time
// address: spendingScalar + tweak (mod L), the additive mirror of the
// public derivation. The result is consumed by the claim protocol.
// Caller must not retain it longer than the claim needs.
func DeriveSpendingScalar(candidate *OneTimeAddress, spendingPrivate, viewingPrivate []byte) (*edwards25519.Scalar, error) {
	ephPoint, err := curve.DecodePoint(candidate.EphemeralPublicKey)
	if err != nil {
		return nil, model.E(model.KindValidation, "invalid ephemeral public key", err)
	}

	viewScalar, err := curve.ScalarFromSeed(viewingPrivate)
	if err != nil {
		return nil, err
	}
	spendScalar, err := curve.ScalarFromSeed(spendingPrivate)
	if err != nil {
		return nil, err
	}

	shared := curve.SharedPoint(viewScalar, ephPoint)
	digest := derivationDigest(shared)
	tweak := tweakFromDigest(digest)

	scalar := edwards25519.NewScalar().Add(spendScalar, tweak)

	// The recovered scalar must reproduce the announced address; anything
	// else means the candidate was not derived from these keys.
	if subtle.ConstantTimeCompare(curve.PublicKey(scalar), candidate.Address) != 1 {
		return nil, model.Ef(model.KindCrypto, "derived scalar does not match one-time address")
	}
	return scalar, nil
}
