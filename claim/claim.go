// Package claim builds the transaction that spends a shielded transfer to
// a recipient wallet. Authorization comes from the one-time spending
// scalar, not from an account keypair: the claimer proves control of the
// stealth recipient key by signing the claim message with the derived
// scalar directly.
package claim

import (
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"

	"filippo.io/edwards25519"

	"github.com/AlexZinkM/sip-wallet/internal/curve"
	"github.com/AlexZinkM/sip-wallet/internal/model"
	"github.com/AlexZinkM/sip-wallet/shield"

	"github.com/gagliardetto/solana-go"
)

const signDomain = "sip-wallet/claim-signing/v1"

// NullifierLen is the length of a claim nullifier.
const NullifierLen = sha256.Size

// ComputeNullifier binds the spend marker to both the record and the
// one-time spending scalar. The same scalar against a different record
// yields a different nullifier, so nothing links two claims by the same
// recipient.
func ComputeNullifier(recordAddr solana.PublicKey, scalar *edwards25519.Scalar) [NullifierLen]byte {
	h := sha256.New()
	h.Write(recordAddr[:])
	h.Write(scalar.Bytes())
	var out [NullifierLen]byte
	copy(out[:], h.Sum(nil))
	return out
}

// SignWithScalar produces a signature over message from a raw scalar.
// crypto/ed25519 only signs from a seed, which the one-time spending
// scalar does not have: it is the sum of the wallet scalar and a tweak.
// The nonce prefix is synthesized by hashing the scalar under a domain
// tag, and the rest follows the standard construction, so the result
// verifies under ed25519.Verify against the scalar's public key.
func SignWithScalar(message []byte, scalar *edwards25519.Scalar) ([]byte, error) {
	scalarBytes := scalar.Bytes()
	defer curve.Zero(scalarBytes)

	publicKey := curve.PublicKey(scalar)

	prefix := sha512.Sum512(append([]byte(signDomain), scalarBytes...))
	defer curve.Zero(prefix[:])

	r := curve.ScalarFromHash(prefix[:], message)
	R := new(edwards25519.Point).ScalarBaseMult(r)

	// The challenge must be exactly SHA-512(R || A || M) reduced mod L,
	// or the verifier recomputes a different k and rejects.
	k := curve.ScalarFromHash(R.Bytes(), publicKey, message)

	S := new(edwards25519.Scalar).MultiplyAdd(k, scalar, r)

	sig := make([]byte, 0, ed25519.SignatureSize)
	sig = append(sig, R.Bytes()...)
	sig = append(sig, S.Bytes()...)
	return sig, nil
}

// Request is a fully derived claim, ready to be wrapped in a transaction.
// The nullifier account must not exist yet; the program creates it on a
// successful claim, which is what makes claiming a one-shot operation.
type Request struct {
	Nullifier        [NullifierLen]byte
	NullifierAddress solana.PublicKey
	Instruction      solana.Instruction
}

// Build derives a claim request for a transfer record. The scalar is
// checked against the record's stealth recipient before any nullifier or
// signature work: a mismatch means these funds were never addressed to
// this scalar, and failing fast avoids emitting a useless on-chain probe.
func Build(programID, recordAddr solana.PublicKey, record *shield.TransferRecord, scalar *edwards25519.Scalar, recipient solana.PublicKey) (*Request, error) {
	if record.Claimed {
		return nil, model.Ef(model.KindValidation, "transfer already claimed")
	}

	derived := curve.PublicKey(scalar)
	if subtle.ConstantTimeCompare(derived, record.StealthRecipient[:]) != 1 {
		return nil, model.Ef(model.KindCrypto, "spending scalar does not control this transfer")
	}

	nullifier := ComputeNullifier(recordAddr, scalar)
	nullifierAddr, _, err := shield.NullifierAddress(programID, nullifier[:])
	if err != nil {
		return nil, err
	}

	// The signed message binds the record, the nullifier, and the payout
	// destination, so a captured claim cannot be replayed with a swapped
	// recipient.
	message := make([]byte, 0, 32+NullifierLen+32)
	message = append(message, recordAddr[:]...)
	message = append(message, nullifier[:]...)
	message = append(message, recipient[:]...)

	sig, err := SignWithScalar(message, scalar)
	if err != nil {
		return nil, err
	}

	data := make([]byte, 0, 8+NullifierLen+len(sig))
	data = append(data, shield.ClaimInstructionTag[:]...)
	data = append(data, nullifier[:]...)
	data = append(data, sig...)

	accounts := solana.AccountMetaSlice{
		solana.Meta(recordAddr).WRITE(),
		solana.Meta(nullifierAddr).WRITE(),
		solana.Meta(recipient).WRITE(),
		solana.Meta(solana.SystemProgramID),
	}

	return &Request{
		Nullifier:        nullifier,
		NullifierAddress: nullifierAddr,
		Instruction:      solana.NewInstruction(programID, accounts, data),
	}, nil
}
