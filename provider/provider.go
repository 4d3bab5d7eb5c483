// Package provider abstracts the privacy engines a transfer can route
// through. Every backend implements the same Adapter surface; callers
// negotiate capabilities through SupportsFeature and never branch on the
// concrete type.
package provider

import (
	"context"

	"github.com/AlexZinkM/sip-wallet/shield"

	"github.com/gagliardetto/solana-go"
)

// Provider ids understood by the registry.
const (
	NativeID = "native"
	PoolID   = "pool"
	MPCID    = "mpc"
)

// Feature is a capability an adapter may or may not support.
type Feature string

const (
	FeatureSend        Feature = "send"
	FeatureSwap        Feature = "swap"
	FeatureViewingKeys Feature = "viewingKeys"
	FeatureCompliance  Feature = "compliance"
)

// Status is one step of an operation's lifecycle. The sequence is
// monotonic: validating, preparing, signing, submitting, then confirmed
// or error; error is terminal.
type Status string

const (
	StatusValidating Status = "validating"
	StatusPreparing  Status = "preparing"
	StatusSigning    Status = "signing"
	StatusSubmitting Status = "submitting"
	StatusConfirmed  Status = "confirmed"
	StatusError      Status = "error"
)

var statusRank = map[Status]int{
	StatusValidating: 1,
	StatusPreparing:  2,
	StatusSigning:    3,
	StatusSubmitting: 4,
	StatusConfirmed:  5,
	StatusError:      5,
}

// SignFunc signs an assembled transaction. Keeping signing in a callback
// keeps key custody out of the adapters entirely.
type SignFunc func(tx *solana.Transaction) error

// StatusFunc receives lifecycle updates during an operation. May be nil.
type StatusFunc func(Status)

// SendParams describes one shielded send.
type SendParams struct {
	// Recipient is the recipient's meta-address in text form.
	Recipient string
	// Amount is the transfer amount in SOL ("1.5").
	Amount string
	// Payer funds and signs the transaction.
	Payer solana.PublicKey
}

// SwapParams describes a shielded swap through a pool backend.
type SwapParams struct {
	Send SendParams
	// OutputMint is the mint of the token the recipient receives.
	OutputMint solana.PublicKey
}

// Result is the outcome of a completed send or swap.
type Result struct {
	Signature     solana.Signature
	RecordAddress solana.PublicKey
	// Fallback is set when the selected backend was unavailable and the
	// operation degraded to the native path.
	Fallback       bool
	FallbackReason string
}

// Ledger is the on-chain surface the adapters need. *client.ShieldClient
// implements it; tests substitute a fake.
type Ledger interface {
	ProgramID() solana.PublicKey
	GetBalanceLamports(ctx context.Context, address solana.PublicKey) (uint64, error)
	GetShieldConfig(ctx context.Context) (*shield.Config, error)
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	ConfirmTransaction(ctx context.Context, sig solana.Signature) error
}

// Adapter is the uniform surface every privacy backend implements.
type Adapter interface {
	ID() string
	Name() string
	Initialize(ctx context.Context) error
	IsReady() bool
	SupportsFeature(f Feature) bool
	ValidateRecipient(address string) error
	Send(ctx context.Context, params SendParams, sign SignFunc, onStatus StatusFunc) (*Result, error)
	Swap(ctx context.Context, params SwapParams, sign SignFunc, onStatus StatusFunc) (*Result, error)
}

// statusEmitter enforces the monotonic status sequence: a stage lower than
// one already emitted is dropped, and nothing follows a terminal stage.
type statusEmitter struct {
	fn   StatusFunc
	last int
	done bool
}

func newStatusEmitter(fn StatusFunc) *statusEmitter {
	return &statusEmitter{fn: fn}
}

func (e *statusEmitter) emit(s Status) {
	rank := statusRank[s]
	if e.done || rank <= e.last {
		return
	}
	e.last = rank
	if s == StatusConfirmed || s == StatusError {
		e.done = true
	}
	if e.fn != nil {
		e.fn(s)
	}
}

// fail emits the terminal error status and returns err unchanged, so
// every early return in a flow reports before unwinding.
func (e *statusEmitter) fail(err error) error {
	e.emit(StatusError)
	return err
}
