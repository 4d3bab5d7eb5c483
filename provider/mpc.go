package provider

import (
	"context"

	"github.com/AlexZinkM/sip-wallet/internal/model"
	"github.com/AlexZinkM/sip-wallet/proof"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// Backend is an external MPC signing service. Nil is a valid value for
// MPCAdapter.Backend and means the service is not configured.
type Backend interface {
	// Ready reports whether the service can currently co-sign.
	Ready(ctx context.Context) error
	// CoSign adds the service's signature shares to the transaction.
	CoSign(ctx context.Context, tx *solana.Transaction) error
}

// MPCAdapter sends through an MPC signing backend when one is available
// and degrades to the plain native path when it is not. Backend absence is
// ordinary data, not an error: the adapter stays usable and tags results
// that took the fallback path.
type MPCAdapter struct {
	// Backend may be nil.
	Backend Backend

	native *NativeAdapter
	log    *zap.Logger
}

// NewMPCAdapter wires the MPC path. backend may be nil.
func NewMPCAdapter(network string, ledger Ledger, prover proof.Prover, backend Backend, log *zap.Logger) *MPCAdapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &MPCAdapter{
		Backend: backend,
		native:  NewNativeAdapter(network, ledger, prover, log.Named("mpc")),
		log:     log,
	}
}

func (a *MPCAdapter) ID() string   { return MPCID }
func (a *MPCAdapter) Name() string { return "MPC co-signed shielded transfers" }

func (a *MPCAdapter) Initialize(ctx context.Context) error { return a.native.Initialize(ctx) }
func (a *MPCAdapter) IsReady() bool                        { return a.native.IsReady() }

func (a *MPCAdapter) SupportsFeature(f Feature) bool {
	switch f {
	case FeatureSend, FeatureViewingKeys, FeatureCompliance:
		return true
	}
	return false
}

func (a *MPCAdapter) ValidateRecipient(address string) error {
	return a.native.ValidateRecipient(address)
}

// Send routes through the MPC backend when it is ready; otherwise it runs
// the native path and tags the result as a fallback with the reason.
func (a *MPCAdapter) Send(ctx context.Context, params SendParams, sign SignFunc, onStatus StatusFunc) (*Result, error) {
	reason := a.backendUnavailable(ctx)
	if reason == "" {
		return a.native.Send(ctx, params, a.coSigning(sign), onStatus)
	}

	a.log.Warn("mpc backend unavailable, falling back to native path",
		zap.String("reason", reason),
	)
	result, err := a.native.Send(ctx, params, sign, onStatus)
	if err != nil {
		return nil, err
	}
	result.Fallback = true
	result.FallbackReason = reason
	return result, nil
}

func (a *MPCAdapter) Swap(ctx context.Context, params SwapParams, sign SignFunc, onStatus StatusFunc) (*Result, error) {
	return nil, model.Ef(model.KindValidation, "provider %q does not support swaps", MPCID)
}

// backendUnavailable returns "" when the backend can co-sign, otherwise
// the reason for falling back.
func (a *MPCAdapter) backendUnavailable(ctx context.Context) string {
	if a.Backend == nil {
		return "mpc backend not configured"
	}
	if err := a.Backend.Ready(ctx); err != nil {
		return "mpc backend not ready: " + err.Error()
	}
	return ""
}

// coSigning wraps the caller's sign callback so the backend's shares are
// added after the local signature.
func (a *MPCAdapter) coSigning(sign SignFunc) SignFunc {
	return func(tx *solana.Transaction) error {
		if err := sign(tx); err != nil {
			return err
		}
		if err := a.Backend.CoSign(context.Background(), tx); err != nil {
			return model.E(model.KindBackend, "mpc co-signing failed", err)
		}
		return nil
	}
}

var _ Adapter = (*MPCAdapter)(nil)
