package provider

import (
	"context"

	"github.com/AlexZinkM/sip-wallet/internal/model"
	"github.com/AlexZinkM/sip-wallet/proof"

	"go.uber.org/zap"
)

// PoolAdapter routes transfers through a mixing pool deployment of the same
// shield program. It reuses the native shielded pipeline and adds swap
// support: the pool settles the output leg in a different token, recorded
// through the transfer record's mint field.
type PoolAdapter struct {
	native *NativeAdapter
}

// NewPoolAdapter wires the pool path over a ledger client.
func NewPoolAdapter(network string, ledger Ledger, prover proof.Prover, log *zap.Logger) *PoolAdapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &PoolAdapter{
		native: NewNativeAdapter(network, ledger, prover, log.Named("pool")),
	}
}

func (a *PoolAdapter) ID() string   { return PoolID }
func (a *PoolAdapter) Name() string { return "Pool-mixed shielded transfers" }

func (a *PoolAdapter) Initialize(ctx context.Context) error { return a.native.Initialize(ctx) }
func (a *PoolAdapter) IsReady() bool                        { return a.native.IsReady() }

func (a *PoolAdapter) SupportsFeature(f Feature) bool {
	switch f {
	case FeatureSend, FeatureSwap:
		return true
	}
	return false
}

func (a *PoolAdapter) ValidateRecipient(address string) error {
	return a.native.ValidateRecipient(address)
}

func (a *PoolAdapter) Send(ctx context.Context, params SendParams, sign SignFunc, onStatus StatusFunc) (*Result, error) {
	return a.native.Send(ctx, params, sign, onStatus)
}

// Swap sends the input amount shielded and settles the output leg in the
// requested token. The pool program reads the mint from the trailing
// account and prices the leg from its configured fee.
func (a *PoolAdapter) Swap(ctx context.Context, params SwapParams, sign SignFunc, onStatus StatusFunc) (*Result, error) {
	if params.OutputMint.IsZero() {
		return nil, model.Ef(model.KindValidation, "swap requires an output mint")
	}
	mint := params.OutputMint
	return a.native.send(ctx, params.Send, &mint, sign, onStatus)
}

var _ Adapter = (*PoolAdapter)(nil)
