package provider

import (
	"context"
	"sync"
	"time"

	"github.com/AlexZinkM/sip-wallet/internal/common"
	"github.com/AlexZinkM/sip-wallet/internal/curve"
	"github.com/AlexZinkM/sip-wallet/internal/model"
	"github.com/AlexZinkM/sip-wallet/proof"
	"github.com/AlexZinkM/sip-wallet/shield"
	"github.com/AlexZinkM/sip-wallet/stealth"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// feeBufferLamports is reserved on top of the transfer amount for the
// transaction fee and record account rent.
const feeBufferLamports = 3_000_000

// maxSubmitAttempts bounds submission retries. Every attempt regenerates
// the ephemeral key and the blinding factor from scratch: reusing a
// blinding factor across two commitments leaks the amount by subtraction.
const maxSubmitAttempts = 2

// SentTransfer is the locally recorded outcome of a confirmed send. It is
// only appended after ledger confirmation, so the local history never
// claims a transfer the chain does not have.
type SentTransfer struct {
	Signature     solana.Signature
	RecordAddress solana.PublicKey
	Amount        uint64
	Timestamp     time.Time
}

// NativeAdapter drives the shielded transfer program directly.
type NativeAdapter struct {
	network string
	ledger  Ledger
	prover  proof.Prover
	log     *zap.Logger

	mu    sync.Mutex
	ready bool
	sent  []SentTransfer
}

// NewNativeAdapter wires the native shielded path against a ledger client
// and a proving backend.
func NewNativeAdapter(network string, ledger Ledger, prover proof.Prover, log *zap.Logger) *NativeAdapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &NativeAdapter{
		network: network,
		ledger:  ledger,
		prover:  prover,
		log:     log,
	}
}

func (a *NativeAdapter) ID() string   { return NativeID }
func (a *NativeAdapter) Name() string { return "Native shielded transfers" }

// Initialize verifies the shield program is deployed and initialized on
// the configured cluster.
func (a *NativeAdapter) Initialize(ctx context.Context) error {
	if _, err := a.ledger.GetShieldConfig(ctx); err != nil {
		return err
	}
	a.mu.Lock()
	a.ready = true
	a.mu.Unlock()
	return nil
}

func (a *NativeAdapter) IsReady() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ready
}

func (a *NativeAdapter) SupportsFeature(f Feature) bool {
	switch f {
	case FeatureSend, FeatureViewingKeys, FeatureCompliance:
		return true
	}
	return false
}

// ValidateRecipient checks that the address parses as a meta-address for
// a chain this adapter can pay to.
func (a *NativeAdapter) ValidateRecipient(address string) error {
	meta, err := stealth.ParseMetaAddress(address)
	if err != nil {
		return err
	}
	if meta.Chain != stealth.ChainSolana {
		return model.Ef(model.KindValidation, "recipient chain %q not payable from %s", meta.Chain, a.network)
	}
	return nil
}

// SentTransfers returns the confirmed local send history.
func (a *NativeAdapter) SentTransfers() []SentTransfer {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]SentTransfer, len(a.sent))
	copy(out, a.sent)
	return out
}

// Send runs the full shielded send flow: validate recipient, check the
// on-chain config and balance before any proof work, derive a one-time
// address, commit and encrypt the amount, prove, encode, hand the
// transaction to the sign callback, submit and wait for confirmation.
func (a *NativeAdapter) Send(ctx context.Context, params SendParams, sign SignFunc, onStatus StatusFunc) (*Result, error) {
	return a.send(ctx, params, nil, sign, onStatus)
}

// Swap is not part of the native protocol surface.
func (a *NativeAdapter) Swap(ctx context.Context, params SwapParams, sign SignFunc, onStatus StatusFunc) (*Result, error) {
	return nil, model.Ef(model.KindValidation, "provider %q does not support swaps", NativeID)
}

func (a *NativeAdapter) send(ctx context.Context, params SendParams, tokenMint *solana.PublicKey, sign SignFunc, onStatus StatusFunc) (*Result, error) {
	status := newStatusEmitter(onStatus)
	status.emit(StatusValidating)

	meta, err := stealth.ParseMetaAddress(params.Recipient)
	if err != nil {
		return nil, status.fail(err)
	}
	if meta.Chain != stealth.ChainSolana {
		return nil, status.fail(model.Ef(model.KindValidation, "recipient chain %q not payable from %s", meta.Chain, a.network))
	}

	lamports, err := common.SOLToLamports(params.Amount)
	if err != nil {
		return nil, status.fail(model.E(model.KindValidation, "invalid amount", err))
	}
	if lamports == 0 {
		return nil, status.fail(model.Ef(model.KindValidation, "amount must be positive"))
	}

	// Paused program and insufficient funds are both checked before any
	// cryptographic work, so a transfer that cannot post never pays the
	// proof-generation cost.
	cfg, err := a.ledger.GetShieldConfig(ctx)
	if err != nil {
		return nil, status.fail(err)
	}
	if cfg.Paused {
		return nil, status.fail(model.Ef(model.KindLedger, "shield program is paused"))
	}

	balance, err := a.ledger.GetBalanceLamports(ctx, params.Payer)
	if err != nil {
		return nil, status.fail(err)
	}
	if balance < lamports+feeBufferLamports {
		return nil, status.fail(model.Ef(model.KindLedger,
			"insufficient funds: have %s SOL, need %s SOL plus fees",
			common.LamportsToSOL(balance), params.Amount))
	}

	status.emit(StatusPreparing)

	var lastErr error
	for attempt := 1; attempt <= maxSubmitAttempts; attempt++ {
		result, err := a.attemptSend(ctx, meta, lamports, params.Payer, tokenMint, sign, status)
		if err == nil {
			status.emit(StatusConfirmed)
			a.recordSent(result, lamports)
			return result, nil
		}
		lastErr = err

		// Only a ledger-side submission failure is worth a fresh attempt;
		// validation and crypto failures will not improve on retry.
		if !model.IsKind(err, model.KindLedger) || attempt == maxSubmitAttempts {
			break
		}
		a.log.Warn("shielded send attempt failed, retrying with fresh randomness",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	return nil, status.fail(lastErr)
}

// attemptSend performs one derivation-to-confirmation pass. All secret
// material generated here is zeroed on every exit path.
func (a *NativeAdapter) attemptSend(ctx context.Context, meta *stealth.MetaAddress, lamports uint64, payer solana.PublicKey, tokenMint *solana.PublicKey, sign SignFunc, status *statusEmitter) (*Result, error) {
	ota, ephSeed, err := stealth.DeriveOneTimeAddress(meta)
	if err != nil {
		return nil, err
	}
	defer curve.Zero(ephSeed)

	sharedSecret, err := shield.DeriveSharedSecret(ephSeed, meta.ViewingPublicKey)
	if err != nil {
		return nil, err
	}
	defer curve.Zero(sharedSecret)

	commitment, err := shield.NewCommitment(lamports)
	if err != nil {
		return nil, err
	}
	defer commitment.Zero()

	encAmount, err := shield.EncryptAmount(lamports, sharedSecret)
	if err != nil {
		return nil, err
	}

	proofBytes, err := a.prover.Prove(commitment.Commitment[:], commitment.BlindingFactor, lamports)
	if err != nil {
		return nil, model.E(model.KindCrypto, "proof generation failed", err)
	}

	ix := &shield.TransferInstruction{
		Commitment:      commitment.Commitment,
		EncryptedAmount: encAmount.Bytes(),
		Proof:           proofBytes,
		Amount:          lamports,
	}
	copy(ix.StealthPubkey[:], ota.Address)
	ix.EphemeralPubkey, err = shield.CompressPoint(ota.EphemeralPublicKey)
	if err != nil {
		return nil, err
	}
	ix.ViewingKeyHash = shield.ViewingKeyHash(meta.ViewingPublicKey)

	programID := a.ledger.ProgramID()
	configAddr, _, err := shield.ConfigAddress(programID)
	if err != nil {
		return nil, err
	}
	recordAddr, _, err := shield.TransferRecordAddress(programID, ota.Address, ota.EphemeralPublicKey)
	if err != nil {
		return nil, err
	}

	accounts := solana.AccountMetaSlice{
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(configAddr),
		solana.Meta(recordAddr).WRITE(),
		solana.Meta(solana.SystemProgramID),
	}
	if tokenMint != nil {
		accounts = append(accounts, solana.Meta(*tokenMint))
	}
	instruction := solana.NewInstruction(programID, accounts, ix.Encode())

	blockhash, err := a.ledger.LatestBlockhash(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{instruction},
		blockhash,
		solana.TransactionPayer(payer),
	)
	if err != nil {
		return nil, model.E(model.KindLedger, "failed to build transaction", err)
	}

	status.emit(StatusSigning)
	if err := sign(tx); err != nil {
		return nil, model.E(model.KindAuth, "transaction signing rejected", err)
	}

	status.emit(StatusSubmitting)
	sig, err := a.ledger.SendTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := a.ledger.ConfirmTransaction(ctx, sig); err != nil {
		return nil, err
	}

	a.log.Info("shielded transfer confirmed",
		zap.String("signature", sig.String()),
		zap.String("record", recordAddr.String()),
	)
	return &Result{Signature: sig, RecordAddress: recordAddr}, nil
}

func (a *NativeAdapter) recordSent(result *Result, lamports uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sent = append(a.sent, SentTransfer{
		Signature:     result.Signature,
		RecordAddress: result.RecordAddress,
		Amount:        lamports,
		Timestamp:     time.Now(),
	})
}

var _ Adapter = (*NativeAdapter)(nil)
