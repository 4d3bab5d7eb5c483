package client

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/AlexZinkM/sip-wallet/internal/config"
	"github.com/AlexZinkM/sip-wallet/internal/model"
	"github.com/AlexZinkM/sip-wallet/shield"
	"github.com/AlexZinkM/sip-wallet/stealth"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// ShieldClient is a client for working with the shielded transfer program
// over Solana RPC.
type ShieldClient struct {
	rpcClient *rpc.Client
	rpcURL    string
	programID solana.PublicKey
}

// NewShieldClient creates a new client against the configured RPC endpoint
// and shield program.
func NewShieldClient() (*ShieldClient, error) {
	programID, err := solana.PublicKeyFromBase58(config.GetShieldProgramID())
	if err != nil {
		return nil, fmt.Errorf("invalid shield program id: %w", err)
	}

	rpcURL := config.GetSolanaRPCURL()
	return &ShieldClient{
		rpcClient: rpc.New(rpcURL),
		rpcURL:    rpcURL,
		programID: programID,
	}, nil
}

// ProgramID returns the shield program this client talks to.
func (c *ShieldClient) ProgramID() solana.PublicKey {
	return c.programID
}

// GetBalanceLamports gets the SOL balance of an address in lamports.
func (c *ShieldClient) GetBalanceLamports(ctx context.Context, address solana.PublicKey) (uint64, error) {
	balance, err := c.rpcClient.GetBalance(ctx, address, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, model.E(model.KindLedger, "failed to get SOL balance", err)
	}
	return balance.Value, nil
}

// GetShieldConfig fetches and decodes the program configuration account.
// A missing account means the program was never initialized on this
// cluster, which is a ledger-state problem, not a client bug.
func (c *ShieldClient) GetShieldConfig(ctx context.Context) (*shield.Config, error) {
	addr, _, err := shield.ConfigAddress(c.programID)
	if err != nil {
		return nil, err
	}

	info, err := c.rpcClient.GetAccountInfo(ctx, addr)
	if err != nil {
		return nil, model.E(model.KindLedger, "failed to fetch shield config account", err)
	}
	if info.Value == nil {
		return nil, model.Ef(model.KindLedger, "shield program not initialized at %s", addr)
	}

	return shield.DecodeConfig(info.Value.Data.GetBinary())
}

// GetTransferRecord fetches and decodes a single transfer record account.
func (c *ShieldClient) GetTransferRecord(ctx context.Context, address solana.PublicKey) (*shield.TransferRecord, error) {
	info, err := c.rpcClient.GetAccountInfo(ctx, address)
	if err != nil {
		return nil, model.E(model.KindLedger, "failed to fetch transfer record", err)
	}
	if info.Value == nil {
		return nil, model.Ef(model.KindLedger, "transfer record %s does not exist", address)
	}

	return shield.DecodeTransferRecord(info.Value.Data.GetBinary())
}

// RecordAccount pairs a decoded transfer record with its on-chain address.
type RecordAccount struct {
	Address solana.PublicKey
	Record  *shield.TransferRecord
}

// ListTransferRecords fetches every transfer record owned by the shield
// program, filtered server-side on the account discriminator so unrelated
// program accounts never cross the wire.
func (c *ShieldClient) ListTransferRecords(ctx context.Context) ([]RecordAccount, error) {
	accounts, err := c.rpcClient.GetProgramAccountsWithOpts(
		ctx,
		c.programID,
		&rpc.GetProgramAccountsOpts{
			Commitment: rpc.CommitmentConfirmed,
			Filters: []rpc.RPCFilter{
				{
					Memcmp: &rpc.RPCFilterMemcmp{
						Offset: 0,
						Bytes:  solana.Base58(shield.TransferRecordDiscriminator[:]),
					},
				},
			},
		},
	)
	if err != nil {
		return nil, model.E(model.KindLedger, "failed to list transfer records", err)
	}

	records := make([]RecordAccount, 0, len(accounts))
	for _, acc := range accounts {
		rec, err := shield.DecodeTransferRecord(acc.Account.Data.GetBinary())
		if err != nil {
			// A record the program wrote but this build cannot decode
			// (newer layout revision); skip rather than fail the scan.
			continue
		}
		records = append(records, RecordAccount{Address: acc.Pubkey, Record: rec})
	}
	return records, nil
}

// Announcements converts unclaimed transfer records into scanner input.
// When viewing public keys are given, records are prefiltered on the
// viewing-key hash so the scanner only sees candidates that could belong
// to one of those keys; the record format carries no view tag, so the
// announcements are marked for the full ownership check.
func (c *ShieldClient) Announcements(ctx context.Context, viewingPublicKeys ...[]byte) ([]stealth.Announcement, error) {
	records, err := c.ListTransferRecords(ctx)
	if err != nil {
		return nil, err
	}

	hashes := make(map[[32]byte]bool, len(viewingPublicKeys))
	for _, pub := range viewingPublicKeys {
		hashes[sha256.Sum256(pub)] = true
	}

	anns := make([]stealth.Announcement, 0, len(records))
	for _, ra := range records {
		if ra.Record.Claimed {
			continue
		}
		if len(hashes) > 0 && !hashes[ra.Record.ViewingKeyHash] {
			continue
		}
		eph, err := shield.UncompressPoint(ra.Record.EphemeralPubkey)
		if err != nil {
			continue
		}

		ann := stealth.Announcement{
			OneTime: stealth.OneTimeAddress{
				Address:            ra.Record.StealthRecipient.Bytes(),
				EphemeralPublicKey: eph,
				NoViewTag:          true,
			},
		}
		copy(ann.RecordAddress[:], ra.Address.Bytes())
		anns = append(anns, ann)
	}
	return anns, nil
}

// LatestBlockhash fetches a recent blockhash for transaction assembly.
func (c *ShieldClient) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	recent, err := c.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, model.E(model.KindLedger, "failed to get latest blockhash", err)
	}
	return recent.Value.Blockhash, nil
}

// SendTransaction submits a signed transaction with preflight enabled.
func (c *ShieldClient) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.rpcClient.SendTransactionWithOpts(
		ctx,
		tx,
		rpc.TransactionOpts{
			SkipPreflight:       false,
			PreflightCommitment: rpc.CommitmentFinalized,
		},
	)
	if err != nil {
		return solana.Signature{}, model.E(model.KindLedger, "failed to send transaction", err)
	}
	return sig, nil
}

// ConfirmTransaction polls until the signature reaches confirmed
// commitment, the transaction fails, or the context expires.
func (c *ShieldClient) ConfirmTransaction(ctx context.Context, sig solana.Signature) error {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		statuses, err := c.rpcClient.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			return model.E(model.KindLedger, "failed to get signature status", err)
		}
		if len(statuses.Value) > 0 && statuses.Value[0] != nil {
			status := statuses.Value[0]
			if status.Err != nil {
				return model.Ef(model.KindLedger, "transaction %s failed: %v", sig, status.Err)
			}
			switch status.ConfirmationStatus {
			case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return model.E(model.KindLedger, "confirmation wait cancelled", ctx.Err())
		case <-ticker.C:
		}
	}
}
