package shield

import (
	"github.com/AlexZinkM/sip-wallet/internal/model"

	"github.com/gagliardetto/solana-go"
)

// Seed prefixes for the program-derived addresses owned by the shield
// program. These mirror the on-chain seeds exactly.
var (
	configSeed    = []byte("config")
	transferSeed  = []byte("transfer")
	nullifierSeed = []byte("nullifier")
)

// ConfigAddress derives the singleton program configuration account.
func ConfigAddress(programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress([][]byte{configSeed}, programID)
	if err != nil {
		return solana.PublicKey{}, 0, model.E(model.KindCrypto, "derive config address", err)
	}
	return addr, bump, nil
}

// TransferRecordAddress derives the record account for a shielded transfer.
// The stealth and ephemeral pubkeys together make the address unique per
// transfer, so a duplicate submission lands on an already-initialized
// account and fails on chain.
func TransferRecordAddress(programID solana.PublicKey, stealthPubkey, ephemeralPubkey []byte) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(
		[][]byte{transferSeed, stealthPubkey, ephemeralPubkey},
		programID,
	)
	if err != nil {
		return solana.PublicKey{}, 0, model.E(model.KindCrypto, "derive transfer record address", err)
	}
	return addr, bump, nil
}

// NullifierAddress derives the account whose existence marks a transfer as
// spent. Creating it twice fails, which is what enforces claim-once.
func NullifierAddress(programID solana.PublicKey, nullifier []byte) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(
		[][]byte{nullifierSeed, nullifier},
		programID,
	)
	if err != nil {
		return solana.PublicKey{}, 0, model.E(model.KindCrypto, "derive nullifier address", err)
	}
	return addr, bump, nil
}
