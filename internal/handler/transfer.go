package handler

import (
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AlexZinkM/sip-wallet/claim"
	"github.com/AlexZinkM/sip-wallet/internal/client"
	"github.com/AlexZinkM/sip-wallet/internal/common"
	"github.com/AlexZinkM/sip-wallet/internal/config"
	"github.com/AlexZinkM/sip-wallet/internal/curve"
	"github.com/AlexZinkM/sip-wallet/internal/model"
	"github.com/AlexZinkM/sip-wallet/provider"
	"github.com/AlexZinkM/sip-wallet/shield"
	"github.com/AlexZinkM/sip-wallet/stealth"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"go.uber.org/zap"
)

// TransferHandler serves shielded sends, claims and the provider listing.
type TransferHandler struct {
	filePath string
	network  string
	client   *client.ShieldClient
	registry *provider.Registry
	log      *zap.Logger
}

// NewTransferHandler creates a new TransferHandler with config values
func NewTransferHandler(c *client.ShieldClient, registry *provider.Registry, log *zap.Logger) (*TransferHandler, error) {
	filePath := config.GetSIPFilePath()
	if filePath == "" {
		return nil, errors.New("SIP_FILE_PATH not set")
	}
	return &TransferHandler{
		filePath: filePath,
		network:  config.GetNetwork(),
		client:   c,
		registry: registry,
		log:      log.Named("transfer"),
	}, nil
}

// walletKey derives the wallet's on-chain signing keypair from the active
// spending seed. The seed-to-scalar clamping matches crypto/ed25519, so
// the derived address is stable across the stealth and signing paths.
// Caller must zero the returned key after use.
func (h *TransferHandler) walletKey(password []byte) (solana.PrivateKey, error) {
	keys, err := stealth.ActiveKeys(h.filePath, password)
	if err != nil {
		return nil, err
	}
	defer keys.Zero()

	priv := ed25519.NewKeyFromSeed(keys.SpendingPrivateKey)
	return solana.PrivateKey(priv), nil
}

// Send handles POST /transfer/send
// @Summary      Send a shielded transfer
// @Description  Derives a one-time address for the recipient's meta-address and posts a shielded transfer through the selected privacy provider
// @Tags         transfer
// @Accept       json
// @Produce      json
// @Param        request  body      model.SendRequest  true  "Transfer data"
// @Success      200      {object}  model.SendResponse
// @Router       /transfer/send [post]
func (h *TransferHandler) Send(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	providerID := req.Provider
	if providerID == "" {
		providerID = provider.NativeID
	}

	passwordBytes, err := config.GetKeystorePasswordBytes()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	defer clear(passwordBytes)

	wallet, err := h.walletKey(passwordBytes)
	if err != nil {
		writeError(w, err)
		return
	}
	defer curve.Zero(wallet)

	adapter, err := h.registry.GetAdapter(r.Context(), providerID, h.network)
	if err != nil {
		writeError(w, err)
		return
	}

	var statuses []string
	result, err := adapter.Send(r.Context(), provider.SendParams{
		Recipient: req.Recipient,
		Amount:    req.AmountSOL,
		Payer:     wallet.PublicKey(),
	}, func(tx *solana.Transaction) error {
		_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
			if wallet.PublicKey().Equals(key) {
				return &wallet
			}
			return nil
		})
		return err
	}, func(s provider.Status) {
		statuses = append(statuses, string(s))
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.SendResponse{
		Success:        true,
		Signature:      result.Signature.String(),
		RecordAddress:  result.RecordAddress.String(),
		Statuses:       statuses,
		Fallback:       result.Fallback,
		FallbackReason: result.FallbackReason,
	})
}

// Claim handles POST /transfer/claim
// @Summary      Claim a shielded transfer
// @Description  Derives the one-time spending key for a matched transfer record and claims the funds to the wallet address
// @Tags         transfer
// @Accept       json
// @Produce      json
// @Param        request  body      model.ClaimRequest  true  "Claim data"
// @Success      200      {object}  model.ClaimResponse
// @Router       /transfer/claim [post]
func (h *TransferHandler) Claim(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	recordAddr, err := solana.PublicKeyFromBase58(req.RecordAddress)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid record address"})
		return
	}

	passwordBytes, err := config.GetKeystorePasswordBytes()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	defer clear(passwordBytes)

	rec, err := h.client.GetTransferRecord(r.Context(), recordAddr)
	if err != nil {
		writeError(w, err)
		return
	}

	keys, err := stealth.AllKeys(h.filePath, passwordBytes)
	if err != nil {
		writeError(w, err)
		return
	}
	defer func() {
		for _, k := range keys {
			k.Zero()
		}
	}()

	stealthPub, err := rec.OneTimePubkey()
	if err != nil {
		writeError(w, err)
		return
	}
	eph, err := shield.UncompressPoint(rec.EphemeralPubkey)
	if err != nil {
		writeError(w, err)
		return
	}
	candidate := &stealth.OneTimeAddress{
		Address:            stealthPub,
		EphemeralPublicKey: eph,
		NoViewTag:          true,
	}

	owner := -1
	for i, k := range keys {
		owned, err := stealth.CheckOwnership(candidate, k.SpendingPrivateKey, k.ViewingPrivateKey)
		if err != nil {
			writeError(w, err)
			return
		}
		if owned {
			owner = i
			break
		}
	}
	if owner < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "transfer does not belong to this wallet"})
		return
	}

	scalar, err := stealth.DeriveSpendingScalar(candidate, keys[owner].SpendingPrivateKey, keys[owner].ViewingPrivateKey)
	if err != nil {
		writeError(w, err)
		return
	}

	wallet, err := h.walletKey(passwordBytes)
	if err != nil {
		writeError(w, err)
		return
	}
	defer curve.Zero(wallet)

	claimReq, err := claim.Build(h.client.ProgramID(), recordAddr, rec, scalar, wallet.PublicKey())
	if err != nil {
		writeError(w, err)
		return
	}

	blockhash, err := h.client.LatestBlockhash(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	tx, err := solana.NewTransaction(
		[]solana.Instruction{claimReq.Instruction},
		blockhash,
		solana.TransactionPayer(wallet.PublicKey()),
	)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if wallet.PublicKey().Equals(key) {
			return &wallet
		}
		return nil
	}); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	sig, err := h.client.SendTransaction(r.Context(), tx)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.client.ConfirmTransaction(r.Context(), sig); err != nil {
		writeError(w, err)
		return
	}

	h.log.Info("shielded transfer claimed",
		zap.String("signature", sig.String()),
		zap.String("record", recordAddr.String()),
	)
	writeJSON(w, http.StatusOK, model.ClaimResponse{
		Success:   true,
		Signature: sig.String(),
		Nullifier: base58.Encode(claimReq.Nullifier[:]),
		AmountSOL: h.claimedAmount(rec, keys[owner]),
	})
}

// claimedAmount decrypts the claimed amount for the response; failure just
// omits the field.
func (h *TransferHandler) claimedAmount(rec *shield.TransferRecord, keys *stealth.KeyPair) string {
	eph, err := shield.UncompressPoint(rec.EphemeralPubkey)
	if err != nil {
		return ""
	}
	secret, err := shield.DeriveSharedSecret(keys.ViewingPrivateKey, eph)
	if err != nil {
		return ""
	}
	defer curve.Zero(secret)

	amount, err := shield.DecryptAmount(&rec.EncryptedAmount, secret)
	if err != nil {
		return ""
	}
	return common.LamportsToSOL(amount)
}

// Providers handles GET /providers
// @Summary      List privacy providers
// @Description  Lists the available privacy backends with readiness and capability flags
// @Tags         providers
// @Produce      json
// @Success      200  {object}  model.ProvidersResponse
// @Router       /providers [get]
func (h *TransferHandler) Providers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	features := []provider.Feature{
		provider.FeatureSend,
		provider.FeatureSwap,
		provider.FeatureViewingKeys,
		provider.FeatureCompliance,
	}

	resp := model.ProvidersResponse{Providers: make([]model.ProviderInfo, 0, len(provider.Known()))}
	for _, id := range provider.Known() {
		adapter, err := h.registry.GetAdapter(r.Context(), id, h.network)
		if err != nil {
			resp.Providers = append(resp.Providers, model.ProviderInfo{ID: id, Ready: false})
			continue
		}

		info := model.ProviderInfo{
			ID:       adapter.ID(),
			Name:     adapter.Name(),
			Ready:    adapter.IsReady(),
			Features: make(map[string]bool, len(features)),
		}
		for _, f := range features {
			info.Features[string(f)] = adapter.SupportsFeature(f)
		}
		resp.Providers = append(resp.Providers, info)
	}

	writeJSON(w, http.StatusOK, resp)
}
