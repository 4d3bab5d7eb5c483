package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/AlexZinkM/sip-wallet/internal/client"
	"github.com/AlexZinkM/sip-wallet/internal/common"
	"github.com/AlexZinkM/sip-wallet/internal/config"
	"github.com/AlexZinkM/sip-wallet/internal/crypto"
	"github.com/AlexZinkM/sip-wallet/internal/curve"
	"github.com/AlexZinkM/sip-wallet/internal/model"
	"github.com/AlexZinkM/sip-wallet/shield"
	"github.com/AlexZinkM/sip-wallet/stealth"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// StealthHandler serves the stealth key lifecycle: keystore generation,
// meta-address publication, rotation and payment scanning.
type StealthHandler struct {
	filePath string
	network  string
	client   *client.ShieldClient
	log      *zap.Logger
}

// NewStealthHandler creates a new StealthHandler with config values
func NewStealthHandler(c *client.ShieldClient, log *zap.Logger) (*StealthHandler, error) {
	filePath := config.GetSIPFilePath()
	if filePath == "" {
		return nil, errors.New("SIP_FILE_PATH not set")
	}
	return &StealthHandler{
		filePath: filePath,
		network:  config.GetNetwork(),
		client:   c,
		log:      log.Named("stealth"),
	}, nil
}

// Generate handles POST /stealth/generate
// @Summary      Generate stealth keystore
// @Description  Generates a fresh stealth key pair and saves the encrypted keystore to the .sip file
// @Tags         stealth
// @Accept       json
// @Produce      json
// @Success      200  {object}  model.GenerateResponse
// @Router       /stealth/generate [post]
func (h *StealthHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	passwordBytes, err := config.GetKeystorePasswordBytes()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	defer clear(passwordBytes)

	metaAddress, err := stealth.GenerateKeystore(h.filePath, stealth.ChainSolana, passwordBytes)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.GenerateResponse{
		Success:     true,
		Message:     "Stealth keystore generated successfully",
		MetaAddress: metaAddress,
	})
}

// Meta handles GET /stealth/meta
// @Summary      Get meta-address
// @Description  Returns the publishable meta-address and its QR code. Does not require the password.
// @Tags         stealth
// @Produce      json
// @Success      200  {object}  model.MetaResponse
// @Router       /stealth/meta [get]
func (h *StealthHandler) Meta(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	metaAddress, qr, err := crypto.ReadMetaAddressQR(h.filePath)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.MetaResponse{
		MetaAddress: metaAddress,
		QR:          qr,
		Network:     h.network,
	})
}

// Rotate handles POST /stealth/rotate
// @Summary      Rotate stealth keys
// @Description  Generates a fresh active key pair and archives the current one. Old payments stay claimable.
// @Tags         stealth
// @Accept       json
// @Produce      json
// @Success      200  {object}  model.RotateResponse
// @Router       /stealth/rotate [post]
func (h *StealthHandler) Rotate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	passwordBytes, err := config.GetKeystorePasswordBytes()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	defer clear(passwordBytes)

	metaAddress, err := stealth.RotateKeys(h.filePath, passwordBytes)
	if err != nil {
		writeError(w, err)
		return
	}

	h.log.Info("stealth keys rotated")
	writeJSON(w, http.StatusOK, model.RotateResponse{
		Success:     true,
		Message:     "Keys rotated; previous set archived",
		MetaAddress: metaAddress,
	})
}

// Scan handles POST /stealth/scan
// @Summary      Scan for incoming payments
// @Description  Checks unclaimed transfer records against the active and archived stealth keys
// @Tags         stealth
// @Produce      json
// @Success      200  {object}  model.ScanResponse
// @Router       /stealth/scan [post]
func (h *StealthHandler) Scan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	passwordBytes, err := config.GetKeystorePasswordBytes()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	defer clear(passwordBytes)

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

	viewingPubs := make([][]byte, 0, len(keys))
	for _, k := range keys {
		viewingPubs = append(viewingPubs, k.ViewingPublicKey)
	}

	anns, err := h.client.Announcements(r.Context(), viewingPubs...)
	if err != nil {
		writeError(w, err)
		return
	}

	scanner := stealth.NewScanner(
		config.GetScanBatchSize(),
		time.Duration(config.GetScanPauseMillis())*time.Millisecond,
		h.log,
	)
	matches, err := scanner.Scan(r.Context(), anns, keys)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := model.ScanResponse{
		Scanned: len(anns),
		Matches: make([]model.ScanMatch, 0, len(matches)),
	}
	for _, m := range matches {
		recordAddr := solana.PublicKeyFromBytes(m.Announcement.RecordAddress[:])
		resp.Matches = append(resp.Matches, model.ScanMatch{
			RecordAddress: recordAddr.String(),
			AmountSOL:     h.matchAmount(r, m, keys),
			Archived:      m.KeyIndex > 0,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// matchAmount decrypts the amount of a matched payment. Failure is not
// fatal to the scan: the match is still reported, just without an amount.
func (h *StealthHandler) matchAmount(r *http.Request, m stealth.Match, keys []*stealth.KeyPair) string {
	recordAddr := solana.PublicKeyFromBytes(m.Announcement.RecordAddress[:])
	rec, err := h.client.GetTransferRecord(r.Context(), recordAddr)
	if err != nil {
		h.log.Warn("failed to fetch matched record", zap.String("record", recordAddr.String()), zap.Error(err))
		return ""
	}

	secret, err := shield.DeriveSharedSecret(keys[m.KeyIndex].ViewingPrivateKey, m.Announcement.OneTime.EphemeralPublicKey)
	if err != nil {
		return ""
	}
	defer curve.Zero(secret)

	amount, err := shield.DecryptAmount(&rec.EncryptedAmount, secret)
	if err != nil {
		h.log.Warn("failed to decrypt matched amount", zap.String("record", recordAddr.String()))
		return ""
	}
	return common.LamportsToSOL(amount)
}
