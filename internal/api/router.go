package api

import (
	"net/http"

	"github.com/AlexZinkM/sip-wallet/internal/client"
	"github.com/AlexZinkM/sip-wallet/internal/config"
	"github.com/AlexZinkM/sip-wallet/internal/handler"
	"github.com/AlexZinkM/sip-wallet/proof"
	"github.com/AlexZinkM/sip-wallet/provider"

	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// SetupRouter sets up router with handlers
func SetupRouter(log *zap.Logger) (http.Handler, error) {
	shieldClient, err := client.NewShieldClient()
	if err != nil {
		return nil, err
	}

	registry := provider.NewRegistry(provider.Options{
		Network: config.GetNetwork(),
		Ledger:  shieldClient,
		Prover:  proof.HashProver{},
		Log:     log,
	})

	stealthHandler, err := handler.NewStealthHandler(shieldClient, log)
	if err != nil {
		return nil, err
	}
	transferHandler, err := handler.NewTransferHandler(shieldClient, registry, log)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Stealth key endpoints
	mux.HandleFunc("/stealth/generate", stealthHandler.Generate)
	mux.HandleFunc("/stealth/meta", stealthHandler.Meta)
	mux.HandleFunc("/stealth/rotate", stealthHandler.Rotate)
	mux.HandleFunc("/stealth/scan", stealthHandler.Scan)

	// Transfer endpoints
	mux.HandleFunc("/transfer/send", transferHandler.Send)
	mux.HandleFunc("/transfer/claim", transferHandler.Claim)
	mux.HandleFunc("/providers", transferHandler.Providers)

	return mux, nil
}
