// @title           SIP Wallet API
// @version         1.0
// @description     Stealth-address shielded payment wallet
// @BasePath        /
package main

import (
	"net/http"

	"github.com/AlexZinkM/sip-wallet/internal/api"
	"github.com/AlexZinkM/sip-wallet/internal/config"

	_ "github.com/AlexZinkM/sip-wallet/docs"

	"go.uber.org/zap"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := config.Init(); err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	// The keystore password is prompted once at startup and held in
	// memory; it is never accepted over HTTP.
	if err := config.PromptForPassword(); err != nil {
		log.Fatal("failed to read keystore password", zap.Error(err))
	}

	router, err := api.SetupRouter(log)
	if err != nil {
		log.Fatal("failed to set up router", zap.Error(err))
	}

	port := config.GetPort()
	log.Info("sipd listening",
		zap.String("port", port),
		zap.String("network", config.GetNetwork()),
	)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
