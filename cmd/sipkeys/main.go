// Offline keystore management: generate, rotate, or print the meta-address
// without starting the HTTP server.
// Usage: go run ./cmd/sipkeys <generate|rotate|meta>
package main

import (
	"fmt"
	"os"

	"github.com/AlexZinkM/sip-wallet/internal/config"
	"github.com/AlexZinkM/sip-wallet/internal/crypto"
	"github.com/AlexZinkM/sip-wallet/stealth"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: sipkeys <generate|rotate|meta>")
		os.Exit(2)
	}

	if err := config.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	filePath := config.GetSIPFilePath()

	switch os.Args[1] {
	case "meta":
		metaAddress, err := crypto.ReadMetaAddress(filePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(metaAddress)

	case "generate":
		password := mustPassword()
		defer clear(password)

		metaAddress, err := stealth.GenerateKeystore(filePath, stealth.ChainSolana, password)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println("keystore created:", filePath)
		fmt.Println(metaAddress)

	case "rotate":
		password := mustPassword()
		defer clear(password)

		metaAddress, err := stealth.RotateKeys(filePath, password)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println("keys rotated; previous set archived")
		fmt.Println(metaAddress)

	default:
		fmt.Fprintln(os.Stderr, "unknown command:", os.Args[1])
		os.Exit(2)
	}
}

func mustPassword() []byte {
	if err := config.PromptForPassword(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	password, err := config.GetKeystorePasswordBytes()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return password
}
