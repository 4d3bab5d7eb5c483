package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// Note: the keystore password is prompted at runtime and stored in memory -
// use GetKeystorePasswordBytes()
type Config struct {
	Port            string `envconfig:"PORT" default:"8080"`
	SIPFilePath     string `envconfig:"SIP_FILE_PATH" required:"true"`
	SolanaRPCURL    string `envconfig:"SOLANA_RPC_URL" default:"https://api.mainnet-beta.solana.com"`
	Network         string `envconfig:"SOLANA_NETWORK" default:"mainnet-beta"`
	ShieldProgramID string `envconfig:"SHIELD_PROGRAM_ID" required:"true"`
	ScanBatchSize   int    `envconfig:"SCAN_BATCH_SIZE" default:"32"`
	ScanPauseMillis int    `envconfig:"SCAN_PAUSE_MILLIS" default:"50"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	cfg = &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetSIPFilePath returns path to the .sip keystore file from configuration
func GetSIPFilePath() string {
	return Get().SIPFilePath
}

// GetSolanaRPCURL returns Solana RPC URL from configuration
func GetSolanaRPCURL() string {
	return Get().SolanaRPCURL
}

// GetNetwork returns the Solana network name from configuration
func GetNetwork() string {
	return Get().Network
}

// GetShieldProgramID returns the shielded transfer program id from configuration
func GetShieldProgramID() string {
	return Get().ShieldProgramID
}

// GetScanBatchSize returns the ownership scan batch size from configuration
func GetScanBatchSize() int {
	return Get().ScanBatchSize
}

// GetScanPauseMillis returns the pause between scan batches from configuration
func GetScanPauseMillis() int {
	return Get().ScanPauseMillis
}

var passwordBytes []byte

// PromptForPassword prompts the user for the keystore password in the terminal.
// The password is read without echoing (hidden input) and stored in memory.
// Call this at startup before the server begins handling requests.
func PromptForPassword() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, "Enter keystore password: ")
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return errors.New("password cannot be empty")
	}

	passwordBytes = make([]byte, len(raw))
	copy(passwordBytes, raw)
	clear(raw)
	return nil
}

// GetKeystorePasswordBytes returns the password stored in memory (from PromptForPassword).
// Returns an error if the password was not set.
// Caller must zero the returned slice after use for security.
func GetKeystorePasswordBytes() ([]byte, error) {
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call PromptForPassword at startup")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}
