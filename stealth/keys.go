package stealth

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AlexZinkM/sip-wallet/internal/crypto"
	"github.com/AlexZinkM/sip-wallet/internal/curve"
	"github.com/AlexZinkM/sip-wallet/internal/model"

	"github.com/skip2/go-qrcode"
)

// KeyPair holds one generation of stealth keys. Private keys are raw
// 32-byte seeds; public keys are 32-byte curve points (not derived
// addresses). The spending and viewing seeds are drawn independently,
// never one from the other.
type KeyPair struct {
	SpendingPrivateKey []byte
	SpendingPublicKey  []byte
	ViewingPrivateKey  []byte
	ViewingPublicKey   []byte
	CreatedAt          time.Time
}

// Zero wipes the private key seeds.
func (k *KeyPair) Zero() {
	curve.Zero(k.SpendingPrivateKey)
	curve.Zero(k.ViewingPrivateKey)
}

// MetaAddress returns the publishable meta-address for this key pair.
func (k *KeyPair) MetaAddress(chain string) *MetaAddress {
	return &MetaAddress{
		Chain:             chain,
		SpendingPublicKey: append([]byte(nil), k.SpendingPublicKey...),
		ViewingPublicKey:  append([]byte(nil), k.ViewingPublicKey...),
	}
}

// GenerateKeys draws two independent 32-byte seeds from a cryptographically
// secure source and derives their public points.
func GenerateKeys() (*KeyPair, error) {
	spendSeed, err := curve.NewSeed()
	if err != nil {
		return nil, fmt.Errorf("failed to generate spending key: %w", err)
	}
	viewSeed, err := curve.NewSeed()
	if err != nil {
		return nil, fmt.Errorf("failed to generate viewing key: %w", err)
	}

	spendPub, err := curve.PublicKeyFromSeed(spendSeed)
	if err != nil {
		return nil, err
	}
	viewPub, err := curve.PublicKeyFromSeed(viewSeed)
	if err != nil {
		return nil, err
	}

	return &KeyPair{
		SpendingPrivateKey: spendSeed,
		SpendingPublicKey:  spendPub,
		ViewingPrivateKey:  viewSeed,
		ViewingPublicKey:   viewPub,
		CreatedAt:          time.Now().UTC(),
	}, nil
}

// FileExistsError is an error when the keystore file already exists and is not empty
type FileExistsError struct {
	Message string
}

func (e *FileExistsError) Error() string {
	return e.Message
}

// IsFileExistsError checks if error is FileExistsError
func IsFileExistsError(err error) bool {
	_, ok := err.(*FileExistsError)
	return ok
}

// GenerateKeystore generates a fresh stealth key pair and saves it to a new
// .sip keystore file, together with a QR code of the meta-address.
// Returns the meta-address text on success.
// password must be []byte for security (caller should zero it after use)
func GenerateKeystore(filePath, chain string, password []byte) (metaAddress string, err error) {
	// Check file extension (.sip)
	ext := filepath.Ext(filePath) // e.g. "wallet.sip" gives ".sip"
	if ext != ".sip" {
		return "", fmt.Errorf("file must have .sip extension")
	}

	// Check file existence
	if fileInfo, statErr := os.Stat(filePath); statErr == nil && fileInfo.Size() > 0 {
		return "", &FileExistsError{Message: "file is not empty"}
	}

	keys, err := GenerateKeys()
	if err != nil {
		return "", err
	}
	defer keys.Zero()

	metaAddress, err = keys.MetaAddress(chain).Format()
	if err != nil {
		return "", err
	}

	// Generate QR code of the meta-address for sharing
	qrCode, err := generateQRCode(metaAddress)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}

	archive := &model.KeyArchive{Active: toKeySet(keys)}
	defer archive.Zero()

	if err := crypto.EncryptKeystore(filePath, chain, metaAddress, qrCode, archive, password); err != nil {
		return "", fmt.Errorf("failed to encrypt keystore: %w", err)
	}

	return metaAddress, nil
}

// RotateKeys generates a fresh key pair, makes it the active set and moves
// the previous active set into the immutable archive. Archived sets are
// never deleted: transfers sent under an old meta-address stay claimable.
// Returns the new meta-address text.
func RotateKeys(filePath string, password []byte) (metaAddress string, err error) {
	sipFile, archive, err := crypto.DecryptKeystore(filePath, password)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt keystore: %w", err)
	}
	defer archive.Zero()

	keys, err := GenerateKeys()
	if err != nil {
		return "", err
	}
	defer keys.Zero()

	metaAddress, err = keys.MetaAddress(sipFile.Network).Format()
	if err != nil {
		return "", err
	}

	qrCode, err := generateQRCode(metaAddress)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}

	rotated := &model.KeyArchive{
		Active:   toKeySet(keys),
		Archived: make(map[string]model.KeySet, len(archive.Archived)+1),
	}
	defer rotated.Zero()
	for ts, set := range archive.Archived {
		rotated.Archived[ts] = cloneKeySet(set)
	}
	rotated.Archived[archive.Active.CreatedAt] = cloneKeySet(archive.Active)

	if err := crypto.ReplaceKeystore(filePath, sipFile.Network, metaAddress, qrCode, rotated, password); err != nil {
		return "", fmt.Errorf("failed to encrypt keystore: %w", err)
	}

	return metaAddress, nil
}

// ActiveKeys decrypts the keystore and returns the active key pair.
// Caller must Zero() the returned pair after use.
func ActiveKeys(filePath string, password []byte) (*KeyPair, error) {
	_, archive, err := crypto.DecryptKeystore(filePath, password)
	if err != nil {
		return nil, err
	}
	defer archive.Zero()
	return fromKeySet(archive.Active)
}

// AllKeys decrypts the keystore and returns every key set, active first.
// Needed by scanning: payments to an archived meta-address must still be
// found. Caller must Zero() each returned pair after use.
func AllKeys(filePath string, password []byte) ([]*KeyPair, error) {
	_, archive, err := crypto.DecryptKeystore(filePath, password)
	if err != nil {
		return nil, err
	}
	defer archive.Zero()

	out := make([]*KeyPair, 0, len(archive.Archived)+1)
	active, err := fromKeySet(archive.Active)
	if err != nil {
		return nil, err
	}
	out = append(out, active)
	for _, set := range archive.Archived {
		pair, err := fromKeySet(set)
		if err != nil {
			for _, p := range out {
				p.Zero()
			}
			return nil, err
		}
		out = append(out, pair)
	}
	return out, nil
}

func toKeySet(k *KeyPair) model.KeySet {
	return model.KeySet{
		SpendingPrivateKey: append([]byte(nil), k.SpendingPrivateKey...),
		SpendingPublicKey:  append([]byte(nil), k.SpendingPublicKey...),
		ViewingPrivateKey:  append([]byte(nil), k.ViewingPrivateKey...),
		ViewingPublicKey:   append([]byte(nil), k.ViewingPublicKey...),
		CreatedAt:          k.CreatedAt.Format(time.RFC3339),
	}
}

func cloneKeySet(s model.KeySet) model.KeySet {
	return model.KeySet{
		SpendingPrivateKey: append([]byte(nil), s.SpendingPrivateKey...),
		SpendingPublicKey:  append([]byte(nil), s.SpendingPublicKey...),
		ViewingPrivateKey:  append([]byte(nil), s.ViewingPrivateKey...),
		ViewingPublicKey:   append([]byte(nil), s.ViewingPublicKey...),
		CreatedAt:          s.CreatedAt,
	}
}

func fromKeySet(s model.KeySet) (*KeyPair, error) {
	createdAt, err := time.Parse(time.RFC3339, s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid key set timestamp: %w", err)
	}
	return &KeyPair{
		SpendingPrivateKey: append([]byte(nil), s.SpendingPrivateKey...),
		SpendingPublicKey:  append([]byte(nil), s.SpendingPublicKey...),
		ViewingPrivateKey:  append([]byte(nil), s.ViewingPrivateKey...),
		ViewingPublicKey:   append([]byte(nil), s.ViewingPublicKey...),
		CreatedAt:          createdAt,
	}, nil
}

// generateQRCode generates a QR code of the meta-address in base64
func generateQRCode(metaAddress string) (string, error) {
	qr, err := qrcode.New(metaAddress, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	// Get PNG image
	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	// Encode to base64
	return base64.StdEncoding.EncodeToString(png), nil
}
