package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/AlexZinkM/sip-wallet/internal/model"

	"golang.org/x/crypto/scrypt"
)

// DecryptKeystore reads and decrypts a .sip keystore file.
// password must be []byte for security (caller should zero it after use).
// The returned archive contains private key seeds; the caller must call
// archive.Zero() when done.
func DecryptKeystore(filePath string, password []byte) (*model.SIPFile, *model.KeyArchive, error) {
	sipFile, err := readSIPFile(filePath)
	if err != nil {
		return nil, nil, err
	}

	// Decode salt and nonce
	salt, err := base64.StdEncoding.DecodeString(sipFile.Salt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	nonce, err := base64.StdEncoding.DecodeString(sipFile.Nonce)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode nonce: %w", err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(sipFile.CipherText)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	// Derive key from password
	key, err := scrypt.Key(password, salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	// Create AES cipher
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	// Create GCM
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	// Decrypt. An authentication failure means wrong password (or a tampered
	// file) and is surfaced as an auth error so callers can re-prompt.
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, nil, model.E(model.KindAuth, "invalid keystore password", nil)
	}
	defer clear(plaintext) // wipe decrypted bytes from memory

	// Deserialize key archive
	var archive model.KeyArchive
	if err := json.Unmarshal(plaintext, &archive); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal key archive: %w", err)
	}

	return sipFile, &archive, nil
}

// ReadMetaAddress reads only the meta-address from a .sip file (without decryption)
func ReadMetaAddress(filePath string) (string, error) {
	sipFile, err := readSIPFile(filePath)
	if err != nil {
		return "", err
	}
	return sipFile.MetaAddress, nil
}

// ReadMetaAddressQR reads the meta-address and its QR code from a .sip file
// (without decryption)
func ReadMetaAddressQR(filePath string) (metaAddress, qr string, err error) {
	sipFile, err := readSIPFile(filePath)
	if err != nil {
		return "", "", err
	}
	return sipFile.MetaAddress, sipFile.QR, nil
}

// readSIPFile reads and parses the public envelope of a .sip file.
func readSIPFile(filePath string) (*model.SIPFile, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("file does not exist")
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	if fileInfo.Size() == 0 {
		return nil, errors.New("file is empty")
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Skip UTF-8 BOM if present
	if len(fileData) >= 3 && fileData[0] == 0xEF && fileData[1] == 0xBB && fileData[2] == 0xBF {
		fileData = fileData[3:]
	}

	var sipFile model.SIPFile
	if err := json.Unmarshal(fileData, &sipFile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sip file: %w", err)
	}

	return &sipFile, nil
}
