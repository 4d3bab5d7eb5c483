package model

// SIPFile represents the .sip keystore file structure. The public fields are
// readable without the password; CipherText holds the encrypted KeyArchive.
type SIPFile struct {
	Network     string `json:"network"`
	MetaAddress string `json:"metaAddress"`
	QR          string `json:"QR"`
	Salt        string `json:"salt"`
	Nonce       string `json:"nonce"`
	CipherText  string `json:"cipherText"`
}

// KeySet is one generation of stealth keys. Private keys are raw 32-byte
// seeds (stored as base64 in JSON); public keys are 32-byte curve points.
type KeySet struct {
	SpendingPrivateKey []byte `json:"spendingPrivateKey"`
	SpendingPublicKey  []byte `json:"spendingPublicKey"`
	ViewingPrivateKey  []byte `json:"viewingPrivateKey"`
	ViewingPublicKey   []byte `json:"viewingPublicKey"`
	CreatedAt          string `json:"createdAt"`
}

// KeyArchive is the decrypted keystore payload: exactly one active key set
// plus every previously active set, keyed by creation timestamp. Archived
// sets are immutable and never deleted; payments sent under an old
// meta-address stay claimable indefinitely.
type KeyArchive struct {
	Active   KeySet            `json:"active"`
	Archived map[string]KeySet `json:"archived,omitempty"`
}

// Zero wipes the private key material of every key set in the archive.
func (a *KeyArchive) Zero() {
	clear(a.Active.SpendingPrivateKey)
	clear(a.Active.ViewingPrivateKey)
	for k, set := range a.Archived {
		clear(set.SpendingPrivateKey)
		clear(set.ViewingPrivateKey)
		a.Archived[k] = set
	}
}
