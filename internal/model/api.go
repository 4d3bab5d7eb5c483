package model

// GenerateResponse is the response for keystore generation
type GenerateResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	MetaAddress string `json:"metaAddress"`
}

// MetaResponse is the response for the meta-address query
type MetaResponse struct {
	MetaAddress string `json:"metaAddress"`
	QR          string `json:"qr,omitempty"`
	Network     string `json:"network"`
}

// RotateResponse is the response for a key rotation
type RotateResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	MetaAddress string `json:"metaAddress"`
}

// ScanResponse lists the payments found to belong to this wallet
type ScanResponse struct {
	Scanned int         `json:"scanned"`
	Matches []ScanMatch `json:"matches"`
}

// ScanMatch is one incoming payment discovered during a scan
type ScanMatch struct {
	RecordAddress string `json:"recordAddress"`
	AmountSOL     string `json:"amountSOL,omitempty"`
	// Archived is true when the payment was sent to a rotated-out
	// meta-address
	Archived bool `json:"archived"`
}

// SendRequest is the request body for a shielded send
type SendRequest struct {
	Recipient string `json:"recipient"`
	AmountSOL string `json:"amountSOL"`
	// Provider selects the privacy backend; empty means native
	Provider string `json:"provider,omitempty"`
}

// SendResponse is the response for a shielded send
type SendResponse struct {
	Success        bool     `json:"success"`
	Signature      string   `json:"signature"`
	RecordAddress  string   `json:"recordAddress"`
	Statuses       []string `json:"statuses"`
	Fallback       bool     `json:"fallback,omitempty"`
	FallbackReason string   `json:"fallbackReason,omitempty"`
}

// ClaimRequest is the request body for claiming a shielded transfer
type ClaimRequest struct {
	RecordAddress string `json:"recordAddress"`
}

// ClaimResponse is the response for a claim
type ClaimResponse struct {
	Success   bool   `json:"success"`
	Signature string `json:"signature"`
	Nullifier string `json:"nullifier"`
	AmountSOL string `json:"amountSOL,omitempty"`
}

// ProviderInfo describes one privacy backend
type ProviderInfo struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Ready    bool            `json:"ready"`
	Features map[string]bool `json:"features"`
}

// ProvidersResponse lists the available privacy backends
type ProvidersResponse struct {
	Providers []ProviderInfo `json:"providers"`
}
