// Package stealth implements the dual-key stealth address protocol: meta
// address encoding, one-time address derivation with view tags, ownership
// scanning, and spending scalar recovery.
package stealth

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/AlexZinkM/sip-wallet/internal/common"
	"github.com/AlexZinkM/sip-wallet/internal/curve"
	"github.com/AlexZinkM/sip-wallet/internal/model"

	"github.com/mr-tron/base58"
)

const (
	// metaPrefix is the scheme tag of the textual meta-address format.
	metaPrefix = "sip"

	ChainSolana = "solana"
	ChainSui    = "sui"
	ChainAptos  = "aptos"
)

// recognizedChains maps a chain tag to whether its keys render as base58.
// All recognized chains use 32-byte edwards25519 public keys.
var recognizedChains = map[string]bool{
	ChainSolana: true,  // base58
	ChainSui:    false, // 0x hex
	ChainAptos:  false, // 0x hex
}

// MetaAddress is the long-lived, publishable pair of public keys from which
// one-time stealth addresses are derived. Immutable once shared.
type MetaAddress struct {
	Chain             string
	SpendingPublicKey []byte // 32-byte curve point
	ViewingPublicKey  []byte // 32-byte curve point
	Label             string // local-only, never encoded
	Amount            string // optional requested amount (decimal string)
}

// Equal reports whether two meta-addresses carry the same chain and keys.
func (m *MetaAddress) Equal(other *MetaAddress) bool {
	return m.Chain == other.Chain &&
		bytes.Equal(m.SpendingPublicKey, other.SpendingPublicKey) &&
		bytes.Equal(m.ViewingPublicKey, other.ViewingPublicKey)
}

// Format renders the meta-address as sip:<chain>:<spend>:<view>[?amount=...].
// Keys render as base58 for solana, 0x-prefixed hex otherwise.
func (m *MetaAddress) Format() (string, error) {
	base58Keys, ok := recognizedChains[m.Chain]
	if !ok {
		return "", model.Ef(model.KindValidation, "unrecognized chain %q", m.Chain)
	}
	if len(m.SpendingPublicKey) != curve.PointLen || len(m.ViewingPublicKey) != curve.PointLen {
		return "", model.Ef(model.KindValidation, "meta-address keys must be %d bytes", curve.PointLen)
	}

	var spend, view string
	if base58Keys {
		spend = base58.Encode(m.SpendingPublicKey)
		view = base58.Encode(m.ViewingPublicKey)
	} else {
		spend = "0x" + hex.EncodeToString(m.SpendingPublicKey)
		view = "0x" + hex.EncodeToString(m.ViewingPublicKey)
	}

	out := fmt.Sprintf("%s:%s:%s:%s", metaPrefix, m.Chain, spend, view)
	if m.Amount != "" {
		out += "?amount=" + m.Amount
	}
	return out, nil
}

// ParseMetaAddress parses the textual meta-address format. Input is
// whitespace-trimmed only; anything else malformed is a validation error.
// Both keys must decode to valid curve points.
func ParseMetaAddress(s string) (*MetaAddress, error) {
	s = strings.TrimSpace(s)

	var amount string
	if i := strings.IndexByte(s, '?'); i >= 0 {
		query := s[i+1:]
		s = s[:i]
		val, ok := strings.CutPrefix(query, "amount=")
		if !ok || val == "" {
			return nil, model.Ef(model.KindValidation, "invalid meta-address query %q", query)
		}
		if _, err := common.SOLToLamports(val); err != nil {
			return nil, model.E(model.KindValidation, fmt.Sprintf("invalid amount %q", val), err)
		}
		amount = val
	}

	parts := strings.Split(s, ":")
	if len(parts) != 4 || parts[0] != metaPrefix {
		return nil, model.Ef(model.KindValidation, "malformed meta-address")
	}

	chain := parts[1]
	base58Keys, ok := recognizedChains[chain]
	if !ok {
		return nil, model.Ef(model.KindValidation, "unrecognized chain %q", chain)
	}

	spend, err := decodeKey(parts[2], base58Keys)
	if err != nil {
		return nil, model.E(model.KindValidation, "invalid spending key", err)
	}
	view, err := decodeKey(parts[3], base58Keys)
	if err != nil {
		return nil, model.E(model.KindValidation, "invalid viewing key", err)
	}

	return &MetaAddress{
		Chain:             chain,
		SpendingPublicKey: spend,
		ViewingPublicKey:  view,
		Amount:            amount,
	}, nil
}

func decodeKey(s string, useBase58 bool) ([]byte, error) {
	var raw []byte
	var err error
	if useBase58 {
		raw, err = base58.Decode(s)
	} else {
		hexPart, ok := strings.CutPrefix(s, "0x")
		if !ok {
			return nil, fmt.Errorf("missing 0x prefix")
		}
		raw, err = hex.DecodeString(hexPart)
	}
	if err != nil {
		return nil, err
	}
	if !curve.ValidatePoint(raw) {
		return nil, curve.ErrInvalidPoint
	}
	return raw, nil
}
