package model

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers that need to branch on recovery
// strategy without matching message strings.
type Kind string

const (
	// KindValidation marks malformed input; recoverable, nothing mutated.
	KindValidation Kind = "validation"
	// KindCrypto marks a cryptographic failure (auth failure on decrypt,
	// public key mismatch on claim); always fatal to the current operation.
	KindCrypto Kind = "crypto"
	// KindLedger marks an RPC/on-chain failure (account missing, program
	// paused, insufficient funds, stale blockhash); retryable with fresh state.
	KindLedger Kind = "ledger"
	// KindAuth marks keystore access denied or cancelled; the caller should
	// re-prompt rather than treat it as a generic failure.
	KindAuth Kind = "auth"
	// KindBackend marks an unavailable privacy backend; triggers provider
	// fallback instead of propagating.
	KindBackend Kind = "backend"
)

// Error is a classified error. Use E to build one and IsKind to test.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a classified error wrapping an optional cause.
func E(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// Ef builds a classified error with a formatted message.
func Ef(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err (or anything it wraps) carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf returns the kind of err, or an empty Kind when unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
