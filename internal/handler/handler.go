package handler

import (
	"encoding/json"
	"net/http"

	"github.com/AlexZinkM/sip-wallet/internal/model"
	"github.com/AlexZinkM/sip-wallet/stealth"
)

// statusForError maps the error taxonomy to HTTP status codes: bad input
// is the caller's fault, a wrong password is unauthorized, ledger trouble
// is an upstream failure, an unavailable backend is service-unavailable,
// and cryptographic failures are ours.
func statusForError(err error) int {
	if stealth.IsFileExistsError(err) {
		return http.StatusConflict
	}
	switch model.KindOf(err) {
	case model.KindValidation:
		return http.StatusBadRequest
	case model.KindAuth:
		return http.StatusUnauthorized
	case model.KindLedger:
		return http.StatusBadGateway
	case model.KindBackend:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
