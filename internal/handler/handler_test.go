package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/AlexZinkM/sip-wallet/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{model.Ef(model.KindValidation, "bad input"), http.StatusBadRequest},
		{model.E(model.KindAuth, "invalid keystore password", nil), http.StatusUnauthorized},
		{model.Ef(model.KindLedger, "rpc unreachable"), http.StatusBadGateway},
		{model.Ef(model.KindBackend, "mpc offline"), http.StatusServiceUnavailable},
		{model.Ef(model.KindCrypto, "decryption failed"), http.StatusInternalServerError},
		{errors.New("unclassified"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, statusForError(tc.err), "error: %v", tc.err)
	}
}

func TestStatusForWrappedError(t *testing.T) {
	wrapped := model.E(model.KindLedger, "outer", model.Ef(model.KindValidation, "inner"))
	assert.Equal(t, http.StatusBadGateway, statusForError(wrapped))
}
