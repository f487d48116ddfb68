package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/account-service/internal/models"
	"github.com/magabrotheeeer/account-service/internal/services/account"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", account.ErrValidation, http.StatusBadRequest},
		{"conflict", fmt.Errorf("op: %w", account.ErrConflict), http.StatusConflict},
		{"not found", account.ErrNotFound, http.StatusNotFound},
		{"unauthorized", account.ErrUnauthorized, http.StatusUnauthorized},
		{"infrastructure", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestFromError_HidesInternalMessage(t *testing.T) {
	code, body := FromError(errors.New("pq: password authentication failed"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, InternalErrorMessage, body.Error)
	assert.Equal(t, StatusError, body.Status)
}

func TestNewAccount_OmitsSecrets(t *testing.T) {
	acc := models.Account{
		ID: 1, Name: "A", Username: "a1", Password: "p", Token: "tok",
		Status: models.StatusOnline, CreationDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(NewAccount(acc))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "token")
	assert.Contains(t, string(raw), `"birthday":null`)
	assert.Contains(t, string(raw), `"creationDate":"2024-01-01T00:00:00Z"`)

	raw, err = json.Marshal(NewAccountWithToken(acc))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"token":"tok"`)
	assert.NotContains(t, string(raw), `"p"`)
}

func TestNewAccounts_Empty(t *testing.T) {
	raw, err := json.Marshal(NewAccounts(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestValidationError(t *testing.T) {
	type req struct {
		Name string `validate:"required"`
		Nick string `validate:"max=2"`
	}
	err := validator.New().Struct(req{Nick: "long"})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))
	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Name is a required field")
	assert.Contains(t, resp.Error, "field Nick is too long")
}

func TestRenderError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	RenderError(w, r, account.ErrNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"status":"Error","error":"not found"}`, w.Body.String())
}
