package middlewares

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"migrator/internal/helpers"
	"migrator/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	authenticatorTestSecret   = "test-secret-key-for-invoker-tokens"
	authenticatorTestAudience = "migration:trigger"
)

func assertErrorResponse(t *testing.T, recorder *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	assert.Equal(t, status, recorder.Code)
	var body models.Error
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, models.Error{Status: status, Error: []string{code}}, body)
}

func TestAuthenticate(t *testing.T) {
	var seen models.InvokerClaims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetInvokerClaims(r)
		w.WriteHeader(http.StatusOK)
	})
	handler := Authenticate(authenticatorTestSecret, authenticatorTestAudience)(next)

	t.Run("should let excluded paths through without a token", func(t *testing.T) {
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("should reject a protected path without a token", func(t *testing.T) {
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/migrations", nil))

		assertErrorResponse(t, recorder, http.StatusUnauthorized, "UNAUTHORIZED")
	})

	t.Run("should reject unknown paths by default", func(t *testing.T) {
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/other", nil))

		assertErrorResponse(t, recorder, http.StatusUnauthorized, "UNAUTHORIZED")
	})

	t.Run("should store the claims of a valid token", func(t *testing.T) {
		token, err := helpers.NewInvokerToken(authenticatorTestSecret, "new-pool", authenticatorTestAudience, time.Minute)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/migrations", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "new-pool", seen.Subject)
	})

	t.Run("should reject a token for another audience", func(t *testing.T) {
		token, err := helpers.NewInvokerToken(authenticatorTestSecret, "new-pool", "other", time.Minute)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/activity", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, req)

		assertErrorResponse(t, recorder, http.StatusUnauthorized, "UNAUTHORIZED")
	})
}
