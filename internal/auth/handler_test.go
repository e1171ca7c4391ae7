package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/meridian-crm/meridian/internal/auth"
	"github.com/meridian-crm/meridian/internal/authz"
)

type stubDirectory struct {
	accounts map[string]authz.Principal
}

func (d *stubDirectory) FindByEmail(ctx context.Context, email string) (*authz.Principal, error) {
	p, ok := d.accounts[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, auth.ErrInvalidCredentials
	}
	return &p, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLoginRouter(t *testing.T) (*chi.Mux, *auth.TokenVerifier) {
	t.Helper()
	verifier, _ := newVerifier(t, time.Hour)
	checker := auth.NewGatewayChecker("gateway-secret", &stubDirectory{
		accounts: map[string]authz.Principal{
			"ana@example.com": {ID: 7, Role: authz.RoleAgent},
		},
	})
	h := auth.NewHandler(discardLogger(), verifier, checker)
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r, verifier
}

func postLogin(t *testing.T, r http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	r, verifier := newLoginRouter(t)

	rec := postLogin(t, r, `{"email":"ana@example.com","secret":"gateway-secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token     string `json:"token"`
		ExpiresIn int64  `json:"expires_in"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(3600), resp.ExpiresIn)

	p, err := verifier.Verify(context.Background(), resp.Token)
	require.NoError(t, err)
	require.Equal(t, int64(7), p.ID)
	require.Equal(t, authz.RoleAgent, p.Role)
}

func TestLoginRejectsWrongSecret(t *testing.T) {
	r, _ := newLoginRouter(t)

	rec := postLogin(t, r, `{"email":"ana@example.com","secret":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsUnknownAccount(t *testing.T) {
	r, _ := newLoginRouter(t)

	rec := postLogin(t, r, `{"email":"ghost@example.com","secret":"gateway-secret"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	r, _ := newLoginRouter(t)

	rec := postLogin(t, r, `{"email":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginRejectsMissingFields(t *testing.T) {
	r, _ := newLoginRouter(t)

	rec := postLogin(t, r, `{"email":"not-an-email","secret":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGatewayCheckerEmptyConfiguredSecretAlwaysRejects(t *testing.T) {
	checker := auth.NewGatewayChecker("", &stubDirectory{
		accounts: map[string]authz.Principal{
			"ana@example.com": {ID: 7, Role: authz.RoleAgent},
		},
	})

	_, err := checker.Check(context.Background(), "ana@example.com", "")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}
