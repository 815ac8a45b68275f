package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgauth "github.com/storefrontlabs/storefront-backend/pkg/auth"
	"github.com/storefrontlabs/storefront-backend/pkg/config"
	"github.com/storefrontlabs/storefront-backend/pkg/enums"
)

type stubVerifier struct {
	known map[string]bool
}

func (s *stubVerifier) HasSession(_ context.Context, accessID string) (bool, error) {
	return s.known[accessID], nil
}

func authTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "storefront-test",
		ExpirationMinutes: 5,
		SessionTTLMinutes: 10,
	}
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	handler := Auth(authTestConfig(), nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	cfg := authTestConfig()
	token, err := pkgauth.MintAccessToken(cfg, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.RoleCustomer,
		JTI:    "revoked-session",
	})
	require.NoError(t, err)

	verifier := &stubVerifier{known: map[string]bool{}}
	handler := Auth(cfg, verifier, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthSeedsPrincipal(t *testing.T) {
	cfg := authTestConfig()
	userID := uuid.New()
	token, err := pkgauth.MintAccessToken(cfg, time.Now(), pkgauth.AccessTokenPayload{
		UserID: userID,
		Role:   enums.RoleStaff,
		JTI:    "live-session",
	})
	require.NoError(t, err)

	verifier := &stubVerifier{known: map[string]bool{"live-session": true}}

	var seen bool
	handler := Auth(cfg, verifier, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = true
		p := PrincipalFromContext(r.Context())
		assert.Equal(t, userID, p.UserID)
		assert.Equal(t, enums.RoleStaff, p.Role)
		assert.Equal(t, "live-session", AccessIDFromContext(r.Context()))
	}))

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.True(t, seen)
	assert.Equal(t, http.StatusOK, w.Code)
}
