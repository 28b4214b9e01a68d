package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/config"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/utils"
)

func testJWT() *config.JWTConfig {
	return &config.JWTConfig{Secret: "test-secret", AccessTokenTTL: time.Hour}
}

func TestGenerateAndValidateToken(t *testing.T) {
	cfg := testJWT()
	token, err := GenerateToken("user-1", "asha@vitstudent.ac.in", cfg)
	require.NoError(t, err)

	claims, err := ValidateToken(token, cfg)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "asha@vitstudent.ac.in", claims.Email)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, tokenIssuer, claims.Issuer)
}

func TestValidateTokenRejects(t *testing.T) {
	cfg := testJWT()

	expired, err := GenerateToken("user-1", "a@b.c", &config.JWTConfig{Secret: cfg.Secret, AccessTokenTTL: -time.Minute})
	require.NoError(t, err)
	otherKey, err := GenerateToken("user-1", "a@b.c", &config.JWTConfig{Secret: "another", AccessTokenTTL: time.Hour})
	require.NoError(t, err)
	valid := jwt.RegisteredClaims{Issuer: tokenIssuer, ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	sign := func(method jwt.SigningMethod, claims JWTClaims) string {
		token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(cfg.Secret))
		require.NoError(t, err)
		return token
	}
	noUser := sign(jwt.SigningMethodHS256, JWTClaims{Email: "a@b.c", RegisteredClaims: valid})
	wrongAlg := sign(jwt.SigningMethodHS384, JWTClaims{UserID: "user-1", RegisteredClaims: valid})
	foreign := sign(jwt.SigningMethodHS256, JWTClaims{UserID: "user-1", RegisteredClaims: jwt.RegisteredClaims{
		Issuer: "someone-else", ExpiresAt: valid.ExpiresAt,
	}})
	noExpiry := sign(jwt.SigningMethodHS256, JWTClaims{UserID: "user-1", RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer}})

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"signed with another secret", otherKey},
		{"missing user id", noUser},
		{"unexpected algorithm", wrongAlg},
		{"other issuer", foreign},
		{"no expiry", noExpiry},
		{"garbage", "not-a-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateToken(tt.token, cfg)
			assert.Error(t, err)
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testJWT()
	token, err := GenerateToken("user-7", "u7@vitstudent.ac.in", cfg)
	require.NoError(t, err)

	var seen string
	h := AuthMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = utils.GetUserIDFromContext(r)
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid bearer", "Bearer " + token, http.StatusNoContent},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"extra parts", "Bearer " + token + " more", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/api/groups", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusNoContent {
				assert.Equal(t, "user-7", seen)
			} else {
				assert.Empty(t, seen)
				assert.Contains(t, rec.Body.String(), "Unauthorized")
			}
		})
	}
}

func TestRequestLoggerKeepsStatus(t *testing.T) {
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRecover(t *testing.T) {
	h := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
