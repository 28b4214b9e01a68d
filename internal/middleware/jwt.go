package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/config"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/utils"
)

// tokenIssuer is stamped on every access token and required on the way in
const tokenIssuer = "vit-travel-buddy"

var errMissingBearer = errors.New("authorization header must be 'Bearer <token>'")

// JWTClaims identifies a student; Subject mirrors UserID
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken issues an HS256 access token valid for cfg.AccessTokenTTL
func GenerateToken(userID, email string, cfg *config.JWTConfig) (string, error) {
	issuedAt := jwt.NewNumericDate(time.Now())
	return jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   userID,
			IssuedAt:  issuedAt,
			NotBefore: issuedAt,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(cfg.AccessTokenTTL)),
		},
	}).SignedString([]byte(cfg.Secret))
}

// ValidateToken accepts only HS256 tokens from this service that name a user
func ValidateToken(tokenString string, cfg *config.JWTConfig) (*JWTClaims, error) {
	claims := &JWTClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return []byte(cfg.Secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, jwt.ErrTokenMalformed
	}
	return claims, nil
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errors.New("authorization header required")
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" || strings.ContainsRune(token, ' ') {
		return "", errMissingBearer
	}
	return token, nil
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the caller's id and email under utils.UserIDKey and utils.EmailKey.
func AuthMiddleware(cfg *config.JWTConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", err.Error())
				return
			}
			claims, err := ValidateToken(token, cfg)
			if err != nil {
				utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), utils.UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, utils.EmailKey, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
