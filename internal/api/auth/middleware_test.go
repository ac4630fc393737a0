package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seoulmate/seoul-travel-api/config"
	"github.com/seoulmate/seoul-travel-api/internal/types"
)

var testJWTConfig = config.JWTConfig{
	SecretKey:         "test-secret-key",
	Issuer:            "seoul-travel-api",
	Audience:          "seoul-travel-web",
	AccessExpiry:      time.Hour,
	RefreshExpiryDays: 14,
}

func signedToken(t *testing.T, cfg config.JWTConfig, userID string, expiry time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := types.Claims{
		UserID: userID,
		Email:  "tester@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.SecretKey))
	require.NoError(t, err)
	return token
}

func TestParseAccessToken(t *testing.T) {
	t.Run("round trips valid claims", func(t *testing.T) {
		token := signedToken(t, testJWTConfig, "user-1", time.Hour)
		claims, err := ParseAccessToken(token, testJWTConfig)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "tester@example.com", claims.Email)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		token := signedToken(t, testJWTConfig, "user-1", -time.Minute)
		_, err := ParseAccessToken(token, testJWTConfig)
		assert.Error(t, err)
	})

	t.Run("rejects wrong issuer", func(t *testing.T) {
		other := testJWTConfig
		other.Issuer = "someone-else"
		token := signedToken(t, other, "user-1", time.Hour)
		_, err := ParseAccessToken(token, testJWTConfig)
		assert.Error(t, err)
	})

	t.Run("rejects wrong key", func(t *testing.T) {
		other := testJWTConfig
		other.SecretKey = "different-secret"
		token := signedToken(t, other, "user-1", time.Hour)
		_, err := ParseAccessToken(token, testJWTConfig)
		assert.Error(t, err)
	})
}

func TestAuthenticateMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetUserIDFromContext(r.Context())
		assert.True(t, ok)
		_, _ = w.Write([]byte(id))
	})
	handler := Authenticate(testJWTConfig, logger)(next)

	t.Run("passes valid bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, testJWTConfig, "user-1", time.Hour))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-1", rec.Body.String())
	})

	t.Run("rejects missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestOwnerKeyFromContext(t *testing.T) {
	t.Run("user id wins over device id", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), userIDKey, "user-1")
		ctx = context.WithValue(ctx, deviceIDKey, "device-1")
		assert.Equal(t, "user-1", OwnerKeyFromContext(ctx))
	})

	t.Run("falls back to device id", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), deviceIDKey, "device-1")
		assert.Equal(t, "device-1", OwnerKeyFromContext(ctx))
	})

	t.Run("empty without either", func(t *testing.T) {
		assert.Equal(t, "", OwnerKeyFromContext(context.Background()))
	})
}

func TestDeviceIDMiddleware(t *testing.T) {
	var seenOwner string
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seenOwner = OwnerKeyFromContext(r.Context())
	})
	handler := DeviceID(testJWTConfig)(next)

	t.Run("captures device header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Device-ID", "device-42")
		handler.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, "device-42", seenOwner)
	})

	t.Run("bearer token takes precedence", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Device-ID", "device-42")
		req.Header.Set("Authorization", "Bearer "+signedToken(t, testJWTConfig, "user-7", time.Hour))
		handler.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, "user-7", seenOwner)
	})

	t.Run("anonymous without header is allowed through", func(t *testing.T) {
		seenOwner = "sentinel"
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, "", seenOwner)
	})
}

func TestRequireOwnerKey(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := DeviceID(testJWTConfig)(RequireOwnerKey(next))

	t.Run("allows device-keyed request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Device-ID", "device-1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects anonymous request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
