package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/seoulmate/seoul-travel-api/config"
	"github.com/seoulmate/seoul-travel-api/internal/api"
	"github.com/seoulmate/seoul-travel-api/internal/types"
)

type contextKey string

const (
	userIDKey    contextKey = "userID"
	userEmailKey contextKey = "userEmail"
	deviceIDKey  contextKey = "deviceID"
)

// deviceIDHeader identifies anonymous browsers so their saved courses
// survive reloads without an account.
const deviceIDHeader = "X-Device-ID"

// Authenticate validates the bearer token and stores the user's identity on
// the request context. Requests without a valid token are rejected.
func Authenticate(cfg config.JWTConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				api.ErrorResponse(w, r, http.StatusUnauthorized, "missing or malformed authorization header")
				return
			}
			tokenString := strings.TrimPrefix(header, "Bearer ")

			claims, err := ParseAccessToken(tokenString, cfg)
			if err != nil {
				logger.WarnContext(r.Context(), "Rejected access token", slog.Any("error", err))
				api.ErrorResponse(w, r, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			ctx = context.WithValue(ctx, userEmailKey, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// DeviceID picks up the anonymous device header and, when a bearer token is
// present, the user identity too, without rejecting anonymous callers.
func DeviceID(cfg config.JWTConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if id := r.Header.Get(deviceIDHeader); id != "" {
				ctx = context.WithValue(ctx, deviceIDKey, id)
			}
			if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
				if claims, err := ParseAccessToken(strings.TrimPrefix(header, "Bearer "), cfg); err == nil {
					ctx = context.WithValue(ctx, userIDKey, claims.UserID)
					ctx = context.WithValue(ctx, userEmailKey, claims.Email)
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ParseAccessToken verifies signature, issuer and audience and returns the
// embedded claims.
func ParseAccessToken(tokenString string, cfg config.JWTConfig) (*types.Claims, error) {
	claims := &types.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(cfg.SecretKey), nil
	}, jwt.WithIssuer(cfg.Issuer), jwt.WithAudience(cfg.Audience))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// GetUserIDFromContext returns the authenticated user id, if any.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// OwnerKeyFromContext returns the key that scopes per-owner data: the user
// id when authenticated, otherwise the anonymous device id, otherwise "".
func OwnerKeyFromContext(ctx context.Context) string {
	if id, ok := GetUserIDFromContext(ctx); ok {
		return id
	}
	if id, ok := ctx.Value(deviceIDKey).(string); ok {
		return id
	}
	return ""
}

// RequireOwnerKey rejects requests that carry neither a user identity nor a
// device id, since their data would be unreachable afterwards.
func RequireOwnerKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if OwnerKeyFromContext(r.Context()) == "" {
			api.ErrorResponse(w, r, http.StatusBadRequest, "X-Device-ID header or authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
