package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"village-admin-go/internal/auth"
	"village-admin-go/pkg/logger"
)

type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

type JWTAuth struct {
	tokens TokenVerifier
	log    logger.Logger
}

type contextKey int

const userKey contextKey = iota

type User struct {
	ID    string
	Email string
}

func NewJWTAuth(tokens TokenVerifier, log logger.Logger) *JWTAuth {
	return &JWTAuth{tokens: tokens, log: log}
}

func (a *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing_token", "Tidak ada token, otorisasi ditolak")
			return
		}

		claims, err := a.tokens.Verify(token)
		if err != nil {
			a.log.BusinessError("auth: token rejected", err, "path", r.URL.Path)
			switch {
			case errors.Is(err, auth.ErrTokenMissing):
				writeError(w, http.StatusUnauthorized, "missing_token", "Tidak ada token, otorisasi ditolak")
			case errors.Is(err, auth.ErrTokenExpired):
				writeError(w, http.StatusUnauthorized, "token_expired", "Token telah kedaluwarsa")
			default:
				writeError(w, http.StatusUnauthorized, "invalid_token", "Token tidak valid")
			}
			return
		}

		ctx := WithUser(r.Context(), User{ID: claims.UserID, Email: claims.Email})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userKey).(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
