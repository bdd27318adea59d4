package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"village-admin-go/internal/auth"
	"village-admin-go/pkg/logger"
)

type fakeVerifier map[string]error

func (f fakeVerifier) Verify(token string) (auth.Claims, error) {
	if err, ok := f[token]; ok {
		return auth.Claims{}, err
	}
	return auth.Claims{UserID: "user-1", Email: "admin@desa.id"}, nil
}

func TestJWTAuthMiddleware(t *testing.T) {
	verifier := fakeVerifier{
		"expired": auth.ErrTokenExpired,
		"forged":  auth.ErrTokenInvalid,
	}
	protected := NewJWTAuth(verifier, logger.NewNop()).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(user.Email))
	}))

	tests := []struct {
		name    string
		header  string
		status  int
		code    string
		message string
	}{
		{"missing", "", http.StatusUnauthorized, "missing_token", "Tidak ada token, otorisasi ditolak"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "missing_token", "Tidak ada token, otorisasi ditolak"},
		{"expired", "Bearer expired", http.StatusUnauthorized, "token_expired", "Token telah kedaluwarsa"},
		{"invalid", "Bearer forged", http.StatusUnauthorized, "invalid_token", "Token tidak valid"},
		{"valid", "Bearer good", http.StatusOK, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/residents", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "admin@desa.id", rec.Body.String())
				return
			}

			var body struct {
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.message, body.Error.Message)
		})
	}
}
