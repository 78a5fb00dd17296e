package handler

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/anicoll/smartthings-integration/pkg/api"
	"github.com/anicoll/smartthings-integration/pkg/hasher"
)

// Authenticate rejects requests without a valid bearer token signed with secret.
func Authenticate(secret string) func(http.Handler) http.Handler {
	logger := zap.L()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				writeError(w, http.StatusUnauthorized, api.Unauthorised, "missing bearer token")
				return
			}
			if _, err := hasher.ParseToken(token, secret); err != nil {
				logger.Debug("rejected token", zap.String("path", r.URL.Path), zap.Error(err))
				writeError(w, http.StatusUnauthorized, api.Unauthorised, "invalid token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IssueToken handles POST /api/auth/token. The api key is checked against its
// bcrypt hash.
func IssueToken(apiKeyHash, secret string, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := unmarshalPayload[TokenRequest](r)
		if err != nil {
			handleError(w, err)
			return
		}
		if req.APIKey == "" || !hasher.PasswordCorrect(req.APIKey, apiKeyHash) {
			writeError(w, http.StatusUnauthorized, api.Unauthorised, "invalid api key")
			return
		}
		token, expires, err := hasher.IssueToken(secret, now())
		if err != nil {
			handleError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, TokenResponse{Token: token, ExpiresAt: expires})
	}
}
