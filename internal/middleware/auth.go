package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// AuthMiddleware validates the Bearer token on API requests
type AuthMiddleware struct {
	authToken string
	logger    *zap.Logger
}

// NewAuthMiddleware creates a new authentication middleware. An empty token
// disables authentication.
func NewAuthMiddleware(authToken string, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authToken: authToken,
		logger:    logger,
	}
}

// Enabled reports whether requests must carry a token
func (m *AuthMiddleware) Enabled() bool {
	return m.authToken != ""
}

// Authenticate validates the Bearer token in the request
func (m *AuthMiddleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.Enabled() {
			next(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.reject(w, r, "Unauthorized: Missing Authorization header")
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || scheme != "Bearer" {
			m.reject(w, r, "Unauthorized: Invalid Authorization header format")
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(m.authToken)) != 1 {
			m.reject(w, r, "Unauthorized: Invalid token")
			return
		}

		next(w, r)
	}
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, r *http.Request, msg string) {
	m.logger.Warn("Rejected request", zap.String("path", r.URL.Path), zap.String("reason", msg))
	http.Error(w, msg, http.StatusUnauthorized)
}
