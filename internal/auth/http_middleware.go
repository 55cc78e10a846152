package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Azure/azure-resources-mcp/internal/config"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

// UserContextKey is the context key under which the authenticated caller is
// stored for downstream handlers.
const UserContextKey ContextKey = "user_context"

// HTTPAuthMiddleware enforces bearer-token authentication on the HTTP
// transports.
type HTTPAuthMiddleware struct {
	authConfig *config.AuthConfig
	transport  string
	validator  *EntraValidator
}

// NewHTTPAuthMiddleware creates the middleware for the given transport.
func NewHTTPAuthMiddleware(authConfig *config.AuthConfig, transport string) (*HTTPAuthMiddleware, error) {
	var validator *EntraValidator
	if authConfig.ShouldAuthenticate(transport) {
		var err error
		validator, err = NewEntraValidator(authConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize token validator: %w", err)
		}
	}

	return &HTTPAuthMiddleware{
		authConfig: authConfig,
		transport:  transport,
		validator:  validator,
	}, nil
}

// Middleware returns an HTTP middleware function that enforces authentication.
func (m *HTTPAuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.validator == nil || !m.authConfig.ShouldAuthenticate(m.transport) {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.sendUnauthorized(w, "Missing Authorization header")
			return
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			m.sendUnauthorized(w, "Invalid Authorization header format. Expected 'Bearer <token>'")
			return
		}

		user, err := m.validator.ValidateToken(r.Context(), token)
		if err != nil {
			m.sendUnauthorized(w, "Invalid token: "+err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sendUnauthorized sends a standardized 401 response in JSON-RPC error shape.
func (m *HTTPAuthMiddleware) sendUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	response := map[string]interface{}{
		"jsonrpc": "2.0",
		"error": map[string]interface{}{
			"code":    -32600,
			"message": "Authentication required",
			"data":    message,
		},
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
