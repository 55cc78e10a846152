package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Azure/azure-resources-mcp/internal/config"
)

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_DisabledPassesThrough(t *testing.T) {
	middleware, err := NewHTTPAuthMiddleware(config.NewAuthConfig(), "sse")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	called := false
	handler := middleware.Middleware(okHandler(&called))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sse", nil))

	if !called {
		t.Error("Expected request to pass through with auth disabled")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}

func TestMiddleware_StdioNeverAuthenticated(t *testing.T) {
	cfg := config.NewAuthConfig()
	cfg.Enabled = true
	cfg.EntraClientID = "client-123"
	cfg.EntraTenantID = "tenant-123"

	middleware, err := NewHTTPAuthMiddleware(cfg, "stdio")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if middleware.validator != nil {
		t.Error("Expected no validator for stdio transport")
	}

	called := false
	handler := middleware.Middleware(okHandler(&called))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Error("Expected stdio requests to pass through")
	}
}

func enabledMiddleware(t *testing.T) *HTTPAuthMiddleware {
	t.Helper()
	cfg := config.NewAuthConfig()
	cfg.Enabled = true
	cfg.EntraClientID = "client-123"
	cfg.EntraTenantID = "tenant-123"

	middleware, err := NewHTTPAuthMiddleware(cfg, "sse")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	return middleware
}

func expectUnauthorized(t *testing.T, rec *httptest.ResponseRecorder, called bool) {
	t.Helper()
	if called {
		t.Error("Expected request to be rejected before the handler")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}

	var response struct {
		JSONRPC string `json:"jsonrpc"`
		Error   struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("401 body is not the JSON-RPC envelope: %v", err)
	}
	if response.Error.Code != -32600 {
		t.Errorf("Expected code -32600, got %d", response.Error.Code)
	}
}

func TestMiddleware_MissingAuthorizationHeader(t *testing.T) {
	middleware := enabledMiddleware(t)

	called := false
	handler := middleware.Middleware(okHandler(&called))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sse", nil))
	expectUnauthorized(t, rec, called)
}

func TestMiddleware_MalformedAuthorizationHeader(t *testing.T) {
	middleware := enabledMiddleware(t)

	for _, header := range []string{"Basic dXNlcg==", "Bearer", "Bearer "} {
		called := false
		handler := middleware.Middleware(okHandler(&called))

		req := httptest.NewRequest(http.MethodGet, "/sse", nil)
		req.Header.Set("Authorization", header)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		expectUnauthorized(t, rec, called)
	}
}

func TestMiddleware_InvalidToken(t *testing.T) {
	middleware := enabledMiddleware(t)

	called := false
	handler := middleware.Middleware(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/sse", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	expectUnauthorized(t, rec, called)
}
