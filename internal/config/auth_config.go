package config

import (
	"fmt"
	"strings"
)

// defaultEntraAuthority is the public-cloud login endpoint. Sovereign clouds
// override it via --auth-authority or ARM_MCP_AUTH_ENTRA_AUTHORITY.
const defaultEntraAuthority = "https://login.microsoftonline.com"

// defaultJWKSCacheTimeout bounds signing-key reuse to one hour.
const defaultJWKSCacheTimeout = 3600

// AuthConfig configures Entra ID bearer-token enforcement on the HTTP
// transports. The stdio transport is local and never authenticated.
type AuthConfig struct {
	Enabled bool `json:"enabled"`

	// App registration the server validates tokens against.
	EntraClientID  string `json:"entra_client_id"`
	EntraTenantID  string `json:"entra_tenant_id"`
	EntraAuthority string `json:"entra_authority"`

	// JWKSCacheTimeout is how long fetched signing keys stay valid, in seconds.
	JWKSCacheTimeout int `json:"jwks_cache_timeout"`

	// RequireAuthForHTTP keeps enforcement on for sse and streamable-http.
	// Turning it off while Enabled is set leaves validation configured but
	// dormant.
	RequireAuthForHTTP bool `json:"require_auth_for_http"`
}

// NewAuthConfig returns an AuthConfig with authentication disabled and
// public-cloud defaults.
func NewAuthConfig() *AuthConfig {
	return &AuthConfig{
		EntraAuthority:     defaultEntraAuthority,
		JWKSCacheTimeout:   defaultJWKSCacheTimeout,
		RequireAuthForHTTP: true,
	}
}

// ShouldAuthenticate reports whether requests on the given transport must
// carry a bearer token.
func (c *AuthConfig) ShouldAuthenticate(transport string) bool {
	if !c.Enabled || transport == "stdio" {
		return false
	}
	return c.RequireAuthForHTTP
}

// ValidateConfig checks that an enabled configuration is complete enough to
// validate tokens.
func (c *AuthConfig) ValidateConfig() error {
	if !c.Enabled {
		return nil
	}
	switch {
	case c.EntraClientID == "":
		return fmt.Errorf("auth: entra_client_id is required when authentication is enabled")
	case c.EntraTenantID == "":
		return fmt.Errorf("auth: entra_tenant_id is required when authentication is enabled")
	case c.JWKSCacheTimeout <= 0:
		return fmt.Errorf("auth: jwks_cache_timeout must be positive")
	}
	return nil
}

// tenantURL joins the authority, tenant and a path suffix.
func (c *AuthConfig) tenantURL(suffix string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(c.EntraAuthority, "/"), c.EntraTenantID, suffix)
}

// GetIssuer returns the expected v2.0 token issuer for the tenant.
func (c *AuthConfig) GetIssuer() string {
	return c.tenantURL("v2.0")
}

// GetJWKSURL returns the tenant's signing-key discovery endpoint.
func (c *AuthConfig) GetJWKSURL() string {
	return c.tenantURL("discovery/v2.0/keys")
}
