// Package auth provides Microsoft Entra ID token validation for the HTTP
// transports. The stdio transport is local and never authenticated.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwk"

	"github.com/Azure/azure-resources-mcp/internal/config"
)

// minJWKSRefresh is the floor for the JWKS auto-refresh interval.
const minJWKSRefresh = 15 * time.Minute

// EntraValidator validates Microsoft Entra ID bearer tokens against the
// tenant's JWKS endpoint.
type EntraValidator struct {
	clientID  string
	tenantID  string
	issuer    string
	jwksURL   string
	jwksCache *jwk.Cache
}

// Claims is the subset of Entra ID token claims the server inspects.
type Claims struct {
	jwt.RegisteredClaims
	TenantID          string `json:"tid"`
	Scope             string `json:"scp"`
	ObjectID          string `json:"oid"`
	PreferredUsername string `json:"preferred_username"`
}

// UserContext holds the authenticated caller's identity.
type UserContext struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	TenantID string   `json:"tenant_id"`
	Scopes   []string `json:"scopes"`
}

// NewEntraValidator creates a validator from the auth configuration.
func NewEntraValidator(authConfig *config.AuthConfig) (*EntraValidator, error) {
	if err := authConfig.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("invalid auth config: %w", err)
	}

	jwksURL := authConfig.GetJWKSURL()

	refreshInterval := time.Duration(authConfig.JWKSCacheTimeout/2) * time.Second
	if refreshInterval < minJWKSRefresh {
		refreshInterval = minJWKSRefresh
	}

	cache := jwk.NewCache(context.Background())
	if err := cache.Register(jwksURL, jwk.WithMinRefreshInterval(refreshInterval)); err != nil {
		return nil, fmt.Errorf("failed to register JWKS cache: %w", err)
	}

	return &EntraValidator{
		clientID:  authConfig.EntraClientID,
		tenantID:  authConfig.EntraTenantID,
		issuer:    authConfig.GetIssuer(),
		jwksURL:   jwksURL,
		jwksCache: cache,
	}, nil
}

// ValidateToken validates a bearer token and returns the caller identity.
func (v *EntraValidator) ValidateToken(ctx context.Context, tokenString string) (*UserContext, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, v.keyFunc(ctx))
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if err := v.checkClaims(claims); err != nil {
		return nil, err
	}

	userID := claims.ObjectID
	if userID == "" {
		userID = claims.Subject
	}

	return &UserContext{
		UserID:   userID,
		Username: claims.PreferredUsername,
		TenantID: claims.TenantID,
		Scopes:   strings.Fields(claims.Scope),
	}, nil
}

// keyFunc resolves the RSA signing key for a token from the JWKS cache.
func (v *EntraValidator) keyFunc(ctx context.Context) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, fmt.Errorf("missing kid in token header")
		}

		keySet, err := v.jwksCache.Get(ctx, v.jwksURL)
		if err != nil {
			return nil, fmt.Errorf("failed to get JWKS: %w", err)
		}

		key, found := keySet.LookupKeyID(kid)
		if !found {
			return nil, fmt.Errorf("key %s not found in JWKS", kid)
		}

		var rawKey interface{}
		if err := key.Raw(&rawKey); err != nil {
			return nil, fmt.Errorf("failed to extract raw key: %w", err)
		}
		return rawKey, nil
	}
}

// checkClaims validates tenant, audience and issuer.
func (v *EntraValidator) checkClaims(claims *Claims) error {
	if claims.TenantID != v.tenantID {
		return fmt.Errorf("invalid tenant ID: expected %s, got %s", v.tenantID, claims.TenantID)
	}

	if len(claims.Audience) == 0 {
		return fmt.Errorf("missing audience claim")
	}
	// Tokens carry the client ID directly for minimal app registrations, or
	// the api:// identifier URI for custom APIs.
	validAudience := false
	for _, aud := range claims.Audience {
		if aud == v.clientID || aud == fmt.Sprintf("api://%s", v.clientID) {
			validAudience = true
			break
		}
	}
	if !validAudience {
		return fmt.Errorf("invalid audience: %v", []string(claims.Audience))
	}

	// Both the v2.0 issuer and the legacy v1.0 sts endpoint are accepted.
	v1Issuer := fmt.Sprintf("https://sts.windows.net/%s/", v.tenantID)
	if claims.Issuer != v.issuer && claims.Issuer != v1Issuer {
		return fmt.Errorf("invalid issuer: %s", claims.Issuer)
	}

	return nil
}
