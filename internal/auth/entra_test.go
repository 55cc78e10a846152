package auth

import (
	"strings"
	"testing"

	"github.com/Azure/azure-resources-mcp/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

func testValidator(t *testing.T) *EntraValidator {
	t.Helper()
	cfg := config.NewAuthConfig()
	cfg.Enabled = true
	cfg.EntraClientID = "client-123"
	cfg.EntraTenantID = "tenant-123"

	validator, err := NewEntraValidator(cfg)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	return validator
}

func TestNewEntraValidator_InvalidConfig(t *testing.T) {
	cfg := config.NewAuthConfig()
	cfg.Enabled = true // missing client and tenant IDs

	if _, err := NewEntraValidator(cfg); err == nil {
		t.Fatal("Expected error for incomplete auth config, got nil")
	}
}

func TestCheckClaims(t *testing.T) {
	validator := testValidator(t)

	valid := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Audience: jwt.ClaimStrings{"client-123"},
			Issuer:   "https://login.microsoftonline.com/tenant-123/v2.0",
		},
		TenantID: "tenant-123",
	}
	if err := validator.checkClaims(valid); err != nil {
		t.Errorf("Expected valid claims, got: %v", err)
	}

	apiAudience := *valid
	apiAudience.Audience = jwt.ClaimStrings{"api://client-123"}
	if err := validator.checkClaims(&apiAudience); err != nil {
		t.Errorf("Expected api:// audience to validate, got: %v", err)
	}

	v1Issuer := *valid
	v1Issuer.Issuer = "https://sts.windows.net/tenant-123/"
	if err := validator.checkClaims(&v1Issuer); err != nil {
		t.Errorf("Expected v1.0 issuer to validate, got: %v", err)
	}

	wrongTenant := *valid
	wrongTenant.TenantID = "other-tenant"
	if err := validator.checkClaims(&wrongTenant); err == nil || !strings.Contains(err.Error(), "tenant") {
		t.Errorf("Expected tenant error, got: %v", err)
	}

	wrongAudience := *valid
	wrongAudience.Audience = jwt.ClaimStrings{"someone-else"}
	if err := validator.checkClaims(&wrongAudience); err == nil || !strings.Contains(err.Error(), "audience") {
		t.Errorf("Expected audience error, got: %v", err)
	}

	noAudience := *valid
	noAudience.Audience = nil
	if err := validator.checkClaims(&noAudience); err == nil {
		t.Error("Expected error for missing audience")
	}

	wrongIssuer := *valid
	wrongIssuer.Issuer = "https://evil.example.com/tenant-123/v2.0"
	if err := validator.checkClaims(&wrongIssuer); err == nil || !strings.Contains(err.Error(), "issuer") {
		t.Errorf("Expected issuer error, got: %v", err)
	}
}
