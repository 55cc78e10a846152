package azure

import (
	"errors"
	"testing"

	"github.com/Azure/azure-resources-mcp/internal/tools"
)

func TestParseAuthType_Valid(t *testing.T) {
	tests := []struct {
		input    string
		expected AuthType
	}{
		{"", AuthTypeDefault},
		{"default", AuthTypeDefault},
		{"spn", AuthTypeSPN},
		{"identity", AuthTypeIdentity},
	}

	for _, tt := range tests {
		got, err := ParseAuthType(tt.input)
		if err != nil {
			t.Errorf("ParseAuthType(%q): expected no error, got: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseAuthType(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestParseAuthType_Unknown(t *testing.T) {
	for _, input := range []string{"cli", "SPN", "managed", "azure"} {
		_, err := ParseAuthType(input)
		if err == nil {
			t.Errorf("ParseAuthType(%q): expected error, got nil", input)
			continue
		}
		var terr *tools.ToolError
		if !errors.As(err, &terr) {
			t.Errorf("ParseAuthType(%q): expected ToolError, got %T", input, err)
			continue
		}
		if terr.Kind != tools.KindUnknownAuthType {
			t.Errorf("ParseAuthType(%q): expected kind %q, got %q", input, tools.KindUnknownAuthType, terr.Kind)
		}
	}
}

func TestResolveCredential_SPNMissingEnv(t *testing.T) {
	t.Setenv("AZURE_TENANT_ID", "tenant-123")
	t.Setenv("AZURE_CLIENT_ID", "client-123")
	t.Setenv("AZURE_CLIENT_SECRET", "")

	_, err := ResolveCredential(AuthTypeSPN)
	if err == nil {
		t.Fatal("Expected error for missing AZURE_CLIENT_SECRET, got nil")
	}

	var terr *tools.ToolError
	if !errors.As(err, &terr) {
		t.Fatalf("Expected ToolError, got %T", err)
	}
	if terr.Kind != tools.KindMissingConfig {
		t.Errorf("Expected kind %q, got %q", tools.KindMissingConfig, terr.Kind)
	}
}

func TestResolveCredential_SPNComplete(t *testing.T) {
	t.Setenv("AZURE_TENANT_ID", "72f988bf-86f1-41af-91ab-2d7cd011db47")
	t.Setenv("AZURE_CLIENT_ID", "client-123")
	t.Setenv("AZURE_CLIENT_SECRET", "secret-value")

	cred, err := ResolveCredential(AuthTypeSPN)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if cred == nil {
		t.Fatal("Expected a credential, got nil")
	}
}

func TestResolveCredential_Identity(t *testing.T) {
	t.Setenv("AZURE_MANAGED_IDENTITY_CLIENT_ID", "mi-client-123")

	cred, err := ResolveCredential(AuthTypeIdentity)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if cred == nil {
		t.Fatal("Expected a credential, got nil")
	}
}

func TestResolveCredential_UnknownType(t *testing.T) {
	_, err := ResolveCredential(AuthType("bogus"))
	if err == nil {
		t.Fatal("Expected error for unknown auth type, got nil")
	}

	var terr *tools.ToolError
	if !errors.As(err, &terr) {
		t.Fatalf("Expected ToolError, got %T", err)
	}
	if terr.Kind != tools.KindUnknownAuthType {
		t.Errorf("Expected kind %q, got %q", tools.KindUnknownAuthType, terr.Kind)
	}
}
