package azure

import (
	"os"

	"github.com/Azure/azure-resources-mcp/internal/tools"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// AuthType selects the credential strategy used against the Azure management
// plane.
type AuthType string

const (
	// AuthTypeDefault uses the DefaultAzureCredential chain (environment,
	// workload identity, managed identity, Azure CLI).
	AuthTypeDefault AuthType = "default"
	// AuthTypeSPN uses a service principal from AZURE_TENANT_ID,
	// AZURE_CLIENT_ID and AZURE_CLIENT_SECRET.
	AuthTypeSPN AuthType = "spn"
	// AuthTypeIdentity uses managed identity, optionally pinned to a
	// user-assigned identity via AZURE_MANAGED_IDENTITY_CLIENT_ID.
	AuthTypeIdentity AuthType = "identity"
)

// ParseAuthType validates an auth_type parameter value. An empty value
// selects the default credential chain.
func ParseAuthType(value string) (AuthType, error) {
	switch AuthType(value) {
	case "", AuthTypeDefault:
		return AuthTypeDefault, nil
	case AuthTypeSPN:
		return AuthTypeSPN, nil
	case AuthTypeIdentity:
		return AuthTypeIdentity, nil
	default:
		return "", tools.NewError(tools.KindUnknownAuthType,
			"unknown auth_type %q (must be 'default', 'spn' or 'identity')", value)
	}
}

// ResolveCredential builds a token credential for the given strategy.
// No token is requested here; token acquisition happens lazily on the first
// management call, so a misconfigured credential surfaces as an Azure API
// error on use rather than at resolve time.
func ResolveCredential(authType AuthType) (azcore.TokenCredential, error) {
	switch authType {
	case AuthTypeSPN:
		tenantID := os.Getenv("AZURE_TENANT_ID")
		clientID := os.Getenv("AZURE_CLIENT_ID")
		clientSecret := os.Getenv("AZURE_CLIENT_SECRET")
		if tenantID == "" || clientID == "" || clientSecret == "" {
			return nil, tools.NewError(tools.KindMissingConfig,
				"auth_type 'spn' requires AZURE_TENANT_ID, AZURE_CLIENT_ID and AZURE_CLIENT_SECRET")
		}
		cred, err := azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret, nil)
		if err != nil {
			return nil, tools.NewError(tools.KindMissingConfig,
				"failed to build service principal credential: %v", err)
		}
		return cred, nil

	case AuthTypeIdentity:
		opts := &azidentity.ManagedIdentityCredentialOptions{}
		if clientID := os.Getenv("AZURE_MANAGED_IDENTITY_CLIENT_ID"); clientID != "" {
			opts.ID = azidentity.ClientID(clientID)
		}
		cred, err := azidentity.NewManagedIdentityCredential(opts)
		if err != nil {
			return nil, tools.NewError(tools.KindMissingConfig,
				"failed to build managed identity credential: %v", err)
		}
		return cred, nil

	case AuthTypeDefault:
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, tools.NewError(tools.KindMissingConfig,
				"failed to build default credential chain: %v", err)
		}
		return cred, nil

	default:
		return nil, tools.NewError(tools.KindUnknownAuthType, "unknown auth_type %q", string(authType))
	}
}
