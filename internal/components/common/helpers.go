// Package common provides shared parameter handling for MCP tool components.
package common

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Azure/azure-resources-mcp/internal/azure"
	"github.com/Azure/azure-resources-mcp/internal/config"
	"github.com/Azure/azure-resources-mcp/internal/tools"
)

// ExtractRequiredString extracts a non-empty string parameter or fails with
// invalid_request.
func ExtractRequiredString(params map[string]interface{}, key string) (string, error) {
	value, ok := params[key].(string)
	if !ok || strings.TrimSpace(value) == "" {
		return "", tools.NewError(tools.KindInvalidRequest, "missing or invalid %s parameter", key)
	}
	return strings.TrimSpace(value), nil
}

// ExtractOptionalString extracts a string parameter, returning "" when absent.
func ExtractOptionalString(params map[string]interface{}, key string) string {
	value, _ := params[key].(string)
	return strings.TrimSpace(value)
}

// ExtractSubscriptionID extracts subscription_id, falling back to the
// configured default subscription (AZURE_SUBSCRIPTION_ID) when the parameter
// is omitted.
func ExtractSubscriptionID(params map[string]interface{}, cfg *config.ConfigData) (string, error) {
	if subID := ExtractOptionalString(params, "subscription_id"); subID != "" {
		return subID, nil
	}
	if cfg != nil && cfg.DefaultSubscription != "" {
		return cfg.DefaultSubscription, nil
	}
	return "", tools.NewError(tools.KindInvalidRequest,
		"missing subscription_id parameter and no default subscription is configured")
}

// ExtractAuthType extracts and validates the auth_type parameter. An omitted
// or empty value selects the default credential chain.
func ExtractAuthType(params map[string]interface{}) (azure.AuthType, error) {
	raw, present := params["auth_type"]
	if !present {
		return azure.AuthTypeDefault, nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", tools.NewError(tools.KindInvalidRequest, "auth_type parameter must be a string, got %T", raw)
	}
	return azure.ParseAuthType(value)
}

// FormatJSON formats an object as an indented JSON string.
func FormatJSON(v interface{}) (string, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal to JSON: %v", err)
	}
	return string(jsonBytes), nil
}
