package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
)

// ErrorKind classifies a tool failure for the client.
type ErrorKind string

const (
	// KindInvalidRequest indicates a missing or malformed parameter.
	KindInvalidRequest ErrorKind = "invalid_request"
	// KindUnknownAuthType indicates an unrecognized auth_type value.
	KindUnknownAuthType ErrorKind = "unknown_auth_type"
	// KindMissingConfig indicates a required credential environment value is absent.
	KindMissingConfig ErrorKind = "missing_config"
	// KindAzureAPIError indicates a failure surfaced by the management SDK.
	KindAzureAPIError ErrorKind = "azure_api_error"
	// KindPartialItemError marks a per-item failure inside an otherwise
	// successful aggregate response.
	KindPartialItemError ErrorKind = "partial_item_error"
)

// ToolError is the structured error every handler failure is reduced to
// before it crosses the MCP boundary.
type ToolError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewError creates a ToolError with the given kind and formatted message.
func NewError(kind ErrorKind, format string, args ...interface{}) *ToolError {
	return &ToolError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// errorEnvelope is the JSON shape returned to MCP clients on failure.
type errorEnvelope struct {
	Error *ToolError `json:"error"`
}

// ResultJSON renders the error as the client-facing JSON envelope.
func (e *ToolError) ResultJSON() string {
	data, err := json.Marshal(errorEnvelope{Error: e})
	if err != nil {
		return fmt.Sprintf(`{"error":{"kind":%q,"message":"failed to encode error"}}`, e.Kind)
	}
	return string(data)
}

// AsToolError reduces an arbitrary handler error to a ToolError. Errors that
// are not already classified are treated as Azure API failures with a
// sanitized message: response bodies and stack details never reach the client.
func AsToolError(err error) *ToolError {
	var te *ToolError
	if errors.As(err, &te) {
		return te
	}
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return NewError(KindAzureAPIError, "azure request failed: %s (HTTP %d)", respErr.ErrorCode, respErr.StatusCode)
	}
	return NewError(KindAzureAPIError, "%v", err)
}
