// Package tools defines the handler abstraction shared by all MCP tools and
// the adapter that bridges handlers onto the MCP server.
package tools

import (
	"context"

	"github.com/Azure/azure-resources-mcp/internal/config"
)

// ResourceHandler defines the interface for handling Azure SDK-based resource
// operations.
type ResourceHandler interface {
	Handle(ctx context.Context, params map[string]interface{}, cfg *config.ConfigData) (string, error)
}

// ResourceHandlerFunc is a function type that implements ResourceHandler.
// This allows regular functions to be used as handlers without defining a
// struct.
type ResourceHandlerFunc func(ctx context.Context, params map[string]interface{}, cfg *config.ConfigData) (string, error)

var _ ResourceHandler = ResourceHandlerFunc(nil)

// Handle implements the ResourceHandler interface for ResourceHandlerFunc.
func (f ResourceHandlerFunc) Handle(ctx context.Context, params map[string]interface{}, cfg *config.ConfigData) (string, error) {
	return f(ctx, params, cfg)
}
