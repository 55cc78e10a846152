// Package registry provides the tool registry for the MCP server.
package registry

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ToolCategory defines a category for tools.
type ToolCategory string

const (
	// CategoryResources defines tools related to resource groups.
	CategoryResources ToolCategory = "resources"
	// CategoryStorage defines tools related to storage accounts.
	CategoryStorage ToolCategory = "storage"
	// CategoryCompute defines tools related to virtual machines.
	CategoryCompute ToolCategory = "compute"
	// CategoryAutomation defines tools related to Automation runbooks.
	CategoryAutomation ToolCategory = "automation"
)

// ToolDefinition defines a tool and its handler.
type ToolDefinition struct {
	Tool     mcp.Tool
	Handler  server.ToolHandlerFunc
	Category ToolCategory
}

// ToolRegistry is a registry of tools exposed by the server.
type ToolRegistry struct {
	tools map[string]ToolDefinition
	order []string
}

// NewToolRegistry creates a new tool registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools: make(map[string]ToolDefinition),
	}
}

// RegisterTool registers a tool with the registry. Re-registering a name
// replaces the previous definition.
func (r *ToolRegistry) RegisterTool(name string, tool mcp.Tool, handler server.ToolHandlerFunc, category ToolCategory) {
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = ToolDefinition{
		Tool:     tool,
		Handler:  handler,
		Category: category,
	}
}

// GetTool returns the definition registered under name.
func (r *ToolRegistry) GetTool(name string) (ToolDefinition, bool) {
	def, ok := r.tools[name]
	return def, ok
}

// ToolNames returns all registered tool names in registration order.
func (r *ToolRegistry) ToolNames() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// ConfigureMCPServer registers all tools with the MCP server.
func (r *ToolRegistry) ConfigureMCPServer(mcpServer *server.MCPServer) {
	for _, name := range r.order {
		def := r.tools[name]
		mcpServer.AddTool(def.Tool, def.Handler)
	}
}
