package resources

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// RegisterListResourceGroupsTool registers the list_resource_groups tool.
func RegisterListResourceGroupsTool() mcp.Tool {
	return mcp.NewTool(
		"list_resource_groups",
		mcp.WithDescription("List all resource groups in an Azure subscription with their name, id, location and tags"),
		mcp.WithString("subscription_id",
			mcp.Description("Azure Subscription ID (falls back to AZURE_SUBSCRIPTION_ID when omitted)"),
			mcp.Required(),
		),
		mcp.WithString("auth_type",
			mcp.Description("Authentication method: 'default' (ambient credential chain), 'spn' (service principal) or 'identity' (managed identity). Defaults to 'default'"),
		),
	)
}
