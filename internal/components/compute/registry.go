package compute

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// RegisterGetVMDetailsTool registers the get_vm_details tool.
func RegisterGetVMDetailsTool() mcp.Tool {
	return mcp.NewTool(
		"get_vm_details",
		mcp.WithDescription("Get detailed information for one Azure VM by name, searched across all resource groups in the subscription"),
		mcp.WithString("subscription_id",
			mcp.Description("Azure Subscription ID (falls back to AZURE_SUBSCRIPTION_ID when omitted)"),
			mcp.Required(),
		),
		mcp.WithString("vm_name",
			mcp.Description("Name of the virtual machine"),
			mcp.Required(),
		),
		mcp.WithString("auth_type",
			mcp.Description("Authentication method: 'default', 'spn' or 'identity'. Defaults to 'default'"),
		),
	)
}

// RegisterListVMsByTagTool registers the list_vms_by_tag tool.
func RegisterListVMsByTagTool() mcp.Tool {
	return mcp.NewTool(
		"list_vms_by_tag",
		mcp.WithDescription("List Azure VMs whose tag matches the given name and value (case-insensitive), with their power state"),
		mcp.WithString("subscription_id",
			mcp.Description("Azure Subscription ID (falls back to AZURE_SUBSCRIPTION_ID when omitted)"),
			mcp.Required(),
		),
		mcp.WithString("tag_name",
			mcp.Description("Name of the tag to match"),
			mcp.Required(),
		),
		mcp.WithString("tag_value",
			mcp.Description("Value of the tag to match"),
			mcp.Required(),
		),
		mcp.WithString("auth_type",
			mcp.Description("Authentication method: 'default', 'spn' or 'identity'. Defaults to 'default'"),
		),
	)
}
