package storage

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// RegisterListStorageAccountsTool registers the list_storage_accounts tool.
func RegisterListStorageAccountsTool() mcp.Tool {
	return mcp.NewTool(
		"list_storage_accounts",
		mcp.WithDescription("List all storage accounts in an Azure subscription with their name, id, location, sku and kind"),
		mcp.WithString("subscription_id",
			mcp.Description("Azure Subscription ID (falls back to AZURE_SUBSCRIPTION_ID when omitted)"),
			mcp.Required(),
		),
		mcp.WithString("auth_type",
			mcp.Description("Authentication method: 'default', 'spn' or 'identity'. Defaults to 'default'"),
		),
	)
}

// RegisterGetStorageAccountUsageTool registers the get_storage_account_usage tool.
func RegisterGetStorageAccountUsageTool() mcp.Tool {
	return mcp.NewTool(
		"get_storage_account_usage",
		mcp.WithDescription("Get the used capacity of one storage account, converted to GB and TiB"),
		mcp.WithString("subscription_id",
			mcp.Description("Azure Subscription ID (falls back to AZURE_SUBSCRIPTION_ID when omitted)"),
			mcp.Required(),
		),
		mcp.WithString("resource_group_name",
			mcp.Description("Resource group containing the storage account"),
			mcp.Required(),
		),
		mcp.WithString("storage_account_name",
			mcp.Description("Name of the storage account"),
			mcp.Required(),
		),
		mcp.WithString("auth_type",
			mcp.Description("Authentication method: 'default', 'spn' or 'identity'. Defaults to 'default'"),
		),
	)
}

// RegisterListStorageAccountUsageAllTool registers the
// list_storage_account_usage_all tool.
func RegisterListStorageAccountUsageAllTool() mcp.Tool {
	return mcp.NewTool(
		"list_storage_account_usage_all",
		mcp.WithDescription("List all storage accounts in a subscription with their used capacity. Slow for subscriptions with many accounts; per-account metric failures are reported per item"),
		mcp.WithString("subscription_id",
			mcp.Description("Azure Subscription ID (falls back to AZURE_SUBSCRIPTION_ID when omitted)"),
			mcp.Required(),
		),
		mcp.WithString("auth_type",
			mcp.Description("Authentication method: 'default', 'spn' or 'identity'. Defaults to 'default'"),
		),
	)
}
