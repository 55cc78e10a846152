package automation

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// RegisterTriggerRunbookTool registers the trigger_runbook tool.
func RegisterTriggerRunbookTool() mcp.Tool {
	return mcp.NewTool(
		"trigger_runbook",
		mcp.WithDescription("Trigger an Azure Automation runbook job, wait for it to reach a terminal state and return its output streams"),
		mcp.WithString("subscription_id",
			mcp.Description("Azure Subscription ID (falls back to AZURE_SUBSCRIPTION_ID when omitted)"),
			mcp.Required(),
		),
		mcp.WithString("resource_group_name",
			mcp.Description("Resource group containing the Automation account"),
			mcp.Required(),
		),
		mcp.WithString("automation_account_name",
			mcp.Description("Name of the Automation account"),
			mcp.Required(),
		),
		mcp.WithString("runbook_name",
			mcp.Description("Name of the runbook to start"),
			mcp.Required(),
		),
		mcp.WithString("runbook_parameters",
			mcp.Description("Optional JSON object of string parameters passed to the runbook, e.g. {\"VMName\":\"vm01\"}"),
		),
		mcp.WithString("timeout_seconds",
			mcp.Description("Optional job wait timeout in seconds (default 900)"),
		),
		mcp.WithString("auth_type",
			mcp.Description("Authentication method: 'default', 'spn' or 'identity'. Defaults to 'default'"),
		),
	)
}
