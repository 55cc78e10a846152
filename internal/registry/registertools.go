package registry

import (
	"github.com/Azure/azure-resources-mcp/internal/azure"
	"github.com/Azure/azure-resources-mcp/internal/components/automation"
	"github.com/Azure/azure-resources-mcp/internal/components/compute"
	"github.com/Azure/azure-resources-mcp/internal/components/resources"
	"github.com/Azure/azure-resources-mcp/internal/components/storage"
	"github.com/Azure/azure-resources-mcp/internal/config"
	"github.com/Azure/azure-resources-mcp/internal/tools"
)

// RegisterAllTools wires every tool component onto the registry.
func (r *ToolRegistry) RegisterAllTools(client *azure.AzureClient, cfg *config.ConfigData) {
	r.RegisterTool("list_resource_groups",
		resources.RegisterListResourceGroupsTool(),
		tools.CreateResourceHandler(resources.ListResourceGroupsHandler(client), cfg),
		CategoryResources)

	r.RegisterTool("list_storage_accounts",
		storage.RegisterListStorageAccountsTool(),
		tools.CreateResourceHandler(storage.ListStorageAccountsHandler(client), cfg),
		CategoryStorage)

	r.RegisterTool("get_storage_account_usage",
		storage.RegisterGetStorageAccountUsageTool(),
		tools.CreateResourceHandler(storage.GetStorageAccountUsageHandler(client), cfg),
		CategoryStorage)

	r.RegisterTool("list_storage_account_usage_all",
		storage.RegisterListStorageAccountUsageAllTool(),
		tools.CreateResourceHandler(storage.ListStorageAccountUsageAllHandler(client), cfg),
		CategoryStorage)

	r.RegisterTool("get_vm_details",
		compute.RegisterGetVMDetailsTool(),
		tools.CreateResourceHandler(compute.GetVMDetailsHandler(client), cfg),
		CategoryCompute)

	r.RegisterTool("list_vms_by_tag",
		compute.RegisterListVMsByTagTool(),
		tools.CreateResourceHandler(compute.ListVMsByTagHandler(client), cfg),
		CategoryCompute)

	r.RegisterTool("trigger_runbook",
		automation.RegisterTriggerRunbookTool(),
		tools.CreateResourceHandler(automation.TriggerRunbookHandler(client), cfg),
		CategoryAutomation)
}
