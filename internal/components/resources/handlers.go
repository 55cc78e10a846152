// Package resources provides the resource-group listing tool.
package resources

import (
	"context"

	"github.com/Azure/azure-resources-mcp/internal/azure"
	"github.com/Azure/azure-resources-mcp/internal/components/common"
	"github.com/Azure/azure-resources-mcp/internal/config"
	"github.com/Azure/azure-resources-mcp/internal/logger"
	"github.com/Azure/azure-resources-mcp/internal/tools"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
)

// GroupsClient is the slice of the Azure client this component needs.
type GroupsClient interface {
	ListResourceGroups(ctx context.Context, subscriptionID string, authType azure.AuthType) ([]*armresources.ResourceGroup, error)
}

// GroupRecord is the client-facing shape of one resource group.
type GroupRecord struct {
	Name              string            `json:"name"`
	ID                string            `json:"id"`
	Location          string            `json:"location"`
	Tags              map[string]string `json:"tags"`
	ManagedBy         string            `json:"managed_by,omitempty"`
	ProvisioningState string            `json:"provisioning_state,omitempty"`
}

// ListResourceGroupsHandler returns a handler for the list_resource_groups tool.
func ListResourceGroupsHandler(client GroupsClient) tools.ResourceHandler {
	return tools.ResourceHandlerFunc(func(ctx context.Context, params map[string]interface{}, cfg *config.ConfigData) (string, error) {
		subID, err := common.ExtractSubscriptionID(params, cfg)
		if err != nil {
			return "", err
		}
		authType, err := common.ExtractAuthType(params)
		if err != nil {
			return "", err
		}

		groups, err := client.ListResourceGroups(ctx, subID, authType)
		if err != nil {
			return "", err
		}

		records := make([]GroupRecord, 0, len(groups))
		for _, group := range groups {
			records = append(records, mapGroup(group))
		}
		logger.Infof("listed %d resource groups in subscription %s", len(records), subID)

		return common.FormatJSON(records)
	})
}

func mapGroup(group *armresources.ResourceGroup) GroupRecord {
	record := GroupRecord{Tags: map[string]string{}}
	if group.Name != nil {
		record.Name = *group.Name
	}
	if group.ID != nil {
		record.ID = *group.ID
	}
	if group.Location != nil {
		record.Location = *group.Location
	}
	if group.ManagedBy != nil {
		record.ManagedBy = *group.ManagedBy
	}
	if group.Properties != nil && group.Properties.ProvisioningState != nil {
		record.ProvisioningState = *group.Properties.ProvisioningState
	}
	for key, value := range group.Tags {
		if value != nil {
			record.Tags[key] = *value
		}
	}
	return record
}
