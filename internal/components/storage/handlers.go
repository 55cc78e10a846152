// Package storage provides the storage-account listing and usage tools.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-resources-mcp/internal/azure"
	"github.com/Azure/azure-resources-mcp/internal/components/common"
	"github.com/Azure/azure-resources-mcp/internal/config"
	"github.com/Azure/azure-resources-mcp/internal/logger"
	"github.com/Azure/azure-resources-mcp/internal/tools"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/storage/armstorage"
)

const (
	bytesPerGB  = float64(1 << 30)
	bytesPerTiB = float64(1 << 40)
)

// StorageClient is the slice of the Azure client this component needs.
type StorageClient interface {
	ListStorageAccounts(ctx context.Context, subscriptionID string, authType azure.AuthType) ([]*armstorage.Account, error)
	GetStorageAccountUsedCapacity(ctx context.Context, subscriptionID string, authType azure.AuthType, resourceGroup, accountName string) (float64, bool, error)
}

// AccountRecord is the client-facing shape of one storage account.
type AccountRecord struct {
	Name          string            `json:"name"`
	ID            string            `json:"id"`
	ResourceGroup string            `json:"resource_group"`
	Location      string            `json:"location"`
	SKU           *SKURecord        `json:"sku,omitempty"`
	Kind          string            `json:"kind,omitempty"`
	Tags          map[string]string `json:"tags"`
	Properties    *PropertiesRecord `json:"properties,omitempty"`
}

// SKURecord carries the account SKU name and tier.
type SKURecord struct {
	Name string `json:"name,omitempty"`
	Tier string `json:"tier,omitempty"`
}

// PropertiesRecord carries the subset of account properties the tools expose.
type PropertiesRecord struct {
	ProvisioningState     string            `json:"provisioning_state,omitempty"`
	PrimaryEndpoints      map[string]string `json:"primary_endpoints,omitempty"`
	CreationTime          string            `json:"creation_time,omitempty"`
	AccessTier            string            `json:"access_tier,omitempty"`
	AllowBlobPublicAccess *bool             `json:"allow_blob_public_access,omitempty"`
	AllowSharedKeyAccess  *bool             `json:"allow_shared_key_access,omitempty"`
}

// UsageRecord is the client-facing shape of one account's used capacity.
type UsageRecord struct {
	AccountName   string  `json:"account_name"`
	ResourceGroup string  `json:"resource_group"`
	UsedBytes     float64 `json:"used_bytes"`
	UsedGB        float64 `json:"used_gb"`
	UsedTiB       float64 `json:"used_tib"`
	UsedDisplay   string  `json:"used_display"`
}

// ListStorageAccountsHandler returns a handler for the list_storage_accounts tool.
func ListStorageAccountsHandler(client StorageClient) tools.ResourceHandler {
	return tools.ResourceHandlerFunc(func(ctx context.Context, params map[string]interface{}, cfg *config.ConfigData) (string, error) {
		subID, err := common.ExtractSubscriptionID(params, cfg)
		if err != nil {
			return "", err
		}
		authType, err := common.ExtractAuthType(params)
		if err != nil {
			return "", err
		}

		accounts, err := client.ListStorageAccounts(ctx, subID, authType)
		if err != nil {
			return "", err
		}

		records := make([]AccountRecord, 0, len(accounts))
		for _, account := range accounts {
			records = append(records, mapAccount(account))
		}
		logger.Infof("listed %d storage accounts in subscription %s", len(records), subID)

		return common.FormatJSON(records)
	})
}

// GetStorageAccountUsageHandler returns a handler for the
// get_storage_account_usage tool. All-or-nothing: either the one usage record
// comes back or the call fails.
func GetStorageAccountUsageHandler(client StorageClient) tools.ResourceHandler {
	return tools.ResourceHandlerFunc(func(ctx context.Context, params map[string]interface{}, cfg *config.ConfigData) (string, error) {
		subID, err := common.ExtractSubscriptionID(params, cfg)
		if err != nil {
			return "", err
		}
		resourceGroup, err := common.ExtractRequiredString(params, "resource_group_name")
		if err != nil {
			return "", err
		}
		accountName, err := common.ExtractRequiredString(params, "storage_account_name")
		if err != nil {
			return "", err
		}
		authType, err := common.ExtractAuthType(params)
		if err != nil {
			return "", err
		}

		usedBytes, hasData, err := client.GetStorageAccountUsedCapacity(ctx, subID, authType, resourceGroup, accountName)
		if err != nil {
			return "", err
		}
		if !hasData {
			return "", tools.NewError(tools.KindAzureAPIError,
				"no recent UsedCapacity metric data for storage account %s", accountName)
		}

		return common.FormatJSON(newUsageRecord(accountName, resourceGroup, usedBytes))
	})
}

func newUsageRecord(accountName, resourceGroup string, usedBytes float64) UsageRecord {
	return UsageRecord{
		AccountName:   accountName,
		ResourceGroup: resourceGroup,
		UsedBytes:     usedBytes,
		UsedGB:        usedBytes / bytesPerGB,
		UsedTiB:       usedBytes / bytesPerTiB,
		UsedDisplay:   formatBytes(usedBytes),
	}
}

// formatBytes renders a byte count as TiB when it crosses the TiB boundary,
// GB otherwise.
func formatBytes(byteValue float64) string {
	tib := byteValue / bytesPerTiB
	if tib >= 1 {
		return fmt.Sprintf("%.2f TiB", tib)
	}
	return fmt.Sprintf("%.2f GB", byteValue/bytesPerGB)
}

func mapAccount(account *armstorage.Account) AccountRecord {
	record := AccountRecord{Tags: map[string]string{}}
	if account.Name != nil {
		record.Name = *account.Name
	}
	if account.ID != nil {
		record.ID = *account.ID
		record.ResourceGroup = azure.ResourceGroupFromID(*account.ID)
	}
	if account.Location != nil {
		record.Location = *account.Location
	}
	if account.SKU != nil {
		sku := &SKURecord{}
		if account.SKU.Name != nil {
			sku.Name = string(*account.SKU.Name)
		}
		if account.SKU.Tier != nil {
			sku.Tier = string(*account.SKU.Tier)
		}
		record.SKU = sku
	}
	if account.Kind != nil {
		record.Kind = string(*account.Kind)
	}
	for key, value := range account.Tags {
		if value != nil {
			record.Tags[key] = *value
		}
	}
	if props := account.Properties; props != nil {
		rec := &PropertiesRecord{}
		if props.ProvisioningState != nil {
			rec.ProvisioningState = string(*props.ProvisioningState)
		}
		if props.CreationTime != nil {
			rec.CreationTime = props.CreationTime.Format(time.RFC3339)
		}
		if props.AccessTier != nil {
			rec.AccessTier = string(*props.AccessTier)
		}
		rec.AllowBlobPublicAccess = props.AllowBlobPublicAccess
		rec.AllowSharedKeyAccess = props.AllowSharedKeyAccess
		if endpoints := props.PrimaryEndpoints; endpoints != nil {
			rec.PrimaryEndpoints = map[string]string{}
			for name, value := range map[string]*string{
				"blob":  endpoints.Blob,
				"dfs":   endpoints.Dfs,
				"file":  endpoints.File,
				"queue": endpoints.Queue,
				"table": endpoints.Table,
				"web":   endpoints.Web,
			} {
				if value != nil {
					rec.PrimaryEndpoints[name] = *value
				}
			}
		}
		record.Properties = rec
	}
	return record
}
