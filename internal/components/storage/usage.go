package storage

import (
	"context"

	"github.com/Azure/azure-resources-mcp/internal/azure"
	"github.com/Azure/azure-resources-mcp/internal/components/common"
	"github.com/Azure/azure-resources-mcp/internal/config"
	"github.com/Azure/azure-resources-mcp/internal/logger"
	"github.com/Azure/azure-resources-mcp/internal/tools"
	"golang.org/x/sync/errgroup"
)

// UsageItem is one entry in the list_storage_account_usage_all response.
// Either the usage fields or Error is populated, never both.
type UsageItem struct {
	AccountName   string           `json:"account_name"`
	ResourceGroup string           `json:"resource_group,omitempty"`
	UsedBytes     *float64         `json:"used_bytes,omitempty"`
	UsedGB        *float64         `json:"used_gb,omitempty"`
	UsedTiB       *float64         `json:"used_tib,omitempty"`
	UsedDisplay   string           `json:"used_display,omitempty"`
	Error         *tools.ToolError `json:"error,omitempty"`
}

// ListStorageAccountUsageAllHandler returns a handler for the
// list_storage_account_usage_all tool. The account listing must succeed;
// individual metric-fetch failures become partial_item_error entries rather
// than failing the whole call. Output order matches the account listing order
// regardless of fan-out completion order.
func ListStorageAccountUsageAllHandler(client StorageClient) tools.ResourceHandler {
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

		concurrency := 8
		if cfg != nil && cfg.UsageConcurrency > 0 {
			concurrency = cfg.UsageConcurrency
		}

		items := make([]UsageItem, len(accounts))
		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(concurrency)

		for i, account := range accounts {
			name := ""
			if account.Name != nil {
				name = *account.Name
			}
			resourceGroup := ""
			if account.ID != nil {
				resourceGroup = azure.ResourceGroupFromID(*account.ID)
			}

			items[i] = UsageItem{AccountName: name, ResourceGroup: resourceGroup}
			if name == "" || resourceGroup == "" {
				items[i].Error = tools.NewError(tools.KindPartialItemError,
					"account identity incomplete, cannot address usage metric")
				continue
			}

			index := i
			group.Go(func() error {
				usedBytes, hasData, err := client.GetStorageAccountUsedCapacity(groupCtx, subID, authType, resourceGroup, name)
				switch {
				case err != nil && groupCtx.Err() != nil:
					// Cancellation aborts the whole call; it must not be
					// reported as a per-item metric failure.
					return groupCtx.Err()
				case err != nil:
					terr := tools.AsToolError(err)
					items[index].Error = tools.NewError(tools.KindPartialItemError, "%s", terr.Message)
				case !hasData:
					items[index].Error = tools.NewError(tools.KindPartialItemError,
						"no recent UsedCapacity metric data")
				default:
					record := newUsageRecord(name, resourceGroup, usedBytes)
					items[index].UsedBytes = &record.UsedBytes
					items[index].UsedGB = &record.UsedGB
					items[index].UsedTiB = &record.UsedTiB
					items[index].UsedDisplay = record.UsedDisplay
				}
				// Per-item metric failures never abort the group.
				return nil
			})
		}

		// Wait surfaces cancellation only; per-item errors are embedded.
		if err := group.Wait(); err != nil {
			return "", err
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}

		failed := 0
		for _, item := range items {
			if item.Error != nil {
				failed++
			}
		}
		logger.Infof("fetched usage for %d storage accounts in subscription %s (%d failed)",
			len(items), subID, failed)

		return common.FormatJSON(items)
	})
}
