package azure

import (
	"fmt"
	"strings"
)

// StorageAccountResourceID builds the ARM resource ID for a storage account,
// used as the metric scope for Azure Monitor queries.
func StorageAccountResourceID(subscriptionID, resourceGroup, accountName string) string {
	return fmt.Sprintf(
		"/subscriptions/%s/resourceGroups/%s/providers/Microsoft.Storage/storageAccounts/%s",
		subscriptionID, resourceGroup, accountName,
	)
}

// ResourceGroupFromID extracts the resource group name from an ARM resource
// ID. Returns an empty string when the ID does not contain one.
func ResourceGroupFromID(resourceID string) string {
	segments := strings.Split(strings.Trim(resourceID, "/"), "/")
	for i := 0; i+1 < len(segments); i += 2 {
		if strings.EqualFold(segments[i], "resourceGroups") {
			return segments[i+1]
		}
	}
	return ""
}
