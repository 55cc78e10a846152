// Package compute provides VM inspection tools.
package compute

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Azure/azure-resources-mcp/internal/azure"
	"github.com/Azure/azure-resources-mcp/internal/components/common"
	"github.com/Azure/azure-resources-mcp/internal/config"
	"github.com/Azure/azure-resources-mcp/internal/logger"
	"github.com/Azure/azure-resources-mcp/internal/tools"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v4"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
)

// ComputeClient is the slice of the Azure client this component needs.
type ComputeClient interface {
	ListResourceGroups(ctx context.Context, subscriptionID string, authType azure.AuthType) ([]*armresources.ResourceGroup, error)
	GetVirtualMachine(ctx context.Context, subscriptionID string, authType azure.AuthType, resourceGroup, vmName string) (*armcompute.VirtualMachine, error)
	ListVirtualMachines(ctx context.Context, subscriptionID string, authType azure.AuthType, resourceGroup string) ([]*armcompute.VirtualMachine, error)
	GetVirtualMachineInstanceView(ctx context.Context, subscriptionID string, authType azure.AuthType, resourceGroup, vmName string) (*armcompute.VirtualMachineInstanceView, error)
}

// VMRecord is the client-facing shape of one virtual machine.
type VMRecord struct {
	Name          string            `json:"name"`
	ID            string            `json:"id"`
	ResourceGroup string            `json:"resource_group"`
	Location      string            `json:"location"`
	PowerState    string            `json:"power_state"`
	VMSize        string            `json:"vm_size,omitempty"`
	CPU           int               `json:"cpu,omitempty"`
	Memory        string            `json:"memory,omitempty"`
	OSType        string            `json:"os_type,omitempty"`
	Tags          map[string]string `json:"tags"`
}

// vmSizeSpecs maps common VM sizes to their CPU and memory spec. Sizes
// outside the map simply omit the spec fields.
var vmSizeSpecs = map[string]struct {
	CPU    int
	Memory string
}{
	"Standard_E8ds_v5":  {CPU: 8, Memory: "64 GB"},
	"Standard_E16ds_v5": {CPU: 16, Memory: "128 GB"},
	"Standard_E32ds_v5": {CPU: 32, Memory: "256 GB"},
	"Standard_E64ds_v5": {CPU: 64, Memory: "512 GB"},
	"Standard_D4s_v3":   {CPU: 4, Memory: "16 GB"},
	"Standard_D16s_v3":  {CPU: 16, Memory: "64 GB"},
	"Standard_D32s_v3":  {CPU: 32, Memory: "128 GB"},
	"Standard_D64s_v3":  {CPU: 64, Memory: "256 GB"},
}

// GetVMDetailsHandler returns a handler for the get_vm_details tool. The VM
// is searched across all resource groups since callers usually know the VM
// name but not its group.
func GetVMDetailsHandler(client ComputeClient) tools.ResourceHandler {
	return tools.ResourceHandlerFunc(func(ctx context.Context, params map[string]interface{}, cfg *config.ConfigData) (string, error) {
		subID, err := common.ExtractSubscriptionID(params, cfg)
		if err != nil {
			return "", err
		}
		vmName, err := common.ExtractRequiredString(params, "vm_name")
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

		for _, group := range groups {
			if group.Name == nil {
				continue
			}
			vm, err := client.GetVirtualMachine(ctx, subID, authType, *group.Name, vmName)
			if err != nil {
				if isNotFound(err) {
					continue
				}
				// A group we cannot read should not abort the search.
				logger.Warnf("skipping resource group %s while searching for VM %s: %v", *group.Name, vmName, err)
				continue
			}
			return common.FormatJSON(mapVM(vm, *group.Name))
		}

		return "", tools.NewError(tools.KindAzureAPIError,
			"VM %q not found in subscription %s", vmName, subID)
	})
}

// ListVMsByTagHandler returns a handler for the list_vms_by_tag tool.
func ListVMsByTagHandler(client ComputeClient) tools.ResourceHandler {
	return tools.ResourceHandlerFunc(func(ctx context.Context, params map[string]interface{}, cfg *config.ConfigData) (string, error) {
		subID, err := common.ExtractSubscriptionID(params, cfg)
		if err != nil {
			return "", err
		}
		tagName, err := common.ExtractRequiredString(params, "tag_name")
		if err != nil {
			return "", err
		}
		tagValue, err := common.ExtractRequiredString(params, "tag_value")
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

		matched := []VMRecord{}
		for _, group := range groups {
			if group.Name == nil {
				continue
			}
			machines, err := client.ListVirtualMachines(ctx, subID, authType, *group.Name)
			if err != nil {
				logger.Warnf("skipping resource group %s while matching tag %s: %v", *group.Name, tagName, err)
				continue
			}
			for _, vm := range machines {
				if vm.Name == nil || !tagMatches(vm.Tags, tagName, tagValue) {
					continue
				}
				record := mapVM(vm, *group.Name)
				if record.PowerState == "" {
					// The list API omits the instance view; fetch it for matches only.
					view, err := client.GetVirtualMachineInstanceView(ctx, subID, authType, *group.Name, *vm.Name)
					if err != nil {
						logger.Warnf("failed to fetch instance view for VM %s: %v", *vm.Name, err)
					} else {
						record.PowerState = powerStateFromStatuses(view.Statuses)
					}
				}
				matched = append(matched, record)
			}
		}

		logger.Infof("found %d VMs with tag %s=%s in subscription %s", len(matched), tagName, tagValue, subID)
		return common.FormatJSON(matched)
	})
}

func isNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}

// tagMatches compares tag name and value case-insensitively.
func tagMatches(tags map[string]*string, name, value string) bool {
	for key, tagValue := range tags {
		if !strings.EqualFold(strings.TrimSpace(key), strings.TrimSpace(name)) {
			continue
		}
		return tagValue != nil && strings.EqualFold(strings.TrimSpace(*tagValue), strings.TrimSpace(value))
	}
	return false
}

func powerStateFromStatuses(statuses []*armcompute.InstanceViewStatus) string {
	for _, status := range statuses {
		if status == nil || status.Code == nil {
			continue
		}
		if strings.HasPrefix(*status.Code, "PowerState/") {
			if status.DisplayStatus != nil {
				return *status.DisplayStatus
			}
			return strings.TrimPrefix(*status.Code, "PowerState/")
		}
	}
	return ""
}

func mapVM(vm *armcompute.VirtualMachine, resourceGroup string) VMRecord {
	record := VMRecord{ResourceGroup: resourceGroup, Tags: map[string]string{}}
	if vm.Name != nil {
		record.Name = *vm.Name
	}
	if vm.ID != nil {
		record.ID = *vm.ID
	}
	if vm.Location != nil {
		record.Location = *vm.Location
	}
	for key, value := range vm.Tags {
		if value != nil {
			record.Tags[key] = *value
		}
	}
	if props := vm.Properties; props != nil {
		if props.HardwareProfile != nil && props.HardwareProfile.VMSize != nil {
			record.VMSize = string(*props.HardwareProfile.VMSize)
			if spec, ok := vmSizeSpecs[record.VMSize]; ok {
				record.CPU = spec.CPU
				record.Memory = spec.Memory
			}
		}
		if props.StorageProfile != nil && props.StorageProfile.OSDisk != nil && props.StorageProfile.OSDisk.OSType != nil {
			record.OSType = string(*props.StorageProfile.OSDisk.OSType)
		}
		if props.InstanceView != nil {
			record.PowerState = powerStateFromStatuses(props.InstanceView.Statuses)
		}
	}
	return record
}
