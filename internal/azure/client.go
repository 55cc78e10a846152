// Package azure provides Azure management-plane access for the MCP server.
package azure

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Azure/azure-resources-mcp/internal/logger"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/automation/armautomation"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v4"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/monitor/armmonitor"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/storage/armstorage"
)

// usedCapacityWindow is how far back the UsedCapacity metric is queried.
// Azure emits the metric hourly, so a 12h window always contains data for a
// healthy account.
const usedCapacityWindow = 12 * time.Hour

// clientKey identifies a client set. Keyed by subscription AND auth type so a
// cached service-principal client is never handed to a caller that asked for
// managed identity.
type clientKey struct {
	subscriptionID string
	authType       AuthType
}

// SubscriptionClients contains management-plane clients for one subscription
// under one credential strategy.
type SubscriptionClients struct {
	SubscriptionID        string
	AuthType              AuthType
	ResourceGroupsClient  *armresources.ResourceGroupsClient
	AccountsClient        *armstorage.AccountsClient
	MetricsClient         *armmonitor.MetricsClient
	VirtualMachinesClient *armcompute.VirtualMachinesClient
	JobClient             *armautomation.JobClient
	JobStreamClient       *armautomation.JobStreamClient
}

// AzureClient is a factory and cache for management-plane clients across
// subscriptions and credential strategies.
type AzureClient struct {
	clientsMap map[clientKey]*SubscriptionClients
	mu         sync.RWMutex
}

// NewAzureClient creates a new Azure client. Credentials are resolved lazily
// per (subscription, auth type) pair on first use.
func NewAzureClient() *AzureClient {
	return &AzureClient{
		clientsMap: make(map[clientKey]*SubscriptionClients),
	}
}

// getOrCreateClients gets existing clients for a subscription and auth type
// or creates new ones.
func (c *AzureClient) getOrCreateClients(subscriptionID string, authType AuthType) (*SubscriptionClients, error) {
	key := clientKey{subscriptionID: subscriptionID, authType: authType}

	c.mu.RLock()
	clients, exists := c.clientsMap[key]
	c.mu.RUnlock()

	if exists {
		return clients, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have created the clients while we waited.
	if clients, exists = c.clientsMap[key]; exists {
		return clients, nil
	}

	cred, err := ResolveCredential(authType)
	if err != nil {
		return nil, err
	}

	resourceGroupsClient, err := armresources.NewResourceGroupsClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource groups client for subscription %s: %v", subscriptionID, err)
	}

	accountsClient, err := armstorage.NewAccountsClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage accounts client for subscription %s: %v", subscriptionID, err)
	}

	metricsClient, err := armmonitor.NewMetricsClient(cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics client for subscription %s: %v", subscriptionID, err)
	}

	vmClient, err := armcompute.NewVirtualMachinesClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create virtual machines client for subscription %s: %v", subscriptionID, err)
	}

	jobClient, err := armautomation.NewJobClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create automation job client for subscription %s: %v", subscriptionID, err)
	}

	jobStreamClient, err := armautomation.NewJobStreamClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create automation job stream client for subscription %s: %v", subscriptionID, err)
	}

	clients = &SubscriptionClients{
		SubscriptionID:        subscriptionID,
		AuthType:              authType,
		ResourceGroupsClient:  resourceGroupsClient,
		AccountsClient:        accountsClient,
		MetricsClient:         metricsClient,
		VirtualMachinesClient: vmClient,
		JobClient:             jobClient,
		JobStreamClient:       jobStreamClient,
	}

	c.clientsMap[key] = clients
	logger.Debugf("created management clients for subscription %s (auth: %s)", subscriptionID, authType)
	return clients, nil
}

// ListResourceGroups lists all resource groups in a subscription.
func (c *AzureClient) ListResourceGroups(ctx context.Context, subscriptionID string, authType AuthType) ([]*armresources.ResourceGroup, error) {
	clients, err := c.getOrCreateClients(subscriptionID, authType)
	if err != nil {
		return nil, err
	}

	var groups []*armresources.ResourceGroup
	pager := clients.ResourceGroupsClient.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get next page of resource groups: %w", err)
		}
		for _, group := range page.Value {
			if group != nil {
				groups = append(groups, group)
			}
		}
	}
	return groups, nil
}

// ListStorageAccounts lists all storage accounts in a subscription.
func (c *AzureClient) ListStorageAccounts(ctx context.Context, subscriptionID string, authType AuthType) ([]*armstorage.Account, error) {
	clients, err := c.getOrCreateClients(subscriptionID, authType)
	if err != nil {
		return nil, err
	}

	var accounts []*armstorage.Account
	pager := clients.AccountsClient.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get next page of storage accounts: %w", err)
		}
		for _, account := range page.Value {
			if account != nil {
				accounts = append(accounts, account)
			}
		}
	}
	return accounts, nil
}

// GetStorageAccountUsedCapacity fetches the latest UsedCapacity metric value
// for one storage account, in bytes. The second return value is false when
// the metric exists but carried no data points in the query window.
func (c *AzureClient) GetStorageAccountUsedCapacity(ctx context.Context, subscriptionID string, authType AuthType, resourceGroup, accountName string) (float64, bool, error) {
	clients, err := c.getOrCreateClients(subscriptionID, authType)
	if err != nil {
		return 0, false, err
	}

	resourceURI := StorageAccountResourceID(subscriptionID, resourceGroup, accountName)
	end := time.Now().UTC()
	start := end.Add(-usedCapacityWindow)

	resp, err := clients.MetricsClient.List(ctx, resourceURI, &armmonitor.MetricsClientListOptions{
		Timespan:        to.Ptr(fmt.Sprintf("%s/%s", start.Format(time.RFC3339), end.Format(time.RFC3339))),
		Interval:        to.Ptr("PT1H"),
		Metricnames:     to.Ptr("UsedCapacity"),
		Aggregation:     to.Ptr("Average"),
		Metricnamespace: to.Ptr("Microsoft.Storage/storageAccounts"),
	})
	if err != nil {
		return 0, false, fmt.Errorf("failed to fetch UsedCapacity for %s: %w", accountName, err)
	}

	value, ok := latestAverage(resp.Value)
	return value, ok, nil
}

// latestAverage walks a metric response and returns the most recent data
// point carrying an average.
func latestAverage(metrics []*armmonitor.Metric) (float64, bool) {
	for _, metric := range metrics {
		if metric == nil {
			continue
		}
		for _, series := range metric.Timeseries {
			if series == nil {
				continue
			}
			for i := len(series.Data) - 1; i >= 0; i-- {
				if point := series.Data[i]; point != nil && point.Average != nil {
					return *point.Average, true
				}
			}
		}
	}
	return 0, false
}

// GetVirtualMachine retrieves one VM including its instance view.
func (c *AzureClient) GetVirtualMachine(ctx context.Context, subscriptionID string, authType AuthType, resourceGroup, vmName string) (*armcompute.VirtualMachine, error) {
	clients, err := c.getOrCreateClients(subscriptionID, authType)
	if err != nil {
		return nil, err
	}

	resp, err := clients.VirtualMachinesClient.Get(ctx, resourceGroup, vmName, &armcompute.VirtualMachinesClientGetOptions{
		Expand: to.Ptr(armcompute.InstanceViewTypesInstanceView),
	})
	if err != nil {
		return nil, err
	}
	return &resp.VirtualMachine, nil
}

// ListVirtualMachines lists all VMs in a resource group.
func (c *AzureClient) ListVirtualMachines(ctx context.Context, subscriptionID string, authType AuthType, resourceGroup string) ([]*armcompute.VirtualMachine, error) {
	clients, err := c.getOrCreateClients(subscriptionID, authType)
	if err != nil {
		return nil, err
	}

	var machines []*armcompute.VirtualMachine
	pager := clients.VirtualMachinesClient.NewListPager(resourceGroup, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get next page of virtual machines: %w", err)
		}
		for _, vm := range page.Value {
			if vm != nil {
				machines = append(machines, vm)
			}
		}
	}
	return machines, nil
}

// GetVirtualMachineInstanceView retrieves the runtime state of one VM.
func (c *AzureClient) GetVirtualMachineInstanceView(ctx context.Context, subscriptionID string, authType AuthType, resourceGroup, vmName string) (*armcompute.VirtualMachineInstanceView, error) {
	clients, err := c.getOrCreateClients(subscriptionID, authType)
	if err != nil {
		return nil, err
	}

	resp, err := clients.VirtualMachinesClient.InstanceView(ctx, resourceGroup, vmName, nil)
	if err != nil {
		return nil, err
	}
	return &resp.VirtualMachineInstanceView, nil
}

// CreateRunbookJob starts an automation runbook job.
func (c *AzureClient) CreateRunbookJob(ctx context.Context, subscriptionID string, authType AuthType, resourceGroup, automationAccount, jobName, runbookName string, parameters map[string]*string) (*armautomation.Job, error) {
	clients, err := c.getOrCreateClients(subscriptionID, authType)
	if err != nil {
		return nil, err
	}

	resp, err := clients.JobClient.Create(ctx, resourceGroup, automationAccount, jobName,
		armautomation.JobCreateParameters{
			Properties: &armautomation.JobCreateProperties{
				Runbook:    &armautomation.RunbookAssociationProperty{Name: to.Ptr(runbookName)},
				Parameters: parameters,
			},
		}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create job for runbook %s: %w", runbookName, err)
	}
	return &resp.Job, nil
}

// GetRunbookJob fetches the current state of an automation job.
func (c *AzureClient) GetRunbookJob(ctx context.Context, subscriptionID string, authType AuthType, resourceGroup, automationAccount, jobName string) (*armautomation.Job, error) {
	clients, err := c.getOrCreateClients(subscriptionID, authType)
	if err != nil {
		return nil, err
	}

	resp, err := clients.JobClient.Get(ctx, resourceGroup, automationAccount, jobName, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get job %s: %w", jobName, err)
	}
	return &resp.Job, nil
}

// ListRunbookJobStreams lists the output streams of an automation job.
func (c *AzureClient) ListRunbookJobStreams(ctx context.Context, subscriptionID string, authType AuthType, resourceGroup, automationAccount, jobName string) ([]*armautomation.JobStream, error) {
	clients, err := c.getOrCreateClients(subscriptionID, authType)
	if err != nil {
		return nil, err
	}

	var streams []*armautomation.JobStream
	pager := clients.JobStreamClient.NewListByJobPager(resourceGroup, automationAccount, jobName, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get next page of job streams: %w", err)
		}
		for _, stream := range page.Value {
			if stream != nil {
				streams = append(streams, stream)
			}
		}
	}
	return streams, nil
}
