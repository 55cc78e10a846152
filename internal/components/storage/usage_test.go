package storage

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/Azure/azure-resources-mcp/internal/azure"
	"github.com/Azure/azure-resources-mcp/internal/config"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/storage/armstorage"
)

func TestListStorageAccountUsageAllHandler_PartialFailure(t *testing.T) {
	client := &fakeStorageClient{
		accounts: []*armstorage.Account{
			testAccount("store1", "rg-a"),
			testAccount("store2", "rg-a"),
			testAccount("store3", "rg-b"),
		},
		usage: map[string]usageResult{
			"store1": {bytes: 10 * bytesPerGB, hasData: true},
			"store2": {err: errors.New("throttled")},
			"store3": {bytes: 2 * bytesPerTiB, hasData: true},
		},
	}

	handler := ListStorageAccountUsageAllHandler(client)
	result, err := handler.Handle(context.Background(), map[string]interface{}{
		"subscription_id": "sub-123",
	}, config.NewConfig())
	if err != nil {
		t.Fatalf("Per-item failures must not fail the call, got: %v", err)
	}

	var items []UsageItem
	if err := json.Unmarshal([]byte(result), &items); err != nil {
		t.Fatalf("Result is not valid JSON: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}

	// Output order matches the listing order regardless of fan-out timing.
	for i, expected := range []string{"store1", "store2", "store3"} {
		if items[i].AccountName != expected {
			t.Errorf("Item %d: expected account %q, got %q", i, expected, items[i].AccountName)
		}
	}

	if items[0].Error != nil {
		t.Errorf("Expected store1 to succeed, got error: %v", items[0].Error)
	}
	if items[0].UsedBytes == nil || *items[0].UsedBytes != 10*bytesPerGB {
		t.Errorf("Unexpected store1 usage: %+v", items[0])
	}

	if items[1].Error == nil {
		t.Fatal("Expected store2 to carry a per-item error")
	}
	if items[1].Error.Kind != "partial_item_error" {
		t.Errorf("Expected partial_item_error, got %q", items[1].Error.Kind)
	}
	if items[1].UsedBytes != nil {
		t.Error("Failed item must not carry usage fields")
	}

	if items[2].Error != nil || items[2].UsedDisplay != "2.00 TiB" {
		t.Errorf("Unexpected store3 item: %+v", items[2])
	}
}

func TestListStorageAccountUsageAllHandler_ListFails(t *testing.T) {
	handler := ListStorageAccountUsageAllHandler(&fakeStorageClient{listErr: errors.New("list failed")})
	_, err := handler.Handle(context.Background(), map[string]interface{}{
		"subscription_id": "sub-123",
	}, config.NewConfig())
	if err == nil {
		t.Fatal("Expected error when the account listing fails, got nil")
	}
}

func TestListStorageAccountUsageAllHandler_NoData(t *testing.T) {
	client := &fakeStorageClient{
		accounts: []*armstorage.Account{testAccount("coldstore", "rg-a")},
		usage: map[string]usageResult{
			"coldstore": {hasData: false},
		},
	}

	handler := ListStorageAccountUsageAllHandler(client)
	result, err := handler.Handle(context.Background(), map[string]interface{}{
		"subscription_id": "sub-123",
	}, config.NewConfig())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	var items []UsageItem
	if err := json.Unmarshal([]byte(result), &items); err != nil {
		t.Fatalf("Result is not valid JSON: %v", err)
	}
	if len(items) != 1 || items[0].Error == nil {
		t.Fatalf("Expected one failed item, got %+v", items)
	}
	if items[0].Error.Kind != "partial_item_error" {
		t.Errorf("Expected partial_item_error, got %q", items[0].Error.Kind)
	}
}

func TestListStorageAccountUsageAllHandler_IncompleteIdentity(t *testing.T) {
	client := &fakeStorageClient{
		accounts: []*armstorage.Account{
			{Name: to.Ptr("nameonly")}, // no ID, so no resource group
			testAccount("goodstore", "rg-a"),
		},
		usage: map[string]usageResult{
			"goodstore": {bytes: bytesPerGB, hasData: true},
		},
	}

	handler := ListStorageAccountUsageAllHandler(client)
	result, err := handler.Handle(context.Background(), map[string]interface{}{
		"subscription_id": "sub-123",
	}, config.NewConfig())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	var items []UsageItem
	if err := json.Unmarshal([]byte(result), &items); err != nil {
		t.Fatalf("Result is not valid JSON: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	if items[0].Error == nil {
		t.Error("Expected incomplete account to carry a per-item error without a metric fetch")
	}
	if items[1].Error != nil {
		t.Errorf("Expected goodstore to succeed, got: %v", items[1].Error)
	}
}

// blockingStorageClient fails metric fetches with the context error once the
// context is done.
type blockingStorageClient struct {
	fakeStorageClient
}

func (c *blockingStorageClient) GetStorageAccountUsedCapacity(ctx context.Context, subscriptionID string, authType azure.AuthType, resourceGroup, accountName string) (float64, bool, error) {
	select {
	case <-ctx.Done():
		return 0, false, ctx.Err()
	default:
		return bytesPerGB, true, nil
	}
}

func TestListStorageAccountUsageAllHandler_Cancelled(t *testing.T) {
	client := &blockingStorageClient{
		fakeStorageClient: fakeStorageClient{
			accounts: []*armstorage.Account{
				testAccount("store1", "rg-a"),
				testAccount("store2", "rg-a"),
			},
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	handler := ListStorageAccountUsageAllHandler(client)
	_, err := handler.Handle(ctx, map[string]interface{}{
		"subscription_id": "sub-123",
	}, config.NewConfig())
	if err == nil {
		t.Fatal("Expected a cancelled call to fail, not deliver a partial result")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
}

// countingStorageClient tracks concurrent metric fetches to verify the
// fan-out honors the configured limit.
type countingStorageClient struct {
	fakeStorageClient
	mu      sync.Mutex
	active  int
	peak    int
	release chan struct{}
}

func (c *countingStorageClient) GetStorageAccountUsedCapacity(ctx context.Context, subscriptionID string, authType azure.AuthType, resourceGroup, accountName string) (float64, bool, error) {
	c.mu.Lock()
	c.active++
	if c.active > c.peak {
		c.peak = c.active
	}
	c.mu.Unlock()

	<-c.release

	c.mu.Lock()
	c.active--
	c.mu.Unlock()
	return bytesPerGB, true, nil
}

func TestListStorageAccountUsageAllHandler_ConcurrencyLimit(t *testing.T) {
	accounts := make([]*armstorage.Account, 10)
	for i := range accounts {
		accounts[i] = testAccount("store"+string(rune('a'+i)), "rg-a")
	}

	client := &countingStorageClient{
		fakeStorageClient: fakeStorageClient{accounts: accounts},
		release:           make(chan struct{}),
	}
	close(client.release)

	cfg := config.NewConfig()
	cfg.UsageConcurrency = 2

	handler := ListStorageAccountUsageAllHandler(client)
	result, err := handler.Handle(context.Background(), map[string]interface{}{
		"subscription_id": "sub-123",
	}, cfg)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	client.mu.Lock()
	peak := client.peak
	client.mu.Unlock()
	if peak > 2 {
		t.Errorf("Expected at most 2 concurrent fetches, observed %d", peak)
	}

	var items []UsageItem
	if err := json.Unmarshal([]byte(result), &items); err != nil {
		t.Fatalf("Result is not valid JSON: %v", err)
	}
	if len(items) != 10 {
		t.Fatalf("Expected 10 items, got %d", len(items))
	}
	for i, item := range items {
		if item.Error != nil {
			t.Errorf("Item %d unexpectedly failed: %v", i, item.Error)
		}
	}
}
