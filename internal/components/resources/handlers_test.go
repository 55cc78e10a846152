package resources

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Azure/azure-resources-mcp/internal/azure"
	"github.com/Azure/azure-resources-mcp/internal/config"
	"github.com/Azure/azure-resources-mcp/internal/tools"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
)

type fakeGroupsClient struct {
	groups   []*armresources.ResourceGroup
	err      error
	gotSubID string
	gotAuth  azure.AuthType
}

func (f *fakeGroupsClient) ListResourceGroups(ctx context.Context, subscriptionID string, authType azure.AuthType) ([]*armresources.ResourceGroup, error) {
	f.gotSubID = subscriptionID
	f.gotAuth = authType
	return f.groups, f.err
}

func TestListResourceGroupsHandler(t *testing.T) {
	client := &fakeGroupsClient{
		groups: []*armresources.ResourceGroup{
			{
				Name:     to.Ptr("rg-prod"),
				ID:       to.Ptr("/subscriptions/sub-123/resourceGroups/rg-prod"),
				Location: to.Ptr("westeurope"),
				Tags:     map[string]*string{"env": to.Ptr("prod"), "broken": nil},
				Properties: &armresources.ResourceGroupProperties{
					ProvisioningState: to.Ptr("Succeeded"),
				},
			},
			{
				Name:     to.Ptr("rg-dev"),
				ID:       to.Ptr("/subscriptions/sub-123/resourceGroups/rg-dev"),
				Location: to.Ptr("eastus"),
			},
		},
	}

	handler := ListResourceGroupsHandler(client)
	result, err := handler.Handle(context.Background(), map[string]interface{}{
		"subscription_id": "sub-123",
		"auth_type":       "spn",
	}, config.NewConfig())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if client.gotSubID != "sub-123" {
		t.Errorf("Expected subscription 'sub-123', got %q", client.gotSubID)
	}
	if client.gotAuth != azure.AuthTypeSPN {
		t.Errorf("Expected spn auth type, got %q", client.gotAuth)
	}

	var records []GroupRecord
	if err := json.Unmarshal([]byte(result), &records); err != nil {
		t.Fatalf("Result is not valid JSON: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Name != "rg-prod" || records[0].Location != "westeurope" {
		t.Errorf("Unexpected first record: %+v", records[0])
	}
	if records[0].ProvisioningState != "Succeeded" {
		t.Errorf("Expected provisioning state 'Succeeded', got %q", records[0].ProvisioningState)
	}
	if records[0].Tags["env"] != "prod" {
		t.Errorf("Expected env tag 'prod', got %q", records[0].Tags["env"])
	}
	if _, present := records[0].Tags["broken"]; present {
		t.Error("Expected nil-valued tag to be dropped")
	}
	if records[1].Name != "rg-dev" {
		t.Errorf("Expected second record 'rg-dev', got %q", records[1].Name)
	}
}

func TestListResourceGroupsHandler_Empty(t *testing.T) {
	handler := ListResourceGroupsHandler(&fakeGroupsClient{})
	result, err := handler.Handle(context.Background(), map[string]interface{}{
		"subscription_id": "sub-123",
	}, config.NewConfig())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	var records []GroupRecord
	if err := json.Unmarshal([]byte(result), &records); err != nil {
		t.Fatalf("Result is not valid JSON: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected empty list, got %d records", len(records))
	}
}

func TestListResourceGroupsHandler_MissingSubscription(t *testing.T) {
	handler := ListResourceGroupsHandler(&fakeGroupsClient{})
	_, err := handler.Handle(context.Background(), map[string]interface{}{}, config.NewConfig())
	if err == nil {
		t.Fatal("Expected error for missing subscription_id, got nil")
	}
	var terr *tools.ToolError
	if !errors.As(err, &terr) || terr.Kind != tools.KindInvalidRequest {
		t.Errorf("Expected invalid_request, got: %v", err)
	}
}

func TestListResourceGroupsHandler_ClientError(t *testing.T) {
	handler := ListResourceGroupsHandler(&fakeGroupsClient{err: errors.New("list failed")})
	_, err := handler.Handle(context.Background(), map[string]interface{}{
		"subscription_id": "sub-123",
	}, config.NewConfig())
	if err == nil {
		t.Fatal("Expected error from client, got nil")
	}
}
