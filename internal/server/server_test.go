package server

import (
	"testing"

	"github.com/Azure/azure-resources-mcp/internal/azure"
	"github.com/Azure/azure-resources-mcp/internal/config"
)

func TestInitialize_RegistersTools(t *testing.T) {
	svc := NewService(config.NewConfig(), azure.NewAzureClient())
	if err := svc.Initialize(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	names := svc.Registry().ToolNames()
	if len(names) == 0 {
		t.Fatal("Expected tools to be registered")
	}
	if _, ok := svc.Registry().GetTool("list_resource_groups"); !ok {
		t.Error("Expected list_resource_groups to be registered")
	}
}

func TestRun_InvalidTransport(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Transport = "carrier-pigeon"

	svc := NewService(cfg, azure.NewAzureClient())
	if err := svc.Initialize(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if err := svc.Run(); err == nil {
		t.Fatal("Expected error for invalid transport, got nil")
	}
}

func TestNewHTTPServer_Health(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Port = 18321

	svc := NewService(cfg, azure.NewAzureClient())
	httpServer, mux, err := svc.newHTTPServer("sse")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if httpServer.Addr != "127.0.0.1:18321" {
		t.Errorf("Expected addr '127.0.0.1:18321', got %q", httpServer.Addr)
	}
	if mux == nil {
		t.Fatal("Expected a mux")
	}
}
