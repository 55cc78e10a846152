package main

import (
	"context"
	"log"

	"github.com/Azure/azure-resources-mcp/internal/azure"
	"github.com/Azure/azure-resources-mcp/internal/config"
	"github.com/Azure/azure-resources-mcp/internal/logger"
	"github.com/Azure/azure-resources-mcp/internal/server"
	"github.com/Azure/azure-resources-mcp/internal/version"
)

func main() {
	cfg := config.NewConfig()
	cfg.ParseFlags()

	if cfg.Verbose {
		logger.SetLevel(logger.LevelDebug)
	}

	if err := cfg.Auth.ValidateConfig(); err != nil {
		log.Fatalf("Invalid auth configuration: %v", err)
	}

	ctx := context.Background()
	cfg.InitializeTelemetry(ctx, "azure-resources-mcp", version.GetVersion())
	defer cfg.TelemetryService.Close(ctx)

	azClient := azure.NewAzureClient()

	svc := server.NewService(cfg, azClient)
	if err := svc.Initialize(); err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	if err := svc.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
