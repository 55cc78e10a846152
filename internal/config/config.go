// Package config holds the process-wide configuration for the MCP server.
package config

import (
	"context"
	"fmt"
	"os"

	"github.com/Azure/azure-resources-mcp/internal/telemetry"
	"github.com/Azure/azure-resources-mcp/internal/version"
	flag "github.com/spf13/pflag"
)

// ConfigData holds the global configuration
type ConfigData struct {
	// Command-line specific options
	Transport string
	Host      string
	Port      int

	// Default subscription used when a tool call omits subscription_id
	DefaultSubscription string

	// Maximum concurrent metric fetches for the usage fan-out
	UsageConcurrency int

	// Verbose logging
	Verbose bool

	// OTLP endpoint for OpenTelemetry traces
	OTLPEndpoint string

	// Telemetry service
	TelemetryService *telemetry.Service

	// Authentication configuration for HTTP transports
	Auth *AuthConfig
}

// NewConfig creates and returns a new configuration instance
func NewConfig() *ConfigData {
	return &ConfigData{
		Transport:        "stdio",
		Host:             "127.0.0.1",
		Port:             8000,
		UsageConcurrency: 8,
		Auth:             NewAuthConfig(),
	}
}

// ParseFlags parses command line arguments and updates the configuration
func (cfg *ConfigData) ParseFlags() {
	// Server configuration
	flag.StringVar(&cfg.Transport, "transport", "stdio", "Transport mechanism to use (stdio, sse or streamable-http)")
	flag.StringVar(&cfg.Host, "host", "127.0.0.1", "Host to listen for the server (only used with transport sse or streamable-http)")
	flag.IntVar(&cfg.Port, "port", 8000, "Port to listen for the server (only used with transport sse or streamable-http)")

	// Azure settings
	flag.StringVar(&cfg.DefaultSubscription, "subscription", "",
		"Default Azure subscription ID used when a tool call omits subscription_id (falls back to AZURE_SUBSCRIPTION_ID)")
	flag.IntVar(&cfg.UsageConcurrency, "usage-concurrency", 8,
		"Maximum concurrent metric fetches when listing usage for all storage accounts")

	// Authentication settings
	flag.BoolVar(&cfg.Auth.Enabled, "auth-enabled", false, "Enable authentication for HTTP transports")
	flag.StringVar(&cfg.Auth.EntraClientID, "auth-client-id", "", "Entra ID client ID")
	flag.StringVar(&cfg.Auth.EntraTenantID, "auth-tenant-id", "", "Entra ID tenant ID")
	flag.StringVar(&cfg.Auth.EntraAuthority, "auth-authority", defaultEntraAuthority, "Entra ID authority URL for different Azure clouds (Public: login.microsoftonline.com, China: login.chinacloudapi.cn, Government: login.microsoftonline.us)")
	flag.IntVar(&cfg.Auth.JWKSCacheTimeout, "auth-jwks-cache-timeout", 3600, "JWKS cache timeout in seconds")
	flag.BoolVar(&cfg.Auth.RequireAuthForHTTP, "auth-require-for-http", true, "Require authentication for HTTP transports")

	// Logging settings
	flag.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable verbose logging")

	// OTLP settings
	flag.StringVar(&cfg.OTLPEndpoint, "otlp-endpoint", "", "OTLP endpoint for OpenTelemetry traces (e.g. localhost:4317)")

	// Custom help handling
	var showHelp bool
	flag.BoolVarP(&showHelp, "help", "h", false, "Show help message")

	// Version flag
	showVersion := flag.Bool("version", false, "Show version information and exit")

	// Parse flags and handle errors properly
	err := flag.CommandLine.Parse(os.Args[1:])
	if err != nil {
		fmt.Printf("\nUsage of %s:\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Handle help manually with proper exit code
	if showHelp {
		fmt.Printf("Usage of %s:\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(0)
	}

	// Handle version flag
	if *showVersion {
		cfg.PrintVersion()
		os.Exit(0)
	}

	cfg.LoadFromEnv()
}

// LoadFromEnv fills configuration values from environment variables when they
// were not set via flags.
func (cfg *ConfigData) LoadFromEnv() {
	if cfg.DefaultSubscription == "" {
		cfg.DefaultSubscription = os.Getenv("AZURE_SUBSCRIPTION_ID")
	}

	if cfg.Auth.EntraClientID == "" {
		if clientID := os.Getenv("ARM_MCP_AUTH_ENTRA_CLIENT_ID"); clientID != "" {
			cfg.Auth.EntraClientID = clientID
		}
	}

	if cfg.Auth.EntraTenantID == "" {
		if tenantID := os.Getenv("ARM_MCP_AUTH_ENTRA_TENANT_ID"); tenantID != "" {
			cfg.Auth.EntraTenantID = tenantID
		}
	}

	if cfg.Auth.EntraAuthority == defaultEntraAuthority || cfg.Auth.EntraAuthority == "" {
		if authority := os.Getenv("ARM_MCP_AUTH_ENTRA_AUTHORITY"); authority != "" {
			cfg.Auth.EntraAuthority = authority
		}
	}

	if !cfg.Auth.Enabled {
		if enabled := os.Getenv("ARM_MCP_AUTH_ENABLED"); enabled == "true" {
			cfg.Auth.Enabled = true
		}
	}
}

// ListenAddress returns the host:port pair for HTTP transports.
func (cfg *ConfigData) ListenAddress() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

// InitializeTelemetry initializes the telemetry service
func (cfg *ConfigData) InitializeTelemetry(ctx context.Context, serviceName, serviceVersion string) {
	cfg.TelemetryService = telemetry.NewService(serviceName, serviceVersion)
	if cfg.OTLPEndpoint != "" {
		if err := cfg.TelemetryService.InitTracing(ctx, cfg.OTLPEndpoint); err != nil {
			// Not fatal: the server works without traces.
			fmt.Fprintf(os.Stderr, "failed to initialize tracing: %v\n", err)
		}
	}
	cfg.TelemetryService.TrackServiceStartup(ctx)
}

// PrintVersion prints version information
func (cfg *ConfigData) PrintVersion() {
	versionInfo := version.GetVersionInfo()
	fmt.Printf("azure-resources-mcp version %s\n", versionInfo["version"])
	fmt.Printf("Git commit: %s\n", versionInfo["gitCommit"])
	fmt.Printf("Git tree state: %s\n", versionInfo["gitTreeState"])
	fmt.Printf("Go version: %s\n", versionInfo["goVersion"])
	fmt.Printf("Platform: %s\n", versionInfo["platform"])
}
