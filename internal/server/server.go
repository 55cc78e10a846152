// Package server provides the MCP server and its transport bindings.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Azure/azure-resources-mcp/internal/auth"
	"github.com/Azure/azure-resources-mcp/internal/azure"
	"github.com/Azure/azure-resources-mcp/internal/config"
	"github.com/Azure/azure-resources-mcp/internal/logger"
	"github.com/Azure/azure-resources-mcp/internal/registry"
	"github.com/Azure/azure-resources-mcp/internal/version"
	"github.com/mark3labs/mcp-go/server"
)

// serverName identifies the MCP server to clients.
const serverName = "azure-resources-mcp"

// Service wires the tool registry onto an MCP server and serves it over the
// configured transport.
type Service struct {
	cfg       *config.ConfigData
	azClient  *azure.AzureClient
	registry  *registry.ToolRegistry
	mcpServer *server.MCPServer
}

// NewService creates a new service instance.
func NewService(cfg *config.ConfigData, azClient *azure.AzureClient) *Service {
	return &Service{
		cfg:      cfg,
		azClient: azClient,
		registry: registry.NewToolRegistry(),
	}
}

// Initialize builds the MCP server and registers all tools.
func (s *Service) Initialize() error {
	s.mcpServer = server.NewMCPServer(
		serverName,
		version.GetVersion(),
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	s.registry.RegisterAllTools(s.azClient, s.cfg)
	s.registry.ConfigureMCPServer(s.mcpServer)

	logger.Infof("registered %d tools", len(s.registry.ToolNames()))
	return nil
}

// Registry exposes the tool registry, mainly for tests.
func (s *Service) Registry() *registry.ToolRegistry {
	return s.registry
}

// Run serves the MCP server over the configured transport and blocks until
// the transport shuts down.
func (s *Service) Run() error {
	switch s.cfg.Transport {
	case "stdio":
		logger.Infof("listening for MCP requests on stdio")
		return server.ServeStdio(s.mcpServer)

	case "sse":
		return s.runSSE()

	case "streamable-http":
		return s.runStreamableHTTP()

	default:
		return fmt.Errorf("invalid transport type: %s (must be 'stdio', 'sse' or 'streamable-http')", s.cfg.Transport)
	}
}

// newHTTPServer builds the shared HTTP scaffolding for the SSE and
// streamable-http transports: health endpoint plus optional Entra auth.
func (s *Service) newHTTPServer(transport string) (*http.Server, *http.ServeMux, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})

	var handler http.Handler = mux
	if s.cfg.Auth.ShouldAuthenticate(transport) {
		middleware, err := auth.NewHTTPAuthMiddleware(s.cfg.Auth, transport)
		if err != nil {
			return nil, nil, err
		}
		handler = middleware.Middleware(mux)
		logger.Infof("Entra ID authentication enabled for %s transport", transport)
	}

	httpServer := &http.Server{
		Addr:              s.cfg.ListenAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return httpServer, mux, nil
}

func (s *Service) runSSE() error {
	addr := s.cfg.ListenAddress()
	httpServer, mux, err := s.newHTTPServer("sse")
	if err != nil {
		return err
	}

	sseServer := server.NewSSEServer(s.mcpServer,
		server.WithBaseURL(fmt.Sprintf("http://%s", addr)),
	)
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	logger.Infof("SSE server listening on %s (events: /sse, messages: /message)", addr)
	return httpServer.ListenAndServe()
}

func (s *Service) runStreamableHTTP() error {
	addr := s.cfg.ListenAddress()
	httpServer, mux, err := s.newHTTPServer("streamable-http")
	if err != nil {
		return err
	}

	streamableServer := server.NewStreamableHTTPServer(s.mcpServer)
	mux.Handle("/mcp", streamableServer)

	logger.Infof("streamable HTTP server listening on %s (endpoint: /mcp)", addr)
	return httpServer.ListenAndServe()
}
