// Package telemetry provides usage telemetry and distributed tracing for the
// MCP server. Application Insights tracking is enabled only when an
// instrumentation key is present in the environment; OTLP tracing is enabled
// only when an endpoint is configured. Both are no-ops otherwise.
package telemetry

import (
	"context"
	"os"
	"time"

	"github.com/Azure/azure-resources-mcp/internal/logger"
	"github.com/microsoft/ApplicationInsights-Go/appinsights"
)

// Service tracks server startup and tool invocations.
type Service struct {
	serviceName    string
	serviceVersion string
	client         appinsights.TelemetryClient
	shutdownTracer func(context.Context) error
}

// NewService creates a telemetry service. Tracking is disabled unless
// APPINSIGHTS_INSTRUMENTATIONKEY is set.
func NewService(serviceName, serviceVersion string) *Service {
	s := &Service{
		serviceName:    serviceName,
		serviceVersion: serviceVersion,
	}

	if key := os.Getenv("APPINSIGHTS_INSTRUMENTATIONKEY"); key != "" {
		s.client = appinsights.NewTelemetryClient(key)
		s.client.Context().Tags.Cloud().SetRole(serviceName)
	}

	return s
}

// Enabled reports whether Application Insights tracking is active.
func (s *Service) Enabled() bool {
	return s != nil && s.client != nil
}

// TrackServiceStartup records a server startup event.
func (s *Service) TrackServiceStartup(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	event := appinsights.NewEventTelemetry("service_startup")
	event.Properties["service_version"] = s.serviceVersion
	s.client.Track(event)
}

// TrackToolInvocation records a tool call outcome. Only the tool name and
// success flag are tracked: parameters may contain identifiers and are never
// sent.
func (s *Service) TrackToolInvocation(ctx context.Context, toolName string, success bool) {
	if !s.Enabled() {
		return
	}
	event := appinsights.NewEventTelemetry("tool_invocation")
	event.Properties["tool_name"] = toolName
	if success {
		event.Properties["result"] = "success"
	} else {
		event.Properties["result"] = "failure"
	}
	s.client.Track(event)
}

// Close flushes pending telemetry and shuts down the tracer provider.
func (s *Service) Close(ctx context.Context) {
	if s == nil {
		return
	}
	if s.client != nil {
		select {
		case <-s.client.Channel().Close(2 * time.Second):
		case <-time.After(5 * time.Second):
			logger.Warnf("telemetry channel close timed out")
		}
	}
	if s.shutdownTracer != nil {
		if err := s.shutdownTracer(ctx); err != nil {
			logger.Warnf("tracer shutdown failed: %v", err)
		}
	}
}
