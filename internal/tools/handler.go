package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Azure/azure-resources-mcp/internal/config"
	"github.com/Azure/azure-resources-mcp/internal/logger"
	"github.com/Azure/azure-resources-mcp/internal/telemetry"
	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// secretParamFragments mark parameter names whose values must never be logged.
var secretParamFragments = []string{"secret", "password", "token", "credential"}

// redactParams returns a copy of args safe for logging.
func redactParams(args map[string]interface{}) map[string]interface{} {
	redacted := make(map[string]interface{}, len(args))
	for key, value := range args {
		lower := strings.ToLower(key)
		hidden := false
		for _, fragment := range secretParamFragments {
			if strings.Contains(lower, fragment) {
				hidden = true
				break
			}
		}
		if hidden {
			redacted[key] = "[REDACTED]"
		} else {
			redacted[key] = value
		}
	}
	return redacted
}

// logToolCall logs the start of a tool call with redacted parameters.
func logToolCall(toolName string, args map[string]interface{}) {
	if jsonBytes, err := json.Marshal(redactParams(args)); err == nil {
		logger.Debugf(">>> [%s] %s", toolName, string(jsonBytes))
	} else {
		logger.Debugf(">>> [%s]", toolName)
	}
}

// logToolResult logs the result or error of a tool call.
func logToolResult(toolName string, result string, elapsed time.Duration, err error) {
	if err != nil {
		logger.Debugf("<<< [%s] (%s) ERROR: %v", toolName, elapsed, err)
	} else if len(result) > 500 {
		logger.Debugf("<<< [%s] (%s) Result: %d bytes (truncated): %.500s...", toolName, elapsed, len(result), result)
	} else {
		logger.Debugf("<<< [%s] (%s) Result: %s", toolName, elapsed, result)
	}
}

// CreateResourceHandler adapts a ResourceHandler to the handler signature the
// MCP server expects. Every failure is reduced to the structured error
// envelope: handler errors never propagate as protocol errors.
func CreateResourceHandler(handler ResourceHandler, cfg *config.ConfigData) func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		toolName := req.Params.Name

		args, ok := req.Params.Arguments.(map[string]interface{})
		if !ok {
			if req.Params.Arguments == nil {
				args = map[string]interface{}{}
			} else {
				terr := NewError(KindInvalidRequest, "arguments must be an object, got %T", req.Params.Arguments)
				if cfg.TelemetryService != nil {
					cfg.TelemetryService.TrackToolInvocation(ctx, toolName, false)
				}
				return mcp.NewToolResultError(terr.ResultJSON()), nil
			}
		}

		logToolCall(toolName, args)

		ctx, span := telemetry.Tracer().Start(ctx, fmt.Sprintf("tool.%s", toolName))
		defer span.End()
		span.SetAttributes(attribute.String("mcp.tool.name", toolName))

		start := time.Now()
		result, err := handler.Handle(ctx, args, cfg)
		elapsed := time.Since(start)

		if cfg.TelemetryService != nil {
			cfg.TelemetryService.TrackToolInvocation(ctx, toolName, err == nil)
		}
		logToolResult(toolName, result, elapsed, err)

		if err != nil {
			terr := AsToolError(err)
			span.SetStatus(codes.Error, string(terr.Kind))
			logger.Errorf("tool %s failed: %s", toolName, terr.Error())
			return mcp.NewToolResultError(terr.ResultJSON()), nil
		}

		span.SetStatus(codes.Ok, "")
		return mcp.NewToolResultText(result), nil
	}
}
