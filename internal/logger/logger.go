// Package logger provides leveled logging for the MCP server.
//
// Output goes to stderr so it never interferes with the stdio transport,
// which owns stdout for JSON-RPC framing.
package logger

import (
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// Level represents a logging verbosity level.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	currentLevel atomic.Int32
	std          = log.New(os.Stderr, "", log.LstdFlags)
)

func init() {
	currentLevel.Store(int32(LevelInfo))
}

// SetLevel sets the minimum level that will be emitted.
func SetLevel(level Level) {
	currentLevel.Store(int32(level))
}

// ParseLevel maps a level name to a Level, defaulting to info.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func enabled(level Level) bool {
	return level >= Level(currentLevel.Load())
}

// Debugf logs a debug-level message.
func Debugf(format string, args ...interface{}) {
	if enabled(LevelDebug) {
		std.Printf("DEBUG: "+format, args...)
	}
}

// Infof logs an info-level message.
func Infof(format string, args ...interface{}) {
	if enabled(LevelInfo) {
		std.Printf("INFO: "+format, args...)
	}
}

// Warnf logs a warning-level message.
func Warnf(format string, args ...interface{}) {
	if enabled(LevelWarn) {
		std.Printf("WARN: "+format, args...)
	}
}

// Errorf logs an error-level message.
func Errorf(format string, args ...interface{}) {
	if enabled(LevelError) {
		std.Printf("ERROR: "+format, args...)
	}
}
