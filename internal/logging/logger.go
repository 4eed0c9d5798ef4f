// Package logging provides categorized file-based logging for the
// Bakalari MCP bridge. Logs are written to <base>/logs/ with one file
// per category and day. When debug mode is off the package is a
// silent no-op; nothing may ever be written to stdout, which carries
// the MCP protocol stream.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Category represents a log category/system.
type Category string

const (
	CategoryBoot  Category = "boot"  // startup, configuration
	CategoryAuth  Category = "auth"  // login, token renewal
	CategoryAPI   Category = "api"   // Bakalari data requests
	CategoryTools Category = "tools" // MCP tool dispatch
)

// Logger wraps a standard logger with category and file output.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	logsDir   string
	debugMode bool
)

// Initialize sets up the logging directory. With debug false the
// package stays a no-op. Should be called once at startup.
func Initialize(baseDir string, debug bool) error {
	debugMode = debug
	if !debug {
		return nil
	}
	if baseDir == "" {
		return fmt.Errorf("base directory required")
	}
	logsDir = filepath.Join(baseDir, "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}
	Boot("=== bakamcp logging initialized ===")
	Boot("logs directory: %s", logsDir)
	return nil
}

// IsDebugMode returns whether debug logging is enabled.
func IsDebugMode() bool { return debugMode }

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger when debug mode is disabled.
func Get(category Category) *Logger {
	if !debugMode || logsDir == "" {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	// Double-check after acquiring write lock
	if l, ok := loggers[category]; ok {
		return l
	}

	date := time.Now().Format("2006-01-02")
	filename := fmt.Sprintf("%s_%s.log", date, category)
	logPath := filepath.Join(logsDir, filename)

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		// Fall back to no-op logger
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not open log file %s: %v\n", logPath, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l
	return l
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Printf("[DEBUG] %s", fmt.Sprintf(format, args...))
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Printf("[INFO] %s", fmt.Sprintf(format, args...))
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Printf("[WARN] %s", fmt.Sprintf(format, args...))
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Printf("[ERROR] %s", fmt.Sprintf(format, args...))
}

// CloseAll closes all open log files (call at shutdown).
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for _, l := range loggers {
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// Convenience functions; no-ops when debug mode is disabled.

// Boot logs to the boot category.
func Boot(format string, args ...interface{}) {
	Get(CategoryBoot).Info(format, args...)
}

// BootError logs an error to the boot category.
func BootError(format string, args ...interface{}) {
	Get(CategoryBoot).Error(format, args...)
}

// Auth logs to the auth category.
func Auth(format string, args ...interface{}) {
	Get(CategoryAuth).Info(format, args...)
}

// AuthWarn logs a warning to the auth category.
func AuthWarn(format string, args ...interface{}) {
	Get(CategoryAuth).Warn(format, args...)
}

// API logs to the api category.
func API(format string, args ...interface{}) {
	Get(CategoryAPI).Info(format, args...)
}

// APIDebug logs debug to the api category.
func APIDebug(format string, args ...interface{}) {
	Get(CategoryAPI).Debug(format, args...)
}

// Tools logs to the tools category.
func Tools(format string, args ...interface{}) {
	Get(CategoryTools).Info(format, args...)
}

// ToolsError logs an error to the tools category.
func ToolsError(format string, args ...interface{}) {
	Get(CategoryTools).Error(format, args...)
}
