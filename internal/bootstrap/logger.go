package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/osse101/Crucible_Go/internal/config"
	"github.com/osse101/Crucible_Go/internal/logger"
)

// SetupLogger initializes the application logger with stdout and a per-session log file.
// Older session files beyond LogFileRetentionCount are removed first.
// Returns the log file handle (caller must close).
func SetupLogger(cfg *config.Config) (*os.File, error) {
	if err := os.MkdirAll(cfg.LogDir, DirPermission); err != nil {
		return nil, fmt.Errorf("%s: %w", LogMsgFailedCreateLogsDir, err)
	}

	cleanupLogs(cfg.LogDir, LogFileRetentionCount)

	timestamp := time.Now().Format(LogFileTimestampFormat)
	logFileName := filepath.Join(cfg.LogDir, fmt.Sprintf(LogFileNamePattern, timestamp))

	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermission)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", LogMsgFailedOpenLogFile, err)
	}

	InitLogger(cfg, io.MultiWriter(os.Stdout, logFile))

	slog.Info(LogMsgStarting,
		"environment", cfg.Environment,
		"log_level", cfg.LogLevel,
		"log_format", cfg.LogFormat,
		"version", cfg.Version,
		"storage", cfg.StorageDriver)

	slog.Debug(LogMsgConfigurationLoaded,
		"db_host", cfg.DBHost,
		"db_port", cfg.DBPort,
		"db_name", cfg.DBName,
		"catalog_dir", cfg.CatalogDir,
		"port", cfg.Port)

	return logFile, nil
}

// InitLogger installs the default logger writing to w. Source locations are only
// attached in development.
func InitLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	addSource := cfg.Environment == "dev" || cfg.Environment == "development"

	l := logger.InitLoggerWithWriter(logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		cfg.ServiceName,
		cfg.Version,
		cfg.Environment,
		addSource,
	), w)
	l.Info(LogMsgLoggingInitialized, "level", cfg.LogLevel)
	return l
}

// cleanupLogs removes the oldest session logs so that at most keep remain
func cleanupLogs(logDir string, keep int) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	var logFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), LogFileExtension) {
			logFiles = append(logFiles, entry.Name())
		}
	}
	if len(logFiles) <= keep {
		return
	}

	// Timestamped names sort chronologically
	sort.Strings(logFiles)
	for _, name := range logFiles[:len(logFiles)-keep] {
		if err := os.Remove(filepath.Join(logDir, name)); err != nil {
			slog.Warn(LogMsgFailedDeleteOldLog, "file", name, "error", err)
		}
	}
}
