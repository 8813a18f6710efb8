package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Setup installs the process-wide slog default: stderr always, plus a log
// file under the user cache directory when one can be opened. A missing or
// unwritable log file only costs the file handler; the shell keeps running
// with stderr. The file stays open for the life of the process.
func Setup(appName string, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	handlers := []slog.Handler{slog.NewTextHandler(os.Stderr, opts)}

	if path, err := logFilePath(appName); err == nil {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err == nil {
			handlers = append(handlers, slog.NewTextHandler(file, opts))
		} else {
			slog.Warn("Could not open log file, logging to stderr only", "path", path, "error", err)
		}
	}

	slog.SetDefault(slog.New(NewMultiHandler(handlers...)))
}

// logFilePath returns the log file location, creating its directory.
func logFilePath(appName string) (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("get user cache dir: %w", err)
	}
	dir := filepath.Join(cacheDir, appName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create log directory: %w", err)
	}
	return filepath.Join(dir, appName+".log"), nil
}
