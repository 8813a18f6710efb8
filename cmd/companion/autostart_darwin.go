//go:build darwin

// Package main - autostart_darwin.go manages macOS login items.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// validateAndEscapePathForAppleScript validates and escapes a path for safe
// use in AppleScript. Returns empty string if the path contains invalid
// characters.
func validateAndEscapePathForAppleScript(path string) string {
	for _, r := range path {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') &&
			(r < '0' || r > '9') && r != ' ' && r != '.' &&
			r != '/' && r != '-' && r != '_' {
			slog.Error("Path contains invalid character for AppleScript", "char", string(r), "path", path)
			return ""
		}
	}
	// Escape backslashes first then quotes
	path = strings.ReplaceAll(path, `\`, `\\`)
	path = strings.ReplaceAll(path, `"`, `\"`)
	return path
}

// autostartSupported reports whether login items can be managed: only when
// running from an app bundle.
func autostartSupported() bool {
	_, err := appBundlePath()
	return err == nil
}

// autostartEnabled checks if the app is registered as a login item.
func autostartEnabled(ctx context.Context) bool {
	bundle, err := appBundlePath()
	if err != nil {
		slog.Debug("Not running from app bundle", "error", err)
		return false
	}

	escapedPath := validateAndEscapePathForAppleScript(bundle)
	if escapedPath == "" {
		return false
	}
	// %s is safe here: the path is validated and escaped above.
	script := fmt.Sprintf(
		`tell application "System Events" to get the name of every login item where path is "%s"`,
		escapedPath)
	slog.Debug("Executing command", "command", "osascript", "script", script)
	cmd := exec.CommandContext(ctx, "osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		slog.Error("Failed to check login items", "error", err)
		return false
	}
	return strings.TrimSpace(string(output)) != ""
}

// setAutostart adds or removes the app from login items.
func setAutostart(ctx context.Context, enable bool) error {
	bundle, err := appBundlePath()
	if err != nil {
		return fmt.Errorf("get app bundle path: %w", err)
	}

	if enable {
		escapedPath := validateAndEscapePathForAppleScript(bundle)
		if escapedPath == "" {
			return fmt.Errorf("invalid app path for AppleScript: %s", bundle)
		}
		script := fmt.Sprintf(
			`tell application "System Events" to make login item at end with properties {path:"%s", hidden:false}`,
			escapedPath)
		slog.Debug("Executing command", "command", "osascript", "script", script)
		cmd := exec.CommandContext(ctx, "osascript", "-e", script)
		if output, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("add login item: %w (output: %s)", err, string(output))
		}
		slog.Info("Added to login items", "path", bundle)
		return nil
	}

	name := strings.TrimSuffix(filepath.Base(bundle), ".app")
	escapedName := validateAndEscapePathForAppleScript(name)
	if escapedName == "" {
		return fmt.Errorf("invalid app name for AppleScript: %s", name)
	}
	script := fmt.Sprintf(`tell application "System Events" to delete login item "%s"`, escapedName)
	slog.Debug("Executing command", "command", "osascript", "script", script)
	cmd := exec.CommandContext(ctx, "osascript", "-e", script)
	if output, err := cmd.CombinedOutput(); err != nil {
		// Removing an item that is not there is not an error.
		if !strings.Contains(string(output), "Can't get login item") {
			return fmt.Errorf("remove login item: %w (output: %s)", err, string(output))
		}
	}
	slog.Info("Removed from login items", "app", name)
	return nil
}

// appBundlePath returns the path of the surrounding .app bundle.
// App bundles have the structure: /path/to/App.app/Contents/MacOS/executable
func appBundlePath() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("get executable: %w", err)
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return "", fmt.Errorf("eval symlinks: %w", err)
	}

	if strings.Contains(execPath, ".app/Contents/MacOS/") {
		parts := strings.Split(execPath, ".app/Contents/MacOS/")
		if len(parts) >= 2 {
			return parts[0] + ".app", nil
		}
	}
	return "", errors.New("not running from app bundle")
}
