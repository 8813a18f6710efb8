//go:build linux

// Package main - autostart_linux.go manages an XDG autostart entry.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const desktopEntryName = "companion.desktop"

func autostartSupported() bool {
	return true
}

// autostartEnabled reports whether the autostart desktop entry exists.
func autostartEnabled(_ context.Context) bool {
	path, err := desktopEntryPath()
	if err != nil {
		slog.Debug("Cannot resolve autostart path", "error", err)
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// setAutostart writes or removes the XDG autostart entry for the current
// executable.
func setAutostart(_ context.Context, enable bool) error {
	path, err := desktopEntryPath()
	if err != nil {
		return err
	}

	if !enable {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove autostart entry: %w", err)
		}
		slog.Info("Removed autostart entry", "path", path)
		return nil
	}

	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("get executable: %w", err)
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return fmt.Errorf("eval symlinks: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create autostart directory: %w", err)
	}

	entry := fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=Companion
Comment=Companion native shell
Exec=%s
X-GNOME-Autostart-enabled=true
`, execPath)
	if err := os.WriteFile(path, []byte(entry), 0o600); err != nil {
		return fmt.Errorf("write autostart entry: %w", err)
	}
	slog.Info("Wrote autostart entry", "path", path)
	return nil
}

// desktopEntryPath returns the XDG autostart entry location.
func desktopEntryPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(configDir, "autostart", desktopEntryName), nil
}
