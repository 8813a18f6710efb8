//go:build linux || freebsd || openbsd || netbsd || dragonfly || solaris || illumos || aix

// Package x11tray checks that a system tray implementation is available on
// Unix desktops before the shell tries to use one.
package x11tray

import (
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
)

const (
	statusNotifierWatcher = "org.kde.StatusNotifierWatcher"
)

// HealthCheck verifies that a StatusNotifierWatcher is registered on the
// session bus. Modern Linux desktops require this service for tray icons;
// without it the tray icon would silently not appear.
func HealthCheck() error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("connect to D-Bus session bus: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			slog.Debug("[X11TRAY] Failed to close DBus connection", "error", err)
		}
	}()

	var names []string
	if err := conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		return fmt.Errorf("query D-Bus services: %w", err)
	}

	for _, name := range names {
		if name == statusNotifierWatcher {
			slog.Debug("[X11TRAY] StatusNotifierWatcher found", "service", statusNotifierWatcher)
			return nil
		}
	}
	return fmt.Errorf("no system tray found: %s service not available", statusNotifierWatcher)
}
