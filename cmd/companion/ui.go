// Package main - ui.go handles tray menu construction.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"

	"github.com/toqueteos/webbrowser"
)

// menuEntry describes one tray menu row before it is realized.
type menuEntry struct {
	onClick   func()
	title     string
	tooltip   string
	disabled  bool
	separator bool
}

// rebuildMenu recreates the tray menu when its content changed. Rebuilding
// on every refresh makes some desktops flicker, so the current titles are
// compared against the last build first.
func (app *App) rebuildMenu(ctx context.Context) {
	entries := app.menuEntries(ctx)

	titles := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.separator {
			titles = append(titles, "---")
			continue
		}
		titles = append(titles, e.title)
	}

	app.mu.Lock()
	if slices.Equal(titles, app.lastMenuTitles) {
		app.mu.Unlock()
		slog.Debug("[MENU] No change, skipping rebuild")
		return
	}
	app.lastMenuTitles = titles
	app.mu.Unlock()

	slog.Debug("[MENU] Rebuilding menu", "items", len(entries))
	app.tray.ResetMenu()
	for _, e := range entries {
		if e.separator {
			app.tray.AddSeparator()
			continue
		}
		item := app.tray.AddMenuItem(e.title, e.tooltip)
		if e.disabled {
			item.Disable()
		}
		if e.onClick != nil {
			item.Click(e.onClick)
		}
	}
}

// menuEntries computes the desired menu for the current state.
func (app *App) menuEntries(ctx context.Context) []menuEntry {
	entries := []menuEntry{
		{
			title:   "Open Companion",
			tooltip: "Open the Companion app",
			onClick: func() { app.openUI() },
		},
		{
			title:    app.pushStatusLine(),
			tooltip:  "Push notification status",
			disabled: true,
		},
		{separator: true},
	}

	if autostartSupported() {
		title := "Start at Login"
		if autostartEnabled(ctx) {
			title = "✓ Start at Login"
		}
		entries = append(entries, menuEntry{
			title:   title,
			tooltip: "Automatically start when you log in",
			onClick: func() { app.toggleAutostart(ctx) },
		})
	}

	notifTitle := "Notifications"
	if app.notificationsEnabled() {
		notifTitle = "✓ Notifications"
	}
	entries = append(entries,
		menuEntry{
			title:   notifTitle,
			tooltip: "Show desktop notifications",
			onClick: func() { app.toggleNotifications(ctx) },
		},
		menuEntry{separator: true},
		menuEntry{
			title:   "Quit Companion",
			tooltip: "Quit",
			onClick: func() { app.tray.Quit() },
		},
	)
	return entries
}

// pushStatusLine renders the read-only push state row.
func (app *App) pushStatusLine() string {
	if !app.bridge.Available() {
		return "Push: not available on this device"
	}

	app.mu.RLock()
	defer app.mu.RUnlock()
	switch {
	case app.invokeFailures >= invokeFailureThreshold:
		return "Push: bridge error, check logs"
	case app.token != "":
		return fmt.Sprintf("Push: connected (…%s)", tokenSuffix(app.token))
	default:
		return "Push: waiting for token"
	}
}

// tokenSuffix returns the last few characters of a token for display. The
// full token never reaches the menu.
func tokenSuffix(token string) string {
	const n = 4
	if len(token) <= n {
		return token
	}
	return token[len(token)-n:]
}

func (app *App) toggleAutostart(ctx context.Context) {
	enabled := autostartEnabled(ctx)
	if err := setAutostart(ctx, !enabled); err != nil {
		slog.Error("Failed to toggle autostart", "error", err)
		return
	}
	slog.Info("[SETTINGS] Start at Login toggled", "enabled", !enabled)
	app.rebuildMenu(ctx)
}

func (app *App) toggleNotifications(ctx context.Context) {
	app.mu.Lock()
	app.settings.NotificationsEnabled = !app.settings.NotificationsEnabled
	enabled := app.settings.NotificationsEnabled
	app.mu.Unlock()

	slog.Info("[SETTINGS] Notifications toggled", "enabled", enabled)
	app.saveSettings()
	app.rebuildMenu(ctx)
}

func (app *App) notificationsEnabled() bool {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.settings.NotificationsEnabled
}

// openUI opens the Companion frontend in the default browser. Only http and
// https URLs are accepted; anything else in the config is a mistake.
func (app *App) openUI() {
	u, err := url.Parse(app.uiURL)
	if err != nil {
		slog.Error("Invalid UI URL", "url", app.uiURL, "error", err)
		return
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		slog.Error("Refusing to open UI URL with unexpected scheme", "url", app.uiURL, "scheme", u.Scheme)
		return
	}

	slog.Debug("Opening Companion UI", "url", app.uiURL)
	if err := webbrowser.Open(app.uiURL); err != nil {
		slog.Error("Failed to open browser", "error", err)
	}
}
