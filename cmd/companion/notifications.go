// Package main - notifications.go shows desktop notifications.
package main

import (
	"log/slog"
	"time"

	"github.com/gen2brain/beeep"
)

// notify shows a desktop notification, honoring the user's toggle and
// suppressing duplicates inside the dedup window.
func (app *App) notify(title, message string) {
	if !app.notificationsEnabled() {
		slog.Debug("[NOTIFY] Suppressed, notifications disabled", "title", title)
		return
	}
	if !app.notifyDedup.ShouldProcess(title+"|"+message, time.Now()) {
		slog.Debug("[NOTIFY] Suppressed duplicate", "title", title)
		return
	}

	if err := beeep.Notify(title, message, ""); err != nil {
		slog.Warn("[NOTIFY] Failed to show notification", "title", title, "error", err)
	}
}
