// Package main - invoke.go exposes shell operations to the Companion
// frontend as named commands. Every handler returns either a JSON-encodable
// result or an error; errors are flattened to plain text at the transport
// boundary, so no structured error type leaks out of the shell.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Stable command identifiers. The frontend depends on these strings.
const (
	cmdGetFCMToken         = "get_fcm_token"
	cmdRequestPermission   = "request_notification_permission"
	cmdIsPermissionGranted = "is_notification_permission_granted"
	cmdSetTrayTooltip      = "set_tray_tooltip"
	cmdGetAutostartEnabled = "get_autostart_enabled"
	cmdSetAutostartEnabled = "set_autostart_enabled"
	cmdShowNotification    = "show_notification"
)

// InvokeFunc handles one command invocation. Handlers run on their own
// goroutine per call and must be safe for concurrent use.
type InvokeFunc func(ctx context.Context, args json.RawMessage) (any, error)

// Registry maps command identifiers to handlers.
type Registry struct {
	handlers map[string]InvokeFunc
	mu       sync.RWMutex
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]InvokeFunc)}
}

// Register adds a handler under a command identifier, replacing any
// previous one.
func (r *Registry) Register(name string, fn InvokeFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = fn
}

// Commands returns the registered identifiers, for logging.
func (r *Registry) Commands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}

// Dispatch runs the handler for a command. Unknown commands are an error.
func (r *Registry) Dispatch(ctx context.Context, name string, args json.RawMessage) (any, error) {
	r.mu.RLock()
	fn, ok := r.handlers[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown command: %s", name)
	}
	return fn(ctx, args)
}

// registerCommands wires the shell's command surface.
func (app *App) registerCommands() {
	r := app.registry

	r.Register(cmdGetFCMToken, func(ctx context.Context, _ json.RawMessage) (any, error) {
		token, ok, err := app.bridge.Token(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return (*string)(nil), nil
		}
		return &token, nil
	})

	r.Register(cmdRequestPermission, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return app.bridge.RequestPermission(ctx)
	})

	r.Register(cmdIsPermissionGranted, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return app.bridge.PermissionGranted(ctx)
	})

	r.Register(cmdSetTrayTooltip, func(_ context.Context, args json.RawMessage) (any, error) {
		var req struct {
			Tooltip string `json:"tooltip"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, fmt.Errorf("decode arguments: %w", err)
		}
		app.tray.SetTooltip(req.Tooltip)
		return nil, nil
	})

	r.Register(cmdGetAutostartEnabled, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return autostartEnabled(ctx), nil
	})

	r.Register(cmdSetAutostartEnabled, func(ctx context.Context, args json.RawMessage) (any, error) {
		var req struct {
			Enabled bool `json:"enabled"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, fmt.Errorf("decode arguments: %w", err)
		}
		if err := setAutostart(ctx, req.Enabled); err != nil {
			return nil, err
		}
		app.rebuildMenu(ctx)
		return nil, nil
	})

	r.Register(cmdShowNotification, func(_ context.Context, args json.RawMessage) (any, error) {
		var req struct {
			Title string `json:"title"`
			Body  string `json:"body"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, fmt.Errorf("decode arguments: %w", err)
		}
		if req.Title == "" {
			return nil, fmt.Errorf("notification title is required")
		}
		app.notify(req.Title, req.Body)
		return nil, nil
	})

	slog.Debug("Registered invoke commands", "commands", r.Commands())
}
