// Package plugin talks to the native plugin host that owns Companion's
// platform-specific code (push-notification plumbing, most notably).
//
// The host exposes a Unix socket; each request is one JSON line and each
// response is one JSON line on a fresh connection. A plugin component must
// be registered once at startup before it can be invoked; registration
// failure is fatal to the component, never silently swallowed.
package plugin

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/codeGROOVE-dev/retry"
)

const (
	registerAttempts = 5
	registerMaxDelay = 3 * time.Second
)

// SocketEnv overrides the plugin host socket location when set.
const SocketEnv = "COMPANION_PLUGIN_SOCKET"

// SocketPath returns the path of the plugin host's Unix socket.
func SocketPath() string {
	if p := os.Getenv(SocketEnv); p != "" {
		return p
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, _ = os.UserHomeDir()
	}
	return filepath.Join(configDir, "companion", "plugin.sock")
}

// Available reports whether a plugin host socket exists on this platform.
// Callers use this to decide, once at startup, whether to register native
// components at all.
func Available() bool {
	info, err := os.Stat(SocketPath())
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSocket != 0
}

// Register announces a plugin component to the host and returns a Handle for
// invoking it. The host may still be starting when we are, so the initial
// connection is retried with backoff; once the attempts are exhausted the
// error is returned as-is for the caller to escalate.
func Register(ctx context.Context, component, class string) (*Handle, error) {
	h := &Handle{socket: SocketPath(), component: component}

	err := retry.Do(func() error {
		return h.register(ctx, class)
	},
		retry.Attempts(registerAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.MaxDelay(registerMaxDelay),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("[PLUGIN] Registration retry",
				"component", component,
				"attempt", n+1,
				"max", registerAttempts,
				"error", err)
		}),
		retry.Context(ctx),
	)
	if err != nil {
		return nil, err
	}

	slog.Info("[PLUGIN] Component registered", "component", component, "class", class)
	return h, nil
}

// register performs one registration round-trip.
func (h *Handle) register(ctx context.Context, class string) error {
	payload, err := json.Marshal(map[string]string{"class": class})
	if err != nil {
		return err
	}
	_, err = h.send(ctx, request{
		Type:      "register",
		Component: h.component,
		Payload:   payload,
	})
	return err
}
