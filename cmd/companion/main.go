// Package main implements the Companion native shell: the system tray,
// autostart toggling, and the bridge that exposes the native push-notification
// capability to the Companion frontend as invocable commands.
//
// The push bridge is negotiated once at startup. When a native plugin host is
// reachable, the FCM component is registered with it and the resulting handle
// drives real round-trips; everywhere else the bridge is constructed absent
// and every capability call resolves to its platform default without error.
package main

import (
	"context"
	"flag"
	"log/slog"
	"sync"
	"time"

	"github.com/energye/systray"

	"github.com/hexidecibel/companion/pkg/appsettings"
	"github.com/hexidecibel/companion/pkg/dedup"
	"github.com/hexidecibel/companion/pkg/fcm"
	"github.com/hexidecibel/companion/pkg/icon"
	"github.com/hexidecibel/companion/pkg/logging"
	"github.com/hexidecibel/companion/pkg/plugin"
	"github.com/hexidecibel/companion/pkg/tokenstore"
)

// Version information - set during build with -ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

const (
	appName        = "companion"
	componentID    = "com.hexidecibel.companion.fcm"
	componentClass = "FcmPlugin"

	defaultUIURL        = "http://127.0.0.1:1420"
	defaultListenAddr   = "127.0.0.1:7365"
	defaultTokenRefresh = time.Minute
	minTokenRefresh     = 10 * time.Second

	// Consecutive plugin invoke failures before the tray flips to the
	// error icon.
	invokeFailureThreshold = 3

	notifyDedupWindow  = 30 * time.Second
	notifyDedupMaxAge  = time.Hour
	notifyDedupMaxSize = 500
)

// Settings represents persistent user settings.
type Settings struct {
	NotificationsEnabled bool   `json:"notifications_enabled"`
	UIURL                string `json:"ui_url,omitempty"`
}

// App holds the application state.
type App struct {
	bridge         *fcm.Bridge
	tokens         *tokenstore.Store
	registry       *Registry
	tray           SystrayInterface
	icons          *icon.Cache
	notifyDedup    *dedup.Manager
	settingsMgr    *appsettings.Manager
	uiURL          string
	token          string
	lastMenuTitles []string
	tokenRefresh   time.Duration
	invokeFailures int
	mu             sync.RWMutex
	settings       Settings
}

func main() {
	var (
		verbose      bool
		uiURL        string
		listenAddr   string
		tokenRefresh time.Duration
	)
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	flag.StringVar(&uiURL, "ui", defaultUIURL, "Companion UI URL opened from the tray menu")
	flag.StringVar(&listenAddr, "listen", defaultListenAddr, "Address for the local invoke endpoint")
	flag.DurationVar(&tokenRefresh, "token-interval", defaultTokenRefresh, "Push token refresh interval (e.g. 30s, 1m)")
	flag.Parse()

	logging.Setup(appName, verbose)
	slog.Info("Starting Companion shell", "version", version, "commit", commit)

	if tokenRefresh < minTokenRefresh {
		slog.Warn("Token refresh interval too short, clamping",
			"requested", tokenRefresh, "minimum", minTokenRefresh)
		tokenRefresh = minTokenRefresh
	}

	ctx := context.Background()

	app := &App{
		tokens:       tokenstore.New(),
		registry:     NewRegistry(),
		tray:         &RealSystray{},
		icons:        icon.NewCache(),
		notifyDedup:  dedup.New(notifyDedupWindow, notifyDedupMaxAge, notifyDedupMaxSize),
		settingsMgr:  appsettings.NewManager(appName),
		uiURL:        uiURL,
		tokenRefresh: tokenRefresh,
	}
	app.loadSettings()
	if app.settings.UIURL != "" {
		app.uiURL = app.settings.UIURL
	}

	app.bridge = fcm.New(negotiateBridge(ctx))
	app.registerCommands()

	// Pre-warm the token from the keyring so the menu has something to show
	// before the first native round-trip completes.
	if token, ok, err := app.tokens.Load(); err == nil && ok {
		app.mu.Lock()
		app.token = token
		app.mu.Unlock()
	}

	if err := trayHealthCheck(); err != nil {
		slog.Warn("System tray may be unavailable", "error", err)
	}

	appCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	server := newInvokeServer(listenAddr, app.registry)
	go server.serve(appCtx)

	systray.Run(func() { app.onReady(appCtx) }, func() {
		slog.Info("Shutting down Companion shell")
		cancel()
		server.shutdown()
	})
}

// negotiateBridge establishes the push-notification handle, exactly once.
// Strategy selection is a runtime decision: a reachable plugin host means a
// native handle, anything else means the absent no-op handle. Registration
// failure against a live host is loud but does not kill the shell; the rest
// of the app simply runs with the capability unavailable.
func negotiateBridge(ctx context.Context) fcm.Handle {
	if !plugin.Available() {
		slog.Info("[PLUGIN] No native plugin host on this platform, push capability absent")
		return fcm.Absent()
	}

	handle, err := plugin.Register(ctx, componentID, componentClass)
	if err != nil {
		slog.Error("[PLUGIN] Native notification bridge registration failed, continuing without push",
			"component", componentID, "error", err)
		return fcm.Absent()
	}
	return fcm.Native(handle)
}

func (app *App) onReady(ctx context.Context) {
	slog.Info("System tray ready")

	app.tray.SetOnClick(func(menu systray.IMenu) {
		if menu != nil {
			if err := menu.ShowMenu(); err != nil {
				slog.Error("Failed to show menu", "error", err)
			}
		}
	})

	app.tray.SetTooltip("Companion")
	app.updateIcon()
	app.rebuildMenu(ctx)

	go app.tokenLoop(ctx)
}

// tokenLoop periodically refreshes the push token through the capability
// bridge. The absent-handle path is free, so the loop runs regardless and
// simply never changes state on platforms without a native bridge.
func (app *App) tokenLoop(ctx context.Context) {
	// Recover from panics to keep the shell alive; a broken refresh loop
	// should not take the tray down with it.
	defer func() {
		if r := recover(); r != nil {
			slog.Error("PANIC in token refresh loop", "panic", r)
		}
	}()

	ticker := time.NewTicker(app.tokenRefresh)
	defer ticker.Stop()
	slog.Debug("[TOKEN] Refresh loop started", "interval", app.tokenRefresh)

	app.refreshToken(ctx)

	for {
		select {
		case <-ticker.C:
			app.refreshToken(ctx)
		case <-ctx.Done():
			slog.Debug("[TOKEN] Refresh loop stopping")
			return
		}
	}
}

// refreshToken performs one façade token fetch and folds the result into app
// state. Failures are counted but never retried here: the bridge surfaces
// each failure immediately and the next tick is the retry.
func (app *App) refreshToken(ctx context.Context) {
	if !app.bridge.Available() {
		return
	}

	token, ok, err := app.bridge.Token(ctx)
	if err != nil {
		app.mu.Lock()
		app.invokeFailures++
		failures := app.invokeFailures
		app.mu.Unlock()
		slog.Warn("[TOKEN] Refresh failed", "consecutive_failures", failures, "error", err)
		app.updateIcon()
		return
	}

	app.mu.Lock()
	app.invokeFailures = 0
	previous := app.token
	changed := ok && token != previous
	if changed {
		app.token = token
	}
	app.mu.Unlock()

	app.updateIcon()
	if !changed {
		return
	}

	slog.Info("[TOKEN] Push token updated")
	if err := app.tokens.Save(token); err != nil {
		slog.Error("[TOKEN] Failed to persist token", "error", err)
	}
	if previous == "" {
		app.notify("Companion", "Push notifications are connected on this device")
	}
	app.rebuildMenu(ctx)
}

// loadSettings loads settings from disk or falls back to defaults.
func (app *App) loadSettings() {
	settings := Settings{NotificationsEnabled: true}
	found, err := app.settingsMgr.Load(&settings)
	if err != nil {
		slog.Error("Failed to load settings, using defaults", "error", err)
		settings = Settings{NotificationsEnabled: true}
	}
	app.mu.Lock()
	app.settings = settings
	app.mu.Unlock()
	slog.Info("Loaded settings",
		"found", found,
		"notifications_enabled", settings.NotificationsEnabled)
}

// saveSettings writes current settings to disk.
func (app *App) saveSettings() {
	app.mu.RLock()
	settings := app.settings
	app.mu.RUnlock()

	if err := app.settingsMgr.Save(settings); err != nil {
		slog.Error("Failed to save settings", "error", err)
		return
	}
	slog.Info("Saved settings", "notifications_enabled", settings.NotificationsEnabled)
}

// iconState derives the tray icon state from bridge health and token
// presence.
func (app *App) iconState() icon.State {
	app.mu.RLock()
	defer app.mu.RUnlock()

	switch {
	case app.invokeFailures >= invokeFailureThreshold:
		return icon.StateError
	case app.token != "":
		return icon.StateConnected
	default:
		return icon.StateIdle
	}
}

// updateIcon renders (or looks up) the icon for the current state and pushes
// it to the tray.
func (app *App) updateIcon() {
	state := app.iconState()

	data, ok := app.icons.Lookup(state, 0)
	if !ok {
		var err error
		data, err = icon.Render(state, 0)
		if err != nil {
			slog.Warn("Failed to render tray icon", "state", state, "error", err)
			return
		}
		app.icons.Put(state, 0, data)
	}
	app.tray.SetIcon(data)
}
