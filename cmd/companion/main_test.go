package main

import (
	"context"
	"errors"
	"testing"

	"github.com/zalando/go-keyring"

	"github.com/hexidecibel/companion/pkg/fcm"
	"github.com/hexidecibel/companion/pkg/icon"
	"github.com/hexidecibel/companion/pkg/tokenstore"
)

// newRefreshApp builds an App wired for refresh-loop tests: mock keyring,
// throwaway config dir, notifications off so no desktop popups fire.
func newRefreshApp(t *testing.T, transport *fakeTransport) (*App, *MockSystray) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	keyring.MockInit()

	app, tray := newTestApp(t, fcm.Native(transport))
	app.tokens = tokenstore.New()
	app.settings.NotificationsEnabled = false
	return app, tray
}

func TestRefreshTokenPersistsFirstToken(t *testing.T) {
	transport := &fakeTransport{responses: map[string]string{
		"getToken": `{"token": "tok-aaaa-1111"}`,
	}}
	app, tray := newRefreshApp(t, transport)
	ctx := context.Background()

	app.refreshToken(ctx)

	app.mu.RLock()
	token := app.token
	failures := app.invokeFailures
	app.mu.RUnlock()
	if token != "tok-aaaa-1111" {
		t.Errorf("token = %q, want the fetched token", token)
	}
	if failures != 0 {
		t.Errorf("invokeFailures = %d, want 0 after success", failures)
	}

	saved, ok, err := app.tokens.Load()
	if err != nil {
		t.Fatalf("tokens.Load() error = %v", err)
	}
	if !ok || saved != "tok-aaaa-1111" {
		t.Errorf("keyring token = %q (ok=%v), want the fetched token", saved, ok)
	}
	if tray.resets == 0 {
		t.Error("menu should be rebuilt when the token first appears")
	}
	if tray.icons == 0 {
		t.Error("tray icon should be pushed on refresh")
	}
}

func TestRefreshTokenUnchangedTokenIsQuiet(t *testing.T) {
	transport := &fakeTransport{responses: map[string]string{
		"getToken": `{"token": "tok-stable"}`,
	}}
	app, tray := newRefreshApp(t, transport)
	ctx := context.Background()

	app.refreshToken(ctx)
	rebuilds := tray.resets

	// Same token again: no persistence churn, no menu rebuild.
	app.refreshToken(ctx)
	if tray.resets != rebuilds {
		t.Errorf("menu rebuilds = %d, want %d for an unchanged token", tray.resets, rebuilds)
	}
}

func TestRefreshTokenRotation(t *testing.T) {
	transport := &fakeTransport{responses: map[string]string{
		"getToken": `{"token": "tok-first"}`,
	}}
	app, tray := newRefreshApp(t, transport)
	ctx := context.Background()

	app.refreshToken(ctx)
	rebuilds := tray.resets

	transport.responses["getToken"] = `{"token": "tok-second"}`
	app.refreshToken(ctx)

	saved, ok, err := app.tokens.Load()
	if err != nil {
		t.Fatalf("tokens.Load() error = %v", err)
	}
	if !ok || saved != "tok-second" {
		t.Errorf("keyring token = %q (ok=%v), want the rotated token", saved, ok)
	}
	if tray.resets == rebuilds {
		t.Error("menu should be rebuilt when the token rotates")
	}
}

func TestRefreshTokenCountsConsecutiveFailures(t *testing.T) {
	transport := &fakeTransport{err: errors.New("socket gone")}
	app, _ := newRefreshApp(t, transport)
	ctx := context.Background()

	for i := 0; i < invokeFailureThreshold; i++ {
		app.refreshToken(ctx)
	}

	app.mu.RLock()
	failures := app.invokeFailures
	app.mu.RUnlock()
	if failures != invokeFailureThreshold {
		t.Errorf("invokeFailures = %d, want %d", failures, invokeFailureThreshold)
	}
	if state := app.iconState(); state != icon.StateError {
		t.Errorf("iconState() = %v, want error state at the failure threshold", state)
	}

	// One success clears the streak; a single failure is not an outage.
	transport.err = nil
	transport.responses = map[string]string{"getToken": `{"token": "tok-back"}`}
	app.refreshToken(ctx)

	app.mu.RLock()
	failures = app.invokeFailures
	app.mu.RUnlock()
	if failures != 0 {
		t.Errorf("invokeFailures = %d, want 0 after a successful refresh", failures)
	}
	if state := app.iconState(); state != icon.StateConnected {
		t.Errorf("iconState() = %v, want connected after recovery", state)
	}
}

func TestRefreshTokenAbsentBridgeIsNoOp(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	keyring.MockInit()

	app, tray := newTestApp(t, fcm.Absent())
	app.tokens = tokenstore.New()
	app.settings.NotificationsEnabled = false

	app.refreshToken(context.Background())

	if _, ok, _ := app.tokens.Load(); ok {
		t.Error("absent bridge should never persist a token")
	}
	if tray.resets != 0 || tray.icons != 0 {
		t.Error("absent bridge refresh should not touch the tray")
	}
}
