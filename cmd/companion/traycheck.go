package main

import "github.com/hexidecibel/companion/cmd/companion/x11tray"

// trayHealthCheck reports whether the desktop can show a tray icon at all.
// A failure is advisory: the shell still starts, since the invoke endpoint
// is useful even without a visible icon.
func trayHealthCheck() error {
	return x11tray.HealthCheck()
}
