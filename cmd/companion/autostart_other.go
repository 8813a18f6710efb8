//go:build !darwin && !linux

package main

import (
	"context"
	"errors"
)

// Autostart is not wired up on this platform yet.

func autostartSupported() bool {
	return false
}

func autostartEnabled(_ context.Context) bool {
	return false
}

func setAutostart(_ context.Context, _ bool) error {
	return errors.New("autostart is not supported on this platform")
}
