//go:build !linux && !freebsd && !openbsd && !netbsd && !dragonfly && !solaris && !illumos && !aix

package x11tray

// HealthCheck always returns nil where the OS provides the tray natively.
func HealthCheck() error {
	return nil
}
