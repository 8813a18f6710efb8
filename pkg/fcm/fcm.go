// Package fcm exposes push-notification capabilities of the native plugin
// runtime to the rest of the Companion shell.
//
// The native side (FCM on Android, APNs on iOS) is reached through an opaque
// Handle established once at startup. On platforms with no native bridge the
// Handle is Absent and every operation resolves to a defined default without
// any round-trip: no token, permission granted. Callers never see an error on
// those platforms.
//
// All operations are stateless and safe for concurrent use; the Handle is
// immutable after construction.
package fcm

import "context"

// Bridge is the public façade over a bridge Handle. The zero value is not
// usable; construct with New.
type Bridge struct {
	handle Handle
}

// New returns a Bridge backed by the given handle.
func New(handle Handle) *Bridge {
	return &Bridge{handle: handle}
}

// Available reports whether a native notification subsystem is present.
func (b *Bridge) Available() bool {
	return b.handle.Present()
}

// Token fetches the current push token from the native side.
// ok is false when no token is available, which is always the case on
// platforms without a native bridge.
func (b *Bridge) Token(ctx context.Context) (token string, ok bool, err error) {
	tok, err := dispatchToken(ctx, b.handle)
	if err != nil {
		return "", false, err
	}
	if tok == nil {
		return "", false, nil
	}
	return *tok, true, nil
}

// RequestPermission asks the native side to prompt the user for notification
// permission. Denial is reported as a false result, not an error. On
// platforms without a native bridge the result is always true.
func (b *Bridge) RequestPermission(ctx context.Context) (bool, error) {
	return dispatchGranted(ctx, b.handle, cmdRequestPermission)
}

// PermissionGranted reports whether notification permission is currently
// granted, without prompting. On platforms without a native bridge the
// result is always true.
func (b *Bridge) PermissionGranted(ctx context.Context) (bool, error) {
	return dispatchGranted(ctx, b.handle, cmdIsPermissionGranted)
}
