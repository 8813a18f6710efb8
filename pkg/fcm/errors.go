package fcm

import "errors"

// Sentinel errors reserved for native-side conditions. Neither is produced
// by the current dispatch paths: capability absence resolves to defaults,
// and permission denial is reported as a false result rather than an error.
// They are kept so the taxonomy is stable if the native contract grows.
var (
	ErrNotAvailable     = errors.New("push notifications not available on this platform")
	ErrPermissionDenied = errors.New("notification permission denied")
)

// TokenError reports a token-specific failure from the native side.
type TokenError struct {
	Detail string
}

func (e *TokenError) Error() string {
	return "failed to get push token: " + e.Detail
}

// PluginInvokeError reports a failed native round-trip: transport errors and
// undecodable responses both surface as this type, carrying the underlying
// diagnostic text.
type PluginInvokeError struct {
	Detail string
}

func (e *PluginInvokeError) Error() string {
	return "plugin error: " + e.Detail
}
