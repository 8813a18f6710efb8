package fcm

import (
	"context"
	"encoding/json"
	"fmt"
)

// command is the closed set of operations understood by the native side.
// Keeping this an enum (rather than passing strings through the public API)
// means a typo or an unmapped response shape is a compile error here, not a
// runtime failure at the native boundary.
type command int

const (
	cmdGetToken command = iota
	cmdRequestPermission
	cmdIsPermissionGranted
)

// wire returns the command identifier expected by the native plugin.
func (c command) wire() string {
	switch c {
	case cmdGetToken:
		return "getToken"
	case cmdRequestPermission:
		return "requestPermission"
	case cmdIsPermissionGranted:
		return "isPermissionGranted"
	default:
		// Unreachable: command values are package-private constants.
		return fmt.Sprintf("command(%d)", int(c))
	}
}

// tokenResponse is the native response shape for getToken.
type tokenResponse struct {
	Token *string `json:"token"`
}

// grantedResponse is the native response shape for both permission commands.
type grantedResponse struct {
	Granted bool `json:"granted"`
}

// dispatchToken runs getToken against the handle. Absent handles default to
// "no token" with no round-trip.
func dispatchToken(ctx context.Context, h Handle) (*string, error) {
	if !h.Present() {
		return nil, nil
	}
	resp, err := roundTrip[tokenResponse](ctx, h, cmdGetToken)
	if err != nil {
		return nil, err
	}
	return resp.Token, nil
}

// dispatchGranted runs a permission command against the handle. Absent
// handles default to granted: a platform with no notification bridge is
// treated as unrestricted rather than blocked.
func dispatchGranted(ctx context.Context, h Handle, cmd command) (bool, error) {
	if !h.Present() {
		return true, nil
	}
	resp, err := roundTrip[grantedResponse](ctx, h, cmd)
	if err != nil {
		return false, err
	}
	return resp.Granted, nil
}

// roundTrip performs one native call and decodes the response into T.
// Transport failure and decode failure both collapse into a single
// PluginInvokeError: either way the native side is unusable for this call,
// and the distinction is not actionable for callers.
func roundTrip[T any](ctx context.Context, h Handle, cmd command) (T, error) {
	var decoded T

	raw, err := h.transport.Invoke(ctx, cmd.wire(), nil)
	if err != nil {
		return decoded, &PluginInvokeError{Detail: err.Error()}
	}

	if err := json.Unmarshal(raw, &decoded); err != nil {
		return decoded, &PluginInvokeError{
			Detail: fmt.Sprintf("decode %s response: %v", cmd.wire(), err),
		}
	}
	return decoded, nil
}
