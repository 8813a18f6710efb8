package plugin

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	"github.com/google/uuid"
)

// request is the wire format for one frame sent to the plugin host.
type request struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"` // "register" or "invoke"
	Component string          `json:"component"`
	Command   string          `json:"command,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// response is the wire format for one frame received from the plugin host.
type response struct {
	ID     string          `json:"id"`
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Handle is an opaque reference to a registered plugin component. It is
// immutable and safe for concurrent use: every invocation opens its own
// connection.
type Handle struct {
	socket    string
	component string
}

// Component returns the registered component identifier.
func (h *Handle) Component() string {
	return h.component
}

// Invoke runs a named command against the component and returns the raw
// result for the caller to decode. The host is expected to answer every
// frame; a missing or mismatched response is an error.
func (h *Handle) Invoke(ctx context.Context, command string, req any) (json.RawMessage, error) {
	var payload json.RawMessage
	if req != nil {
		data, err := json.Marshal(req)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		payload = data
	}

	resp, err := h.send(ctx, request{
		Type:      "invoke",
		Component: h.component,
		Command:   command,
		Payload:   payload,
	})
	if err != nil {
		return nil, err
	}
	return resp.Result, nil
}

// send opens a connection, writes one request frame, reads one response
// frame, and closes. Fresh connection per call keeps the handle free of
// shared connection state.
func (h *Handle) send(ctx context.Context, req request) (*response, error) {
	req.ID = uuid.NewString()

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "unix", h.socket)
	if err != nil {
		return nil, fmt.Errorf("connect to plugin host at %s: %w", h.socket, err)
	}
	defer conn.Close()

	// Cancellation is inherited from ctx, nothing more: no deadline of our
	// own is imposed on the native side.
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return nil, fmt.Errorf("set deadline: %w", err)
		}
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		return nil, fmt.Errorf("write to plugin host: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read from plugin host: %w", err)
		}
		return nil, errors.New("plugin host closed connection without responding")
	}

	var resp response
	if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("parse plugin host response: %w", err)
	}
	if resp.ID != req.ID {
		return nil, fmt.Errorf("plugin host answered frame %s, expected %s", resp.ID, req.ID)
	}
	if !resp.OK {
		return nil, fmt.Errorf("plugin host error: %s", resp.Error)
	}
	return &resp, nil
}
