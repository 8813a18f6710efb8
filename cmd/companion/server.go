// Package main - server.go carries invoke traffic between the Companion
// frontend and the shell over a local websocket.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const serverShutdownTimeout = 5 * time.Second

// invokeFrame is one inbound command invocation.
type invokeFrame struct {
	ID   string          `json:"id"`
	Cmd  string          `json:"cmd"`
	Args json.RawMessage `json:"args,omitempty"`
}

// resultFrame is the answer to one invocation. Failures carry only text:
// structured errors stop at this boundary.
type resultFrame struct {
	ID     string `json:"id"`
	OK     bool   `json:"ok"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// invokeServer owns the local HTTP listener and the websocket endpoint.
type invokeServer struct {
	registry *Registry
	server   *http.Server
	upgrader websocket.Upgrader
	addr     string
}

func newInvokeServer(addr string, registry *Registry) *invokeServer {
	s := &invokeServer{
		registry: registry,
		addr:     addr,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The listener is bound to loopback; browsers reaching it are
			// the local frontend.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/invoke", s.handleInvoke)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	s.server = &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: 30 * time.Second,
	}
	return s
}

// serve runs the listener until shutdown. A failed bind is loud but not
// fatal: the tray still works, only frontend invokes are lost.
func (s *invokeServer) serve(ctx context.Context) {
	s.server.BaseContext = func(net.Listener) context.Context { return ctx }

	slog.Info("Invoke endpoint listening", "addr", s.addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Invoke endpoint failed", "addr", s.addr, "error", err)
	}
}

func (s *invokeServer) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		slog.Warn("Invoke endpoint shutdown", "error", err)
	}
}

// handleInvoke upgrades the connection and serves invocations until the
// frontend disconnects. Each invocation runs on its own goroutine so a slow
// native round-trip never blocks the next command; a write mutex keeps
// replies from interleaving.
func (s *invokeServer) handleInvoke(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	slog.Debug("Frontend connected", "remote", conn.RemoteAddr())

	var writeMu sync.Mutex
	write := func(frame resultFrame) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(frame); err != nil {
			slog.Debug("Failed to write invoke reply", "error", err)
		}
	}

	ctx := r.Context()
	for {
		var frame invokeFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("Frontend connection closed", "error", err)
			}
			return
		}

		go func(frame invokeFrame) {
			result, err := s.registry.Dispatch(ctx, frame.Cmd, frame.Args)
			if err != nil {
				slog.Warn("Invoke failed", "cmd", frame.Cmd, "error", err)
				write(resultFrame{ID: frame.ID, OK: false, Error: err.Error()})
				return
			}
			write(resultFrame{ID: frame.ID, OK: true, Result: result})
		}(frame)
	}
}
