// Package relay runs the local HTTP listener that receives session lifecycle
// notifications from the forwarder script registered in the generated
// settings file.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Payload is the hook event JSON the forwarder relays. The fields mirror
// what Claude Code writes to the hook's stdin.
type Payload struct {
	SessionID      string `json:"session_id"`
	HookEventName  string `json:"hook_event_name"`
	Source         string `json:"source,omitempty"`
	CWD            string `json:"cwd,omitempty"`
	TranscriptPath string `json:"transcript_path,omitempty"`
}

// maxBodyBytes bounds a single hook request body. Payloads are a handful of
// short strings; anything larger is not ours.
const maxBodyBytes = 1 << 20

// Server is the hook listener. It decodes forwarded payloads and hands them
// to the configured handler; storage and display are the caller's concern.
type Server struct {
	addr    string
	handler func(Payload)
	srv     *http.Server
}

// New creates a Server bound to addr. handler is invoked synchronously for
// every accepted payload.
func New(addr string, handler func(Payload)) *Server {
	s := &Server{addr: addr, handler: handler}

	mux := http.NewServeMux()
	mux.HandleFunc("/hook", s.handleHook)
	mux.HandleFunc("/healthz", s.handleHealth)

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Addr returns the configured bind address.
func (s *Server) Addr() string {
	return s.addr
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("hook listener: %w", err)
	}
}

func (s *Server) handleHook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload Payload
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&payload); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	if payload.SessionID == "" {
		http.Error(w, "missing session_id", http.StatusBadRequest)
		return
	}

	if s.handler != nil {
		s.handler(payload)
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"ok":true}` + "\n"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}

// Handler exposes the server's mux for tests using httptest.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}
