package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/cjeanneret/PanTilt/internal/debug"
)

// Server wraps the HTTP server and handlers.
type Server struct {
	addr     string
	handlers *Handlers
	ready    chan net.Addr
}

// Options carries the optional dependencies of the server.
type Options struct {
	Status  StatusFunc
	Outputs NamedOutputs
	Metrics http.Handler
}

// NewServer creates a server configured for the given address and dependencies.
func NewServer(addr string, hub *ParamHub, broadcaster *StatusBroadcaster, opts Options) (*Server, error) {
	subFS, err := ControlPage()
	if err != nil {
		return nil, err
	}
	return &Server{
		addr:     addr,
		handlers: NewHandlers(hub, broadcaster, opts.Status, opts.Outputs, opts.Metrics, subFS),
		ready:    make(chan net.Addr, 1),
	}, nil
}

// Mux returns an http.Handler with all routes registered.
func (s *Server) Mux() http.Handler {
	h := s.handlers
	mux := http.NewServeMux()

	mux.HandleFunc("GET /node", h.HandleNode)
	mux.HandleFunc("GET /params", h.HandleParams)
	mux.HandleFunc("POST /params/{name}", h.HandleWriteParam)
	mux.HandleFunc("GET /ws", h.Hub.HandleWebSocket)
	mux.HandleFunc("GET /status", h.HandleStatus)
	mux.HandleFunc("GET /status/stream", h.HandleStatusStream)
	mux.HandleFunc("GET /gpio", h.HandleGPIONames)
	mux.HandleFunc("POST /gpio/{name}", h.HandleGPIO)
	if h.Metrics != nil {
		mux.Handle("GET /metrics", h.Metrics)
	}
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(h.staticFS))))
	mux.HandleFunc("GET /{$}", h.ServeIndex) // exact match for root only

	return mux
}

// Ready delivers the bound address once the server listens.
func (s *Server) Ready() <-chan net.Addr {
	return s.ready
}

// Run starts the server and blocks until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("web: listen on %s: %w", s.addr, err)
	}
	srv := &http.Server{
		Handler:           s.Mux(),
		ReadHeaderTimeout: 10 * time.Second,
		// SSE streams end with the daemon.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() {
		debug.Info("Web server listening on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()
	s.ready <- ln.Addr()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		s.handlers.Hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
