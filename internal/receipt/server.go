package receipt

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// maxReceiptBytes bounds the size of a submitted receipt body
const maxReceiptBytes = 1 << 20

// Server handles HTTP requests for receipts
type Server struct {
	service    *Service
	validator  *Validator
	metrics    http.Handler
	mux        *http.ServeMux
	httpServer *http.Server
}

// NewServer creates a new Server with default mux. A nil metrics handler
// leaves /metrics unregistered.
func NewServer(service *Service, metrics http.Handler) *Server {
	return NewServerWithMux(service, metrics, http.NewServeMux())
}

// NewServerWithMux creates a new Server with a custom mux for testing
func NewServerWithMux(service *Service, metrics http.Handler, mux *http.ServeMux) *Server {
	s := &Server{
		service:   service,
		validator: NewValidator(),
		metrics:   metrics,
		mux:       mux,
	}
	s.httpServer = &http.Server{
		Handler:           s.corsMiddleware(s.mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.registerRoutes()
	return s
}

// corsMiddleware adds CORS headers to responses
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)

		// Handle preflight OPTIONS requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// registerRoutes registers all API routes on the server's mux
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /receipts/process", s.handleProcessReceipt)
	s.mux.HandleFunc("GET /receipts/{id}/points", s.handleGetPoints)

	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics)
	}
}

// Start starts the HTTP server and blocks until it stops. A stop caused by
// Shutdown is not an error.
func (s *Server) Start(addr string) error {
	slog.Info("Starting server", "address", addr)
	s.httpServer.Addr = addr
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops a server started with Start
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.corsMiddleware(s.mux).ServeHTTP(w, r)
}
