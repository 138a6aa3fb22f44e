package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/valentinpelus/unicornfeedback/internal/handler"
	"github.com/valentinpelus/unicornfeedback/internal/middleware"
)

// Server wraps the HTTP server
type Server struct {
	port           string
	handler        *handler.Handler
	authMiddleware *middleware.AuthMiddleware
	logger         *zap.Logger
}

// New creates a new HTTP server
func New(port string, authToken string, h *handler.Handler, logger *zap.Logger) *Server {
	return &Server{
		port:           port,
		handler:        h,
		authMiddleware: middleware.NewAuthMiddleware(authToken, logger),
		logger:         logger,
	}
}

// Routes returns the configured mux. Paths match the API Gateway stage the
// browser client calls.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/enterfeedback", s.authMiddleware.Authenticate(s.handler.HandleEnterFeedback))
	mux.HandleFunc("/predictsentiment", s.authMiddleware.Authenticate(s.handler.HandlePredictSentiment))
	mux.HandleFunc("/predictgender", s.authMiddleware.Authenticate(s.handler.HandlePredictGender))
	mux.HandleFunc("/getallcontents", s.authMiddleware.Authenticate(s.handler.HandleGetAllContents))
	mux.HandleFunc("/health", handler.HandleHealth)
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("Shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	}
}
