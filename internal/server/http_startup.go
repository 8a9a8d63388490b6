package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resumescreen/internal/ai"
	"resumescreen/internal/common"
	"resumescreen/internal/observability"
)

const shutdownTimeout = 30 * time.Second

// Start brings up the scoring engine, observability, TLS, and the HTTP
// listener, then blocks until shutdown.
func (s *Server) Start() error {
	if err := s.initializeEngine(); err != nil {
		return err
	}

	om, err := observability.NewObservabilityManager(
		observability.GetObservabilityConfig(s.AppConfig, s.Version), s.AppConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer s.shutdownObservability(om)

	httpServer := s.setupHTTPServer(om)

	vaultClient, err := s.initializeVaultClient()
	if err != nil {
		return err
	}
	if err := s.configureTLS(httpServer, vaultClient, om); err != nil {
		return err
	}

	s.displayServerInfo()

	return s.startWithGracefulShutdown(httpServer)
}

// initializeEngine wires the embedding service and scoring engine. The
// taxonomy is loaded once here and shared read-only by all requests.
func (s *Server) initializeEngine() error {
	embedding, err := ai.NewService(&s.AppConfig.Embedding, s.Logger)
	if err != nil {
		return fmt.Errorf("failed to create embedding service: %w", err)
	}

	eng, err := common.BuildEngine(s.AppConfig, embedding, s.Logger)
	if err != nil {
		return fmt.Errorf("failed to build scoring engine: %w", err)
	}

	s.Embedding = embedding
	s.Engine = eng

	s.Logger.Info("Scoring engine initialized",
		"skills", eng.Taxonomy().Len(),
		"embedding_provider", s.AppConfig.Embedding.Provider,
		"weight_preset", s.AppConfig.Engine.WeightPreset)
	return nil
}

func (s *Server) shutdownObservability(om *observability.ObservabilityManager) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := om.Shutdown(ctx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown observability")
	}
}

// setupHTTPServer builds the http.Server with routes and tracing middleware
// attached. TLS configuration is layered on afterwards.
func (s *Server) setupHTTPServer(om *observability.ObservabilityManager) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.Host, s.Port),
		Handler:      om.HTTPMiddleware()(s.setupRoutes(om)),
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
		IdleTimeout:  s.IdleTimeout,
	}
}

// serve picks the right listen call for the TLS setup. Certificates loaded
// from content (Vault or inline config) are already inside the TLS config, so
// ListenAndServeTLS gets empty file paths in that case.
func (s *Server) serve(server *http.Server) error {
	if server.TLSConfig == nil {
		return server.ListenAndServe()
	}
	if s.TLSConfig.CertContent != "" || s.TLSConfig.KeyContent != "" {
		return server.ListenAndServeTLS("", "")
	}
	return server.ListenAndServeTLS(s.TLSConfig.CertFile, s.TLSConfig.KeyFile)
}

// startWithGracefulShutdown runs the listener in the background and waits for
// SIGINT/SIGTERM or a listener failure.
func (s *Server) startWithGracefulShutdown(server *http.Server) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.Logger.Info("Starting HTTP server",
			"address", server.Addr,
			"tls_enabled", server.TLSConfig != nil)

		if err := s.serve(server); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server failed to start: %w", err)
	case sig := <-quit:
		s.Logger.Info("Received shutdown signal, starting graceful shutdown",
			"signal", sig.String())
		return s.performGracefulShutdown(server)
	}
}

// performGracefulShutdown releases background components before draining the
// HTTP server. Shutdown is bounded; on timeout the server is closed hard.
func (s *Server) performGracefulShutdown(server *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.CertificateManager != nil {
		if err := s.CertificateManager.Stop(); err != nil {
			s.Logger.LogError(err, "Failed to stop certificate manager")
		}
	}

	if s.RateLimiter != nil {
		s.RateLimiter.Close()
		s.Logger.Info("Rate limiter cleaned up")
	}

	if s.Embedding != nil {
		if err := s.Embedding.Provider.Close(); err != nil {
			s.Logger.LogError(err, "Failed to close embedding provider")
		}
	}

	s.Logger.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown server gracefully, forcing close")
		return server.Close()
	}

	s.Logger.Info("Server shutdown completed successfully")
	return nil
}
