package cli

import (
	"fmt"

	"resumescreen/internal/config"
	"resumescreen/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for resume screening",
	Long: `Start an HTTP server that provides REST API endpoints for resume screening.

Available endpoints:
- POST /score: Score a resume against a job description
- POST /batch: Score and rank multiple resumes against a job description
- POST /extract-skills: Extract a structured profile from a resume
- GET /skills: List the loaded skill taxonomy
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server, mutual
- Use --cert-file and --key-file for TLS certificates
- Use --ca-file for mutual TLS client certificate verification`,
	RunE: runServe,
}

// Serve flags overlay the corresponding viper keys, so a flag given on the
// command line wins over the config file and environment.
var serveFlagBindings = map[string]string{
	"server.port":         "port",
	"server.host":         "host",
	"server.tls.mode":     "tls-mode",
	"server.tls.certfile": "cert-file",
	"server.tls.keyfile":  "key-file",
	"server.tls.cafile":   "ca-file",
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().String("tls-mode", "", "TLS mode: disabled, server, mutual (overrides config)")
	serveCmd.Flags().String("cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().String("key-file", "", "Server private key file (PEM, overrides config)")
	serveCmd.Flags().String("ca-file", "", "CA certificate file for client cert verification (PEM, overrides config)")

	for key, flagName := range serveFlagBindings {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(flagName)); err != nil {
			panic(err)
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// Flag overrides may have introduced an inconsistent TLS setup, so
	// validate again before starting.
	tlsCheck := &config.Config{Server: cfg.Server}
	if err := tlsCheck.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	serverCfg := server.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        Version,
		TLSConfig:      cfg.Server.TLS,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.Server.MaxRequestSize,
		MaxBatchSize:   cfg.Server.MaxBatchSize,
		RateLimit:      &cfg.Server.RateLimit,
	}
	return server.NewServer(cfg, serverCfg, logger).Start()
}
