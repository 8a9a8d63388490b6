package cli

import (
	"context"

	"resumescreen/internal/config"
	"resumescreen/internal/errors"

	"github.com/spf13/cobra"
)

// Context keys for the values Execute attaches for subcommands.
type ctxKey int

const (
	configCtxKey ctxKey = iota
	loggerCtxKey
)

var rootCmd = &cobra.Command{
	Use:   "resumescreen",
	Short: "A CLI tool for screening resumes against job descriptions",
	Long: `Resumescreen scores resumes against job descriptions by combining
semantic similarity with extracted skills, experience and education signals.
It can score a single resume, rank a batch of candidates, or extract a
structured profile from a resume without scoring.`,
}

// Execute runs the CLI with the loaded config and logger available to every
// subcommand through the command context.
func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	ctx = context.WithValue(ctx, configCtxKey, cfg)
	ctx = context.WithValue(ctx, loggerCtxKey, logger)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configCtxKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context")
}

func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerCtxKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context")
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}
