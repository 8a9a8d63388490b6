package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"resumescreen/internal/ai"
	"resumescreen/internal/common"
	"resumescreen/internal/types"

	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch [job-description-file] [resume-files...]",
	Short: "Score and rank multiple resumes against one job description",
	Long: `Score multiple resumes against a single job description and rank
the candidates by final score, highest first. The first argument is the job
description file; every following argument is a resume file. Resumes that
fail basic validation are skipped and reported instead of scored.`,
	Args: cobra.MinimumNArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if batchConfig.OutputFormat == "" {
			batchConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(batchConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runBatch,
}

var batchConfig common.CommandConfig

func init() {
	batchCmd.Flags().StringVarP(&batchConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	batchCmd.Flags().StringVar(&batchConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = batchCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

// candidateName derives a display name from a resume file path
func candidateName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	embeddingService, err := ai.NewService(&cfg.Embedding, logger)
	if err != nil {
		return fmt.Errorf("failed to create embedding service: %w", err)
	}

	eng, err := common.BuildEngine(cfg, embeddingService, logger)
	if err != nil {
		return fmt.Errorf("failed to build scoring engine: %w", err)
	}

	fileProcessor := common.NewFileProcessor(logger)
	outputHandler := common.NewOutputHandler(logger)

	contents, err := fileProcessor.ValidateAndReadFiles(args...)
	if err != nil {
		return err
	}

	jobText := contents[0]
	resumes := make([]types.BatchResume, 0, len(contents)-1)
	for i, text := range contents[1:] {
		resumes = append(resumes, types.BatchResume{
			Name: candidateName(args[i+1]),
			Text: text,
		})
	}

	logger.Info("Starting batch scoring",
		"job_chars", len(jobText),
		"resumes", len(resumes),
		"output_format", batchConfig.OutputFormat)

	result, err := eng.ScoreBatch(cmd.Context(), jobText, resumes)
	if err != nil {
		return fmt.Errorf("failed to score batch: %w", err)
	}

	if err := outputHandler.HandleOutput(*result, batchConfig); err != nil {
		return err
	}

	logger.Info("Batch scoring completed successfully",
		"ranked", len(result.Candidates),
		"skipped", len(result.Skipped))
	return nil
}
