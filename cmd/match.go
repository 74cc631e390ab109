package cmd

import (
	"context"

	"github.com/vinay-asish/SmartHire/internal/ai/gemini"
	"github.com/vinay-asish/SmartHire/internal/logger"
	"github.com/vinay-asish/SmartHire/internal/pipeline"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultErrorLog = "recruiting_errors.log"

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Extract candidate profiles from CVs and score them against every job",
	Run: func(_ *cobra.Command, _ []string) {
		runMatch()
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
}

func runMatch() {
	ctx := context.Background()

	stageLogger, config := newLoggerAndConfig()

	if config.Match == nil || config.Match.CVDir == "" || config.Match.Export == "" {
		stageLogger.Fatal("cv-dir and export paths are required under the 'match' key")
	}

	errorLogPath := config.Match.ErrorLog
	if errorLogPath == "" {
		errorLogPath = defaultErrorLog
	}
	errorLog, err := logger.NewFile(errorLogPath)
	if err != nil {
		stageLogger.Fatal("opening the error log", zap.String("path", errorLogPath), zap.Error(err))
	}
	defer errorLog.Sync()

	generator := newGenerator(ctx, config, stageLogger)
	policy := retryPolicy(config.AI.Gemini)

	s, closeStore := openStore(config, stageLogger)
	defer closeStore()

	matcher := &pipeline.Matcher{
		CVDir:     config.Match.CVDir,
		Export:    config.Match.Export,
		Store:     s,
		Extractor: gemini.NewExtractor(generator, policy, aiLogger(stageLogger, generator), config.AI.Gemini.MaxLogLength),
		Scorer:    gemini.NewScorer(generator, policy, aiLogger(stageLogger, generator), config.AI.Gemini.MaxLogLength),
		Logger:    stageLogger,
		ErrorLog:  errorLog,
	}

	summary, err := matcher.Run(ctx)
	if err != nil {
		stageLogger.Fatal("matching failed", zap.Error(err))
	}

	stageLogger.Info("all cvs processed and saved",
		zap.Int("documents", summary.Documents),
		zap.Int("inserted", summary.Inserted),
		zap.Int("duplicates", summary.Duplicates),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failures", summary.Failures),
		zap.String("export", summary.Export),
	)
}
