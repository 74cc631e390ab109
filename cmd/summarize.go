package cmd

import (
	"context"

	"github.com/vinay-asish/SmartHire/internal/ai/gemini"
	"github.com/vinay-asish/SmartHire/internal/pipeline"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize every job posting in the input spreadsheet",
	Run: func(_ *cobra.Command, _ []string) {
		runSummarize()
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize() {
	ctx := context.Background()

	stageLogger, config := newLoggerAndConfig()

	if config.Summarize == nil || config.Summarize.Input == "" || config.Summarize.Output == "" {
		stageLogger.Fatal("input and output paths are required under the 'summarize' key")
	}

	generator := newGenerator(ctx, config, stageLogger)

	summarizer := &pipeline.Summarizer{
		Input:  config.Summarize.Input,
		Output: config.Summarize.Output,
		AI:     gemini.NewSummarizer(generator, aiLogger(stageLogger, generator), config.AI.Gemini.MaxLogLength),
		Logger: stageLogger,
	}

	summary, err := summarizer.Run(ctx)
	if err != nil {
		stageLogger.Fatal("summarization failed", zap.Error(err))
	}

	stageLogger.Info("all done, summaries saved",
		zap.String("output", summary.Output),
		zap.Int("rows", summary.Rows),
		zap.Int("summarized", summary.Summarized),
		zap.Int("failed", summary.Failed),
	)
}
