package cmd

import (
	"github.com/vinay-asish/SmartHire/internal/pipeline"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var loadJobsCmd = &cobra.Command{
	Use:   "load-jobs",
	Short: "Load the summarized postings into the jobs table",
	Run: func(_ *cobra.Command, _ []string) {
		runLoadJobs()
	},
}

func init() {
	rootCmd.AddCommand(loadJobsCmd)
}

func runLoadJobs() {
	stageLogger, config := newLoggerAndConfig()

	if config.Summarize == nil || config.Summarize.Output == "" {
		stageLogger.Fatal("summarized table path is required under the 'summarize.output' key")
	}

	s, closeStore := openStore(config, stageLogger)
	defer closeStore()

	loader := &pipeline.Loader{
		Input:  config.Summarize.Output,
		Store:  s,
		Logger: stageLogger,
	}

	summary, err := loader.Run()
	if err != nil {
		stageLogger.Fatal("loading jobs failed", zap.Error(err))
	}

	stageLogger.Info("jobs table created and populated",
		zap.String("store", config.Store),
		zap.Int("inserted", summary.Inserted),
	)
}
