package cmd

import (
	"context"
	"log"
	"time"

	"github.com/vinay-asish/SmartHire/internal/ai/gemini"
	"github.com/vinay-asish/SmartHire/internal/logger"
	"github.com/vinay-asish/SmartHire/internal/retry"
	"github.com/vinay-asish/SmartHire/internal/secrets"
	"github.com/vinay-asish/SmartHire/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	app = "smarthire"

	defaultMaxRetries = 3
	defaultRetryDelay = 2 * time.Second
)

type Config struct {
	Store     string           `mapstructure:"store"`
	Summarize *SummarizeConfig `mapstructure:"summarize"`
	Match     *MatchConfig     `mapstructure:"match"`
	Notify    *NotifyConfig    `mapstructure:"notify"`
	AI        *AIConfig        `mapstructure:"ai"`
}

type SummarizeConfig struct {
	Input  string `mapstructure:"input"`
	Output string `mapstructure:"output"`
}

type MatchConfig struct {
	CVDir    string `mapstructure:"cv-dir"`
	Export   string `mapstructure:"export"`
	ErrorLog string `mapstructure:"error-log"`
}

type NotifyConfig struct {
	Threshold float64     `mapstructure:"threshold"`
	SMTP      *SMTPConfig `mapstructure:"smtp"`
}

type SMTPConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	PasswordFile string `mapstructure:"password-file"`
	From         string `mapstructure:"from"`
	FromName     string `mapstructure:"from-name"`
}

type AIConfig struct {
	Gemini *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile        string `mapstructure:"api-key-file"`
	Model             string `mapstructure:"model"`
	MaxRetries        int    `mapstructure:"max-retries"`
	RetryDelaySeconds int    `mapstructure:"retry-delay-seconds"`
	MaxLogLength      int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "smarthire is a recruiting pipeline: summarize postings, load jobs, match CVs and notify shortlisted candidates",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("notify.smtp.password-file", "SMTP_PASSWORD_FILE"); err != nil {
		log.Fatalf("binding SMTP_PASSWORD_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is smarthire.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// The version command works without a config file.
	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}

// newLoggerAndConfig is the common preamble of every stage command.
func newLoggerAndConfig() (*zap.Logger, *Config) {
	stageLogger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		stageLogger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		stageLogger.Fatal("config is required")
	}

	return stageLogger, config
}

// openStore acquires the store connection for the duration of one stage run.
// Callers must defer the returned close function.
func openStore(config *Config, stageLogger *zap.Logger) (*store.Store, func()) {
	if config.Store == "" {
		stageLogger.Fatal("store path is required under the 'store' key")
	}

	s, err := store.Open(config.Store)
	if err != nil {
		stageLogger.Fatal("opening the store", zap.Error(err))
	}

	return s, func() {
		if err := s.Close(); err != nil {
			stageLogger.Warn("closing the store", zap.Error(err))
		}
	}
}

func newGenerator(ctx context.Context, config *Config, stageLogger *zap.Logger) *gemini.Generator {
	if config.AI == nil || config.AI.Gemini == nil {
		stageLogger.Fatal("gemini configuration is required under the 'ai.gemini' key")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.AI.Gemini.APIKeyFile,
	})
	if err != nil {
		stageLogger.Fatal(
			"loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY_FILE environment variable or the 'ai.gemini.api-key-file' key in the configuration file"),
		)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, config.AI.Gemini.Model)
	if err != nil {
		stageLogger.Fatal("creating gemini generator", zap.Error(err))
	}

	return generator
}

func retryPolicy(config *GeminiConfig) retry.Policy {
	policy := retry.Policy{
		MaxAttempts: defaultMaxRetries,
		Delay:       defaultRetryDelay,
	}

	if config.MaxRetries > 0 {
		policy.MaxAttempts = config.MaxRetries
	}
	if config.RetryDelaySeconds > 0 {
		policy.Delay = time.Duration(config.RetryDelaySeconds) * time.Second
	}

	return policy
}

func aiLogger(stageLogger *zap.Logger, generator *gemini.Generator) *zap.Logger {
	return logger.WithCommonFields(stageLogger, "gemini", generator.Model())
}
