package cmd

import (
	"context"
	"fmt"

	"github.com/vinay-asish/SmartHire/internal/mail"
	"github.com/vinay-asish/SmartHire/internal/pipeline"
	"github.com/vinay-asish/SmartHire/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Email shortlisted candidates an interview invitation",
	Run: func(cmd *cobra.Command, _ []string) {
		runNotify(cmd)
	},
}

func init() {
	rootCmd.AddCommand(notifyCmd)

	notifyCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before sending emails")
}

func runNotify(cmd *cobra.Command) {
	ctx := context.Background()

	stageLogger, config := newLoggerAndConfig()

	sender := newSender(config, stageLogger)

	s, closeStore := openStore(config, stageLogger)
	defer closeStore()

	var threshold float64 = pipeline.DefaultThreshold
	if config.Notify != nil && config.Notify.Threshold > 0 {
		threshold = config.Notify.Threshold
	}

	notifier := &pipeline.Notifier{
		Store:     s,
		Sender:    sender,
		Threshold: threshold,
		Logger:    stageLogger,
	}

	shortlisted, err := notifier.Shortlist()
	if err != nil {
		stageLogger.Fatal("selecting shortlisted candidates", zap.Error(err))
	}

	if len(shortlisted) == 0 {
		stageLogger.Info("exiting", zap.String("reason", "no candidates awaiting notification"))
		return
	}

	stageLogger.Info("candidates awaiting notification", zap.Int("count", len(shortlisted)))

	if cmd.Flag("auto-approve").Value.String() == "false" {
		prompt := promptui.Select{
			Label: fmt.Sprintf("Send %d interview invitations?", len(shortlisted)),
			Items: []string{PromptYes, PromptNo},
		}

		_, action, err := prompt.Run()
		if err != nil {
			stageLogger.Fatal("exiting", zap.Error(err))
		}
		if action == PromptNo {
			stageLogger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	summary, err := notifier.Notify(ctx, shortlisted)
	if err != nil {
		stageLogger.Fatal("notification failed", zap.Error(err))
	}

	stageLogger.Info("all interview emails processed",
		zap.Int("shortlisted", summary.Shortlisted),
		zap.Int("sent", summary.Sent),
		zap.Int("failed", summary.Failed),
	)
}

func newSender(config *Config, stageLogger *zap.Logger) mail.Sender {
	if config.Notify == nil || config.Notify.SMTP == nil {
		stageLogger.Fatal("smtp configuration is required under the 'notify.smtp' key")
	}

	smtp := config.Notify.SMTP

	password, err := secrets.Load(secrets.Source{
		Name: "smtp password",
		File: smtp.PasswordFile,
	})
	if err != nil {
		stageLogger.Fatal(
			"loading smtp password",
			zap.Error(err),
			zap.String("hint", "set SMTP_PASSWORD_FILE environment variable or the 'notify.smtp.password-file' key in the configuration file"),
		)
	}

	sender, err := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     smtp.Host,
		Port:     smtp.Port,
		Username: smtp.Username,
		Password: password,
		From:     smtp.From,
		FromName: smtp.FromName,
	})
	if err != nil {
		stageLogger.Fatal("creating smtp sender", zap.Error(err))
	}

	return sender
}
