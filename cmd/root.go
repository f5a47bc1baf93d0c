package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nicholas-fedor/announcer/internal/flags"
	"github.com/nicholas-fedor/announcer/internal/logging"
	"github.com/nicholas-fedor/announcer/internal/meta"
	"github.com/nicholas-fedor/announcer/internal/util"
	"github.com/nicholas-fedor/announcer/pkg/git"
	"github.com/nicholas-fedor/announcer/pkg/metrics"
	"github.com/nicholas-fedor/announcer/pkg/notifications"
	"github.com/nicholas-fedor/announcer/pkg/types"
)

// errNoRevision indicates that no revision was configured and none could be read from a repository.
var errNoRevision = errors.New("no revision configured, set REF, GITHUB_SHA or --revision")

// rootCmd is the announcer command, its flags are shared with every subcommand.
var rootCmd = NewRootCommand()

// NewRootCommand creates the root command for the announcer.
func NewRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:              "announcer",
		Short:            "Announces a deployed release to a webhook",
		Long:             "\nAnnouncer posts a single message to a webhook saying that a package version has been deployed.\nThe webhook URL, version and revision are read from DEPLOY_WEBHOOK_URL, VERSION and REF.",
		Run:              run,
		PersistentPreRun: preRun,
		Args:             cobra.NoArgs,
		SilenceUsage:     true,
	}
}

// init registers command-line flags for the root command during package initialization.
func init() {
	flags.SetDefaults()
	flags.RegisterSystemFlags(rootCmd)
	flags.RegisterAnnounceFlags(rootCmd)
	flags.RegisterNotificationFlags(rootCmd)
}

// Execute runs the root command and manages any errors encountered during its execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Fatal("Failed to execute root command")
	}
}

// preRun loads the env file, resolves flag aliases and secrets, and configures logging.
//
// It runs before the root command and every subcommand.
//
// Parameters:
//   - cmd: The cobra.Command instance being executed.
//   - _: Positional arguments, unused.
func preRun(cmd *cobra.Command, _ []string) {
	flagsSet := cmd.Root().PersistentFlags()

	if err := flags.LoadEnvFile(flagsSet); err != nil {
		logrus.WithError(err).Fatal("Failed to load env file")
	}

	flags.ProcessFlagAliases(flagsSet)

	if err := flags.SetupLogging(flagsSet); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize logging")
	}

	flags.GetSecretsFromFiles(cmd.Root())
}

// run posts the announcement and exits non-zero if it was not delivered.
func run(c *cobra.Command, _ []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	exitCode := runMain(ctx, c)

	stop()

	if exitCode != 0 {
		logrus.WithField("exit_code", exitCode).Debug("Exiting with non-zero status")
		os.Exit(exitCode)
	}
}

// runMain resolves the configuration and performs the announcement.
//
// Parameters:
//   - ctx: Context cancelled on SIGINT or SIGTERM.
//   - c: The command holding the parsed flags.
//
// Returns:
//   - int: Exit code, 0 when the webhook accepted the announcement.
func runMain(ctx context.Context, c *cobra.Command) int {
	config, err := resolveConfig(c.Root())
	if err != nil {
		logrus.WithError(err).Error("Invalid configuration")

		return 1
	}

	notifier, err := notifications.NewNotifier(config)
	if err != nil {
		logrus.WithError(err).Error("Failed to set up notifications")

		return 1
	}

	logging.WriteStartupMessage(config, notifier, meta.Version)

	if _, err := announce(ctx, config, notifier); err != nil {
		logrus.WithError(err).Error("Announcement failed")

		return 1
	}

	return 0
}

// resolveConfig reads the announcement configuration and fills in the revision from the repository if needed.
func resolveConfig(c *cobra.Command) (types.AnnounceConfig, error) {
	config, err := flags.ReadAnnounceConfig(c)
	if err != nil {
		return types.AnnounceConfig{}, fmt.Errorf("failed to read configuration: %w", err)
	}

	if config.Release.Revision != "" {
		return config, nil
	}

	revision, err := git.ResolveRevision(config.RepoPath)
	if err != nil {
		return types.AnnounceConfig{}, fmt.Errorf("%w: %w", errNoRevision, err)
	}

	logrus.WithField("revision", revision).Info("Using revision of the repository HEAD")

	config.Release.Revision = revision

	return config, nil
}

// buildMessage renders the announcement for a configuration.
func buildMessage(config types.AnnounceConfig) (notifications.Message, error) {
	tpls, err := notifications.GetTemplates(config.Template)
	if err != nil {
		return notifications.Message{}, fmt.Errorf("failed to select template: %w", err)
	}

	msg, err := notifications.NewReleaseMessage(config.Release, tpls)
	if err != nil {
		return notifications.Message{}, fmt.Errorf("failed to build message: %w", err)
	}

	if config.Username != "" {
		msg.Username = config.Username
	}

	return msg, nil
}

// announce posts the message, records metrics and forwards it to the secondary notifier.
//
// Only the webhook delivery decides the outcome. Metrics and secondary notification
// failures are logged as warnings.
//
// Parameters:
//   - ctx: Context for cancellation.
//   - config: Resolved configuration.
//   - notifier: Secondary notifier, may be nil.
//
// Returns:
//   - types.DeliveryReport: Outcome of the webhook delivery.
//   - error: Non-nil if the message could not be built or was not accepted.
func announce(
	ctx context.Context,
	config types.AnnounceConfig,
	notifier types.Notifier,
) (types.DeliveryReport, error) {
	msg, err := buildMessage(config)
	if err != nil {
		return types.DeliveryReport{}, err
	}

	sender := notifications.NewWebhookSender(config.WebhookURL, config.Timeout, config.Retries, config.RetryDelay)
	sender.UserAgent = meta.UserAgent()

	report, err := sender.Send(ctx, msg)

	writeMetrics(config.MetricsTextfile, report, err)

	clog := logrus.WithFields(logrus.Fields{
		"url":      util.RedactURL(report.URL),
		"status":   report.StatusCode,
		"attempts": report.Attempts,
	})

	if err != nil {
		clog.WithError(err).Debug("Webhook delivery failed")

		return report, err
	}

	clog.Infof("Announced %s %s in %s", config.Release.Package, config.Release.Version,
		util.FormatDuration(report.Duration))

	if notifier != nil && len(notifier.GetURLs()) > 0 {
		title, body := notifications.PlainText(msg)
		if err := notifier.Send(title, body); err != nil {
			logrus.WithError(err).Warn("Failed to forward announcement to secondary notifiers")
		}
	}

	return report, nil
}

// writeMetrics records the delivery in the metrics textfile, if one is configured.
func writeMetrics(path string, report types.DeliveryReport, deliveryErr error) {
	if path == "" {
		return
	}

	m, err := metrics.New()
	if err != nil {
		logrus.WithError(err).Warn("Failed to create metrics")

		return
	}

	m.RegisterAnnouncement(metrics.NewMetric(report, deliveryErr))

	if err := m.WriteTextfile(path); err != nil {
		logrus.WithError(err).Warn("Failed to write metrics")
	}
}
