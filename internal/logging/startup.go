// Package logging provides functions for logging startup information in the announcer.
// It reports what is about to be announced, where, and through which secondary notifiers.
package logging

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/announcer/internal/util"
	"github.com/nicholas-fedor/announcer/pkg/notifications"
	"github.com/nicholas-fedor/announcer/pkg/types"
)

// WriteStartupMessage logs the configuration of an announcement run before anything is sent.
//
// It reports the announcer version, the release and the webhook host, the retry policy and the
// configured secondary notifiers. The webhook path is never logged.
//
// Parameters:
//   - config: The resolved announcement configuration.
//   - notifier: The secondary notifier, nil if none is configured.
//   - announcerVersion: The version string of the announcer binary.
func WriteStartupMessage(config types.AnnounceConfig, notifier types.Notifier, announcerVersion string) {
	startupLog := notifications.LocalLog

	startupLog.Info("Announcer ", announcerVersion)

	startupLog.WithFields(logrus.Fields{
		"package":  config.Release.Package,
		"version":  config.Release.Version,
		"revision": config.Release.Revision,
		"index":    config.Release.Index,
	}).Info("Announcing release to " + hostOrUnset(config.WebhookURL))

	LogRetryInfo(startupLog, config)

	var notifierNames []string
	if notifier != nil {
		notifierNames = notifier.GetNames()
	}

	LogNotifierInfo(startupLog, notifierNames)

	// Trace level logs request bodies and unredacted URLs.
	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		startupLog.Warn(
			"Trace level enabled: log will include sensitive information such as webhook tokens",
		)
	}
}

// LogRetryInfo logs how failed deliveries are handled.
//
// Parameters:
//   - log: The logrus.Entry used to write the retry information.
//   - config: The configuration holding the retry settings.
func LogRetryInfo(log *logrus.Entry, config types.AnnounceConfig) {
	if config.Retries <= 0 {
		log.Debug("Sending a single webhook request without retries")

		return
	}

	log.Infof(
		"Retrying failed deliveries up to %d times with a base delay of %s",
		config.Retries,
		util.FormatDuration(config.RetryDelay),
	)
}

// LogNotifierInfo logs details about the secondary notification setup.
//
// Parameters:
//   - log: The logrus.Entry used to write the notification information.
//   - notifierNames: A slice of strings representing the names of configured notifiers.
func LogNotifierInfo(log *logrus.Entry, notifierNames []string) {
	if len(notifierNames) > 0 {
		log.Info("Also notifying: " + strings.Join(notifierNames, ", "))
	} else {
		log.Debug("Using no secondary notifications")
	}
}

// hostOrUnset returns the webhook host for display.
func hostOrUnset(webhookURL string) string {
	if host := util.Host(webhookURL); host != "" {
		return host
	}

	return "<unset webhook>"
}
