package types

import "time"

// AnnounceConfig holds the resolved configuration for one announcer run.
type AnnounceConfig struct {
	// WebhookURL is the target of the announcement POST, from --webhook-url or DEPLOY_WEBHOOK_URL.
	WebhookURL string
	// Release is the release being announced.
	Release Release
	// Template names the message template set, empty for the default.
	Template string
	// Username overrides the sender label shown by the receiving client.
	Username string
	// Timeout bounds each HTTP attempt.
	Timeout time.Duration
	// Retries is the number of extra attempts after a failed delivery. Zero sends exactly one request.
	Retries int
	// RetryDelay is the base delay between attempts.
	RetryDelay time.Duration
	// NotificationURLs are shoutrrr URLs that also receive the announcement.
	NotificationURLs []string
	// NotificationLogStdout sends the notification services' own log output to stdout.
	NotificationLogStdout bool
	// MetricsTextfile is where run metrics are written, empty to skip.
	MetricsTextfile string
	// RepoPath is where the revision is looked up when none is configured.
	RepoPath string
}
