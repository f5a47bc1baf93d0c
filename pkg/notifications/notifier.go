// Package notifications provides mechanisms for sending release announcements.
// This file implements notifier creation from the announcement configuration.
package notifications

import (
	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/announcer/pkg/types"
)

// ColorInt is the announcement accent color as a packed 24-bit RGB value.
const ColorInt = 0xFF029A

// NewNotifier creates the secondary notifier for the configured notification URLs.
//
// Parameters:
//   - config: Announcement configuration holding the Shoutrrr URLs.
//
// Returns:
//   - types.Notifier: Notifier for the configured Shoutrrr URLs, possibly with none.
//   - error: Non-nil if a URL cannot be parsed by Shoutrrr.
func NewNotifier(config types.AnnounceConfig) (types.Notifier, error) {
	logrus.WithFields(logrus.Fields{
		"services": len(config.NotificationURLs),
		"stdout":   config.NotificationLogStdout,
	}).Debug("Creating notifier with configuration")

	notifier, err := createNotifier(config.NotificationURLs, config.NotificationLogStdout)
	if err != nil {
		return nil, err
	}

	return notifier, nil
}
