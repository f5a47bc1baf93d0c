// Package notifications provides mechanisms for sending release announcements.
// This file implements delivery to secondary services through Shoutrrr.
package notifications

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/nicholas-fedor/shoutrrr"
	"github.com/sirupsen/logrus"

	shoutrrrTypes "github.com/nicholas-fedor/shoutrrr/pkg/types"
)

// LocalLog is a logrus entry tagged for local output only.
var LocalLog = logrus.WithField("notify", "no")

// router defines the interface for sending Shoutrrr notifications.
// It abstracts the underlying service implementation.
type router interface {
	Send(message string, params *shoutrrrTypes.Params) []error
}

// shoutrrrTypeNotifier implements types.Notifier for Shoutrrr service URLs.
type shoutrrrTypeNotifier struct {
	Urls   []string
	Router router
}

// GetScheme extracts the scheme part of a Shoutrrr URL.
// It returns "invalid" if no scheme is found.
func GetScheme(url string) string {
	schemeEnd := strings.Index(url, ":")
	if schemeEnd <= 0 {
		return "invalid"
	}

	return url[:schemeEnd]
}

// GetNames returns a list of notification service names derived from URLs.
func (n *shoutrrrTypeNotifier) GetNames() []string {
	names := make([]string, len(n.Urls))
	for i, u := range n.Urls {
		names[i] = GetScheme(u)
	}

	return names
}

// GetURLs returns the list of URLs for configured notification services.
func (n *shoutrrrTypeNotifier) GetURLs() []string {
	return n.Urls
}

// Send delivers the message to every configured service.
//
// Each failing service is logged and all failures are returned together.
//
// Parameters:
//   - title: Notification title, skipped when empty.
//   - message: Plain-text body.
//
// Returns:
//   - error: Aggregated service errors, nil if every service accepted the message.
func (n *shoutrrrTypeNotifier) Send(title, message string) error {
	if len(n.Urls) == 0 {
		return nil
	}

	params := &shoutrrrTypes.Params{}
	if title != "" {
		params.SetTitle(title)
	}

	var result *multierror.Error

	errs := n.Router.Send(message, params)
	for i, err := range errs {
		if err == nil {
			continue
		}

		scheme := "invalid"
		if i < len(n.Urls) {
			scheme = GetScheme(n.Urls[i])
		}

		LocalLog.WithFields(logrus.Fields{
			"service": scheme,
			"index":   i,
		}).WithError(err).Error("Failed to send shoutrrr notification")

		result = multierror.Append(result, fmt.Errorf("%s: %w", scheme, err))
	}

	return result.ErrorOrNil()
}

// createNotifier initializes a Shoutrrr notifier for the given service URLs.
//
// With stdout set, Shoutrrr's own output goes to stdout, otherwise it is logged at trace level.
func createNotifier(urls []string, stdout bool) (*shoutrrrTypeNotifier, error) {
	var logger shoutrrrTypes.StdLogger
	if stdout {
		logger = log.New(os.Stdout, ``, 0)
	} else {
		logger = log.New(logrus.StandardLogger().WriterLevel(logrus.TraceLevel), "Shoutrrr: ", 0)
	}

	router, err := shoutrrr.NewSender(logger, urls...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Shoutrrr notifications: %w", err)
	}

	return &shoutrrrTypeNotifier{
		Urls:   urls,
		Router: router,
	}, nil
}
