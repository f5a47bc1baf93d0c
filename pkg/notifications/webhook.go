// Package notifications provides mechanisms for sending release announcements.
// This file implements the webhook delivery of an announcement.
package notifications

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/announcer/internal/util"
	"github.com/nicholas-fedor/announcer/pkg/types"
)

// defaultHTTPTimeout bounds a single webhook request.
const defaultHTTPTimeout = 30 * time.Second

// maxRetryDelay caps the backoff between attempts.
const maxRetryDelay = 3 * time.Second

// Errors for webhook delivery.
var (
	// ErrNoWebhookURL indicates that no target URL was configured.
	ErrNoWebhookURL = errors.New("webhook URL is empty")
	// ErrUnexpectedStatus indicates that the webhook answered with a non-2xx status.
	ErrUnexpectedStatus = errors.New("webhook returned non-2xx status")
	// errCreateRequest indicates a failure to build the HTTP request.
	errCreateRequest = errors.New("failed to create webhook request")
	// errPerformRequest indicates a transport-level failure.
	errPerformRequest = errors.New("failed to perform webhook request")
)

// statusError carries the HTTP status of a rejected delivery.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s: %d %s", ErrUnexpectedStatus, e.code, http.StatusText(e.code))
}

func (e *statusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// httpDoer is the subset of *http.Client used by WebhookSender.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// WebhookSender posts announcements to a webhook URL.
type WebhookSender struct {
	URL        string
	UserAgent  string
	retries    int
	retryDelay time.Duration
	httpClient httpDoer
	requestID  func() string
}

// NewWebhookSender creates a sender for the given URL.
//
// Parameters:
//   - url: Webhook target.
//   - timeout: Per-request timeout, zero for the default.
//   - retries: Extra attempts after a failed delivery, zero to send exactly once.
//   - retryDelay: Base delay between attempts.
//
// Returns:
//   - *WebhookSender: Configured sender.
func NewWebhookSender(url string, timeout time.Duration, retries int, retryDelay time.Duration) *WebhookSender {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	if retries < 0 {
		retries = 0
	}

	return &WebhookSender{
		URL:        url,
		UserAgent:  "announcer",
		retries:    retries,
		retryDelay: retryDelay,
		httpClient: &http.Client{Timeout: timeout},
		requestID:  uuid.NewString,
	}
}

// Send encodes the message and posts it to the webhook.
//
// Without retries exactly one request is issued. The response body is discarded unread.
//
// Parameters:
//   - ctx: Context for cancellation.
//   - msg: Message to deliver.
//
// Returns:
//   - types.DeliveryReport: Attempts, final status and timing, filled in on failure as well.
//   - error: Non-nil on encoding, transport or status failure.
func (s *WebhookSender) Send(ctx context.Context, msg Message) (types.DeliveryReport, error) {
	report := types.DeliveryReport{
		URL:       s.URL,
		RequestID: s.requestID(),
	}

	if s.URL == "" {
		return report, ErrNoWebhookURL
	}

	body, err := Encode(msg)
	if err != nil {
		return report, err
	}

	clog := logrus.WithFields(logrus.Fields{
		"url":        util.RedactURL(s.URL),
		"request_id": report.RequestID,
		"size":       len(body),
	})
	clog.Debug("Posting announcement to webhook")

	start := time.Now()
	attempts := uint(s.retries) + 1

	err = retry.Do(
		func() error {
			report.Attempts++

			status, err := s.post(ctx, body, report.RequestID)
			report.StatusCode = status

			return err
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(s.retryDelay),
		retry.MaxDelay(maxRetryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return ctx.Err() == nil && isRetryable(err)
		}),
		retry.OnRetry(func(n uint, err error) {
			// Also called for the last attempt, which is not followed by a retry.
			if n+1 >= attempts {
				return
			}

			clog.WithError(err).WithField("attempt", n+1).Warn("Webhook delivery attempt failed")
		}),
	)

	report.Duration = time.Since(start)

	if err != nil {
		return report, err
	}

	clog.WithFields(logrus.Fields{
		"status":   report.StatusCode,
		"attempts": report.Attempts,
		"duration": report.Duration,
	}).Debug("Webhook accepted announcement")

	return report, nil
}

// post performs a single POST and returns the response status.
func (s *WebhookSender) post(ctx context.Context, body []byte, requestID string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errCreateRequest, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", s.UserAgent)
	req.Header.Set("X-Request-Id", requestID)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errPerformRequest, err)
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return resp.StatusCode, &statusError{code: resp.StatusCode}
	}

	return resp.StatusCode, nil
}

// isRetryable reports whether a failed attempt may succeed if repeated.
// Client errors other than 408 and 429 are final.
func isRetryable(err error) bool {
	var serr *statusError
	if errors.As(err, &serr) {
		switch {
		case serr.code == http.StatusRequestTimeout, serr.code == http.StatusTooManyRequests:
			return true
		case serr.code >= http.StatusBadRequest && serr.code < http.StatusInternalServerError:
			return false
		}
	}

	return true
}
