package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"
	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/announcer/pkg/types"
)

// recordedRequest captures what the test webhook received.
type recordedRequest struct {
	Method      string
	Path        string
	ContentType string
	RequestID   string
	Body        []byte
}

// webhookRecorder is an httptest handler answering with a scripted list of status codes.
type webhookRecorder struct {
	mu       sync.Mutex
	statuses []int
	requests []recordedRequest
}

func (w *webhookRecorder) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.requests = append(w.requests, recordedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		RequestID:   r.Header.Get("X-Request-Id"),
		Body:        body,
	})

	status := http.StatusNoContent
	if len(w.statuses) > 0 {
		status = w.statuses[0]
		w.statuses = w.statuses[1:]
	}

	rw.WriteHeader(status)
}

func (w *webhookRecorder) Requests() []recordedRequest {
	w.mu.Lock()
	defer w.mu.Unlock()

	return append([]recordedRequest(nil), w.requests...)
}

var _ = ginkgo.Describe("Webhook sender", func() {
	var (
		recorder *webhookRecorder
		server   *httptest.Server
		msg      Message
	)

	ginkgo.BeforeEach(func() {
		recorder = &webhookRecorder{}
		server = httptest.NewServer(recorder)

		var err error
		msg, err = NewReleaseMessage(types.NewRelease("1.2.3", "abc123"), DefaultTemplates())
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
	})

	ginkgo.AfterEach(func() {
		server.Close()
	})

	ginkgo.When("the webhook accepts the message", func() {
		ginkgo.It("should issue exactly one JSON POST to the configured URL", func() {
			sender := NewWebhookSender(server.URL+"/api/webhooks/1/token", time.Second, 0, 0)
			sender.requestID = func() string { return "req-1" }

			report, err := sender.Send(context.Background(), msg)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(report.Succeeded()).To(gomega.BeTrue())
			gomega.Expect(report.Attempts).To(gomega.Equal(1))
			gomega.Expect(report.StatusCode).To(gomega.Equal(http.StatusNoContent))
			gomega.Expect(report.RequestID).To(gomega.Equal("req-1"))

			requests := recorder.Requests()
			gomega.Expect(requests).To(gomega.HaveLen(1))
			gomega.Expect(requests[0].Method).To(gomega.Equal(http.MethodPost))
			gomega.Expect(requests[0].Path).To(gomega.Equal("/api/webhooks/1/token"))
			gomega.Expect(requests[0].ContentType).To(gomega.Equal("application/json"))
			gomega.Expect(requests[0].RequestID).To(gomega.Equal("req-1"))

			var decoded Message
			gomega.Expect(json.Unmarshal(requests[0].Body, &decoded)).To(gomega.Succeed())
			gomega.Expect(decoded).To(gomega.Equal(msg))
		})
	})

	ginkgo.When("the webhook rejects the message", func() {
		ginkgo.It("should return the status without retrying by default", func() {
			recorder.statuses = []int{http.StatusInternalServerError}
			sender := NewWebhookSender(server.URL, time.Second, 0, 0)

			report, err := sender.Send(context.Background(), msg)
			gomega.Expect(err).To(gomega.MatchError(ErrUnexpectedStatus))
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("500"))
			gomega.Expect(report.Succeeded()).To(gomega.BeFalse())
			gomega.Expect(report.StatusCode).To(gomega.Equal(http.StatusInternalServerError))
			gomega.Expect(recorder.Requests()).To(gomega.HaveLen(1))
		})

		ginkgo.It("should retry server errors when retries are enabled", func() {
			recorder.statuses = []int{http.StatusBadGateway, http.StatusTooManyRequests, http.StatusOK}
			sender := NewWebhookSender(server.URL, time.Second, 2, time.Millisecond)

			report, err := sender.Send(context.Background(), msg)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(report.Attempts).To(gomega.Equal(3))
			gomega.Expect(report.StatusCode).To(gomega.Equal(http.StatusOK))

			requests := recorder.Requests()
			gomega.Expect(requests).To(gomega.HaveLen(3))
			gomega.Expect(requests[0].RequestID).To(gomega.Equal(requests[2].RequestID))
		})

		ginkgo.It("should not retry client errors", func() {
			recorder.statuses = []int{http.StatusNotFound, http.StatusOK}
			sender := NewWebhookSender(server.URL, time.Second, 3, time.Millisecond)

			report, err := sender.Send(context.Background(), msg)
			gomega.Expect(err).To(gomega.MatchError(ErrUnexpectedStatus))
			gomega.Expect(report.Attempts).To(gomega.Equal(1))
			gomega.Expect(recorder.Requests()).To(gomega.HaveLen(1))
		})

		ginkgo.It("should only warn about attempts that are retried", func() {
			logBuffer := gbytes.NewBuffer()
			logrus.SetOutput(logBuffer)
			ginkgo.DeferCleanup(func() { logrus.SetOutput(os.Stderr) })

			recorder.statuses = []int{http.StatusInternalServerError}
			_, err := NewWebhookSender(server.URL, time.Second, 0, 0).Send(context.Background(), msg)
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(string(logBuffer.Contents())).NotTo(gomega.ContainSubstring("Webhook delivery attempt failed"))

			recorder.statuses = []int{http.StatusServiceUnavailable, http.StatusServiceUnavailable}
			_, err = NewWebhookSender(server.URL, time.Second, 1, time.Millisecond).Send(context.Background(), msg)
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(strings.Count(string(logBuffer.Contents()), "Webhook delivery attempt failed")).To(gomega.Equal(1))
		})

		ginkgo.It("should give up after the configured retries", func() {
			recorder.statuses = []int{
				http.StatusServiceUnavailable,
				http.StatusServiceUnavailable,
				http.StatusServiceUnavailable,
			}
			sender := NewWebhookSender(server.URL, time.Second, 1, time.Millisecond)

			report, err := sender.Send(context.Background(), msg)
			gomega.Expect(err).To(gomega.MatchError(ErrUnexpectedStatus))
			gomega.Expect(report.Attempts).To(gomega.Equal(2))
			gomega.Expect(recorder.Requests()).To(gomega.HaveLen(2))
		})
	})

	ginkgo.When("the request cannot be made", func() {
		ginkgo.It("should fail without a URL", func() {
			sender := NewWebhookSender("", time.Second, 0, 0)

			report, err := sender.Send(context.Background(), msg)
			gomega.Expect(err).To(gomega.MatchError(ErrNoWebhookURL))
			gomega.Expect(report.Attempts).To(gomega.BeZero())
		})

		ginkgo.It("should surface transport errors", func() {
			sender := NewWebhookSender(server.URL, time.Second, 0, 0)
			sender.httpClient = failingDoer{}

			report, err := sender.Send(context.Background(), msg)
			gomega.Expect(err).To(gomega.MatchError(errPerformRequest))
			gomega.Expect(report.StatusCode).To(gomega.BeZero())
			gomega.Expect(report.Attempts).To(gomega.Equal(1))
		})

		ginkgo.It("should not send with a cancelled context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			sender := NewWebhookSender(server.URL, time.Second, 2, time.Millisecond)

			_, err := sender.Send(ctx, msg)
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(recorder.Requests()).To(gomega.BeEmpty())
		})
	})

	ginkgo.It("should clamp negative retries", func() {
		sender := NewWebhookSender(server.URL, 0, -4, 0)
		gomega.Expect(sender.retries).To(gomega.BeZero())
	})
})

var errConnectionRefused = errors.New("connection refused")

type failingDoer struct{}

func (failingDoer) Do(*http.Request) (*http.Response, error) {
	return nil, errConnectionRefused
}
