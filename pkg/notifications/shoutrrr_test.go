package notifications

import (
	"errors"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"
	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/announcer/pkg/types"

	shoutrrrTypes "github.com/nicholas-fedor/shoutrrr/pkg/types"
)

// mockRouter records the last message and returns scripted errors.
type mockRouter struct {
	sendErrors []error
	message    string
	params     *shoutrrrTypes.Params
}

func (m *mockRouter) Send(message string, params *shoutrrrTypes.Params) []error {
	m.message = message
	m.params = params

	return m.sendErrors
}

var _ = ginkgo.Describe("Shoutrrr", func() {
	var logBuffer *gbytes.Buffer

	// BeforeEach configures the global logrus instance for each test.
	ginkgo.BeforeEach(func() {
		logBuffer = gbytes.NewBuffer()
		logrus.SetOutput(logBuffer)
		logrus.SetLevel(logrus.TraceLevel)
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableColors:    true,
			DisableTimestamp: true,
		})
	})

	ginkgo.Describe("GetScheme", func() {
		ginkgo.It("should return the scheme of a URL", func() {
			gomega.Expect(GetScheme("discord://token@id")).To(gomega.Equal("discord"))
		})

		ginkgo.It("should return invalid without a scheme", func() {
			gomega.Expect(GetScheme("no-scheme-here")).To(gomega.Equal("invalid"))
			gomega.Expect(GetScheme(":nothing")).To(gomega.Equal("invalid"))
		})
	})

	ginkgo.When("creating a notifier", func() {
		ginkgo.It("should name services by scheme", func() {
			notifier, err := createNotifier([]string{"logger://", "generic+https://example.com/hook"}, false)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(notifier.GetNames()).To(gomega.Equal([]string{"logger", "generic+https"}))
			gomega.Expect(notifier.GetURLs()).To(gomega.HaveLen(2))
		})

		ginkgo.It("should fail on unknown services", func() {
			_, err := createNotifier([]string{"nosuchservice://x"}, false)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("should use the configured notification URLs", func() {
			notifier, err := NewNotifier(types.AnnounceConfig{
				NotificationURLs: []string{"logger://"},
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(notifier.GetURLs()).To(gomega.Equal([]string{"logger://"}))
			gomega.Expect(notifier.GetNames()).To(gomega.Equal([]string{"logger"}))

			_, err = NewNotifier(types.AnnounceConfig{NotificationURLs: []string{"nosuchservice://x"}})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("should accept no URLs", func() {
			notifier, err := createNotifier(nil, false)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(notifier.GetNames()).To(gomega.BeEmpty())
			gomega.Expect(notifier.Send("title", "body")).To(gomega.Succeed())
		})
	})

	ginkgo.When("sending through the logger service", func() {
		ginkgo.It("should pass the message to shoutrrr", func() {
			notifier, err := createNotifier([]string{"logger://"}, false)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			gomega.Expect(notifier.Send("", "1.2.3 has been deployed to PyPI")).To(gomega.Succeed())
			gomega.Eventually(logBuffer).Should(gbytes.Say(`Shoutrrr: 1.2.3 has been deployed to PyPI`))
		})
	})

	ginkgo.When("sending with a router", func() {
		ginkgo.It("should set the title param", func() {
			router := &mockRouter{}
			notifier := &shoutrrrTypeNotifier{Urls: []string{"logger://"}, Router: router}

			gomega.Expect(notifier.Send("Release", "body")).To(gomega.Succeed())
			gomega.Expect(router.message).To(gomega.Equal("body"))

			title, found := router.params.Title()
			gomega.Expect(found).To(gomega.BeTrue())
			gomega.Expect(title).To(gomega.Equal("Release"))
		})

		ginkgo.It("should not set an empty title", func() {
			router := &mockRouter{}
			notifier := &shoutrrrTypeNotifier{Urls: []string{"logger://"}, Router: router}

			gomega.Expect(notifier.Send("", "body")).To(gomega.Succeed())

			_, found := router.params.Title()
			gomega.Expect(found).To(gomega.BeFalse())
		})

		ginkgo.It("should aggregate service errors", func() {
			router := &mockRouter{
				sendErrors: []error{errors.New("unauthorized"), nil, errors.New("timeout"), errors.New("extra")},
			}
			notifier := &shoutrrrTypeNotifier{
				Urls:   []string{"discord://a@b", "logger://", "slack://c"},
				Router: router,
			}

			err := notifier.Send("t", "m")
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("discord: unauthorized"))
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("slack: timeout"))
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("invalid: extra"))
			gomega.Expect(logBuffer).To(gbytes.Say(`Failed to send shoutrrr notification`))
		})
	})
})
