package manifest_test

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/nicholas-fedor/announcer/pkg/manifest"
)

var _ = ginkgo.Describe("Requirement", func() {
	ginkgo.DescribeTable("Allows",
		func(pin, candidate string, allowed bool) {
			req, err := manifest.ParseRequirement(pin)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			ok, err := req.Allows(candidate)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(ok).To(gomega.Equal(allowed))
		},
		ginkgo.Entry("exact match", "flake8==3.8.3", "3.8.3", true),
		ginkgo.Entry("exact mismatch", "flake8==3.8.3", "3.8.4", false),
		ginkgo.Entry("compatible patch bump", "flake8-bandit~=2.1.2", "2.1.9", true),
		ginkgo.Entry("compatible lower bound", "flake8-bandit~=2.1.2", "2.1.1", false),
		ginkgo.Entry("compatible minor bump", "flake8-bandit~=2.1.2", "2.2.0", false),
		ginkgo.Entry("two segment minor bump", "flake8-deprecated~=1.3", "1.9.0", true),
		ginkgo.Entry("two segment major bump", "flake8-deprecated~=1.3", "2.0", false),
		ginkgo.Entry("zero major", "flake8-functions~=0.0.4", "0.0.7", true),
		ginkgo.Entry("zero major minor bump", "flake8-functions~=0.0.4", "0.1.0", false),
	)

	ginkgo.DescribeTable("Range",
		func(pin, want string) {
			req, err := manifest.ParseRequirement(pin)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			got, err := req.Range()
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(got).To(gomega.Equal(want))
		},
		ginkgo.Entry("exact", "flake8==3.8.3", "==3.8.3"),
		ginkgo.Entry("three segments", "pep8-naming~=0.11.1", ">=0.11.1, <0.12.0"),
		ginkgo.Entry("two segments", "flake8-deprecated~=1.3", ">=1.3.0, <2.0.0"),
	)

	ginkgo.It("should reject compatible pins with one segment", func() {
		req := manifest.Requirement{Name: "b", Operator: manifest.Compatible, Version: "1"}

		_, err := req.Constraint()
		gomega.Expect(err).To(gomega.MatchError(manifest.ErrInvalidVersion))

		_, err = req.Range()
		gomega.Expect(err).To(gomega.MatchError(manifest.ErrInvalidVersion))
	})

	ginkgo.It("should reject unparsable candidates", func() {
		req, err := manifest.ParseRequirement("flake8==3.8.3")
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		_, err = req.Allows("three")
		gomega.Expect(err).To(gomega.MatchError(manifest.ErrInvalidVersion))
	})

	ginkgo.It("should normalize names", func() {
		req := manifest.Requirement{Name: "Flake8__Use.FString"}
		gomega.Expect(req.NormalizedName()).To(gomega.Equal("flake8-use-fstring"))
	})

	ginkgo.It("should print in manifest form", func() {
		req, err := manifest.ParseRequirement(" mccabe ~= 0.6.1 ")
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(req.String()).To(gomega.Equal("mccabe~=0.6.1"))
	})
})
