package types

// Defaults used when a release field is not configured.
const (
	DefaultPackage = "hikari"
	DefaultIndex   = "PyPI"
	DefaultDocsURL = "https://hikari-py.dev/hikari"
)

// Release describes a published package version.
type Release struct {
	Package  string // Distribution name used in the install instructions.
	Version  string // Version identifier, used verbatim.
	Revision string // Source revision the version was built from, used verbatim.
	Index    string // Name of the package index the version was deployed to.
	DocsURL  string // Documentation link, omitted from the message when empty.
}

// NewRelease creates a Release for the given version and revision with default package metadata.
func NewRelease(version, revision string) Release {
	return Release{
		Package:  DefaultPackage,
		Version:  version,
		Revision: revision,
		Index:    DefaultIndex,
		DocsURL:  DefaultDocsURL,
	}
}
