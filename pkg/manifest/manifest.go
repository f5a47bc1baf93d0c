package manifest

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// DefaultFileName is the name of the manifest shipped with the project.
const DefaultFileName = "flake8-requirements.txt"

//go:embed flake8-requirements.txt
var defaultManifest string

// Errors for manifest handling.
var (
	// ErrDuplicateRequirement indicates two lines pinning the same plugin.
	ErrDuplicateRequirement = errors.New("duplicate requirement")
	// errReadManifest indicates a failure to read the manifest source.
	errReadManifest = errors.New("failed to read manifest")
)

// Manifest is a parsed plugin manifest.
type Manifest struct {
	// Source names where the manifest came from, for messages only.
	Source       string
	Requirements []Requirement
}

// Parse reads a manifest, skipping blank lines and comments.
//
// Parameters:
//   - r: Manifest contents.
//
// Returns:
//   - *Manifest: Parsed requirements in file order.
//   - error: Non-nil on read failure or on the first line that is not a valid pin.
func Parse(r io.Reader) (*Manifest, error) {
	manifest := &Manifest{}
	scanner := bufio.NewScanner(r)
	line := 0

	for scanner.Scan() {
		line++

		text, _, _ := strings.Cut(scanner.Text(), "#")
		if strings.TrimSpace(text) == "" {
			continue
		}

		req, err := ParseRequirement(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		req.Line = line
		manifest.Requirements = append(manifest.Requirements, req)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", errReadManifest, err)
	}

	return manifest, nil
}

// Load parses the manifest at path.
func Load(path string) (*Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errReadManifest, err)
	}
	defer file.Close()

	manifest, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	manifest.Source = path

	logrus.WithFields(logrus.Fields{
		"path":         path,
		"requirements": len(manifest.Requirements),
	}).Debug("Loaded plugin manifest")

	return manifest, nil
}

// Default returns the manifest embedded in the binary.
func Default() *Manifest {
	manifest, err := Parse(strings.NewReader(defaultManifest))
	if err != nil {
		panic(fmt.Sprintf("embedded manifest is invalid: %v", err))
	}

	manifest.Source = DefaultFileName

	return manifest
}

// Names returns the plugin names in file order.
func (m *Manifest) Names() []string {
	return lo.Map(m.Requirements, func(req Requirement, _ int) string {
		return req.Name
	})
}

// Get returns the requirement for a plugin, matching names after normalization.
func (m *Manifest) Get(name string) (Requirement, bool) {
	want := Requirement{Name: name}.NormalizedName()

	return lo.Find(m.Requirements, func(req Requirement) bool {
		return req.NormalizedName() == want
	})
}

// Duplicates returns the normalized names pinned more than once, sorted.
func (m *Manifest) Duplicates() []string {
	groups := lo.GroupBy(m.Requirements, Requirement.NormalizedName)
	dupes := lo.Keys(lo.PickBy(groups, func(_ string, reqs []Requirement) bool {
		return len(reqs) > 1
	}))
	slices.Sort(dupes)

	return dupes
}

// Validate checks that every plugin is pinned once with an interpretable version.
//
// Returns:
//   - error: All problems found, nil if the manifest is valid.
func (m *Manifest) Validate() error {
	var result *multierror.Error

	groups := lo.GroupBy(m.Requirements, Requirement.NormalizedName)
	for _, name := range m.Duplicates() {
		lines := lo.Map(groups[name], func(req Requirement, _ int) string {
			return strconv.Itoa(req.Line)
		})
		result = multierror.Append(result,
			fmt.Errorf("%w: %s on lines %s", ErrDuplicateRequirement, name, strings.Join(lines, ", ")))
	}

	for _, req := range m.Requirements {
		if _, err := req.Constraint(); err != nil {
			result = multierror.Append(result, fmt.Errorf("line %d: %w", req.Line, err))
		}
	}

	return result.ErrorOrNil()
}
