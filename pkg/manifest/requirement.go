package manifest

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Operator is a pin operator.
type Operator string

// Supported pin operators.
const (
	Exact      Operator = "=="
	Compatible Operator = "~="
)

// Errors for requirement handling.
var (
	// ErrInvalidRequirement indicates a line that is not a supported pin.
	ErrInvalidRequirement = errors.New("invalid requirement")
	// ErrInvalidVersion indicates a pinned version that cannot be interpreted.
	ErrInvalidVersion = errors.New("invalid pinned version")
)

// namePattern matches a valid distribution name.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?$`)

// separatorPattern matches runs of characters that are equivalent in distribution names.
var separatorPattern = regexp.MustCompile(`[-_.]+`)

// Requirement is one pinned plugin.
type Requirement struct {
	Name     string
	Operator Operator
	Version  string
	// Line is the 1-based line number in the source file, zero when built in code.
	Line int
}

// ParseRequirement parses a single "name==version" or "name~=version" entry.
//
// Parameters:
//   - s: Requirement text without comments.
//
// Returns:
//   - Requirement: Parsed pin.
//   - error: Non-nil if the text is not a supported pin.
func ParseRequirement(s string) (Requirement, error) {
	s = strings.TrimSpace(s)

	for _, op := range []Operator{Exact, Compatible} {
		name, version, found := strings.Cut(s, string(op))
		if !found {
			continue
		}

		name = strings.TrimSpace(name)
		version = strings.TrimSpace(version)

		if !namePattern.MatchString(name) {
			return Requirement{}, fmt.Errorf("%w: bad name %q", ErrInvalidRequirement, name)
		}

		if version == "" || strings.ContainsAny(version, " \t,;=<>~!") {
			return Requirement{}, fmt.Errorf("%w: bad version %q for %s", ErrInvalidRequirement, version, name)
		}

		return Requirement{Name: name, Operator: op, Version: version}, nil
	}

	return Requirement{}, fmt.Errorf("%w: %q has no == or ~= pin", ErrInvalidRequirement, s)
}

// String returns the requirement in manifest form.
func (r Requirement) String() string {
	return r.Name + string(r.Operator) + r.Version
}

// NormalizedName returns the name with case folded and separators collapsed to "-".
func (r Requirement) NormalizedName() string {
	return strings.ToLower(separatorPattern.ReplaceAllString(r.Name, "-"))
}

// bounds returns the lowest allowed version and, for compatible-release pins, the first
// version no longer allowed. An exact pin has no upper bound.
func (r Requirement) bounds() (*semver.Version, *semver.Version, error) {
	version, err := semver.NewVersion(r.Version)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrInvalidVersion, r, err)
	}

	switch r.Operator {
	case Exact:
		return version, nil, nil
	case Compatible:
		var upper semver.Version

		switch strings.Count(r.Version, ".") {
		case 1:
			upper = version.IncMajor()
		case 2: //nolint:mnd // X.Y.Z
			upper = version.IncMinor()
		default:
			return nil, nil, fmt.Errorf("%w: %s: compatible pins need two or three segments", ErrInvalidVersion, r)
		}

		return version, &upper, nil
	default:
		return nil, nil, fmt.Errorf("%w: %s: unknown operator", ErrInvalidRequirement, r)
	}
}

// Range returns the allowed versions in PEP 440 form, e.g. "==3.8.3" or ">=0.11.1, <0.12.0".
//
// Returns:
//   - string: Version range.
//   - error: Non-nil if the version cannot be interpreted.
func (r Requirement) Range() (string, error) {
	lower, upper, err := r.bounds()
	if err != nil {
		return "", err
	}

	if upper == nil {
		return string(Exact) + lower.String(), nil
	}

	return fmt.Sprintf(">=%s, <%s", lower, upper), nil
}

// Constraint translates the pin into a semantic-version constraint.
//
// An exact pin becomes "= X". A compatible-release pin "~= X.Y" allows any X.* at or
// above X.Y, and "~= X.Y.Z" allows any X.Y.* at or above X.Y.Z.
//
// Returns:
//   - *semver.Constraints: Parsed constraint.
//   - error: Non-nil if the version cannot be interpreted.
func (r Requirement) Constraint() (*semver.Constraints, error) {
	lower, upper, err := r.bounds()
	if err != nil {
		return nil, err
	}

	expr := "= " + lower.String()
	if upper != nil {
		expr = fmt.Sprintf(">= %s, < %s", lower, upper)
	}

	constraint, err := semver.NewConstraint(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidVersion, r, err)
	}

	return constraint, nil
}

// Allows reports whether the given version satisfies the pin.
//
// Parameters:
//   - version: Candidate version.
//
// Returns:
//   - bool: True if the version is allowed.
//   - error: Non-nil if either version cannot be interpreted.
func (r Requirement) Allows(version string) (bool, error) {
	constraint, err := r.Constraint()
	if err != nil {
		return false, err
	}

	candidate, err := semver.NewVersion(version)
	if err != nil {
		return false, fmt.Errorf("%w: %q: %w", ErrInvalidVersion, version, err)
	}

	return constraint.Check(candidate), nil
}
