package git

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/sirupsen/logrus"
)

// Errors for revision resolution.
var (
	// ErrNoRepository indicates that no repository contains the given path.
	ErrNoRepository = errors.New("no git repository found")
	// ErrNoCommits indicates a repository whose HEAD does not point at a commit yet.
	ErrNoCommits = errors.New("repository has no commits")
)

// Error represents a failed repository operation.
type Error struct {
	Op     string // Operation that failed
	Path   string // Repository path
	Reason string // Human-readable reason
	Cause  error  // Underlying error
}

func (e Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("git %s %s: %s: %v", e.Op, e.Path, e.Reason, e.Cause)
	}

	return fmt.Sprintf("git %s %s: %s", e.Op, e.Path, e.Reason)
}

func (e Error) Unwrap() error {
	return e.Cause
}

// ResolveRevision returns the full hash of HEAD for the repository containing path.
//
// Parent directories are searched for a .git directory, so any path inside a checkout works.
//
// Parameters:
//   - path: Directory inside the repository.
//
// Returns:
//   - string: Hex-encoded commit hash.
//   - error: Non-nil if no repository is found or HEAD cannot be resolved.
func ResolveRevision(path string) (string, error) {
	clog := logrus.WithField("path", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			err = fmt.Errorf("%w: %w", ErrNoRepository, err)
		}

		clog.WithError(err).Debug("Failed to open repository")

		return "", Error{
			Op:     "open",
			Path:   path,
			Reason: "failed to open repository",
			Cause:  err,
		}
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			err = fmt.Errorf("%w: %w", ErrNoCommits, err)
		}

		return "", Error{
			Op:     "head",
			Path:   path,
			Reason: "failed to resolve HEAD",
			Cause:  err,
		}
	}

	revision := head.Hash().String()
	clog.WithFields(logrus.Fields{
		"ref":      head.Name().Short(),
		"revision": revision,
	}).Debug("Resolved revision from repository")

	return revision, nil
}
