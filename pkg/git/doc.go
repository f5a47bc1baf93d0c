// Package git resolves the revision being announced from a local checkout.
//
// It is the last fallback for the announcement footer: when neither the REF nor the
// GITHUB_SHA environment variable nor the --revision flag is set, the HEAD commit of
// the repository containing the working directory is used. Repositories are opened with
// go-git, so no git binary is required.
//
// Usage:
//
//	revision, err := git.ResolveRevision(".")
//	if errors.Is(err, git.ErrNoRepository) {
//		// Not inside a checkout.
//	}
package git
