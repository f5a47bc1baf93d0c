// Package manifest reads and validates the pinned lint-plugin manifest.
//
// A manifest is a flat text file with one requirement per line, either an exact pin
// ("name==version") or a compatible-release pin ("name~=version"). Blank lines and
// "#" comments are ignored. The manifest is consumed by an external lint runner; this
// package only checks it.
//
// Key Components:
//   - Requirement (requirement.go): A single pin with its semantic-version constraint.
//   - Manifest (manifest.go): The parsed file, duplicate detection and validation.
//   - Default (manifest.go): The manifest embedded in the binary.
//
// Usage:
//
//	m, err := manifest.Load("flake8-requirements.txt")
//	if err != nil {
//	    return err
//	}
//	if err := m.Validate(); err != nil {
//	    logrus.WithError(err).Error("Manifest is invalid")
//	}
package manifest
