// Package types defines the core structs and interfaces shared by the announcer packages.
//
// Key components:
//   - Release: The version/revision pair being announced, plus package metadata.
//   - DeliveryReport: The outcome of a single webhook delivery.
//   - Notifier: Interface for secondary notification services.
//   - AnnounceConfig: Resolved configuration for one announcer run.
//
// Usage example:
//
//	release := types.NewRelease("1.2.3", "abc123")
//	msg, err := notifications.NewReleaseMessage(release, notifications.DefaultTemplates())
//
// The package has no dependencies on the rest of the module so it can be imported everywhere.
package types
