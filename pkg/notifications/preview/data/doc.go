// Package data provides sample release data for the announcement preview tool.
//
// The preview tool renders announcement templates without a real deployment. This package
// supplies deterministic placeholder releases of the default package with a semantic
// version and a full-length revision hash, so that repeated previews produce the same output.
//
// Key Components:
//   - PreviewData (data.go): Seeded generator producing types.Release values.
//
// Usage:
//
//	release := data.New().Release()
//	msg, err := notifications.NewReleaseMessage(release, notifications.DefaultTemplates())
package data
