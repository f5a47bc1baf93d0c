// Package util provides small helpers shared by the announcer commands.
//
// It covers human-readable durations for log output and redaction of webhook URLs,
// whose path carries the webhook secret.
package util
