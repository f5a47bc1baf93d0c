// Package cmd contains the command-line interface (CLI) definitions and execution logic for the announcer.
// It provides the root command, which posts the release announcement, and subcommands to preview the
// message and to check the lint-plugin manifest.
//
// Key components:
//   - rootCmd: Resolves the configuration, posts the announcement and writes run metrics.
//   - preview: Prints the announcement payload without sending it.
//   - manifest: Validates the pinned plugin manifest.
//
// Usage examples:
//   - Run the CLI from main.go:
//     cmd.Execute()
//   - Announce a release from CI:
//     DEPLOY_WEBHOOK_URL=... VERSION=1.2.3 REF=abc123 announcer
//   - Check the manifest shipped with the project:
//     announcer manifest --file flake8-requirements.txt
//
// The package integrates with the flags, notifications, metrics, git and manifest packages,
// using Cobra for CLI parsing and logrus for logging.
package cmd
