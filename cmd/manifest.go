package cmd

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nicholas-fedor/announcer/pkg/manifest"
)

// Errors for the manifest command.
var (
	// errInvalidCheck indicates a --check value that is not "name@version".
	errInvalidCheck = errors.New("invalid check, expected name@version")
	// errUnknownPlugin indicates a --check for a plugin the manifest does not pin.
	errUnknownPlugin = errors.New("plugin is not pinned in the manifest")
	// errNotAllowed indicates a --check version outside the pinned range.
	errNotAllowed = errors.New("version is not allowed by the manifest")
)

// init registers the manifest command with the root command.
func init() {
	rootCmd.AddCommand(newManifestCommand())
}

// newManifestCommand creates the manifest command.
func newManifestCommand() *cobra.Command {
	manifestCmd := &cobra.Command{
		Use:   "manifest",
		Short: "Validate the pinned lint-plugin manifest",
		Long:  "Parses the lint-plugin manifest, reports duplicate or unparsable pins and prints the resulting version constraints.",
		Run:   runManifest,
		Args:  cobra.NoArgs,
	}

	manifestCmd.Flags().StringP("file", "f", "", "Manifest to check, the embedded "+manifest.DefaultFileName+" when empty")
	manifestCmd.Flags().StringArray("check", nil, "Verify that name@version is allowed by the manifest")

	return manifestCmd
}

// runManifest executes the manifest command, exiting non-zero on failure.
func runManifest(cmd *cobra.Command, args []string) {
	if err := runManifestE(cmd, args); err != nil {
		logrus.WithError(err).Fatal("Manifest check failed")
	}
}

// runManifestE loads and validates the manifest, prints its constraints and runs the requested checks.
//
// Parameters:
//   - cmd: The manifest command.
//   - _: Positional arguments, unused.
//
// Returns:
//   - error: Non-nil if the manifest cannot be read, is invalid or a check fails.
func runManifestE(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")
	checks, _ := cmd.Flags().GetStringArray("check")

	m := manifest.Default()

	if path != "" {
		var err error

		m, err = manifest.Load(path)
		if err != nil {
			return err
		}
	}

	if err := m.Validate(); err != nil {
		return fmt.Errorf("%s: %w", m.Source, err)
	}

	out := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, req := range m.Requirements {
		versions, _ := req.Range()
		fmt.Fprintf(out, "%s\t%s\n", req, versions)
	}

	if err := out.Flush(); err != nil {
		return fmt.Errorf("%w: %w", errWriteOutput, err)
	}

	logrus.WithFields(logrus.Fields{
		"source":       m.Source,
		"requirements": len(m.Requirements),
	}).Info("Manifest is valid")

	for _, check := range checks {
		if err := checkPin(m, check); err != nil {
			return err
		}
	}

	return nil
}

// checkPin verifies a single "name@version" against the manifest.
func checkPin(m *manifest.Manifest, check string) error {
	name, version, found := strings.Cut(check, "@")
	if !found || name == "" || version == "" {
		return fmt.Errorf("%w: %q", errInvalidCheck, check)
	}

	req, found := m.Get(name)
	if !found {
		return fmt.Errorf("%w: %s", errUnknownPlugin, name)
	}

	allowed, err := req.Allows(version)
	if err != nil {
		return err
	}

	if !allowed {
		return fmt.Errorf("%w: %s %s (pinned %s)", errNotAllowed, name, version, req)
	}

	logrus.WithFields(logrus.Fields{
		"plugin":  req.Name,
		"version": version,
		"pin":     req.String(),
	}).Info("Version is allowed")

	return nil
}
