package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nicholas-fedor/announcer/pkg/notifications"
	"github.com/nicholas-fedor/announcer/pkg/notifications/preview"
	"github.com/nicholas-fedor/announcer/pkg/notifications/preview/data"
	"github.com/nicholas-fedor/announcer/pkg/types"
)

// errWriteOutput indicates a failure to write command output.
var errWriteOutput = errors.New("failed to write output")

// init registers the preview command with the root command.
func init() {
	rootCmd.AddCommand(newPreviewCommand())
}

// newPreviewCommand creates the preview command.
func newPreviewCommand() *cobra.Command {
	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the announcement payload without sending it",
		Long:  "Renders the announcement for the configured release and prints the JSON body that would be posted to the webhook.",
		Run:   runPreview,
		Args:  cobra.NoArgs,
	}

	previewCmd.Flags().Bool("sample", false, "Use a generated sample release instead of VERSION and REF")
	previewCmd.Flags().String("render", "", "Render this template string against the release instead of printing the payload")

	return previewCmd
}

// runPreview executes the preview command, exiting non-zero on failure.
func runPreview(cmd *cobra.Command, args []string) {
	if err := runPreviewE(cmd, args); err != nil {
		logrus.WithError(err).Fatal("Preview failed")
	}
}

// runPreviewE prints the announcement payload, or a rendered template, to the command output.
//
// Parameters:
//   - cmd: The preview command, providing its own flags and the root's configuration flags.
//   - _: Positional arguments, unused.
//
// Returns:
//   - error: Non-nil if the configuration is invalid or rendering fails.
func runPreviewE(cmd *cobra.Command, _ []string) error {
	sample, _ := cmd.Flags().GetBool("sample")
	render, _ := cmd.Flags().GetString("render")

	config, err := previewConfig(cmd.Root(), sample)
	if err != nil {
		return err
	}

	if render != "" {
		text, err := preview.Render(render, config.Release)
		if err != nil {
			return fmt.Errorf("failed to render template: %w", err)
		}

		return writeOutput(cmd.OutOrStdout(), text)
	}

	msg, err := buildMessage(config)
	if err != nil {
		return err
	}

	body, err := notifications.EncodeIndent(msg)
	if err != nil {
		return err
	}

	return writeOutput(cmd.OutOrStdout(), string(body))
}

// previewConfig resolves the configuration to preview.
//
// With sample set, the release comes from the sample generator and only the template
// settings are taken from the flags.
func previewConfig(root *cobra.Command, sample bool) (types.AnnounceConfig, error) {
	if !sample {
		return resolveConfig(root)
	}

	flagsSet := root.PersistentFlags()
	template, _ := flagsSet.GetString("message-template")
	username, _ := flagsSet.GetString("username")

	return types.AnnounceConfig{
		Release:  data.New().Release(),
		Template: template,
		Username: username,
	}, nil
}

func writeOutput(w io.Writer, text string) error {
	if _, err := fmt.Fprintln(w, text); err != nil {
		return fmt.Errorf("%w: %w", errWriteOutput, err)
	}

	return nil
}
