// Package flags manages command-line flags and environment variables for announcer configuration.
package flags

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nicholas-fedor/announcer/pkg/notifications"
	"github.com/nicholas-fedor/announcer/pkg/types"
)

// defaultTimeout bounds a single webhook request.
const defaultTimeout = 30 * time.Second

// defaultRetryDelay is the base delay between webhook attempts when retries are enabled.
const defaultRetryDelay = time.Second

// ErrMissingVersion indicates that no version was configured for the announcement.
var ErrMissingVersion = errors.New("no version configured, set VERSION or --version-name")

// errInvalidLogFormat indicates an invalid log format was specified.
// It is used in SetupLogging to report configuration errors.
var errInvalidLogFormat = errors.New("invalid log format specified")

// errInvalidLogLevel indicates an invalid log level was specified.
// It is used in SetupLogging to report configuration errors.
var errInvalidLogLevel = errors.New("invalid log level specified")

// errLoadEnvFile indicates a failure to read a dotenv file.
var errLoadEnvFile = errors.New("failed to load env file")

// errOpenFileFailed indicates a failure to open a file for reading secrets.
// It is used in getSecretFromFile to wrap os.Open errors.
var errOpenFileFailed = errors.New("failed to open secret file")

// errCloseFileFailed indicates a failure to close a file after reading secrets.
// It is used in getSecretFromFile to wrap file.Close errors.
var errCloseFileFailed = errors.New("failed to close secret file")

// errReplaceSliceFailed indicates a failure to replace a slice value in a flag.
// It is used in getSecretFromFile to wrap SliceValue.Replace errors.
var errReplaceSliceFailed = errors.New("failed to replace slice value in flag")

// errReadFileFailed indicates a failure to read a file’s contents.
// It is used in getSecretFromFile to wrap os.ReadFile errors.
var errReadFileFailed = errors.New("failed to read secret file")

// errSetFlagFailed indicates a failure to set or read a flag’s value.
var errSetFlagFailed = errors.New("failed to set flag value")

// listSeparator splits list values given through environment variables.
var listSeparator = regexp.MustCompile("[, ]+")

// envKeys maps flag names to the environment variables they are read from, in priority order.
var envKeys = map[string][]string{
	"log-format":              {"ANNOUNCER_LOG_FORMAT"},
	"log-level":               {"ANNOUNCER_LOG_LEVEL"},
	"debug":                   {"ANNOUNCER_DEBUG"},
	"trace":                   {"ANNOUNCER_TRACE"},
	"no-color":                {"NO_COLOR"},
	"webhook-url":             {"DEPLOY_WEBHOOK_URL"},
	"version-name":            {"VERSION"},
	"revision":                {"REF", "GITHUB_SHA"},
	"package":                 {"ANNOUNCER_PACKAGE"},
	"index":                   {"ANNOUNCER_INDEX"},
	"docs-url":                {"ANNOUNCER_DOCS_URL"},
	"username":                {"ANNOUNCER_USERNAME"},
	"message-template":        {"ANNOUNCER_MESSAGE_TEMPLATE"},
	"timeout":                 {"ANNOUNCER_TIMEOUT"},
	"retries":                 {"ANNOUNCER_RETRIES"},
	"retry-delay":             {"ANNOUNCER_RETRY_DELAY"},
	"repo-path":               {"ANNOUNCER_REPO_PATH"},
	"metrics-textfile":        {"ANNOUNCER_METRICS_TEXTFILE"},
	"notification-url":        {"ANNOUNCER_NOTIFICATION_URL"},
	"notification-log-stdout": {"ANNOUNCER_NOTIFICATION_LOG_STDOUT"},
}

// RegisterSystemFlags adds flags that control logging and configuration loading to the root command.
func RegisterSystemFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()

	flags.StringP(
		"log-format",
		"l",
		envString("ANNOUNCER_LOG_FORMAT"),
		"Sets what logging format to use for console output. Possible values: Auto, LogFmt, Pretty, JSON",
	)

	flags.String(
		"log-level",
		envString("ANNOUNCER_LOG_LEVEL"),
		"The maximum log level that will be written to STDERR. Possible values: panic, fatal, error, warn, info, debug or trace")

	flags.BoolP(
		"debug",
		"d",
		envBool("ANNOUNCER_DEBUG"),
		"Enable debug mode with verbose logging")

	flags.Bool(
		"trace",
		envBool("ANNOUNCER_TRACE"),
		"Enable trace mode with very verbose logging - caution, exposes the webhook URL")

	flags.Bool(
		"no-color",
		viper.IsSet("NO_COLOR"),
		"Disable ANSI color escape codes in log output")

	flags.String(
		"env-file",
		"",
		"Load environment variables from a dotenv file before reading the remaining flags")
}

// RegisterAnnounceFlags adds flags describing the webhook target, the release and delivery behavior.
func RegisterAnnounceFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()

	flags.StringP(
		"webhook-url",
		"u",
		envString("DEPLOY_WEBHOOK_URL"),
		"Webhook URL the announcement is posted to, or a file containing it")

	flags.String(
		"version-name",
		envString("VERSION"),
		"Version that has been deployed")

	flags.String(
		"revision",
		envFirst("REF", "GITHUB_SHA"),
		"Source revision the version was built from. Read from the repository HEAD when unset")

	flags.String(
		"package",
		envString("ANNOUNCER_PACKAGE"),
		"Package name used in the install instructions")

	flags.String(
		"index",
		envString("ANNOUNCER_INDEX"),
		"Name of the package index the version was deployed to")

	flags.String(
		"docs-url",
		envString("ANNOUNCER_DOCS_URL"),
		"Documentation link added to the description, empty to leave it out")

	flags.String(
		"username",
		envString("ANNOUNCER_USERNAME"),
		"Sender name shown for the announcement")

	flags.StringP(
		"message-template",
		"t",
		envString("ANNOUNCER_MESSAGE_TEMPLATE"),
		"Name of the message template set to use. Possible values: pypi, short")

	flags.Duration(
		"timeout",
		envDuration("ANNOUNCER_TIMEOUT"),
		"Timeout for each webhook request")

	flags.Int(
		"retries",
		envInt("ANNOUNCER_RETRIES"),
		"Extra webhook attempts after a failed delivery. 0 sends exactly one request")

	flags.Duration(
		"retry-delay",
		envDuration("ANNOUNCER_RETRY_DELAY"),
		"Base delay between webhook attempts")

	flags.String(
		"repo-path",
		envString("ANNOUNCER_REPO_PATH"),
		"Path inside the git repository used to resolve the revision")

	flags.String(
		"metrics-textfile",
		envString("ANNOUNCER_METRICS_TEXTFILE"),
		"Write run metrics to this file in the Prometheus text format")
}

// RegisterNotificationFlags adds flags for secondary Shoutrrr notifications to the root command.
func RegisterNotificationFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()

	flags.StringArray(
		"notification-url",
		envStringSlice("ANNOUNCER_NOTIFICATION_URL"),
		"The shoutrrr URL to also send the announcement to")

	flags.Bool(
		"notification-log-stdout",
		envBool("ANNOUNCER_NOTIFICATION_LOG_STDOUT"),
		"Write notification logs to stdout instead of logging (to stderr)")
}

// envString retrieves a string value from an environment variable via Viper.
// It binds the key to the environment and returns its value.
func envString(key string) string {
	viper.MustBindEnv(key)

	return viper.GetString(key)
}

// envFirst returns the first non-empty value among the given environment variables.
func envFirst(keys ...string) string {
	for _, key := range keys {
		if value := envString(key); value != "" {
			return value
		}
	}

	return ""
}

// envStringSlice retrieves a string slice from an environment variable via Viper.
// Values may be separated by commas or spaces.
func envStringSlice(key string) []string {
	viper.MustBindEnv(key)

	// Due to issue spf13/viper#380, can't use viper.GetStringSlice:
	value := strings.TrimSpace(viper.GetString(key))
	if value == "" {
		return []string{}
	}

	return listSeparator.Split(value, -1)
}

// envInt retrieves an integer value from an environment variable via Viper.
// It binds the key to the environment and returns its value.
func envInt(key string) int {
	viper.MustBindEnv(key)

	return viper.GetInt(key)
}

// envBool retrieves a boolean value from an environment variable via Viper.
// It binds the key to the environment and returns its value.
func envBool(key string) bool {
	viper.MustBindEnv(key)

	return viper.GetBool(key)
}

// envDuration retrieves a duration value from an environment variable via Viper.
// It binds the key to the environment and returns its value.
func envDuration(key string) time.Duration {
	viper.MustBindEnv(key)

	return viper.GetDuration(key)
}

// SetDefaults configures default values for environment variables.
// It ensures consistent fallback behavior when flags or environment variables are unset.
func SetDefaults() {
	viper.AutomaticEnv()
	viper.SetDefault("ANNOUNCER_LOG_LEVEL", "info")
	viper.SetDefault("ANNOUNCER_LOG_FORMAT", "auto")
	viper.SetDefault("ANNOUNCER_PACKAGE", types.DefaultPackage)
	viper.SetDefault("ANNOUNCER_INDEX", types.DefaultIndex)
	viper.SetDefault("ANNOUNCER_DOCS_URL", types.DefaultDocsURL)
	viper.SetDefault("ANNOUNCER_USERNAME", notifications.DefaultUsername)
	viper.SetDefault("ANNOUNCER_TIMEOUT", defaultTimeout)
	viper.SetDefault("ANNOUNCER_RETRIES", 0)
	viper.SetDefault("ANNOUNCER_RETRY_DELAY", defaultRetryDelay)
	viper.SetDefault("ANNOUNCER_REPO_PATH", ".")
}

// LoadEnvFile reads the dotenv file named by --env-file into the process environment.
//
// Variables already present in the environment are kept. Flags that were not set on the
// command line are then refreshed from the environment, since their defaults were read
// before the file was loaded.
//
// Parameters:
//   - flags: Flag set holding env-file and the flags to refresh.
//
// Returns:
//   - error: Non-nil if the file cannot be read or a value cannot be applied.
func LoadEnvFile(flags *pflag.FlagSet) error {
	path, err := flags.GetString("env-file")
	if err != nil {
		return fmt.Errorf("%w: %w", errSetFlagFailed, err)
	}

	if path == "" {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("%w: %w", errLoadEnvFile, err)
	}

	for name, keys := range envKeys {
		flag := flags.Lookup(name)
		if flag == nil || flag.Changed {
			continue
		}

		value, found := lookupEnv(keys...)
		if !found {
			continue
		}

		if sliceValue, ok := flag.Value.(pflag.SliceValue); ok {
			if err := sliceValue.Replace(listSeparator.Split(strings.TrimSpace(value), -1)); err != nil {
				return fmt.Errorf("%w: %w", errReplaceSliceFailed, err)
			}

			continue
		}

		if err := flags.Set(name, value); err != nil {
			return fmt.Errorf("%w: %s: %w", errSetFlagFailed, name, err)
		}
	}

	logrus.WithField("path", path).Debug("Loaded environment file")

	return nil
}

// lookupEnv returns the first non-empty environment variable among keys.
func lookupEnv(keys ...string) (string, bool) {
	for _, key := range keys {
		if value, found := os.LookupEnv(key); found && value != "" {
			return value, true
		}
	}

	return "", false
}

// ReadAnnounceConfig collects the announcement flags into a configuration.
//
// Parameters:
//   - cmd: Command whose persistent flags hold the announce and notification flags.
//
// Returns:
//   - types.AnnounceConfig: Collected configuration. The revision may still be empty.
//   - error: Non-nil if a flag cannot be read or no version is configured.
func ReadAnnounceConfig(cmd *cobra.Command) (types.AnnounceConfig, error) {
	flags := cmd.PersistentFlags()
	reader := flagReader{flags: flags}

	config := types.AnnounceConfig{
		WebhookURL: reader.String("webhook-url"),
		Release: types.Release{
			Package:  reader.String("package"),
			Version:  reader.String("version-name"),
			Revision: reader.String("revision"),
			Index:    reader.String("index"),
			DocsURL:  reader.String("docs-url"),
		},
		Template:              reader.String("message-template"),
		Username:              reader.String("username"),
		Timeout:               reader.Duration("timeout"),
		Retries:               reader.Int("retries"),
		RetryDelay:            reader.Duration("retry-delay"),
		NotificationURLs:      reader.StringArray("notification-url"),
		NotificationLogStdout: reader.Bool("notification-log-stdout"),
		MetricsTextfile:       reader.String("metrics-textfile"),
		RepoPath:              reader.String("repo-path"),
	}

	if reader.err != nil {
		return types.AnnounceConfig{}, reader.err
	}

	if strings.TrimSpace(config.Release.Version) == "" {
		return types.AnnounceConfig{}, ErrMissingVersion
	}

	return config, nil
}

// flagReader reads flags, keeping the first error.
type flagReader struct {
	flags *pflag.FlagSet
	err   error
}

func (r *flagReader) fail(name string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s: %w", errSetFlagFailed, name, err)
	}
}

func (r *flagReader) String(name string) string {
	value, err := r.flags.GetString(name)
	if err != nil {
		r.fail(name, err)
	}

	return value
}

func (r *flagReader) StringArray(name string) []string {
	value, err := r.flags.GetStringArray(name)
	if err != nil {
		r.fail(name, err)
	}

	return value
}

func (r *flagReader) Bool(name string) bool {
	value, err := r.flags.GetBool(name)
	if err != nil {
		r.fail(name, err)
	}

	return value
}

func (r *flagReader) Int(name string) int {
	value, err := r.flags.GetInt(name)
	if err != nil {
		r.fail(name, err)
	}

	return value
}

func (r *flagReader) Duration(name string) time.Duration {
	value, err := r.flags.GetDuration(name)
	if err != nil {
		r.fail(name, err)
	}

	return value
}

// GetSecretsFromFiles replaces flag values with file contents if they reference files.
// It processes the webhook and notification URL flags, updating their values accordingly.
func GetSecretsFromFiles(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()

	secrets := []string{
		"webhook-url",
		"notification-url",
	}
	for _, secret := range secrets {
		if flags.Lookup(secret) == nil {
			continue
		}

		if err := getSecretFromFile(flags, secret); err != nil {
			logrus.Fatalf("failed to get secret from flag %v: %s", secret, err)
		}
	}
}

// getSecretFromFile updates a flag’s value with file contents if it references a file.
// It handles both string and slice flags, returning an error if file operations fail.
func getSecretFromFile(flags *pflag.FlagSet, secret string) error {
	flag := flags.Lookup(secret)
	if sliceValue, ok := flag.Value.(pflag.SliceValue); ok {
		oldValues := sliceValue.GetSlice()
		values := make([]string, 0, len(oldValues))

		for _, value := range oldValues {
			if value == "" || !isFilePath(value) {
				values = append(values, value)

				continue
			}

			lines, err := readLines(value)
			if err != nil {
				return err
			}

			values = append(values, lines...)
		}

		if err := sliceValue.Replace(values); err != nil {
			return fmt.Errorf("%w: %w", errReplaceSliceFailed, err)
		}

		return nil
	}

	value := flag.Value.String()
	if value != "" && isFilePath(value) {
		content, err := os.ReadFile(value)
		if err != nil {
			return fmt.Errorf("%w: %w", errReadFileFailed, err)
		}

		if err := flags.Set(secret, strings.TrimSpace(string(content))); err != nil {
			return fmt.Errorf("%w: %w", errSetFlagFailed, err)
		}
	}

	return nil
}

// readLines returns the non-empty lines of a file.
func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errOpenFileFailed, err)
	}

	var lines []string

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		_ = file.Close()

		return nil, fmt.Errorf("%w: %w", errReadFileFailed, err)
	}

	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("%w: %w", errCloseFileFailed, err)
	}

	return lines, nil
}

// isFilePath determines if a string likely represents a file path.
// It checks for file existence, avoiding false positives from URLs or invalid Windows paths.
func isFilePath(path string) bool {
	firstColon := strings.IndexRune(path, ':')
	if firstColon != 1 && firstColon != -1 {
		// If ':' exists but isn’t the second character, it’s likely not a file path (e.g., URLs).
		return false
	}

	_, err := os.Stat(path)

	return !errors.Is(err, os.ErrNotExist)
}

// ProcessFlagAliases synchronizes the log level with the debug and trace helper flags.
func ProcessFlagAliases(flags *pflag.FlagSet) {
	if flagIsEnabled(flags, "debug") {
		if err := flags.Set("log-level", "debug"); err != nil {
			logrus.Errorf("Failed to set log-level flag: %v", err)
		}
	}

	if flagIsEnabled(flags, "trace") {
		if err := flags.Set("log-level", "trace"); err != nil {
			logrus.Errorf("Failed to set log-level flag: %v", err)
		}
	}
}

// SetupLogging configures the global logger based on log-related flags.
// It sets the log format and level, returning an error for invalid configurations.
func SetupLogging(flags *pflag.FlagSet) error {
	logFormat, err := flags.GetString("log-format")
	if err != nil {
		return fmt.Errorf("%w: %w", errSetFlagFailed, err)
	}

	noColor, err := flags.GetBool("no-color")
	if err != nil {
		return fmt.Errorf("%w: %w", errSetFlagFailed, err)
	}

	if err := configureLogFormat(logFormat, noColor); err != nil {
		return err
	}

	rawLogLevel, err := flags.GetString("log-level")
	if err != nil {
		return fmt.Errorf("%w: %w", errSetFlagFailed, err)
	}

	logLevel, err := logrus.ParseLevel(rawLogLevel)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidLogLevel, err)
	}

	logrus.SetLevel(logLevel)

	return nil
}

// configureLogFormat sets the logrus formatter based on the specified format and color preference.
// It returns an error if the format is invalid.
func configureLogFormat(logFormat string, noColor bool) error {
	switch strings.ToLower(logFormat) {
	case "auto":
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableColors:             noColor,
			EnvironmentOverrideColors: true,
		})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "logfmt":
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	case "pretty":
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors:   !noColor,
			FullTimestamp: false,
		})
	default:
		return fmt.Errorf("%w: %s", errInvalidLogFormat, logFormat)
	}

	return nil
}

// flagIsEnabled checks if a boolean flag is set to true.
// It exits with a fatal error if the flag is not defined.
func flagIsEnabled(flags *pflag.FlagSet, name string) bool {
	value, err := flags.GetBool(name)
	if err != nil {
		logrus.Fatalf("The flag %q is not defined", name)
	}

	return value
}
