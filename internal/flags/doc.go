// Package flags manages command-line flags and environment variables for announcer configuration.
// It configures logging, the announcement itself and secondary notifications via Cobra and Viper.
//
// Key components:
//   - RegisterSystemFlags: Adds logging and environment flags.
//   - RegisterAnnounceFlags: Adds webhook, release and delivery flags.
//   - RegisterNotificationFlags: Adds Shoutrrr notification flags.
//   - LoadEnvFile: Applies a dotenv file to flags that were not set explicitly.
//   - ReadAnnounceConfig: Collects the flags into a types.AnnounceConfig.
//   - SetupLogging: Configures logrus based on flags.
//
// Usage example:
//
//	cmd := &cobra.Command{}
//	flags.SetDefaults()
//	flags.RegisterSystemFlags(cmd)
//	flags.RegisterAnnounceFlags(cmd)
//	err := flags.SetupLogging(cmd.PersistentFlags())
//	if err != nil {
//	    logrus.WithError(err).Fatal("Logging setup failed")
//	}
//
// The package integrates with Cobra for flag parsing, Viper for environment variable binding,
// godotenv for dotenv files and logrus for logging configuration errors.
package flags
