package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/enlightendev/dataconfig/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "dataconfig",
	Short:   "Persistence wiring for the domain model",
	Long: `dataconfig builds the connection factory, entity manager factory and
transaction manager from database.* configuration keys.

Configuration is read from config files, DATACONFIG_* environment variables
and flags, in increasing order of precedence.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		files, _ := cmd.Flags().GetStringSlice("config")

		cfg, err := config.Load(files, cmd.Flags())
		if err != nil {
			return err
		}

		logCloser = setupLogging(cfg)

		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser()
		}
		return nil
	},
}

// logCloser releases the rotated log file, if one is open.
var logCloser func() error

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringSlice("config", nil, "config file paths, merged left to right (default: ./config.yaml)")
	flags.String("env", "", "environment name: dev, prod (default: dev, env: DATACONFIG_ENV)")
	flags.String("db-driver", "", "database driver, e.g. pgx, postgres, sqlite, org.postgresql.Driver (env: DATACONFIG_DATABASE_CONNECTION_DRIVER)")
	flags.String("db-url", "", "database URL (env: DATACONFIG_DATABASE_CONNECTION_URL)")
	flags.String("db-user", "", "database user (env: DATACONFIG_DATABASE_CONNECTION_USER)")
	flags.String("db-password", "", "database password (env: DATACONFIG_DATABASE_CONNECTION_PASSWORD)")
	flags.String("schema-update", "", "schema action: none, validate, update, create, create-drop")
	flags.String("dialect", "", "SQL dialect (default: inferred from the driver)")
	flags.String("log-level", "", "log level: debug, info, warn, error (default: info)")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(propertiesCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
