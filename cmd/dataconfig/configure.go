package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/enlightendev/dataconfig"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Write a config file interactively",
	Long: `Prompt for the database connection and ORM settings and write them to a
YAML config file.

You will be prompted for:
  - Driver and URL
  - User and password
  - Schema action and dialect
  - SQL logging toggles`,
	RunE: runConfigure,
}

func init() {
	configureCmd.Flags().StringP("output", "o", "config.yaml", "file to write")
}

var driverChoices = []string{"pgx", "postgres", "sqlite", "org.postgresql.Driver", "org.sqlite.JDBC"}

var schemaChoices = []string{
	string(dataconfig.SchemaNone),
	string(dataconfig.SchemaValidate),
	string(dataconfig.SchemaUpdate),
	string(dataconfig.SchemaCreate),
	string(dataconfig.SchemaCreateDrop),
}

// fileConfig is the layout written by configure and read back by config.Load.
type fileConfig struct {
	Env      string       `yaml:"env,omitempty"`
	Database fileDatabase `yaml:"database"`
}

type fileDatabase struct {
	Connection fileConnection `yaml:"connection"`
	Hibernate  fileHibernate  `yaml:"hibernate"`
}

type fileConnection struct {
	Driver   string `yaml:"driver"`
	URL      string `yaml:"url"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
}

type fileHibernate struct {
	SchemaUpdate   string `yaml:"schema_update"`
	Dialect        string `yaml:"dialect,omitempty"`
	ShowSQL        bool   `yaml:"show_sql"`
	FormatSQL      bool   `yaml:"format_sql"`
	UseSQLComments bool   `yaml:"use_sql_comments"`
}

func runConfigure(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("output")

	if _, err := os.Stat(path); err == nil {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("%s already exists. Overwrite it", path),
			IsConfirm: true,
		}
		if _, promptErr := prompt.Run(); promptErr != nil {
			fmt.Println("Cancelled.")
			return nil //nolint:nilerr // User cancelled, not an error
		}
	}

	cfg, err := promptConfig()
	if err != nil {
		return handlePromptError(err)
	}

	if err := writeConfigFile(path, cfg); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", path)
	return nil
}

func promptConfig() (fileConfig, error) {
	var cfg fileConfig

	envPrompt := promptui.Prompt{Label: "Environment", Default: "dev"}
	env, err := envPrompt.Run()
	if err != nil {
		return cfg, err
	}
	cfg.Env = env

	driverSelect := promptui.Select{Label: "Driver", Items: driverChoices}
	_, driver, err := driverSelect.Run()
	if err != nil {
		return cfg, err
	}
	cfg.Database.Connection.Driver = driver

	urlPrompt := promptui.Prompt{
		Label: "URL",
		Validate: func(input string) error {
			if input == "" {
				return errors.New("URL is required")
			}
			return nil
		},
	}
	if cfg.Database.Connection.URL, err = urlPrompt.Run(); err != nil {
		return cfg, err
	}

	userPrompt := promptui.Prompt{Label: "User"}
	if cfg.Database.Connection.User, err = userPrompt.Run(); err != nil {
		return cfg, err
	}

	passwordPrompt := promptui.Prompt{Label: "Password", Mask: '*'}
	if cfg.Database.Connection.Password, err = passwordPrompt.Run(); err != nil {
		return cfg, err
	}

	schemaSelect := promptui.Select{Label: "Schema action", Items: schemaChoices}
	if _, cfg.Database.Hibernate.SchemaUpdate, err = schemaSelect.Run(); err != nil {
		return cfg, err
	}

	dialectPrompt := promptui.Prompt{Label: "Dialect (empty to infer from driver)"}
	if cfg.Database.Hibernate.Dialect, err = dialectPrompt.Run(); err != nil {
		return cfg, err
	}

	cfg.Database.Hibernate.ShowSQL = confirm("Log SQL statements")
	if cfg.Database.Hibernate.ShowSQL {
		cfg.Database.Hibernate.FormatSQL = confirm("Format logged SQL")
	}
	cfg.Database.Hibernate.UseSQLComments = confirm("Prefix SQL with entity comments")

	return cfg, nil
}

// confirm treats any prompt error, including a plain "n", as no.
func confirm(label string) bool {
	prompt := promptui.Prompt{Label: label, IsConfirm: true}
	_, err := prompt.Run()
	return err == nil
}

func writeConfigFile(path string, cfg fileConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) {
		fmt.Println("\nCancelled.")
		os.Exit(0)
	}
	if errors.Is(err, promptui.ErrAbort) {
		fmt.Println("Cancelled.")
		return nil
	}
	return err
}
