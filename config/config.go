package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/enlightendev/dataconfig"
)

// EnvPrefix is prepended to every environment variable consulted by Load.
const EnvPrefix = "DATACONFIG"

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct.
type Config struct {
	Env      string         `mapstructure:"env"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`

	// props is the flat snapshot served by GetString.
	props map[string]string
}

// DatabaseConfig holds the connection and ORM settings.
// Every value is kept as the raw string found in the configuration source.
type DatabaseConfig struct {
	Connection             ConnectionConfig `mapstructure:"connection"`
	ORM                    ORMConfig        `mapstructure:"hibernate"`
	AllowDestructiveSchema bool             `mapstructure:"allow_destructive_schema"`
}

// ConnectionConfig holds the physical connection settings.
type ConnectionConfig struct {
	Driver   string `mapstructure:"driver"`
	URL      string `mapstructure:"url"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// ORMConfig holds the vendor settings forwarded to the entity manager factory.
type ORMConfig struct {
	SchemaUpdate   string `mapstructure:"schema_update"`
	Dialect        string `mapstructure:"dialect"`
	ShowSQL        string `mapstructure:"show_sql"`
	FormatSQL      string `mapstructure:"format_sql"`
	UseSQLComments string `mapstructure:"use_sql_comments"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string        `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	File  LogFileConfig `mapstructure:"file"`
}

// LogFileConfig enables a rotated log file when Path is set.
type LogFileConfig struct {
	Path       string `mapstructure:"path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// Validate checks the log section. Database values are deliberately left alone.
func (c *LogConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validate log config: %w", err)
	}

	if c.File.Path == "" {
		return nil
	}
	if c.File.MaxSize < 1 || c.File.MaxSize > 100 {
		return errors.New("validate log config: max size must be between 1 and 100 MB")
	}
	if c.File.MaxBackups < 1 || c.File.MaxBackups > 10 {
		return errors.New("validate log config: max backups must be between 1 and 10")
	}
	if c.File.MaxAge < 1 || c.File.MaxAge > 365 {
		return errors.New("validate log config: max age must be between 1 and 365 days")
	}
	return nil
}

// GetString returns the raw value of a configuration key, or "" if unset.
// It makes *Config usable as a dataconfig.PropertySource.
func (c *Config) GetString(key string) string {
	return c.props[key]
}

// IsProduction reports whether Env names a production environment.
func (c *Config) IsProduction() bool {
	return IsProduction(c.Env)
}

// IsProduction reports whether env names a production environment.
func IsProduction(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production"
}

// propertyKeys lists the keys captured into the flat snapshot.
var propertyKeys = []string{
	dataconfig.KeyConnectionDriver,
	dataconfig.KeyConnectionURL,
	dataconfig.KeyConnectionUser,
	dataconfig.KeyConnectionPassword,
	dataconfig.KeySchemaUpdate,
	dataconfig.KeyDialect,
	dataconfig.KeyShowSQL,
	dataconfig.KeyFormatSQL,
	dataconfig.KeyUseSQLComments,
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"db-driver":     dataconfig.KeyConnectionDriver,
	"db-url":        dataconfig.KeyConnectionURL,
	"db-user":       dataconfig.KeyConnectionUser,
	"db-password":   dataconfig.KeyConnectionPassword,
	"schema-update": dataconfig.KeySchemaUpdate,
	"dialect":       dataconfig.KeyDialect,
	"log-level":     "log.level",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
// Database keys have no defaults: an absent key stays absent.
func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")

	v.SetDefault("database.allow_destructive_schema", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file.path", "")
	v.SetDefault("log.file.max_size", 10)
	v.SetDefault("log.file.max_backups", 3)
	v.SetDefault("log.file.max_age", 28)
}

// Load reads configuration and returns a Config.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Snapshot raw strings. GetString keeps "true" as "true" where
	// struct decoding would turn a YAML bool into "1".
	props := make(map[string]string, len(propertyKeys))
	for _, key := range propertyKeys {
		props[key] = v.GetString(key)
	}

	cfg := Config{
		Env: v.GetString("env"),
		Database: DatabaseConfig{
			Connection: ConnectionConfig{
				Driver:   props[dataconfig.KeyConnectionDriver],
				URL:      props[dataconfig.KeyConnectionURL],
				User:     props[dataconfig.KeyConnectionUser],
				Password: props[dataconfig.KeyConnectionPassword],
			},
			ORM: ORMConfig{
				SchemaUpdate:   props[dataconfig.KeySchemaUpdate],
				Dialect:        props[dataconfig.KeyDialect],
				ShowSQL:        props[dataconfig.KeyShowSQL],
				FormatSQL:      props[dataconfig.KeyFormatSQL],
				UseSQLComments: props[dataconfig.KeyUseSQLComments],
			},
			AllowDestructiveSchema: v.GetBool("database.allow_destructive_schema"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
			File: LogFileConfig{
				Path:       v.GetString("log.file.path"),
				MaxSize:    v.GetInt("log.file.max_size"),
				MaxBackups: v.GetInt("log.file.max_backups"),
				MaxAge:     v.GetInt("log.file.max_age"),
			},
		},
		props: props,
	}

	// 6. Validate using go-playground/validator
	if err := cfg.Log.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
