package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/enlightendev/dataconfig"
	"github.com/enlightendev/dataconfig/config"
	"github.com/enlightendev/dataconfig/wiring"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("production writes json", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer

		logger, closer := newLogger(&config.Config{Env: "prod", Log: config.LogConfig{Level: "info"}}, &buf)
		logger.Info("hello", "k", "v")

		require.NoError(t, closer())
		assert.Contains(t, buf.String(), `"msg":"hello"`)
		assert.Contains(t, buf.String(), `"ts":`)
	})

	t.Run("level filters", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer

		logger, _ := newLogger(&config.Config{Env: "prod", Log: config.LogConfig{Level: "error"}}, &buf)
		logger.Warn("quiet")

		assert.Empty(t, buf.String())
	})

	t.Run("dev writes text", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer

		logger, _ := newLogger(&config.Config{Env: "dev", Log: config.LogConfig{Level: "debug"}}, &buf)
		logger.Debug("details")

		assert.Contains(t, buf.String(), "details")
		assert.NotContains(t, buf.String(), `"msg"`)
	})

	t.Run("file output", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		path := filepath.Join(t.TempDir(), "logs", "dataconfig.log")

		logger, closer := newLogger(&config.Config{Log: config.LogConfig{
			Level: "info",
			File:  config.LogFileConfig{Path: path, MaxSize: 1, MaxBackups: 1, MaxAge: 1},
		}}, &buf)
		logger.Info("to file")
		require.NoError(t, closer())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"to file"`)
		assert.Empty(t, buf.String())
	})
}

func TestWriteProperties(t *testing.T) {
	t.Parallel()

	src := dataconfig.MapSource{
		dataconfig.KeyConnectionDriver:   "pgx",
		dataconfig.KeyConnectionURL:      "postgres://db/app",
		dataconfig.KeyConnectionUser:     "app",
		dataconfig.KeyConnectionPassword: "s3cret",
		dataconfig.KeySchemaUpdate:       "validate",
	}
	c := wiring.Build(src)

	var masked bytes.Buffer
	require.NoError(t, writeProperties(&masked, "dev", c, false))
	assert.NotContains(t, masked.String(), "s3cret")

	var view propertiesView
	require.NoError(t, yaml.Unmarshal(masked.Bytes(), &view))
	assert.Equal(t, secretMask, view.Connection.Password)
	assert.Equal(t, "pgx", view.Connection.Driver)
	assert.Equal(t, "validate", view.Vendor[dataconfig.PropSchemaUpdate])
	assert.Len(t, view.Vendor, 5)

	var shown bytes.Buffer
	require.NoError(t, writeProperties(&shown, "dev", c, true))
	assert.Contains(t, shown.String(), "s3cret")
}

func TestWriteConfigFile_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := fileConfig{
		Env: "prod",
		Database: fileDatabase{
			Connection: fileConnection{Driver: "org.postgresql.Driver", URL: "jdbc:postgresql://db:5432/app", User: "app", Password: "pw"},
			Hibernate:  fileHibernate{SchemaUpdate: "validate", ShowSQL: true},
		},
	}

	require.NoError(t, writeConfigFile(path, want))

	cfg, err := config.Load([]string{path}, nil)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "org.postgresql.Driver", cfg.GetString(dataconfig.KeyConnectionDriver))
	assert.Equal(t, "jdbc:postgresql://db:5432/app", cfg.GetString(dataconfig.KeyConnectionURL))
	assert.Equal(t, "pw", cfg.GetString(dataconfig.KeyConnectionPassword))
	assert.Equal(t, "validate", cfg.GetString(dataconfig.KeySchemaUpdate))
	assert.Equal(t, "true", cfg.GetString(dataconfig.KeyShowSQL))
	assert.Equal(t, "false", cfg.GetString(dataconfig.KeyFormatSQL))
	assert.Equal(t, "", cfg.GetString(dataconfig.KeyDialect))
}

func TestCheck_SQLite(t *testing.T) {
	t.Parallel()

	c := wiring.Build(dataconfig.MapSource{
		dataconfig.KeyConnectionDriver: "sqlite",
		dataconfig.KeyConnectionURL:    "file:" + filepath.Join(t.TempDir(), "check.db") + "?_pragma=foreign_keys(1)",
		dataconfig.KeySchemaUpdate:     "update",
	})
	t.Cleanup(func() { _ = c.Close(context.Background()) })

	var out bytes.Buffer
	require.NoError(t, check(t.Context(), c, &out))

	assert.Contains(t, out.String(), "accounts")
	assert.Contains(t, out.String(), "notes")
	assert.True(t, strings.HasSuffix(out.String(), "OK\n"))
}

func TestCheck_ValidateFailsOnEmptyDatabase(t *testing.T) {
	t.Parallel()

	c := wiring.Build(dataconfig.MapSource{
		dataconfig.KeyConnectionDriver: "sqlite",
		dataconfig.KeyConnectionURL:    filepath.Join(t.TempDir(), "empty.db"),
		dataconfig.KeySchemaUpdate:     "validate",
	})
	t.Cleanup(func() { _ = c.Close(context.Background()) })

	var out bytes.Buffer
	err := check(t.Context(), c, &out)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing tables")
	assert.Empty(t, out.String())
}
