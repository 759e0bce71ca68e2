// Package config loads the process-wide configuration consumed by the
// persistence wiring.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging. Only the log section is validated; database values are
// forwarded as raw strings and interpreted lazily by the components that use them.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (DATACONFIG_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// *Config is a dataconfig.PropertySource
//	components := wiring.Build(cfg)
//
// # Environment Variables
//
// All config keys map to environment variables with DATACONFIG_ prefix:
//   - database.connection.url → DATACONFIG_DATABASE_CONNECTION_URL
//   - database.hibernate.schema_update → DATACONFIG_DATABASE_HIBERNATE_SCHEMA_UPDATE
//   - log.level → DATACONFIG_LOG_LEVEL
package config
