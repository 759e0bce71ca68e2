package orm

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/enlightendev/dataconfig/datasource"
)

// Dialects understood by the GORM adapter.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// ErrUnsupportedDialect is returned when a dialect name maps to no GORM dialector.
var ErrUnsupportedDialect = errors.New("unsupported dialect")

// VendorAdapter turns vendor settings into a GORM dialector and configuration.
type VendorAdapter interface {
	Name() string
	Dialector(dialect string, family datasource.Family, conn gorm.ConnPool) (gorm.Dialector, error)
	Config(settings Settings, logger *slog.Logger) *gorm.Config
}

// GormVendorAdapter is the GORM implementation of VendorAdapter.
type GormVendorAdapter struct{}

var _ VendorAdapter = GormVendorAdapter{}

func (GormVendorAdapter) Name() string {
	return "gorm"
}

// Dialector returns a dialector bound to conn. An empty dialect is inferred
// from the driver family of the data source.
func (GormVendorAdapter) Dialector(dialect string, family datasource.Family, conn gorm.ConnPool) (gorm.Dialector, error) {
	name, err := ResolveDialect(dialect, family)
	if err != nil {
		return nil, err
	}

	switch name {
	case DialectPostgres:
		return postgres.New(postgres.Config{Conn: conn}), nil
	case DialectSQLite:
		return sqlite.Dialector{DriverName: "sqlite", Conn: conn}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDialect, dialect)
	}
}

// Config returns the GORM configuration for settings. The factory pings the
// connection itself, so GORM's automatic ping is disabled.
func (GormVendorAdapter) Config(settings Settings, logger *slog.Logger) *gorm.Config {
	return &gorm.Config{
		Logger:               NewLogger(logger, settings.ShowSQL, settings.FormatSQL),
		DisableAutomaticPing: true,
	}
}

// ResolveDialect normalises a dialect name. Fully qualified class-style names
// such as org.hibernate.dialect.PostgreSQL95Dialect are reduced to their last
// segment, lowercased and stripped of the "dialect" suffix.
func ResolveDialect(dialect string, family datasource.Family) (string, error) {
	name := strings.TrimSpace(dialect)
	if name == "" {
		switch family {
		case datasource.FamilyPostgres:
			return DialectPostgres, nil
		case datasource.FamilySQLite:
			return DialectSQLite, nil
		default:
			return "", fmt.Errorf("%w: cannot infer dialect for an unknown driver", ErrUnsupportedDialect)
		}
	}

	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(strings.ToLower(name), "dialect")

	switch {
	case strings.HasPrefix(name, "postgres"):
		return DialectPostgres, nil
	case strings.HasPrefix(name, "sqlite"):
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedDialect, dialect)
	}
}
