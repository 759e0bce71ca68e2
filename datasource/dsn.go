package datasource

import (
	"fmt"
	"net/url"
	"strings"
)

// Family groups drivers that speak the same SQL dialect.
type Family string

const (
	FamilyUnknown  Family = ""
	FamilyPostgres Family = "postgres"
	FamilySQLite   Family = "sqlite"
)

// driverAliases maps JDBC-style driver class names onto registered database/sql drivers.
var driverAliases = map[string]string{
	"org.postgresql.driver": "pgx",
	"postgresql":            "pgx",
	"org.sqlite.jdbc":       "sqlite",
}

var driverFamilies = map[string]Family{
	"pgx":      FamilyPostgres,
	"pgx/v5":   FamilyPostgres,
	"postgres": FamilyPostgres,
	"sqlite":   FamilySQLite,
	"sqlite3":  FamilySQLite,
}

// ResolveDriverName turns a configured driver identifier into a database/sql driver name.
// Identifiers without an alias are returned unchanged.
func ResolveDriverName(id string) string {
	id = strings.TrimSpace(id)
	if alias, ok := driverAliases[strings.ToLower(id)]; ok {
		return alias
	}
	return id
}

// FamilyOf returns the SQL family of a database/sql driver name.
func FamilyOf(driverName string) Family {
	return driverFamilies[driverName]
}

// buildDSN composes the string handed to the driver.
func buildDSN(driverName, rawURL, username, password string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)

	switch FamilyOf(driverName) {
	case FamilyPostgres:
		return postgresDSN(strings.TrimPrefix(rawURL, "jdbc:"), username, password)
	case FamilySQLite:
		dsn := strings.TrimPrefix(rawURL, "jdbc:sqlite:")
		return strings.TrimPrefix(dsn, "jdbc:"), nil
	default:
		return rawURL, nil
	}
}

func postgresDSN(rawURL, username, password string) (string, error) {
	if strings.HasPrefix(rawURL, "postgres://") || strings.HasPrefix(rawURL, "postgresql://") {
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", fmt.Errorf("parse postgres url: %w", err)
		}
		if username != "" || password != "" {
			u.User = mergeUserinfo(u.User, username, password)
		}
		return u.String(), nil
	}

	// keyword/value form
	parts := make([]string, 0, 3)
	if rawURL != "" {
		parts = append(parts, rawURL)
	}
	if username != "" {
		parts = append(parts, "user="+quoteValue(username))
	}
	if password != "" {
		parts = append(parts, "password="+quoteValue(password))
	}
	return strings.Join(parts, " "), nil
}

// mergeUserinfo overrides the URL userinfo with the configured credentials,
// keeping whichever part was not configured.
func mergeUserinfo(embedded *url.Userinfo, username, password string) *url.Userinfo {
	var embeddedPassword string
	var hasPassword bool
	if embedded != nil {
		if username == "" {
			username = embedded.Username()
		}
		embeddedPassword, hasPassword = embedded.Password()
	}

	switch {
	case password != "":
		return url.UserPassword(username, password)
	case hasPassword:
		return url.UserPassword(username, embeddedPassword)
	default:
		return url.User(username)
	}
}

// quoteValue quotes a keyword/value DSN value.
func quoteValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
