// Package datasource provides the connection factory of the persistence wiring.
//
// A DataSource stores a driver identifier, a URL and credentials and opens a
// new physical connection each time one is requested. It implements
// driver.Connector, so it plugs into database/sql directly:
//
//	ds := datasource.New(dataconfig.ConnectionParams{
//	    Driver:   "org.postgresql.Driver",
//	    URL:      "jdbc:postgresql://localhost:5432/app",
//	    Username: "app",
//	    Password: "secret",
//	})
//
//	db := ds.OpenDB() // no idle connections are kept
//	defer db.Close()
//
// # Drivers
//
// The pgx ("pgx"), lib/pq ("postgres") and modernc SQLite ("sqlite") drivers
// are registered by this package. JDBC-style class names are accepted as
// aliases:
//
//   - org.postgresql.Driver → pgx
//   - org.sqlite.JDBC → sqlite
//
// Any other name registered with database/sql can be used as is.
//
// # URLs
//
// A leading "jdbc:" is stripped for known drivers. PostgreSQL credentials are
// merged into URL or keyword/value connection strings; SQLite ignores them.
// Nothing is checked until Connect is called.
package datasource
