package datasource

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"slices"

	"github.com/enlightendev/dataconfig"

	_ "github.com/jackc/pgx/v5/stdlib" // "pgx" driver
	_ "github.com/lib/pq"              // "postgres" driver
	_ "modernc.org/sqlite"             // "sqlite" driver
)

// DataSource opens physical connections from fixed connection parameters.
// It keeps no connections of its own.
type DataSource struct {
	params dataconfig.ConnectionParams
}

var _ driver.Connector = (*DataSource)(nil)

// New stores params. No connection is attempted and nothing is validated.
func New(params dataconfig.ConnectionParams) *DataSource {
	return &DataSource{params: params}
}

// Params returns the parameters the data source was built with.
func (d *DataSource) Params() dataconfig.ConnectionParams {
	return d.params
}

// DriverName returns the database/sql driver name the configured identifier resolves to.
func (d *DataSource) DriverName() string {
	return ResolveDriverName(d.params.Driver)
}

// Family returns the SQL family of the configured driver.
func (d *DataSource) Family() Family {
	return FamilyOf(d.DriverName())
}

// DSN returns the connection string passed to the driver.
func (d *DataSource) DSN() (string, error) {
	return buildDSN(d.DriverName(), d.params.URL, d.params.Username, d.params.Password)
}

// Connect opens a new physical connection.
func (d *DataSource) Connect(ctx context.Context) (driver.Conn, error) {
	drv, err := lookupDriver(d.DriverName())
	if err != nil {
		return nil, err
	}

	dsn, err := d.DSN()
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if dc, ok := drv.(driver.DriverContext); ok {
		connector, err := dc.OpenConnector(dsn)
		if err != nil {
			return nil, fmt.Errorf("connect: %w", err)
		}
		conn, err := connector.Connect(ctx)
		if err != nil {
			return nil, fmt.Errorf("connect: %w", err)
		}
		return conn, nil
	}

	conn, err := drv.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return conn, nil
}

// Driver returns the underlying driver. An unknown driver yields a driver whose
// Open always fails, so the error surfaces on first use.
func (d *DataSource) Driver() driver.Driver {
	drv, err := lookupDriver(d.DriverName())
	if err != nil {
		return unavailableDriver{err: err}
	}
	return drv
}

// OpenDB returns a handle that opens a new physical connection for every
// request and closes it afterwards. The caller owns the handle.
func (d *DataSource) OpenDB() *sql.DB {
	db := sql.OpenDB(d)
	db.SetMaxIdleConns(0)
	return db
}

// ErrUnknownDriver is returned when no database/sql driver matches the configured identifier.
var ErrUnknownDriver = errors.New("unknown driver")

func lookupDriver(name string) (driver.Driver, error) {
	if name == "" {
		return nil, fmt.Errorf("lookup driver: %w: no driver configured", ErrUnknownDriver)
	}

	if !slices.Contains(sql.Drivers(), name) {
		return nil, fmt.Errorf("lookup driver %q: %w", name, ErrUnknownDriver)
	}

	// sql.Open only resolves the registered driver; it does not dial.
	db, err := sql.Open(name, "")
	if err != nil {
		return nil, fmt.Errorf("open driver %q: %w", name, err)
	}
	defer func() { _ = db.Close() }()

	return db.Driver(), nil
}

type unavailableDriver struct {
	err error
}

func (u unavailableDriver) Open(string) (driver.Conn, error) {
	return nil, u.err
}
