package translate

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/enlightendev/dataconfig"
	"github.com/enlightendev/dataconfig/datasource"
)

// CallbackName is the name under which the hook registers its GORM callbacks.
const CallbackName = "dataconfig:translate_error"

// Hook rewrites vendor and driver errors into the dataconfig failure taxonomy.
type Hook struct{}

// New returns a translation hook.
func New() *Hook {
	return &Hook{}
}

// Translate returns err wrapped in a *dataconfig.DataAccessError when its kind is
// recognised. Unrecognised and already translated errors are returned unchanged.
func (h *Hook) Translate(err error) error {
	if err == nil || dataconfig.IsTranslated(err) {
		return err
	}
	if kind := classify(err); kind != nil {
		return dataconfig.NewDataAccessError(kind, err)
	}
	return err
}

type registrar interface {
	Register(name string, fn func(*gorm.DB)) error
}

// Register installs the hook on every GORM operation of db, so errors returned
// from Create, Find, Update, Delete, Row and Raw are already translated.
func (h *Hook) Register(db *gorm.DB) error {
	cb := db.Callback()
	processors := map[string]registrar{
		"create": cb.Create(),
		"query":  cb.Query(),
		"update": cb.Update(),
		"delete": cb.Delete(),
		"row":    cb.Row(),
		"raw":    cb.Raw(),
	}

	for name, p := range processors {
		if err := p.Register(CallbackName, h.callback); err != nil {
			return fmt.Errorf("register %s callback: %w", name, err)
		}
	}
	return nil
}

func (h *Hook) callback(db *gorm.DB) {
	if db.Error != nil {
		db.Error = h.Translate(db.Error)
	}
}

var invalidUsage = []error{
	gorm.ErrInvalidTransaction,
	gorm.ErrMissingWhereClause,
	gorm.ErrPrimaryKeyRequired,
	gorm.ErrModelValueRequired,
	gorm.ErrInvalidData,
	gorm.ErrInvalidField,
	gorm.ErrInvalidValue,
	gorm.ErrUnsupportedRelation,
	gorm.ErrNotImplemented,
	sql.ErrTxDone,
}

func classify(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, sql.ErrNoRows):
		return dataconfig.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return dataconfig.ErrDuplicateKey
	case errors.Is(err, gorm.ErrForeignKeyViolated), errors.Is(err, gorm.ErrCheckConstraintViolated):
		return dataconfig.ErrIntegrityViolation
	case errors.Is(err, context.DeadlineExceeded):
		return dataconfig.ErrQueryTimeout
	case errors.Is(err, driver.ErrBadConn), errors.Is(err, sql.ErrConnDone),
		errors.Is(err, datasource.ErrUnknownDriver), errors.Is(err, gorm.ErrUnsupportedDriver):
		return dataconfig.ErrResourceFailure
	}

	for _, target := range invalidUsage {
		if errors.Is(err, target) {
			return dataconfig.ErrInvalidUsage
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if kind := classifySQLState(pgErr.Code); kind != nil {
			return kind
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if kind := classifySQLState(string(pqErr.Code)); kind != nil {
			return kind
		}
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return dataconfig.ErrResourceFailure
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		if kind := classifySQLite(sqliteErr); kind != nil {
			return kind
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return dataconfig.ErrQueryTimeout
		}
		return dataconfig.ErrResourceFailure
	}

	return nil
}

// classifySQLState maps a PostgreSQL SQLSTATE code.
func classifySQLState(code string) error {
	switch code {
	case "23505":
		return dataconfig.ErrDuplicateKey
	case "57014":
		return dataconfig.ErrQueryTimeout
	case "40001", "40P01", "55P03":
		return dataconfig.ErrConcurrencyFailure
	case "57P01", "57P02", "57P03":
		return dataconfig.ErrResourceFailure
	}

	if len(code) < 2 {
		return nil
	}
	switch code[:2] {
	case "23", "22":
		return dataconfig.ErrIntegrityViolation
	case "08", "28", "53", "58":
		return dataconfig.ErrResourceFailure
	case "42":
		return dataconfig.ErrInvalidUsage
	}
	return nil
}

// classifySQLite maps a SQLite result code; extended codes carry the primary code in the low byte.
func classifySQLite(err *sqlite.Error) error {
	code := err.Code()
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return dataconfig.ErrDuplicateKey
	}

	switch code & 0xff {
	case sqlite3.SQLITE_CONSTRAINT:
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return dataconfig.ErrDuplicateKey
		}
		return dataconfig.ErrIntegrityViolation
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return dataconfig.ErrConcurrencyFailure
	case sqlite3.SQLITE_INTERRUPT:
		return dataconfig.ErrQueryTimeout
	case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_IOERR, sqlite3.SQLITE_NOTADB,
		sqlite3.SQLITE_FULL, sqlite3.SQLITE_READONLY:
		return dataconfig.ErrResourceFailure
	case sqlite3.SQLITE_ERROR:
		return dataconfig.ErrInvalidUsage
	}
	return nil
}
