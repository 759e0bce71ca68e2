package dataconfig

import "errors"

var (
	// ErrNotFound is returned when a query expected a row and got none
	ErrNotFound = errors.New("not found")
	// ErrDuplicateKey is returned when an insert or update violates a unique constraint
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrIntegrityViolation is returned when a foreign key, not-null or check constraint fails
	ErrIntegrityViolation = errors.New("data integrity violation")
	// ErrResourceFailure is returned when the database cannot be reached or the driver is unusable
	ErrResourceFailure = errors.New("data access resource failure")
	// ErrQueryTimeout is returned when a statement is cancelled by a deadline
	ErrQueryTimeout = errors.New("query timeout")
	// ErrConcurrencyFailure is returned on serialization failures, deadlocks and lock contention
	ErrConcurrencyFailure = errors.New("concurrency failure")
	// ErrInvalidUsage is returned when the data access API or SQL is used incorrectly
	ErrInvalidUsage = errors.New("invalid data access usage")
)

// DataAccessError pairs a translated failure kind with the vendor error it came from.
// errors.Is matches both the kind and anything in the cause chain.
type DataAccessError struct {
	Kind error
	Err  error
}

func (e *DataAccessError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Err.Error()
}

func (e *DataAccessError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// NewDataAccessError wraps err with the given kind.
func NewDataAccessError(kind, err error) *DataAccessError {
	return &DataAccessError{Kind: kind, Err: err}
}

// IsTranslated reports whether err already carries a translated kind.
func IsTranslated(err error) bool {
	var dae *DataAccessError
	return errors.As(err, &dae)
}
