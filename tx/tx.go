package tx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	"github.com/enlightendev/dataconfig/orm"
)

// ErrTransactionCompleted is returned when a transaction is committed or
// rolled back a second time.
var ErrTransactionCompleted = errors.New("transaction already completed")

// Translator rewrites data access errors.
type Translator interface {
	Translate(err error) error
}

// Manager demarcates transactions over sessions of one entity manager factory.
type Manager struct {
	emf        *orm.EntityManagerFactory
	translator Translator
	logger     *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithExceptionTranslation translates begin, commit and rollback failures with t.
func WithExceptionTranslation(t Translator) Option {
	return func(m *Manager) {
		m.translator = t
	}
}

// WithLogger sets the logger used for transaction failures.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// New returns a manager bound to emf. It does not open the factory.
func New(emf *orm.EntityManagerFactory, opts ...Option) *Manager {
	m := &Manager{
		emf:    emf,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// EntityManagerFactory returns the factory the manager was built with.
func (m *Manager) EntityManagerFactory() *orm.EntityManagerFactory {
	return m.emf
}

// Begin starts a transaction on a new session.
func (m *Manager) Begin(ctx context.Context, opts ...*sql.TxOptions) (*Transaction, error) {
	session, err := m.emf.Session(ctx)
	if err != nil {
		return nil, err
	}

	db := session.Begin(opts...)
	if db.Error != nil {
		return nil, m.translate(fmt.Errorf("begin transaction: %w", db.Error))
	}

	return &Transaction{db: db, manager: m}, nil
}

// InTransaction runs fn inside a transaction bound to the context passed to it.
// The transaction commits when fn returns nil and rolls back when fn returns an
// error or panics. A call made with a context that already carries a
// transaction joins it.
func (m *Manager) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := FromContext(ctx); ok {
		return fn(ctx)
	}

	t, err := m.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := t.Rollback(); rbErr != nil {
				m.logger.Error("rollback after panic", "error", rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(WithTransaction(ctx, t)); err != nil {
		if rbErr := t.Rollback(); rbErr != nil && !errors.Is(rbErr, ErrTransactionCompleted) {
			m.logger.Error("rollback", "error", rbErr)
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	return t.Commit()
}

// Session returns the session of the transaction carried by ctx, or a new
// session outside any transaction.
func (m *Manager) Session(ctx context.Context) (*gorm.DB, error) {
	if t, ok := FromContext(ctx); ok {
		return t.db.WithContext(ctx), nil
	}
	return m.emf.Session(ctx)
}

func (m *Manager) translate(err error) error {
	if m.translator == nil {
		return err
	}
	return m.translator.Translate(err)
}

// Transaction is one database transaction. It is not safe to share across goroutines
// for queries, but completing it from several goroutines is serialised.
type Transaction struct {
	db      *gorm.DB
	manager *Manager

	mu   sync.Mutex
	done bool
}

// Session returns the GORM session running inside the transaction.
func (t *Transaction) Session() *gorm.DB {
	return t.db
}

// Commit commits the transaction.
func (t *Transaction) Commit() error {
	if err := t.complete(); err != nil {
		return err
	}
	if err := t.db.Commit().Error; err != nil {
		return t.manager.translate(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// Rollback aborts the transaction.
func (t *Transaction) Rollback() error {
	if err := t.complete(); err != nil {
		return err
	}
	if err := t.db.Rollback().Error; err != nil {
		return t.manager.translate(fmt.Errorf("rollback transaction: %w", err))
	}
	return nil
}

func (t *Transaction) complete() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return ErrTransactionCompleted
	}
	t.done = true
	return nil
}

// Done reports whether the transaction was committed or rolled back.
func (t *Transaction) Done() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

type txKey struct{}

// WithTransaction returns a context carrying t.
func WithTransaction(ctx context.Context, t *Transaction) context.Context {
	return context.WithValue(ctx, txKey{}, t)
}

// FromContext returns the transaction carried by ctx, if any.
func FromContext(ctx context.Context) (*Transaction, bool) {
	t, ok := ctx.Value(txKey{}).(*Transaction)
	return t, ok && t != nil
}
