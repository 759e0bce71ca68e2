package orm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"gorm.io/gorm"

	"github.com/enlightendev/dataconfig"
	"github.com/enlightendev/dataconfig/config"
	"github.com/enlightendev/dataconfig/datasource"
)

// ErrClosed is returned by a factory after Close.
var ErrClosed = errors.New("entity manager factory is closed")

// ExceptionTranslator rewrites data access errors and can install itself on a GORM handle.
type ExceptionTranslator interface {
	Translate(err error) error
	Register(db *gorm.DB) error
}

// EntityManagerFactory builds the ORM metadata model on first use and mints
// sessions bound to it. Construction never touches the database.
type EntityManagerFactory struct {
	dataSource *datasource.DataSource
	entities   dataconfig.EntitySet
	adapter    VendorAdapter
	props      dataconfig.VendorProperties

	translator       ExceptionTranslator
	logger           *slog.Logger
	env              string
	allowDestructive bool

	mu        sync.Mutex
	db        *gorm.DB
	sqlDB     *sql.DB
	settings  Settings
	metamodel []EntityType
	closed    bool
}

// Option configures an EntityManagerFactory.
type Option func(*EntityManagerFactory)

// WithExceptionTranslation registers t on the GORM handle when the model is built.
func WithExceptionTranslation(t ExceptionTranslator) Option {
	return func(f *EntityManagerFactory) {
		f.translator = t
	}
}

// WithLogger sets the logger used for lifecycle and SQL logging.
func WithLogger(logger *slog.Logger) Option {
	return func(f *EntityManagerFactory) {
		f.logger = logger
	}
}

// WithEnvironment sets the environment name used by the destructive schema guard.
func WithEnvironment(env string) Option {
	return func(f *EntityManagerFactory) {
		f.env = env
	}
}

// WithAllowDestructiveSchema permits create and create-drop in production.
func WithAllowDestructiveSchema(allow bool) Option {
	return func(f *EntityManagerFactory) {
		f.allowDestructive = allow
	}
}

// New returns a factory over ds for the given entities. Nothing is validated here.
func New(ds *datasource.DataSource, entities dataconfig.EntitySet, adapter VendorAdapter, props dataconfig.VendorProperties, opts ...Option) *EntityManagerFactory {
	f := &EntityManagerFactory{
		dataSource: ds,
		entities: dataconfig.EntitySet{
			Package: entities.Package,
			Models:  slices.Clone(entities.Models),
		},
		adapter: adapter,
		props:   props,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

func (f *EntityManagerFactory) DataSource() *datasource.DataSource {
	return f.dataSource
}

// PackagesToScan returns the entity package the factory was configured with.
func (f *EntityManagerFactory) PackagesToScan() []string {
	return []string{f.entities.Package}
}

func (f *EntityManagerFactory) Entities() dataconfig.EntitySet {
	return dataconfig.EntitySet{
		Package: f.entities.Package,
		Models:  slices.Clone(f.entities.Models),
	}
}

func (f *EntityManagerFactory) Adapter() VendorAdapter {
	return f.adapter
}

func (f *EntityManagerFactory) Properties() dataconfig.VendorProperties {
	return f.props
}

// Metamodel returns the parsed entity types, or nil before the first successful Open.
func (f *EntityManagerFactory) Metamodel() []EntityType {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.metamodel)
}

// Open builds the metadata model once and returns the root GORM handle.
// A failed build is not cached: the next call tries again.
func (f *EntityManagerFactory) Open(ctx context.Context) (*gorm.DB, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, ErrClosed
	}
	if f.db != nil {
		return f.db, nil
	}

	if err := f.build(ctx); err != nil {
		f.logger.Error("build entity manager factory", "package", f.entities.Package, "error", err)
		return nil, f.translate(err)
	}

	f.logger.Info("entity manager factory ready",
		"package", f.entities.Package,
		"entities", len(f.metamodel),
		"schema_action", f.settings.SchemaAction,
	)
	return f.db, nil
}

// Session returns a new GORM session bound to the model and ctx.
func (f *EntityManagerFactory) Session(ctx context.Context) (*gorm.DB, error) {
	db, err := f.Open(ctx)
	if err != nil {
		return nil, err
	}
	return db.Session(&gorm.Session{NewDB: true, Context: ctx}), nil
}

// Close drops the schema under create-drop and closes the connection handle.
// Closing an unopened factory only marks it closed.
func (f *EntityManagerFactory) Close(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	if f.db == nil {
		return nil
	}

	var errs []error
	if f.settings.SchemaAction == dataconfig.SchemaCreateDrop {
		if err := dropSchema(f.db.WithContext(ctx), f.metamodel); err != nil {
			errs = append(errs, fmt.Errorf("drop schema: %w", err))
		}
	}
	if err := f.sqlDB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}

	f.db = nil
	f.sqlDB = nil
	return errors.Join(errs...)
}

func (f *EntityManagerFactory) build(ctx context.Context) error {
	settings, err := ParseSettings(f.props)
	if err != nil {
		return fmt.Errorf("parse vendor properties: %w", err)
	}

	if settings.SchemaAction.Destructive() && config.IsProduction(f.env) && !f.allowDestructive {
		return fmt.Errorf("%w: %s in environment %s", ErrDestructiveSchemaAction, settings.SchemaAction, f.env)
	}

	sqlDB := f.dataSource.OpenDB()
	db, metamodel, err := f.open(ctx, sqlDB, settings)
	if err != nil {
		_ = sqlDB.Close()
		return err
	}

	f.db = db
	f.sqlDB = sqlDB
	f.settings = settings
	f.metamodel = metamodel
	return nil
}

func (f *EntityManagerFactory) open(ctx context.Context, sqlDB *sql.DB, settings Settings) (*gorm.DB, []EntityType, error) {
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, nil, fmt.Errorf("connect %s: %w", f.dataSource.DriverName(), err)
	}

	dialector, err := f.adapter.Dialector(settings.Dialect, f.dataSource.Family(), sqlDB)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve dialect: %w", err)
	}

	db, err := gorm.Open(dialector, f.adapter.Config(settings, f.logger))
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", f.adapter.Name(), err)
	}

	if settings.UseSQLComments {
		if err := registerSQLComments(db); err != nil {
			return nil, nil, fmt.Errorf("register sql comments: %w", err)
		}
	}

	if f.translator != nil {
		if err := f.translator.Register(db); err != nil {
			return nil, nil, fmt.Errorf("register exception translation: %w", err)
		}
	}

	metamodel, err := parseEntities(db, f.entities.Models)
	if err != nil {
		return nil, nil, err
	}

	if err := reconcileSchema(ctx, db, settings.SchemaAction, metamodel); err != nil {
		return nil, nil, err
	}

	return db, metamodel, nil
}

func (f *EntityManagerFactory) translate(err error) error {
	if f.translator == nil {
		return err
	}
	return f.translator.Translate(err)
}
