package wiring

import (
	"context"
	"log/slog"

	"github.com/enlightendev/dataconfig"
	"github.com/enlightendev/dataconfig/datasource"
	"github.com/enlightendev/dataconfig/domain"
	"github.com/enlightendev/dataconfig/orm"
	"github.com/enlightendev/dataconfig/translate"
	"github.com/enlightendev/dataconfig/tx"
)

// Well-known component names returned by Components.Named.
const (
	NameDataSource           = "dataSource"
	NameEntityManagerFactory = "entityManagerFactory"
	NameTransactionManager   = "transactionManager"
	NameExceptionTranslation = "exceptionTranslation"
)

// Options tune the graph without changing what it is built from.
type Options struct {
	Logger                 *slog.Logger
	Environment            string
	AllowDestructiveSchema bool
}

// Option configures Build.
type Option func(*Options)

// WithLogger sets the logger shared by the factory and the transaction manager.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithEnvironment sets the environment name checked before destructive schema actions.
func WithEnvironment(env string) Option {
	return func(o *Options) {
		o.Environment = env
	}
}

// WithAllowDestructiveSchema permits create and create-drop in production.
func WithAllowDestructiveSchema(allow bool) Option {
	return func(o *Options) {
		o.AllowDestructiveSchema = allow
	}
}

func newOptions(opts []Option) Options {
	o := Options{Logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Components is the wired persistence graph.
type Components struct {
	DataSource           *datasource.DataSource
	VendorProperties     dataconfig.VendorProperties
	EntityManagerFactory *orm.EntityManagerFactory
	TransactionManager   *tx.Manager
	ExceptionTranslation *translate.Hook
}

// Named returns the components under their well-known names.
func (c *Components) Named() map[string]any {
	return map[string]any{
		NameDataSource:           c.DataSource,
		NameEntityManagerFactory: c.EntityManagerFactory,
		NameTransactionManager:   c.TransactionManager,
		NameExceptionTranslation: c.ExceptionTranslation,
	}
}

// Close releases the entity manager factory and, through it, the data source.
func (c *Components) Close(ctx context.Context) error {
	if c.EntityManagerFactory == nil {
		return nil
	}
	return c.EntityManagerFactory.Close(ctx)
}

// BuildConnectionFactory returns a data source for the connection keys of src.
// It does not connect.
func BuildConnectionFactory(src dataconfig.PropertySource) *datasource.DataSource {
	return datasource.New(dataconfig.BuildConnectionParams(src))
}

// BuildVendorProperties returns the five ORM vendor properties of src, verbatim.
func BuildVendorProperties(src dataconfig.PropertySource) dataconfig.VendorProperties {
	return dataconfig.BuildVendorProperties(src)
}

// BuildExceptionTranslationHook returns the hook translating vendor errors.
func BuildExceptionTranslationHook() *translate.Hook {
	return translate.New()
}

// BuildEntityManagerFactory returns a factory over ds for the domain package
// using the GORM vendor adapter and props. The model is built on first use.
func BuildEntityManagerFactory(ds *datasource.DataSource, props dataconfig.VendorProperties, hook *translate.Hook, opts ...Option) *orm.EntityManagerFactory {
	o := newOptions(opts)

	return orm.New(ds, domain.EntitySet(), orm.GormVendorAdapter{}, props,
		orm.WithExceptionTranslation(hook),
		orm.WithLogger(o.Logger),
		orm.WithEnvironment(o.Environment),
		orm.WithAllowDestructiveSchema(o.AllowDestructiveSchema),
	)
}

// BuildTransactionManager returns a transaction manager holding emf.
func BuildTransactionManager(emf *orm.EntityManagerFactory, hook *translate.Hook, opts ...Option) *tx.Manager {
	o := newOptions(opts)

	return tx.New(emf,
		tx.WithExceptionTranslation(hook),
		tx.WithLogger(o.Logger),
	)
}

// Build wires the whole graph in dependency order. It never fails and never
// touches the database; configuration and connectivity errors surface on first use.
func Build(src dataconfig.PropertySource, opts ...Option) *Components {
	hook := BuildExceptionTranslationHook()
	ds := BuildConnectionFactory(src)
	props := BuildVendorProperties(src)
	emf := BuildEntityManagerFactory(ds, props, hook, opts...)
	manager := BuildTransactionManager(emf, hook, opts...)

	return &Components{
		DataSource:           ds,
		VendorProperties:     props,
		EntityManagerFactory: emf,
		TransactionManager:   manager,
		ExceptionTranslation: hook,
	}
}
