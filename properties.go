package dataconfig

import (
	"maps"
	"slices"
)

// Configuration keys read from the process-wide configuration source.
const (
	KeyConnectionDriver   = "database.connection.driver"
	KeyConnectionURL      = "database.connection.url"
	KeyConnectionUser     = "database.connection.user"
	KeyConnectionPassword = "database.connection.password"

	KeySchemaUpdate   = "database.hibernate.schema_update"
	KeyDialect        = "database.hibernate.dialect"
	KeyShowSQL        = "database.hibernate.show_sql"
	KeyFormatSQL      = "database.hibernate.format_sql"
	KeyUseSQLComments = "database.hibernate.use_sql_comments"
)

// Vendor property names understood by the ORM vendor adapter.
const (
	PropSchemaUpdate   = "hibernate.hbm2ddl.auto"
	PropDialect        = "hibernate.dialect"
	PropShowSQL        = "hibernate.show_sql"
	PropFormatSQL      = "hibernate.format_sql"
	PropUseSQLComments = "hibernate.use_sql_comments"
)

// vendorPropertyKeys maps each vendor property to the configuration key it is read from.
var vendorPropertyKeys = map[string]string{
	PropSchemaUpdate:   KeySchemaUpdate,
	PropDialect:        KeyDialect,
	PropShowSQL:        KeyShowSQL,
	PropFormatSQL:      KeyFormatSQL,
	PropUseSQLComments: KeyUseSQLComments,
}

// PropertySource supplies string configuration values by key.
// Missing keys yield the empty string. *viper.Viper satisfies it.
type PropertySource interface {
	GetString(key string) string
}

// MapSource is a PropertySource backed by a plain map.
type MapSource map[string]string

// GetString returns the value for key, or "" when absent.
func (m MapSource) GetString(key string) string {
	return m[key]
}

// ConnectionParams holds what is needed to open a physical database connection.
type ConnectionParams struct {
	Driver   string
	URL      string
	Username string
	Password string
}

// BuildConnectionParams reads the connection keys from src verbatim.
// Nothing is validated here; missing values surface when a connection is opened.
func BuildConnectionParams(src PropertySource) ConnectionParams {
	return ConnectionParams{
		Driver:   src.GetString(KeyConnectionDriver),
		URL:      src.GetString(KeyConnectionURL),
		Username: src.GetString(KeyConnectionUser),
		Password: src.GetString(KeyConnectionPassword),
	}
}

// VendorProperties is an immutable snapshot of ORM vendor settings.
type VendorProperties struct {
	values map[string]string
}

// NewVendorProperties copies values into a new snapshot.
func NewVendorProperties(values map[string]string) VendorProperties {
	return VendorProperties{values: maps.Clone(values)}
}

// BuildVendorProperties forwards the five ORM settings from src without interpreting them.
func BuildVendorProperties(src PropertySource) VendorProperties {
	values := make(map[string]string, len(vendorPropertyKeys))
	for prop, key := range vendorPropertyKeys {
		values[prop] = src.GetString(key)
	}
	return VendorProperties{values: values}
}

// Get returns the value of a vendor property.
func (p VendorProperties) Get(name string) (string, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Len returns the number of properties.
func (p VendorProperties) Len() int {
	return len(p.values)
}

// Keys returns the property names in sorted order.
func (p VendorProperties) Keys() []string {
	return slices.Sorted(maps.Keys(p.values))
}

// Map returns a copy of the properties.
func (p VendorProperties) Map() map[string]string {
	if p.values == nil {
		return map[string]string{}
	}
	return maps.Clone(p.values)
}
