// Package orm provides the entity manager factory: a GORM handle built
// lazily over a data source, an explicit entity set and vendor properties.
//
// Vendor properties use the hibernate.* vocabulary and are interpreted by a
// VendorAdapter on first use:
//
//	hibernate.hbm2ddl.auto      none, validate, update, create, create-drop
//	hibernate.dialect           postgres or sqlite (class-style names accepted)
//	hibernate.show_sql          log every statement
//	hibernate.format_sql        break logged statements across lines
//	hibernate.use_sql_comments  prefix statements with /* operation Entity */
//
// Construction never fails. A bad property, an unreachable database or a
// schema that does not validate is reported by the first Open or Session call.
package orm
