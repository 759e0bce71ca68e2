package orm

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"gorm.io/gorm"

	"github.com/enlightendev/dataconfig"
)

var (
	// ErrDestructiveSchemaAction is returned when create or create-drop is
	// requested in a production environment without explicit permission.
	ErrDestructiveSchemaAction = errors.New("destructive schema action refused")
	// ErrSchemaValidation is returned when validate finds the database out of
	// line with the entity model.
	ErrSchemaValidation = errors.New("schema validation failed")
)

// EntityType describes one mapped entity of the metadata model.
type EntityType struct {
	Name       string
	Table      string
	Columns    []string
	PrimaryKey []string
	Model      any
}

// parseEntities parses every model and returns the metadata model in input order.
func parseEntities(db *gorm.DB, models []any) ([]EntityType, error) {
	types := make([]EntityType, 0, len(models))
	for _, model := range models {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse entity %T: %w", model, err)
		}

		sch := stmt.Schema
		types = append(types, EntityType{
			Name:       sch.Name,
			Table:      sch.Table,
			Columns:    slices.Clone(sch.DBNames),
			PrimaryKey: slices.Clone(sch.PrimaryFieldDBNames),
			Model:      model,
		})
	}
	return types, nil
}

func models(types []EntityType) []any {
	out := make([]any, len(types))
	for i, t := range types {
		out[i] = t.Model
	}
	return out
}

// reconcileSchema brings the database in line with the metadata model.
func reconcileSchema(ctx context.Context, db *gorm.DB, action dataconfig.SchemaAction, types []EntityType) error {
	db = db.WithContext(ctx)

	switch action {
	case dataconfig.SchemaNone, "":
		return nil
	case dataconfig.SchemaValidate:
		return validateSchema(db, types)
	case dataconfig.SchemaUpdate:
		if err := db.AutoMigrate(models(types)...); err != nil {
			return fmt.Errorf("update schema: %w", err)
		}
		return nil
	case dataconfig.SchemaCreate, dataconfig.SchemaCreateDrop:
		if err := dropSchema(db, types); err != nil {
			return err
		}
		if err := db.AutoMigrate(models(types)...); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("reconcile schema: unknown action %q", action)
	}
}

// dropSchema drops entity tables in reverse order so dependents go first.
func dropSchema(db *gorm.DB, types []EntityType) error {
	m := db.Migrator()
	for i := len(types) - 1; i >= 0; i-- {
		if err := m.DropTable(types[i].Model); err != nil {
			return fmt.Errorf("drop table %s: %w", types[i].Table, err)
		}
	}
	return nil
}

func validateSchema(db *gorm.DB, types []EntityType) error {
	m := db.Migrator()

	var missingTables []string
	var missingColumns []string

	for _, t := range types {
		if !m.HasTable(t.Model) {
			missingTables = append(missingTables, t.Table)
			continue
		}
		for _, col := range t.Columns {
			if !m.HasColumn(t.Model, col) {
				missingColumns = append(missingColumns, t.Table+"."+col)
			}
		}
	}

	if len(missingTables) == 0 && len(missingColumns) == 0 {
		return nil
	}

	var msg strings.Builder
	if len(missingTables) > 0 {
		fmt.Fprintf(&msg, "missing tables: %s", strings.Join(missingTables, ", "))
	}
	if len(missingColumns) > 0 {
		if msg.Len() > 0 {
			msg.WriteString("; ")
		}
		fmt.Fprintf(&msg, "missing columns: %s", strings.Join(missingColumns, ", "))
	}
	return fmt.Errorf("%w: %s", ErrSchemaValidation, msg.String())
}
