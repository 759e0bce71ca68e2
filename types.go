package dataconfig

import (
	"fmt"
	"strings"
)

// EntitySet is the explicit list of persistent types owned by a domain package.
type EntitySet struct {
	// Package is the import path of the package that defines the models.
	Package string
	// Models holds one pointer to a zero value per persistent type.
	Models []any
}

// SchemaAction selects what happens to the database schema when the model is built.
type SchemaAction string

const (
	SchemaNone       SchemaAction = "none"
	SchemaValidate   SchemaAction = "validate"
	SchemaUpdate     SchemaAction = "update"
	SchemaCreate     SchemaAction = "create"
	SchemaCreateDrop SchemaAction = "create-drop"
)

func (a SchemaAction) IsValid() bool {
	switch a {
	case SchemaNone, SchemaValidate, SchemaUpdate, SchemaCreate, SchemaCreateDrop:
		return true
	default:
		return false
	}
}

// Destructive reports whether the action drops existing tables.
func (a SchemaAction) Destructive() bool {
	return a == SchemaCreate || a == SchemaCreateDrop
}

// ParseSchemaAction parses a schema update mode. The empty string means SchemaNone.
func ParseSchemaAction(s string) (SchemaAction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SchemaNone, nil
	}
	action := SchemaAction(s)
	if !action.IsValid() {
		return "", fmt.Errorf("invalid schema action: %s (valid actions: none, validate, update, create, create-drop)", s)
	}
	return action, nil
}
