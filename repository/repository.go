package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/enlightendev/dataconfig"
	"github.com/enlightendev/dataconfig/tx"
)

// Page selects a slice of a listing. A zero Limit means no limit. OrderBy
// names a field or column, optionally followed by "asc" or "desc"; the
// default order is the primary key.
type Page struct {
	Limit   int
	Offset  int
	OrderBy string
}

// Repository provides CRUD for one entity type. Every call runs in the
// transaction carried by the context, or in its own session otherwise.
type Repository[T any] struct {
	manager *tx.Manager
}

// New returns a repository for T over the transaction manager.
func New[T any](manager *tx.Manager) *Repository[T] {
	return &Repository[T]{manager: manager}
}

func byID(id any) clause.Expression {
	return clause.Eq{Column: clause.PrimaryColumn, Value: id}
}

// Save inserts entity when its primary key is zero and updates it otherwise.
func (r *Repository[T]) Save(ctx context.Context, entity *T) error {
	db, err := r.manager.Session(ctx)
	if err != nil {
		return err
	}
	if err := db.Save(entity).Error; err != nil {
		return fmt.Errorf("save %T: %w", entity, err)
	}
	return nil
}

// FindByID returns the entity with the given primary key, or an error
// matching dataconfig.ErrNotFound.
func (r *Repository[T]) FindByID(ctx context.Context, id any) (*T, error) {
	db, err := r.manager.Session(ctx)
	if err != nil {
		return nil, err
	}

	var entity T
	if err := db.Where(byID(id)).First(&entity).Error; err != nil {
		return nil, fmt.Errorf("find %T %v: %w", entity, id, err)
	}
	return &entity, nil
}

// FindAll lists entities in page order.
func (r *Repository[T]) FindAll(ctx context.Context, page Page) ([]T, error) {
	db, err := r.manager.Session(ctx)
	if err != nil {
		return nil, err
	}

	order, err := r.orderBy(db, page.OrderBy)
	if err != nil {
		return nil, err
	}

	query := db.Model(new(T)).Order(order)
	if page.Limit > 0 {
		query = query.Limit(page.Limit)
	}
	if page.Offset > 0 {
		query = query.Offset(page.Offset)
	}

	var out []T
	if err := query.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list %T: %w", new(T), err)
	}
	return out, nil
}

// Count returns the number of stored entities.
func (r *Repository[T]) Count(ctx context.Context) (int64, error) {
	db, err := r.manager.Session(ctx)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := db.Model(new(T)).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count %T: %w", new(T), err)
	}
	return n, nil
}

// ExistsByID reports whether an entity with the given primary key is stored.
func (r *Repository[T]) ExistsByID(ctx context.Context, id any) (bool, error) {
	db, err := r.manager.Session(ctx)
	if err != nil {
		return false, err
	}

	var n int64
	if err := db.Model(new(T)).Where(byID(id)).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check %T %v: %w", new(T), id, err)
	}
	return n > 0, nil
}

// DeleteByID removes the entity with the given primary key. Deleting a
// missing entity fails with dataconfig.ErrNotFound.
func (r *Repository[T]) DeleteByID(ctx context.Context, id any) error {
	db, err := r.manager.Session(ctx)
	if err != nil {
		return err
	}

	result := db.Where(byID(id)).Delete(new(T))
	if result.Error != nil {
		return fmt.Errorf("delete %T %v: %w", new(T), id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete %T %v: %w", new(T), id, dataconfig.ErrNotFound)
	}
	return nil
}

// orderBy resolves a page order against the entity schema so only known
// columns reach the SQL.
func (r *Repository[T]) orderBy(db *gorm.DB, order string) (clause.OrderByColumn, error) {
	fields := strings.Fields(order)
	if len(fields) == 0 {
		return clause.OrderByColumn{Column: clause.PrimaryColumn}, nil
	}

	desc := false
	if len(fields) == 2 {
		switch strings.ToLower(fields[1]) {
		case "asc":
		case "desc":
			desc = true
		default:
			return clause.OrderByColumn{}, fmt.Errorf("order by %q: %w", order, dataconfig.ErrInvalidUsage)
		}
	} else if len(fields) > 2 {
		return clause.OrderByColumn{}, fmt.Errorf("order by %q: %w", order, dataconfig.ErrInvalidUsage)
	}

	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(new(T)); err != nil {
		return clause.OrderByColumn{}, fmt.Errorf("parse %T: %w", new(T), err)
	}
	field := stmt.Schema.LookUpField(fields[0])
	if field == nil || field.DBName == "" {
		return clause.OrderByColumn{}, fmt.Errorf("order by %q: unknown field: %w", order, dataconfig.ErrInvalidUsage)
	}

	return clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: field.DBName}, Desc: desc}, nil
}
