package orm

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const commentCallback = "dataconfig:sql_comment"

// registerSQLComments prefixes generated statements with a comment naming the
// operation and the entity, e.g. /* select Account */.
func registerSQLComments(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Query().Before("gorm:query").Register(commentCallback, commentOn("SELECT")); err != nil {
		return err
	}
	if err := cb.Create().Before("gorm:create").Register(commentCallback, commentOn("INSERT")); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register(commentCallback, commentOn("UPDATE")); err != nil {
		return err
	}
	return cb.Delete().Before("gorm:delete").Register(commentCallback, commentOn("DELETE"))
}

func commentOn(clauseName string) func(*gorm.DB) {
	comment := "/* " + strings.ToLower(clauseName) + " "
	return func(db *gorm.DB) {
		stmt := db.Statement
		if db.Error != nil || stmt.Schema == nil || stmt.SQL.Len() > 0 {
			return
		}
		c := stmt.Clauses[clauseName]
		c.BeforeExpression = clause.Expr{SQL: comment + stmt.Schema.Name + " */"}
		stmt.Clauses[clauseName] = c
	}
}
