// Package translate rewrites low-level data access failures into the
// dataconfig failure taxonomy.
//
// A Hook understands GORM sentinel errors, database/sql and driver errors,
// PostgreSQL SQLSTATE codes from pgx and lib/pq, and SQLite result codes from
// modernc.org/sqlite. Errors it does not recognise pass through untouched.
//
// Registered on a *gorm.DB, the hook runs after every operation:
//
//	hook := translate.New()
//	if err := hook.Register(db); err != nil {
//	    return err
//	}
//
//	err := db.First(&account, "id = ?", id).Error
//	errors.Is(err, dataconfig.ErrNotFound)    // true
//	errors.Is(err, gorm.ErrRecordNotFound)    // still true
package translate
