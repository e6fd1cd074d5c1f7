package dbtx

import (
	"database/sql"

	"gorm.io/gorm"
)

// Bind returns a gorm handle whose statements run on tx, so gorm
// repositories and raw-SQL repositories can share one transaction.
func Bind(db *gorm.DB, tx *sql.Tx) *gorm.DB {
	if tx == nil {
		return db
	}
	bound := db.Session(&gorm.Session{NewDB: true})
	bound.Statement.ConnPool = tx
	return bound
}
