package annotation

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/lewtec/segtrack/internal/repository"
	_ "modernc.org/sqlite"
)

// GetDatabase opens the sqlite database at filename and brings its schema
// up to date.
func GetDatabase(filename string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return nil, fmt.Errorf("while opening database '%s': %w", filename, err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	log.Printf("GetDatabase: migrating %s", filename)
	if err := repository.Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("while migrating database '%s': %w", filename, err)
	}
	return db, nil
}
