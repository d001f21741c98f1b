package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Database holds the GORM database instance
type Database struct {
	conn *gorm.DB
}

// Option is the functional options pattern for Database
type Option func(*Database) error

// New creates a new Database instance with options
func New(opts ...Option) (*Database, error) {
	db := &Database{}
	for _, opt := range opts {
		if err := opt(db); err != nil {
			return nil, err
		}
	}
	if db.conn == nil {
		return nil, fmt.Errorf("no database path configured")
	}
	return db, nil
}

// WithPath opens the SQLite database at path, creating the parent
// directory when needed.
func WithPath(path string) Option {
	return func(db *Database) error {
		if path == "" {
			path = "./data/portfolio.db"
		}

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory %s: %w", dir, err)
		}

		// TranslateError maps driver uniqueness violations onto
		// gorm.ErrDuplicatedKey, which the repo layer relies on.
		conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
		if err != nil {
			return fmt.Errorf("failed to connect to database %s: %w", path, err)
		}

		db.conn = conn
		return nil
	}
}

// Get returns the underlying GORM database instance
func (d *Database) Get() *gorm.DB {
	return d.conn
}

// Close closes the database connection
func (d *Database) Close() error {
	if d.conn == nil {
		return nil
	}
	sqlDB, err := d.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
