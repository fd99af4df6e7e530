// Package storage persists articles, users and login sessions in sqlite
// through gorm.
package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/xo/dburl"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SergeyParamoshkin/blog/internal/model"
)

// DB bundles the gorm handle with the underlying *sql.DB, which the session
// store shares.
type DB struct {
	Gorm *gorm.DB
	SQL  *sql.DB
}

// Open parses a database url (see github.com/xo/dburl), e.g.
// "sqlite3:blog.sqlite3?_busy_timeout=10000&_journal=WAL", and opens it.
func Open(rawURL string) (*DB, error) {
	u, err := dburl.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if u.Driver != "sqlite3" {
		return nil, fmt.Errorf("unsupported database driver %q", u.Driver)
	}

	return OpenDSN(u.DSN)
}

// OpenDSN opens a sqlite database and migrates the schema. Foreign keys are
// enforced on every pooled connection.
func OpenDSN(dsn string) (*DB, error) {
	g, err := gorm.Open(sqlite.Open(withForeignKeys(dsn)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	sqlDB, err := g.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()

		return nil, err
	}
	if err := g.AutoMigrate(&model.User{}, &model.Article{}); err != nil {
		_ = sqlDB.Close()

		return nil, fmt.Errorf("migrate: %w", err)
	}
	if _, err := sqlDB.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`); err != nil {
		_ = sqlDB.Close()

		return nil, fmt.Errorf("create sessions table: %w", err)
	}

	return &DB{Gorm: g, SQL: sqlDB}, nil
}

// withForeignKeys adds the go-sqlite3 _foreign_keys option unless the dsn
// sets it already.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=1"
	}

	return dsn + "?_foreign_keys=1"
}

func (db *DB) Close() error {
	return db.SQL.Close()
}

// SessionStore keeps scs sessions in the sessions table.
func (db *DB) SessionStore() scs.Store {
	return sqlite3store.New(db.SQL)
}
