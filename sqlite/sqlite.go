// Package sqlite is the embedded store used for local development and
// tests. It keeps a single connection so writers are serialized.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/nakamauwu/casa/types"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type SQLite struct {
	db  *gorm.DB
	now func() time.Time
}

// Open connects to the database at dsn and migrates the schema.
// Use ":memory:" for a throwaway database.
func Open(dsn string) (*SQLite, error) {
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite connection pool: %w", err)
	}

	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return New(db), nil
}

func New(db *gorm.DB) *SQLite {
	return &SQLite{
		db:  db,
		now: time.Now,
	}
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&userRow{},
		&conversationRow{},
		&messageRow{},
		&readMarkerRow{},
		&conversationReadMarkerRow{},
	)
	if err != nil {
		return fmt.Errorf("migrate sqlite schema: %w", err)
	}

	return nil
}

func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func (s *SQLite) nowNano() int64 {
	return s.now().UnixNano()
}

// dbErr wraps err with msg and marks infrastructure failures
// with [types.ErrStoreUnavailable].
func dbErr(msg string, err error) error {
	err = fmt.Errorf("%s: %w", msg, err)
	if isUnavailable(err) {
		return types.StoreUnavailable(err)
	}

	return err
}

func isUnavailable(err error) bool {
	if errors.Is(err, types.ErrStoreUnavailable) {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy ||
			sqliteErr.Code == sqlite3.ErrLocked ||
			sqliteErr.Code == sqlite3.ErrCantOpen ||
			sqliteErr.Code == sqlite3.ErrIoErr
	}

	return false
}
