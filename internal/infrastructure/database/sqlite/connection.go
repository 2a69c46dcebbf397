package sqlite

import (
	"fmt"
	"strings"
	"time"

	"remindee/internal/pkg/logger"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DSN parameters understood by mattn/go-sqlite3. Immediate transactions take the
// write lock at BEGIN, so two edit-slot transactions for one chat cannot interleave.
const dsnParams = "_txlock=immediate&_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"

// Open connects to the SQLite database at path and applies pending migrations.
func Open(path string, log logger.Logger) (*gorm.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	db, err := gorm.Open(sqlite.Open(path+sep+dsnParams), &gorm.Config{
		Logger: gormlogger.New(gormWriter{log: log}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying *sql.DB: %w", err)
	}
	// SQLite prefers a single writer; the pool is the serialization point for all store calls.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	log.Info(fmt.Sprintf("Database ready: %s", path))
	return db, nil
}

// Close closes the database connection if it's open.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying *sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// gormWriter routes gorm's slow-query and error output into the application logger.
type gormWriter struct {
	log logger.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
