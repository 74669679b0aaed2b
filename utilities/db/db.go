package db

import (
	"database/sql"
	"fmt"
	"strings"

	"releasetracker/app/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

func InitDB(driver, dsn string) (db *gorm.DB) {
	var err error
	if db, err = Open(driver, dsn); err != nil {
		panic(fmt.Sprintf("failed to connect database: %v", err))
	}
	if err = Migrate(db); err != nil {
		panic(fmt.Sprintf("failed to migrate database: %v", err))
	}
	return db
}

func Open(driver, dsn string) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	switch driver {
	case Postgres:
		return gorm.Open(postgres.Open(dsn), config)
	case SQLite:
		// pure Go driver, the connection is handed to gorm as is
		sqlDB, err := sql.Open("sqlite", sqliteDSN(dsn))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// one writer at a time
		sqlDB.SetMaxOpenConns(1)
		return gorm.Open(sqlite.Dialector{Conn: sqlDB}, config)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// sqliteDSN appends the pragmas, keeping any query the caller already set.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqlitePragmas
	}
	return dsn + "?" + sqlitePragmas
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Release{})
}
