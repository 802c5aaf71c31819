package db

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sujalbistaa/blogicum/internal/models"
)

// sqlitePragmas turns on foreign keys so ON DELETE rules apply.
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// Open returns a GORM connection for dbURL, which must start with
// "postgres://" or "sqlite://".
func Open(dbURL string) (*gorm.DB, error) {
	dialector, err := dialectorFor(dbURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	return db, nil
}

// Init opens dbURL, falling back to a local SQLite file when it is
// empty, and applies migrations.
func Init(dbURL string) (*gorm.DB, error) {
	if dbURL == "" {
		dbURL = "sqlite://blogicum.db"
		log.Println("DATABASE_URL not set, defaulting to 'sqlite://blogicum.db'")
	}

	db, err := Open(dbURL)
	if err != nil {
		return nil, err
	}

	log.Println("Running database migrations...")
	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Println("Database connection established.")
	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func dialectorFor(dbURL string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(dbURL, "postgres://"):
		log.Println("Connecting to PostgreSQL database...")
		return postgres.Open(dbURL), nil
	case strings.HasPrefix(dbURL, "sqlite://"):
		dsn := strings.TrimPrefix(dbURL, "sqlite://")
		log.Println("Connecting to SQLite database at", dsn)
		return sqlite.Open(withPragmas(dsn)), nil
	default:
		return nil, fmt.Errorf("invalid DATABASE_URL prefix %q: must start with 'postgres://' or 'sqlite://'", dbURL)
	}
}

func withPragmas(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqlitePragmas
	}
	return dsn + "?" + sqlitePragmas
}
