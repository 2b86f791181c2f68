package database

import (
	"context"
	"errors"
	"strings"

	"estate-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqliteScheme = "sqlite://"

// Open opens a GORM DB from DSN. A "sqlite://" prefix selects the embedded
// SQLite driver for local development; anything else is treated as Postgres.
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") behind connection poolers such as PgBouncer.
func Open(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, sqliteScheme) {
		return OpenSQLite(strings.TrimPrefix(dsn, sqliteScheme))
	}
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
}

// OpenSQLite opens an SQLite database. In-memory databases are pinned to a
// single connection since each connection would otherwise see its own empty DB.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	if strings.Contains(path, ":memory:") || strings.Contains(path, "mode=memory") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// AutoMigrate creates or updates the tables for every domain model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.PropertyType{},
		&domain.Project{},
		&domain.Property{},
		&domain.PropertyEvent{},
		&domain.UserPreference{},
	)
}

// SeedPropertyTypes makes sure every type name the preference vocabulary maps to exists.
func SeedPropertyTypes(ctx context.Context, db *gorm.DB) error {
	var errs []error
	for _, name := range domain.TypeNames() {
		pt := domain.PropertyType{}
		if err := db.WithContext(ctx).Where(domain.PropertyType{Name: name}).FirstOrCreate(&pt).Error; err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
