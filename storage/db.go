// Package storage is the gorm persistence layer: decklists, game sessions,
// profile preferences and the read models built on top of them.
package storage

import (
	"fmt"
	"strings"

	"prize-trainer/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const sqlitePrefix = "sqlite://"

// Open connects to url and migrates the schema. Postgres DSNs are used as-is;
// "sqlite://<path>" opens a local file, "sqlite://:memory:" a private
// in-memory database.
func Open(url string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	sqliteMemory := false

	switch {
	case strings.HasPrefix(url, sqlitePrefix):
		path := strings.TrimPrefix(url, sqlitePrefix)
		if path == "" {
			return nil, fmt.Errorf("sqlite url %q has no path", url)
		}
		sqliteMemory = path == ":memory:"
		dialector = sqlite.Open(path)
	default:
		dialector = postgres.Open(url)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if sqliteMemory {
		// each new connection would see an empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Decklist{},
		&models.GameSession{},
		&models.UserPreference{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
