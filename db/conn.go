// Package db contains everything related to the backing database
package db

import (
	"fmt"

	"github.com/omerfatihko/quote-base/model"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New opens the database selected by database.driver and migrates the
// schema. SQLite is the default and keeps the whole deployment in a single
// file, postgres is available for setups that already run one.
func New() (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	// TranslateError maps driver-specific unique constraint failures to
	// gorm.ErrDuplicatedKey, which the register handler relies on
	cfg := &gorm.Config{TranslateError: true}

	switch viper.GetString("database.driver") {
	case "postgres":
		db, err = gorm.Open(postgres.Open(viper.GetString("database.dsn")), cfg)
	default:
		db, err = gorm.Open(sqlite.Open(viper.GetString("database.path")), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	err = db.AutoMigrate(model.User{}, model.Quote{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
