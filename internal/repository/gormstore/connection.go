package gormstore

import (
	"fmt"

	"github.com/dom/xwing-campaign/internal/domain"
	"github.com/dom/xwing-campaign/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// NewConnection opens the single pooled store handle shared by all
// collections and migrates the schema.
func NewConnection(driver, databaseURL string, logLevel logger.LogLevel) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(databaseURL)
	case DriverSQLite:
		dialector = sqlite.Open(databaseURL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		// sqlite allows a single writer
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
	return db.AutoMigrate(
		&domain.User{},
		&domain.Session{},
		&domain.Campaign{},
		&domain.Pilot{},
		&domain.Ship{},
		&domain.Mission{},
		&domain.Upgrade{},
	)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:     newCollection[domain.User](db, "users"),
		Session:  NewSessionRepository(db),
		Campaign: newCollection[domain.Campaign](db, "campaigns"),
		Pilot:    newCollection[domain.Pilot](db, "pilots"),
		Ship:     newCollection[domain.Ship](db, "ships"),
		Mission:  newCollection[domain.Mission](db, "missions"),
		Upgrade:  newCollection[domain.Upgrade](db, "upgrades"),
	}
}
