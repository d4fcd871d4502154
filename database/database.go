package database

import (
	"context"
	"fmt"

	"github.com/AnilDaoud/japan-realestate/config"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

const (
	DBTransactionBatchesSize = 1000
)

var (
	// List entities to auto-migrate
	entities = []interface{}{
		Prefecture{},
		Municipality{},
		Transaction{},
		FxRate{},
	}
)

func ConnectAndInitialize(ctx context.Context, cfg *config.DBConfig) (*gorm.DB, error) {
	db, err := connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ConnectAndInitialize: Connect: %w", err)
	}

	// Initialize - auto migrate
	err = db.AutoMigrate(entities...)
	if err != nil {
		return nil, errors.Wrap(err, "ConnectAndInitialize: AutoMigrate")
	}

	return db, nil
}

func Connect(ctx context.Context, cfg *config.DBConfig) (*gorm.DB, error) {
	db, err := connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("Connect: %w", err)
	}

	return db, nil
}

func connect(ctx context.Context, cfg *config.DBConfig) (*gorm.DB, error) {
	// Connect to the database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d search_path=%s sslmode=disable", cfg.Host, cfg.Username, cfg.Password, cfg.Database, cfg.Port, cfg.Schema)

	gormLogLevel := getGormLogLevel(cfg)
	gormConfig := gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   cfg.Schema + ".", // Add schema prefix to all tables
			SingularTable: true,             // Use singular table names
		},
		Logger:          gormlogger.Default.LogMode(gormLogLevel),
		CreateBatchSize: DBTransactionBatchesSize,
	}

	db, err := gorm.Open(postgres.Open(dsn), &gormConfig)
	if err != nil {
		return nil, err
	}

	return db.WithContext(ctx), nil
}

func getGormLogLevel(cfg *config.DBConfig) gormlogger.LogLevel {
	if cfg.LogQueries {
		return gormlogger.Info
	}

	return gormlogger.Silent
}
