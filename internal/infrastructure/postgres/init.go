package postgres

import (
	"fmt"
	"log"

	"github.com/LavaJover/shvark-sales-sync/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitDB opens the sales database. The schema is owned by the SQL migrations
// under migrations/; nothing here runs AutoMigrate.
func InitDB(cfg config.SalesDB) (*gorm.DB, error) {
	if cfg.Dsn == "" {
		return nil, fmt.Errorf("sales_db.dsn is empty")
	}
	db, err := gorm.Open(postgres.Open(cfg.Dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sales db: %w", err)
	}
	return db, nil
}

func MustInitDB(cfg config.SalesDB) *gorm.DB {
	db, err := InitDB(cfg)
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err)
	}
	return db
}
