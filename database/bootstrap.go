// database/bootstrap.go
package database

import (
	"fmt"
	"log"

	sqlite "github.com/glebarez/sqlite" // CGO-free driver
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"plantdoctor/entities"
)

// OpenSQLite opens the audit database and migrates its single table.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.AutoMigrate(&entities.AnalysisLog{}); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	log.Printf("[db] audit store at %s", path)
	return db, nil
}
