package storage

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

// NewSQLiteStorage - opens the sqlite database behind gorm and migrates the
// record schema.
func NewSQLiteStorage(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	if err = db.AutoMigrate(&entity.Player{}, &entity.Table{}); err != nil {
		return nil, fmt.Errorf("can't migrate schema: %w", err)
	}

	return db, nil
}
