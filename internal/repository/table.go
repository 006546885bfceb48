package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

// ErrDuplicateJoinCode - the generated join code collided with a live table;
// the caller retries with a fresh code.
var ErrDuplicateJoinCode = errors.New("join code already in use")

type TableRepository interface {
	Create(ctx context.Context, table *entity.Table) error
	GetByID(ctx context.Context, id string) (*entity.Table, error)
	GetByJoinCode(ctx context.Context, joinCode string) (*entity.Table, error)
	Update(ctx context.Context, table *entity.Table) error
}

type dbTable struct {
	db *gorm.DB
}

func NewTableRepository(db *gorm.DB) TableRepository {
	return &dbTable{
		db: db,
	}
}

func (that *dbTable) Create(ctx context.Context, table *entity.Table) error {
	err := that.db.WithContext(ctx).Create(table).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", ErrDuplicateJoinCode, table.JoinCode)
	}

	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	return nil
}

func (that *dbTable) GetByID(ctx context.Context, id string) (*entity.Table, error) {
	var table entity.Table

	err := that.db.WithContext(ctx).First(&table, "table_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrTableNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get table by ID: %w", err)
	}

	return &table, nil
}

func (that *dbTable) GetByJoinCode(ctx context.Context, joinCode string) (*entity.Table, error) {
	var table entity.Table

	err := that.db.WithContext(ctx).First(&table, "join_code = ?", joinCode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: join code %s", apperror.ErrTableNotFound, joinCode)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get table by join code: %w", err)
	}

	return &table, nil
}

func (that *dbTable) Update(ctx context.Context, table *entity.Table) error {
	if err := that.db.WithContext(ctx).Save(table).Error; err != nil {
		return fmt.Errorf("failed to update table: %w", err)
	}

	return nil
}
