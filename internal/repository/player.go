package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

type PlayerRepository interface {
	Create(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
	Update(ctx context.Context, player *entity.Player) error
}

type dbPlayer struct {
	db *gorm.DB
}

func NewPlayerRepository(db *gorm.DB) PlayerRepository {
	return &dbPlayer{
		db: db,
	}
}

func (that *dbPlayer) Create(ctx context.Context, player *entity.Player) error {
	if err := that.db.WithContext(ctx).Create(player).Error; err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}

	return nil
}

func (that *dbPlayer) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	var player entity.Player

	err := that.db.WithContext(ctx).First(&player, "player_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrPlayerNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player by ID: %w", err)
	}

	return &player, nil
}

func (that *dbPlayer) Update(ctx context.Context, player *entity.Player) error {
	if err := that.db.WithContext(ctx).Save(player).Error; err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	return nil
}
