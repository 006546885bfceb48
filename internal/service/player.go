package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
	"github.com/rocketscienceinc/boardgame-backend/internal/pkg"
)

type PlayerService interface {
	CreatePlayer(ctx context.Context, name string) (*entity.Player, error)
	GetPlayerByID(ctx context.Context, id string) (*entity.Player, error)
	UpdatePlayerName(ctx context.Context, id, name string) (*entity.Player, error)
}

type playerRepo interface {
	Create(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
	Update(ctx context.Context, player *entity.Player) error
}

type playerService struct {
	playerRepo playerRepo
}

func NewPlayerService(playerRepo playerRepo) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
	}
}

// CreatePlayer - creates a player for a fresh session. A blank name gets a
// generated one.
func (that *playerService) CreatePlayer(ctx context.Context, name string) (*entity.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Player-%d", rand.Intn(1000)) //nolint:gosec // display name, not a secret
	}

	player := &entity.Player{
		PlayerID: pkg.NewID(),
		Name:     name,
	}

	if err := that.playerRepo.Create(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return player, nil
}

func (that *playerService) GetPlayerByID(ctx context.Context, id string) (*entity.Player, error) {
	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	return player, nil
}

func (that *playerService) UpdatePlayerName(ctx context.Context, id, name string) (*entity.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ErrEmptyPlayerName
	}

	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	player.Name = name
	if err = that.playerRepo.Update(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	return player, nil
}
