package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
	"github.com/rocketscienceinc/boardgame-backend/internal/game"
	"github.com/rocketscienceinc/boardgame-backend/internal/pkg"
	"github.com/rocketscienceinc/boardgame-backend/internal/repository"
)

// joinCodeAttempts - retries on join code collision before giving up. Four
// uppercase letters give ~457k codes, so collisions are rare but real.
const joinCodeAttempts = 5

type TableService interface {
	CreateTable(ctx context.Context, gameType, hostPlayerID string) (*entity.Table, error)
	GetTable(ctx context.Context, tableID string) (*entity.Table, error)
	GetTableByJoinCode(ctx context.Context, joinCode string) (*entity.Table, error)
	JoinTable(ctx context.Context, joinCode, playerID string) (*entity.Table, error)
	AddPlayers(ctx context.Context, tableID string, playerIDs []string) (*entity.Table, error)
	StartGame(ctx context.Context, tableID, playerID string) (*entity.Table, error)
}

type tableRepo interface {
	Create(ctx context.Context, table *entity.Table) error
	GetByID(ctx context.Context, id string) (*entity.Table, error)
	GetByJoinCode(ctx context.Context, joinCode string) (*entity.Table, error)
	Update(ctx context.Context, table *entity.Table) error
}

type tableRegistry interface {
	Engine(gameType string) (game.Engine, error)
	IsSupported(gameType string) bool
}

type tableGameStates interface {
	CreateGameState(ctx context.Context, players []string, gameType string, overrides map[string]json.RawMessage) (string, error)
}

type tableService struct {
	logger     *slog.Logger
	tableRepo  tableRepo
	playerRepo playerRepo
	registry   tableRegistry
	gameStates tableGameStates
	locks      *pkg.KeyedMutex
}

func NewTableService(logger *slog.Logger, tableRepo tableRepo, playerRepo playerRepo, registry tableRegistry, gameStates tableGameStates, locks *pkg.KeyedMutex) TableService {
	return &tableService{
		logger:     logger.With("component", "table-service"),
		tableRepo:  tableRepo,
		playerRepo: playerRepo,
		registry:   registry,
		gameStates: gameStates,
		locks:      locks,
	}
}

// CreateTable - creates a lobby for a supported game with the host already
// seated. The game state is not created here; that waits for StartGame.
func (that *tableService) CreateTable(ctx context.Context, gameType, hostPlayerID string) (*entity.Table, error) {
	if !that.registry.IsSupported(gameType) {
		return nil, fmt.Errorf("%w: %q", apperror.ErrGameTypeNotSupported, gameType)
	}

	if _, err := that.playerRepo.GetByID(ctx, hostPlayerID); err != nil {
		return nil, fmt.Errorf("failed to get host player: %w", err)
	}

	for attempt := 0; attempt < joinCodeAttempts; attempt++ {
		table := entity.NewTable(pkg.NewID(), pkg.GenerateJoinCode(), gameType, hostPlayerID)

		err := that.tableRepo.Create(ctx, table)
		if errors.Is(err, repository.ErrDuplicateJoinCode) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("failed to create table: %w", err)
		}

		that.logger.Info("table created", "table_id", table.TableID, "join_code", table.JoinCode, "game_type", gameType)

		return table, nil
	}

	return nil, fmt.Errorf("failed to create table: %w", repository.ErrDuplicateJoinCode)
}

func (that *tableService) GetTable(ctx context.Context, tableID string) (*entity.Table, error) {
	table, err := that.tableRepo.GetByID(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to get table by id: %w", err)
	}

	return table, nil
}

func (that *tableService) GetTableByJoinCode(ctx context.Context, joinCode string) (*entity.Table, error) {
	table, err := that.tableRepo.GetByJoinCode(ctx, joinCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get table by join code: %w", err)
	}

	return table, nil
}

// JoinTable - seats a player at a waiting table. The read-modify-write runs
// under the table's lock so concurrent joins cannot lose each other's seats.
func (that *tableService) JoinTable(ctx context.Context, joinCode, playerID string) (*entity.Table, error) {
	found, err := that.tableRepo.GetByJoinCode(ctx, joinCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get table by join code: %w", err)
	}

	if _, err = that.playerRepo.GetByID(ctx, playerID); err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	unlock := that.locks.Lock("table:" + found.TableID)
	defer unlock()

	table, err := that.tableRepo.GetByID(ctx, found.TableID)
	if err != nil {
		return nil, fmt.Errorf("failed to get table by id: %w", err)
	}

	if table.HasPlayer(playerID) {
		return table, nil
	}

	if err = table.AddPlayer(playerID); err != nil {
		return nil, fmt.Errorf("failed to join table: %w", err)
	}

	if err = that.tableRepo.Update(ctx, table); err != nil {
		return nil, fmt.Errorf("failed to update table: %w", err)
	}

	return table, nil
}

// AddPlayers - bulk variant of JoinTable used by the lobby flow; duplicates
// are dropped.
func (that *tableService) AddPlayers(ctx context.Context, tableID string, playerIDs []string) (*entity.Table, error) {
	for _, playerID := range playerIDs {
		if _, err := that.playerRepo.GetByID(ctx, playerID); err != nil {
			return nil, fmt.Errorf("failed to get player by id: %w", err)
		}
	}

	unlock := that.locks.Lock("table:" + tableID)
	defer unlock()

	table, err := that.tableRepo.GetByID(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to get table by id: %w", err)
	}

	for _, playerID := range playerIDs {
		if err = table.AddPlayer(playerID); err != nil {
			return nil, fmt.Errorf("failed to add player %s: %w", playerID, err)
		}
	}

	if err = that.tableRepo.Update(ctx, table); err != nil {
		return nil, fmt.Errorf("failed to update table: %w", err)
	}

	return table, nil
}

// StartGame - host-only transition from waiting to playing. Creates the
// table's game state exactly once; the seat count is checked against the
// engine's bounds before anything is persisted.
func (that *tableService) StartGame(ctx context.Context, tableID, playerID string) (*entity.Table, error) {
	unlock := that.locks.Lock("table:" + tableID)
	defer unlock()

	table, err := that.tableRepo.GetByID(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to get table by id: %w", err)
	}

	if table.HostPlayerID != playerID {
		return nil, apperror.ErrNotHost
	}

	if !table.IsWaiting() {
		return nil, apperror.ErrGameAlreadyStarted
	}

	engine, err := that.registry.Engine(table.GameType)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve game engine: %w", err)
	}

	seats := len(table.PlayerIDs)
	if seats < engine.MinPlayers() || seats > engine.MaxPlayers() {
		return nil, fmt.Errorf("%w: %s needs %d-%d players, table has %d",
			apperror.ErrInvalidPlayerCount, table.GameType, engine.MinPlayers(), engine.MaxPlayers(), seats)
	}

	if !table.HasStarted() {
		gameStateID, err := that.gameStates.CreateGameState(ctx, table.PlayerIDs, table.GameType, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create game state: %w", err)
		}
		table.GameStateID = gameStateID
	}

	if err = table.StartPlaying(); err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	if err = that.tableRepo.Update(ctx, table); err != nil {
		return nil, fmt.Errorf("failed to update table: %w", err)
	}

	that.logger.Info("game started", "table_id", table.TableID, "game_state_id", table.GameStateID)

	return table, nil
}
