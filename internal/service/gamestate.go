package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
	"github.com/rocketscienceinc/boardgame-backend/internal/game"
	"github.com/rocketscienceinc/boardgame-backend/internal/pkg"
)

// GameStateService - the only component allowed to persist game states. It
// enforces turn-taking by re-validating every submitted move against the
// authoritative state, never against anything the client claims.
type GameStateService interface {
	CreateGameState(ctx context.Context, players []string, gameType string, overrides map[string]json.RawMessage) (string, error)
	GetGameState(ctx context.Context, id string) (*entity.GameState, error)
	ProcessMove(ctx context.Context, id, playerID string, move json.RawMessage) (*entity.GameState, error)
	UpdateGameState(ctx context.Context, id string, updates *GameStateUpdate) (*entity.GameState, error)
}

// GameStateUpdate - a partial update; nil fields are left untouched and
// GameSpecific is merged shallowly into the engine payload.
type GameStateUpdate struct {
	CurrentPlayer  *string
	IsGameOver     *bool
	WinningPlayers []string
	LosingPlayers  []string
	GameSpecific   map[string]json.RawMessage
}

type engineResolver interface {
	Engine(gameType string) (game.Engine, error)
}

type gameStateRepo interface {
	Create(ctx context.Context, state *entity.GameState) error
	GetByID(ctx context.Context, id string) (*entity.GameState, error)
	Save(ctx context.Context, state *entity.GameState) (*entity.GameState, error)
}

type gameStateService struct {
	logger    *slog.Logger
	registry  engineResolver
	stateRepo gameStateRepo
	locks     *pkg.KeyedMutex
}

func NewGameStateService(logger *slog.Logger, registry engineResolver, stateRepo gameStateRepo, locks *pkg.KeyedMutex) GameStateService {
	return &gameStateService{
		logger:    logger.With("component", "game-state-service"),
		registry:  registry,
		stateRepo: stateRepo,
		locks:     locks,
	}
}

// CreateGameState - builds and persists the initial state for a table's game.
// The first seated player moves first.
func (that *gameStateService) CreateGameState(ctx context.Context, players []string, gameType string, overrides map[string]json.RawMessage) (string, error) {
	engine, err := that.registry.Engine(gameType)
	if err != nil {
		return "", fmt.Errorf("failed to resolve game engine: %w", err)
	}

	payload, err := engine.NewInitialState(players)
	if err != nil {
		return "", fmt.Errorf("failed to build initial state: %w", err)
	}

	if len(overrides) > 0 {
		if payload, err = mergePayload(payload, overrides); err != nil {
			return "", fmt.Errorf("failed to apply initial overrides: %w", err)
		}
	}

	state := &entity.GameState{
		ID:             pkg.NewID(),
		CurrentPlayer:  players[0],
		WinningPlayers: []string{},
		LosingPlayers:  []string{},
		GameSpecificState: entity.GameSpecificState{
			GameType: gameType,
			Data:     payload,
		},
		Version: 1,
	}

	if err = that.stateRepo.Create(ctx, state); err != nil {
		return "", fmt.Errorf("failed to create game state: %w", err)
	}

	that.logger.Info("game state created", "game_state_id", state.ID, "game_type", gameType)

	return state.ID, nil
}

func (that *gameStateService) GetGameState(ctx context.Context, id string) (*entity.GameState, error) {
	state, err := that.stateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game state: %w", err)
	}

	return state, nil
}

// ProcessMove - the move-submission path. Serialized per game-state id, and
// the save additionally CASes on the version, so a stale client can neither
// advance the turn out of order nor forge a win.
func (that *gameStateService) ProcessMove(ctx context.Context, id, playerID string, move json.RawMessage) (*entity.GameState, error) {
	unlock := that.locks.Lock("game-state:" + id)
	defer unlock()

	state, err := that.stateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game state: %w", err)
	}

	engine, err := that.registry.Engine(state.GameSpecificState.GameType)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve game engine: %w", err)
	}

	if err = engine.ValidateMove(state, move, playerID); err != nil {
		return nil, fmt.Errorf("move rejected: %w", err)
	}

	next, err := engine.ApplyMove(state, move, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to apply move: %w", err)
	}

	saved, err := that.stateRepo.Save(ctx, next)
	if err != nil {
		return nil, fmt.Errorf("failed to save game state: %w", err)
	}

	return saved, nil
}

// UpdateGameState - lower-level merge-and-persist primitive for
// administrative flows. Only the fields present in updates change.
func (that *gameStateService) UpdateGameState(ctx context.Context, id string, updates *GameStateUpdate) (*entity.GameState, error) {
	unlock := that.locks.Lock("game-state:" + id)
	defer unlock()

	state, err := that.stateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game state: %w", err)
	}

	next := state.Clone()

	if updates.CurrentPlayer != nil {
		next.CurrentPlayer = *updates.CurrentPlayer
	}

	if updates.IsGameOver != nil {
		next.IsGameOver = *updates.IsGameOver
	}

	if updates.WinningPlayers != nil {
		next.WinningPlayers = updates.WinningPlayers
	}

	if updates.LosingPlayers != nil {
		next.LosingPlayers = updates.LosingPlayers
	}

	if len(updates.GameSpecific) > 0 {
		merged, err := mergePayload(next.GameSpecificState.Data, updates.GameSpecific)
		if err != nil {
			return nil, fmt.Errorf("failed to merge game specific state: %w", err)
		}
		next.GameSpecificState.Data = merged
	}

	saved, err := that.stateRepo.Save(ctx, next)
	if err != nil {
		return nil, fmt.Errorf("failed to save game state: %w", err)
	}

	return saved, nil
}

// mergePayload - shallow merge: new keys overwrite, others stay untouched.
func mergePayload(payload json.RawMessage, overrides map[string]json.RawMessage) (json.RawMessage, error) {
	fields := make(map[string]json.RawMessage)

	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &fields); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	for key, value := range overrides {
		fields[key] = value
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	return merged, nil
}
