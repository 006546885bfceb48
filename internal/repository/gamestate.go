package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

type GameStateRepository interface {
	Create(ctx context.Context, state *entity.GameState) error
	GetByID(ctx context.Context, id string) (*entity.GameState, error)
	Save(ctx context.Context, state *entity.GameState) (*entity.GameState, error)
}

type dbGameState struct {
	client *redis.Client
}

func NewGameStateRepository(client *redis.Client) GameStateRepository {
	return &dbGameState{
		client: client,
	}
}

func gameStateKey(id string) string {
	return "game-state:" + id
}

// Create - stores a fresh game state. Creating the same id twice is rejected;
// a table gets exactly one game state over its life.
func (that *dbGameState) Create(ctx context.Context, state *entity.GameState) error {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("could not marshal game state: %w", err)
	}

	created, err := that.client.SetNX(ctx, gameStateKey(state.ID), stateJSON, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to set game state: %w", err)
	}

	if !created {
		return fmt.Errorf("%w: %s", apperror.ErrGameAlreadyExists, state.ID)
	}

	return nil
}

func (that *dbGameState) GetByID(ctx context.Context, id string) (*entity.GameState, error) {
	response, err := that.client.Get(ctx, gameStateKey(id)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrGameStateNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game state by ID: %w", err)
	}

	var state entity.GameState
	if err = json.Unmarshal([]byte(response), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game state: %w", err)
	}

	return &state, nil
}

// Save - persists the state if and only if the stored version still matches
// state.Version. The write happens inside a WATCH transaction, so a concurrent
// writer makes the transaction fail instead of silently losing an update.
// Returns the persisted state with the version bumped.
func (that *dbGameState) Save(ctx context.Context, state *entity.GameState) (*entity.GameState, error) {
	key := gameStateKey(state.ID)

	next := state.Clone()
	next.Version++

	err := that.client.Watch(ctx, func(tx *redis.Tx) error {
		response, err := tx.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: %s", apperror.ErrGameStateNotFound, state.ID)
		}

		if err != nil {
			return fmt.Errorf("failed to get game state: %w", err)
		}

		var stored entity.GameState
		if err = json.Unmarshal([]byte(response), &stored); err != nil {
			return fmt.Errorf("failed to unmarshal game state: %w", err)
		}

		if stored.Version != state.Version {
			return fmt.Errorf("%w: base version %d, stored version %d", apperror.ErrVersionConflict, state.Version, stored.Version)
		}

		nextJSON, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("could not marshal game state: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, nextJSON, 0)
			return nil
		})

		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrVersionConflict, state.ID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to save game state: %w", err)
	}

	return next, nil
}
