package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
	"github.com/rocketscienceinc/boardgame-backend/internal/pkg"
)

// GamePlayService - ties tables to their game states for the polling and
// move-submission paths.
type GamePlayService interface {
	GetGameStateFromTable(ctx context.Context, tableID string) (*entity.GameState, error)
	SubmitMove(ctx context.Context, tableID, playerID string, move json.RawMessage) (*entity.GameState, error)
}

type gamePlayStates interface {
	GetGameState(ctx context.Context, id string) (*entity.GameState, error)
	ProcessMove(ctx context.Context, id, playerID string, move json.RawMessage) (*entity.GameState, error)
}

type gamePlayService struct {
	logger     *slog.Logger
	tableRepo  tableRepo
	gameStates gamePlayStates
	locks      *pkg.KeyedMutex
}

func NewGamePlayService(logger *slog.Logger, tableRepo tableRepo, gameStates gamePlayStates, locks *pkg.KeyedMutex) GamePlayService {
	return &gamePlayService{
		logger:     logger.With("component", "gameplay-service"),
		tableRepo:  tableRepo,
		gameStates: gameStates,
		locks:      locks,
	}
}

// GetGameStateFromTable - the polling read. A table without a game state is a
// normal condition before the host starts; callers render a waiting view off
// the not-found error.
func (that *gamePlayService) GetGameStateFromTable(ctx context.Context, tableID string) (*entity.GameState, error) {
	table, err := that.tableRepo.GetByID(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to get table by id: %w", err)
	}

	if !table.HasStarted() {
		return nil, fmt.Errorf("%w: table %s has no game yet", apperror.ErrGameStateNotFound, tableID)
	}

	state, err := that.gameStates.GetGameState(ctx, table.GameStateID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game state: %w", err)
	}

	return state, nil
}

// SubmitMove - re-checks that the mover is actually seated, then hands the
// move to the orchestrator. When the move ends the game, the table row is
// advanced to finished.
func (that *gamePlayService) SubmitMove(ctx context.Context, tableID, playerID string, move json.RawMessage) (*entity.GameState, error) {
	table, err := that.tableRepo.GetByID(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to get table by id: %w", err)
	}

	if !table.HasPlayer(playerID) {
		return nil, fmt.Errorf("%w: player %s, table %s", apperror.ErrPlayerNotSeated, playerID, tableID)
	}

	if !table.HasStarted() {
		return nil, fmt.Errorf("%w: table %s has no game yet", apperror.ErrGameStateNotFound, tableID)
	}

	state, err := that.gameStates.ProcessMove(ctx, table.GameStateID, playerID, move)
	if err != nil {
		return nil, fmt.Errorf("failed to process move: %w", err)
	}

	if state.IsGameOver {
		that.finishTable(ctx, tableID)
	}

	return state, nil
}

// finishTable - best effort: the move already landed, so a failure here only
// delays the table row catching up on the next terminal move.
func (that *gamePlayService) finishTable(ctx context.Context, tableID string) {
	unlock := that.locks.Lock("table:" + tableID)
	defer unlock()

	table, err := that.tableRepo.GetByID(ctx, tableID)
	if err != nil {
		that.logger.Error("could not load table to finish", "table_id", tableID, "error", err)
		return
	}

	if table.IsFinished() {
		return
	}

	if err = table.Finish(); err != nil {
		that.logger.Error("could not finish table", "table_id", tableID, "error", err)
		return
	}

	if err = that.tableRepo.Update(ctx, table); err != nil {
		that.logger.Error("could not update finished table", "table_id", tableID, "error", err)
	}
}
