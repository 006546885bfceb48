package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
	"github.com/rocketscienceinc/boardgame-backend/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakePlayerRepo - an in-memory player store.
type fakePlayerRepo struct {
	mu      sync.Mutex
	players map[string]entity.Player
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{players: make(map[string]entity.Player)}
}

func (that *fakePlayerRepo) Create(_ context.Context, player *entity.Player) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.players[player.PlayerID] = *player

	return nil
}

func (that *fakePlayerRepo) GetByID(_ context.Context, id string) (*entity.Player, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	player, ok := that.players[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrPlayerNotFound, id)
	}

	return &player, nil
}

func (that *fakePlayerRepo) Update(_ context.Context, player *entity.Player) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.players[player.PlayerID]; !ok {
		return fmt.Errorf("%w: %s", apperror.ErrPlayerNotFound, player.PlayerID)
	}

	that.players[player.PlayerID] = *player

	return nil
}

// fakeTableRepo - an in-memory table store with the same unique join code
// behavior as the real one.
type fakeTableRepo struct {
	mu     sync.Mutex
	tables map[string]entity.Table
	codes  map[string]string
}

func newFakeTableRepo() *fakeTableRepo {
	return &fakeTableRepo{
		tables: make(map[string]entity.Table),
		codes:  make(map[string]string),
	}
}

func (that *fakeTableRepo) Create(_ context.Context, table *entity.Table) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, taken := that.codes[table.JoinCode]; taken {
		return repository.ErrDuplicateJoinCode
	}

	that.tables[table.TableID] = cloneTable(table)
	that.codes[table.JoinCode] = table.TableID

	return nil
}

func (that *fakeTableRepo) GetByID(_ context.Context, id string) (*entity.Table, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	table, ok := that.tables[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrTableNotFound, id)
	}

	copied := cloneTable(&table)

	return &copied, nil
}

func (that *fakeTableRepo) GetByJoinCode(_ context.Context, joinCode string) (*entity.Table, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	id, ok := that.codes[joinCode]
	if !ok {
		return nil, fmt.Errorf("%w: join code %s", apperror.ErrTableNotFound, joinCode)
	}

	table := that.tables[id]
	copied := cloneTable(&table)

	return &copied, nil
}

func (that *fakeTableRepo) Update(_ context.Context, table *entity.Table) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.tables[table.TableID]; !ok {
		return fmt.Errorf("%w: %s", apperror.ErrTableNotFound, table.TableID)
	}

	that.tables[table.TableID] = cloneTable(table)

	return nil
}

func cloneTable(table *entity.Table) entity.Table {
	copied := *table
	copied.PlayerIDs = append(entity.PlayerIDs(nil), table.PlayerIDs...)

	return copied
}

// fakeGameStateRepo - an in-memory game state store mimicking the version
// check the real save performs.
type fakeGameStateRepo struct {
	mu     sync.Mutex
	states map[string]entity.GameState
}

func newFakeGameStateRepo() *fakeGameStateRepo {
	return &fakeGameStateRepo{states: make(map[string]entity.GameState)}
}

func (that *fakeGameStateRepo) Create(_ context.Context, state *entity.GameState) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, exists := that.states[state.ID]; exists {
		return fmt.Errorf("%w: %s", apperror.ErrGameAlreadyExists, state.ID)
	}

	that.states[state.ID] = *state.Clone()

	return nil
}

func (that *fakeGameStateRepo) GetByID(_ context.Context, id string) (*entity.GameState, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	state, ok := that.states[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrGameStateNotFound, id)
	}

	return state.Clone(), nil
}

func (that *fakeGameStateRepo) Save(_ context.Context, state *entity.GameState) (*entity.GameState, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	stored, ok := that.states[state.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrGameStateNotFound, state.ID)
	}

	if stored.Version != state.Version {
		return nil, fmt.Errorf("%w: game state %s", apperror.ErrVersionConflict, state.ID)
	}

	next := state.Clone()
	next.Version++
	that.states[state.ID] = *next.Clone()

	return next, nil
}
