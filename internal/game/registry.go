package game

import (
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
)

// Registry - maps game type identifiers to their rule engines. Constructed
// once at startup and passed to whoever needs lookups; no package-level state.
type Registry struct {
	logger  *slog.Logger
	engines map[string]Engine
	types   []string
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:  logger.With("component", "game-registry"),
		engines: make(map[string]Engine),
	}
}

// Register - stores an engine under its game type. The last registration for a
// type wins.
func (that *Registry) Register(engine Engine) {
	gameType := engine.GameType()

	if _, exists := that.engines[gameType]; exists {
		that.logger.Warn("overwriting registered game engine", "game_type", gameType)
	} else {
		that.types = append(that.types, gameType)
	}

	that.engines[gameType] = engine
}

// Engine - looks up the engine for a game type. An unknown type is a normal
// outcome and is reported as not found.
func (that *Registry) Engine(gameType string) (Engine, error) {
	engine, ok := that.engines[gameType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperror.ErrGameTypeNotSupported, gameType)
	}

	return engine, nil
}

func (that *Registry) IsSupported(gameType string) bool {
	_, ok := that.engines[gameType]
	return ok
}

// GameTypes - registered types in registration order, for selection UIs.
func (that *Registry) GameTypes() []string {
	return append([]string(nil), that.types...)
}
