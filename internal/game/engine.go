package game

import (
	"encoding/json"

	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

// Engine - everything specific to one game's rules, behind a fixed capability
// set so the orchestrator stays game-agnostic. Implementations decode the
// opaque payload in GameSpecificState into their own typed state.
type Engine interface {
	// GameType - stable identifier used as the registry key and stored in the
	// game specific state tag.
	GameType() string

	// MinPlayers and MaxPlayers - inclusive seat bounds checked before a game
	// state is created.
	MinPlayers() int
	MaxPlayers() int

	// NewInitialState - builds the engine payload for a fresh game. The player
	// order is the table's seating order; symbol assignment is deterministic
	// and persisted inside the payload.
	NewInitialState(players []string) (json.RawMessage, error)

	// ValidateMove - returns nil when the move is legal for playerID against
	// the given state, or a sentinel describing the first violation. Never
	// mutates the state.
	ValidateMove(state *entity.GameState, move json.RawMessage, playerID string) error

	// ApplyMove - functional update: returns a new state with the move
	// applied, terminal conditions recomputed and the turn advanced. The input
	// state is left untouched.
	ApplyMove(state *entity.GameState, move json.RawMessage, playerID string) (*entity.GameState, error)

	// IsGameOver - reports whether the state is terminal.
	IsGameOver(state *entity.GameState) (bool, error)

	// Winners and Losers - terminal result sets. Both are empty on a draw or
	// while the game is in progress.
	Winners(state *entity.GameState) ([]string, error)
	Losers(state *entity.GameState) ([]string, error)

	// NextPlayer - the player to move after current. Identity when the game is
	// already over.
	NextPlayer(state *entity.GameState, current string) (string, error)
}
