package tictactoe

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
	"github.com/rocketscienceinc/boardgame-backend/internal/game"
)

const (
	// GameType - registry key for this engine.
	GameType = "tic-tac-toe"

	PlayerX = "X"
	PlayerO = "O"

	emptyCell = ""

	boardSize  = 3
	minPlayers = 2
	maxPlayers = 2
)

// winLines - the 8 winning lines as (row, col) triples: 3 rows, 3 columns and
// both diagonals.
var winLines = [8][3][2]int{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Board - 3x3 grid of cell symbols; the empty string marks a free cell.
type Board [boardSize][boardSize]string

// State - the engine payload persisted inside a game state. The symbol map is
// stored rather than re-derived, and PlayerOrder preserves the assignment
// order so turn rotation stays deterministic.
type State struct {
	Board         Board             `json:"board"`
	PlayerSymbols map[string]string `json:"player_symbols"`
	PlayerOrder   []string          `json:"player_order"`
}

// Move - a submitted move: the full board the client wants to transition to.
// Rows are kept as slices so a malformed shape is detected, not silently
// truncated.
type Move struct {
	Board [][]string `json:"board"`
}

// Engine implements game.Engine for tic-tac-toe.
type Engine struct{}

var _ game.Engine = (*Engine)(nil)

func New() *Engine {
	return &Engine{}
}

func (that *Engine) GameType() string {
	return GameType
}

func (that *Engine) MinPlayers() int {
	return minPlayers
}

func (that *Engine) MaxPlayers() int {
	return maxPlayers
}

// NewInitialState - empty board; the first seated player gets X, the second O.
func (that *Engine) NewInitialState(players []string) (json.RawMessage, error) {
	if len(players) != minPlayers {
		return nil, fmt.Errorf("%w: tic-tac-toe requires exactly %d players, got %d", apperror.ErrInvalidPlayerCount, minPlayers, len(players))
	}

	state := State{
		PlayerSymbols: map[string]string{
			players[0]: PlayerX,
			players[1]: PlayerO,
		},
		PlayerOrder: append([]string(nil), players...),
	}

	payload, err := json.Marshal(&state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal initial state: %w", err)
	}

	return payload, nil
}

// ValidateMove - checks, in order: the game is not over, it is the mover's
// turn, the board shape is 3x3, exactly one cell changed, and that cell went
// from empty to the mover's own symbol.
func (that *Engine) ValidateMove(gameState *entity.GameState, move json.RawMessage, playerID string) error {
	if gameState.IsGameOver {
		return apperror.ErrGameFinished
	}

	if gameState.CurrentPlayer != playerID {
		return apperror.ErrNotYourTurn
	}

	state, err := decodeState(gameState)
	if err != nil {
		return err
	}

	submitted, err := decodeMove(move)
	if err != nil {
		return err
	}

	symbol := state.PlayerSymbols[playerID]

	changes := 0
	for row := range state.Board {
		for col := range state.Board[row] {
			oldCell, newCell := state.Board[row][col], submitted[row][col]
			if oldCell == newCell {
				continue
			}

			changes++

			if oldCell != emptyCell {
				return fmt.Errorf("%w: cell (%d,%d)", apperror.ErrCellOccupied, row, col)
			}

			if newCell != symbol {
				return fmt.Errorf("%w: cell (%d,%d)", apperror.ErrWrongSymbol, row, col)
			}
		}
	}

	if changes != 1 {
		return fmt.Errorf("%w: expected exactly one changed cell, got %d", apperror.ErrInvalidMove, changes)
	}

	return nil
}

// ApplyMove - functional update: replaces the board, recomputes terminal
// conditions and advances the turn. The caller validates first.
func (that *Engine) ApplyMove(gameState *entity.GameState, move json.RawMessage, playerID string) (*entity.GameState, error) {
	state, err := decodeState(gameState)
	if err != nil {
		return nil, err
	}

	submitted, err := decodeMove(move)
	if err != nil {
		return nil, err
	}

	state.Board = submitted

	next := gameState.Clone()

	payload, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal game state: %w", err)
	}
	next.GameSpecificState.Data = payload

	next.IsGameOver = isGameOver(state.Board)

	if next.IsGameOver {
		next.WinningPlayers = winners(state)
		next.LosingPlayers = losers(state)
	}

	next.CurrentPlayer = nextPlayer(state, next.IsGameOver, playerID)

	return next, nil
}

func (that *Engine) IsGameOver(gameState *entity.GameState) (bool, error) {
	state, err := decodeState(gameState)
	if err != nil {
		return false, err
	}

	return isGameOver(state.Board), nil
}

func (that *Engine) Winners(gameState *entity.GameState) ([]string, error) {
	state, err := decodeState(gameState)
	if err != nil {
		return nil, err
	}

	return winners(state), nil
}

func (that *Engine) Losers(gameState *entity.GameState) ([]string, error) {
	state, err := decodeState(gameState)
	if err != nil {
		return nil, err
	}

	return losers(state), nil
}

func (that *Engine) NextPlayer(gameState *entity.GameState, current string) (string, error) {
	state, err := decodeState(gameState)
	if err != nil {
		return "", err
	}

	return nextPlayer(state, gameState.IsGameOver, current), nil
}

func decodeState(gameState *entity.GameState) (*State, error) {
	var state State
	if err := json.Unmarshal(gameState.GameSpecificState.Data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tic-tac-toe state: %w", err)
	}

	return &state, nil
}

func decodeMove(move json.RawMessage) (Board, error) {
	var submitted Move
	if err := json.Unmarshal(move, &submitted); err != nil {
		return Board{}, fmt.Errorf("%w: %w", apperror.ErrMalformedMove, err)
	}

	if len(submitted.Board) != boardSize {
		return Board{}, fmt.Errorf("%w: expected %d rows, got %d", apperror.ErrMalformedMove, boardSize, len(submitted.Board))
	}

	var board Board
	for row, cells := range submitted.Board {
		if len(cells) != boardSize {
			return Board{}, fmt.Errorf("%w: row %d has %d cells", apperror.ErrMalformedMove, row, len(cells))
		}
		copy(board[row][:], cells)
	}

	return board, nil
}

// winningSymbol - the symbol holding a completed line, or the empty string.
func winningSymbol(board Board) string {
	for _, line := range winLines {
		a := board[line[0][0]][line[0][1]]
		b := board[line[1][0]][line[1][1]]
		c := board[line[2][0]][line[2][1]]

		if a != emptyCell && a == b && b == c {
			return a
		}
	}

	return emptyCell
}

func isBoardFull(board Board) bool {
	for _, row := range board {
		for _, cell := range row {
			if cell == emptyCell {
				return false
			}
		}
	}

	return true
}

// isGameOver - a winning line exists or the board is full. A full board with
// no winning line is a draw, which is still terminal.
func isGameOver(board Board) bool {
	return winningSymbol(board) != emptyCell || isBoardFull(board)
}

func winners(state *State) []string {
	symbol := winningSymbol(state.Board)
	if symbol == emptyCell {
		return []string{}
	}

	for _, playerID := range state.PlayerOrder {
		if state.PlayerSymbols[playerID] == symbol {
			return []string{playerID}
		}
	}

	return []string{}
}

// losers - everyone who did not win, but only when there is a winner. A draw
// has neither winners nor losers.
func losers(state *State) []string {
	winning := winners(state)
	if len(winning) == 0 {
		return []string{}
	}

	losing := make([]string, 0, len(state.PlayerOrder)-len(winning))
	for _, playerID := range state.PlayerOrder {
		if playerID != winning[0] {
			losing = append(losing, playerID)
		}
	}

	return losing
}

// nextPlayer - round-robin over the seating order; identity once the game is
// over.
func nextPlayer(state *State, gameOver bool, current string) string {
	if gameOver {
		return current
	}

	for i, playerID := range state.PlayerOrder {
		if playerID == current {
			return state.PlayerOrder[(i+1)%len(state.PlayerOrder)]
		}
	}

	return current
}
