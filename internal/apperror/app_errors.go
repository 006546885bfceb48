package apperror

import "errors"

// Not-found class: a referenced record or game type does not exist.
var (
	ErrPlayerNotFound       = errors.New("player not found")
	ErrTableNotFound        = errors.New("table not found")
	ErrGameStateNotFound    = errors.New("game state not found")
	ErrGameTypeNotSupported = errors.New("game type is not supported")
)

// Validation class: the request itself is malformed or breaks a table rule.
var (
	ErrEmptyPlayerName    = errors.New("player name cannot be empty")
	ErrInvalidPlayerCount = errors.New("invalid number of players")
	ErrNotHost            = errors.New("only the host can start the game")
	ErrTableNotJoinable   = errors.New("table is not accepting players")
	ErrGameAlreadyStarted = errors.New("game has already started or finished")
	ErrGameIsNotStarted   = errors.New("game is not started")
	ErrGameAlreadyExists  = errors.New("game state already exists")
	ErrPlayerNotSeated    = errors.New("player is not seated at this table")
	ErrMalformedMove      = errors.New("malformed move")
)

// Invalid-move class: the move is well-formed but illegal against the
// authoritative state.
var (
	ErrGameFinished = errors.New("game is already finished")
	ErrNotYourTurn  = errors.New("it's not your turn")
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrWrongSymbol  = errors.New("cell does not hold the mover's symbol")
	ErrInvalidMove  = errors.New("invalid move")
)

// ErrVersionConflict - a concurrent writer won the race; the caller should
// re-fetch the state and retry once.
var ErrVersionConflict = errors.New("game state was modified concurrently")

// IsNotFound - reports whether err belongs to the not-found class.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPlayerNotFound) ||
		errors.Is(err, ErrTableNotFound) ||
		errors.Is(err, ErrGameStateNotFound) ||
		errors.Is(err, ErrGameTypeNotSupported)
}

// IsValidation - reports whether err belongs to the validation class.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyPlayerName) ||
		errors.Is(err, ErrInvalidPlayerCount) ||
		errors.Is(err, ErrNotHost) ||
		errors.Is(err, ErrTableNotJoinable) ||
		errors.Is(err, ErrGameAlreadyStarted) ||
		errors.Is(err, ErrGameIsNotStarted) ||
		errors.Is(err, ErrGameAlreadyExists) ||
		errors.Is(err, ErrPlayerNotSeated) ||
		errors.Is(err, ErrMalformedMove)
}

// IsInvalidMove - reports whether err belongs to the invalid-move class.
func IsInvalidMove(err error) bool {
	return errors.Is(err, ErrGameFinished) ||
		errors.Is(err, ErrNotYourTurn) ||
		errors.Is(err, ErrCellOccupied) ||
		errors.Is(err, ErrWrongSymbol) ||
		errors.Is(err, ErrInvalidMove)
}

// IsConflict - reports whether err is a lost concurrent write.
func IsConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}
