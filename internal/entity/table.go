package entity

import (
	"time"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
)

const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

// PlayerIDs - the seating order of a table. The host is always first and
// entries are unique; stored as a JSON column.
type PlayerIDs []string

// Table - a lobby grouping players around one game instance. Status moves
// waiting -> playing -> finished and never back.
type Table struct {
	TableID      string    `json:"table_id"      gorm:"primaryKey;column:table_id"`
	JoinCode     string    `json:"join_code"     gorm:"uniqueIndex;type:varchar(4)"`
	PlayerIDs    PlayerIDs `json:"player_ids"    gorm:"serializer:json"`
	HostPlayerID string    `json:"host_player_id"`
	Status       string    `json:"status"`
	GameType     string    `json:"game_type"`
	GameStateID  string    `json:"game_state_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewTable(id, joinCode, gameType, hostPlayerID string) *Table {
	return &Table{
		TableID:      id,
		JoinCode:     joinCode,
		PlayerIDs:    PlayerIDs{hostPlayerID},
		HostPlayerID: hostPlayerID,
		Status:       StatusWaiting,
		GameType:     gameType,
	}
}

func (that *Table) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Table) IsPlaying() bool {
	return that.Status == StatusPlaying
}

func (that *Table) IsFinished() bool {
	return that.Status == StatusFinished
}

// HasStarted - reports whether a game state has been created for this table.
func (that *Table) HasStarted() bool {
	return that.GameStateID != ""
}

func (that *Table) HasPlayer(playerID string) bool {
	for _, id := range that.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// AddPlayer - seats a player at the table. Seating an already-seated player is
// a no-op; seating after the game started is rejected.
func (that *Table) AddPlayer(playerID string) error {
	if !that.IsWaiting() {
		return apperror.ErrTableNotJoinable
	}

	if that.HasPlayer(playerID) {
		return nil
	}

	that.PlayerIDs = append(that.PlayerIDs, playerID)

	return nil
}

// StartPlaying - advances the table to the playing state.
func (that *Table) StartPlaying() error {
	if !that.IsWaiting() {
		return apperror.ErrGameAlreadyStarted
	}

	that.Status = StatusPlaying

	return nil
}

// Finish - advances the table to its terminal state. Finishing twice is a
// no-op so the gameplay layer can call it after every terminal move.
func (that *Table) Finish() error {
	if that.IsFinished() {
		return nil
	}

	if !that.IsPlaying() {
		return apperror.ErrGameIsNotStarted
	}

	that.Status = StatusFinished

	return nil
}
