package entity

import (
	"encoding/json"
	"fmt"
)

// GameState - the authoritative, persisted snapshot of an in-progress or
// finished game. Version backs the optimistic-concurrency check on save.
type GameState struct {
	ID                string            `json:"id"`
	CurrentPlayer     string            `json:"current_player"`
	IsGameOver        bool              `json:"is_game_over"`
	WinningPlayers    []string          `json:"winning_players"`
	LosingPlayers     []string          `json:"losing_players"`
	GameSpecificState GameSpecificState `json:"game_specific_state"`
	Version           int64             `json:"version"`
}

// GameSpecificState - the engine-owned part of a game state. On the wire it is
// a single object tagged with a gameType key; in memory the tag is split out so
// the orchestrator can route to an engine without understanding the payload.
type GameSpecificState struct {
	GameType string
	Data     json.RawMessage
}

func (that GameSpecificState) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage)

	if len(that.Data) > 0 {
		if err := json.Unmarshal(that.Data, &fields); err != nil {
			return nil, fmt.Errorf("failed to flatten game specific state: %w", err)
		}
	}

	gameType, err := json.Marshal(that.GameType)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal game type: %w", err)
	}

	fields["gameType"] = gameType

	return json.Marshal(fields)
}

func (that *GameSpecificState) UnmarshalJSON(data []byte) error {
	var tag struct {
		GameType string `json:"gameType"`
	}

	if err := json.Unmarshal(data, &tag); err != nil {
		return fmt.Errorf("failed to unmarshal game type tag: %w", err)
	}

	that.GameType = tag.GameType
	that.Data = append(json.RawMessage(nil), data...)

	return nil
}

// Clone - returns a deep copy so engines can apply moves functionally without
// mutating the loaded state.
func (that *GameState) Clone() *GameState {
	cloned := *that
	cloned.WinningPlayers = append([]string(nil), that.WinningPlayers...)
	cloned.LosingPlayers = append([]string(nil), that.LosingPlayers...)
	cloned.GameSpecificState.Data = append(json.RawMessage(nil), that.GameSpecificState.Data...)

	return &cloned
}
