package entity

import "time"

// Player - a session participant. Created on session bootstrap, never deleted.
type Player struct {
	PlayerID  string    `json:"player_id" gorm:"primaryKey;column:player_id"`
	Name      string    `json:"name"      gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
