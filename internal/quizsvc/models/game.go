package models

import "time"

// Game represents the games table. The schema itself is owned by the
// migration tool; this layer assumes it already exists.
type Game struct {
	GameID    int64     `json:"game_id"`   // Primary key
	GameDate  time.Time `json:"game_date"` // Calendar date of the game (date column)
	CreatedAt time.Time `json:"created_at"`
}

// Team represents the teams table. team_name carries a binary collation
// so lookups are exact, case-sensitive matches.
type Team struct {
	TeamID   int64  `json:"team_id"`
	TeamName string `json:"team_name"`
}

// GameTeam links a game to a participating team (game_teams table).
type GameTeam struct {
	GameID int64 `json:"game_id"`
	TeamID int64 `json:"team_id"`
}
