package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TeamGameScore is one row of the team_game_scores view: per-round subtotals
// and the grand total for a single (game, team) pair. The view COALESCEs a
// missing round record to zero points.
type TeamGameScore struct {
	GameID        int64           `json:"game_id"`
	GameDate      time.Time       `json:"game_date"`
	TeamID        int64           `json:"team_id"`
	TeamName      string          `json:"team_name"`
	VyborPoints   decimal.Decimal `json:"vybor_points"`
	ChislaPoints  decimal.Decimal `json:"chisla_points"`
	PrefPoints    decimal.Decimal `json:"pref_points"`
	PairsPoints   decimal.Decimal `json:"pairs_points"`
	RazoblPoints  decimal.Decimal `json:"razobl_points"`
	AuctionPoints decimal.Decimal `json:"auction_points"`
	MotPoints     decimal.Decimal `json:"mot_points"`
	TotalPoints   decimal.Decimal `json:"total_points"`
}

// Subtotals returns the row's per-round subtotals in view column order.
func (r *TeamGameScore) Subtotals() [7]decimal.Decimal {
	return [7]decimal.Decimal{
		r.VyborPoints, r.ChislaPoints, r.PrefPoints, r.PairsPoints,
		r.RazoblPoints, r.AuctionPoints, r.MotPoints,
	}
}
