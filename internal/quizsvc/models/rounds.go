package models

import "github.com/shopspring/decimal"

// The seven round tables all key on (game_id, team_id) and store
// NUMERIC(10,2) values. Each round keeps its own fixed column set, so each
// gets its own type here rather than a generic key/value bag.

// VyborScore is one row of the vybor table (selection round, points only).
type VyborScore struct {
	Points decimal.Decimal `json:"points"`
}

// ChislaScore is one row of the chisla table (numbers round, 5 tasks).
type ChislaScore struct {
	Tasks    [5]decimal.Decimal `json:"tasks"`
	TotalSum decimal.Decimal    `json:"total_sum"`
}

// PrefScore is one row of the pref table (preferans round, 7 tasks plus
// points, penalty and bonus columns).
type PrefScore struct {
	Tasks    [7]decimal.Decimal `json:"tasks"`
	Points   decimal.Decimal    `json:"points"`
	Penalty  decimal.Decimal    `json:"penalty"`
	Bonus    decimal.Decimal    `json:"bonus"`
	TotalSum decimal.Decimal    `json:"total_sum"`
}

// PairsScore is one row of the pairs table (points only).
type PairsScore struct {
	Points decimal.Decimal `json:"points"`
}

// RazoblScore is one row of the razobl table (exposure round, 4 tasks).
type RazoblScore struct {
	Tasks    [4]decimal.Decimal `json:"tasks"`
	TotalSum decimal.Decimal    `json:"total_sum"`
}

// AuctionTask is one task of the auction round. Rate is nullable in the
// schema, so it stays a pointer.
type AuctionTask struct {
	Bid    decimal.Decimal  `json:"bid"`
	Points decimal.Decimal  `json:"points"`
	Rate   *decimal.Decimal `json:"rate,omitempty"`
}

// AuctionScore is one row of the auction table (4 bid/points/rate tasks).
type AuctionScore struct {
	Tasks    [4]AuctionTask  `json:"tasks"`
	TotalSum decimal.Decimal `json:"total_sum"`
}

// MotScore is one row of the mot table (moment of truth, 3 tasks).
type MotScore struct {
	Tasks    [3]decimal.Decimal `json:"tasks"`
	TotalSum decimal.Decimal    `json:"total_sum"`
}

// Total returns the round subtotal used by the team_game_scores view.
func (s *VyborScore) Total() decimal.Decimal   { return s.Points }
func (s *ChislaScore) Total() decimal.Decimal  { return s.TotalSum }
func (s *PrefScore) Total() decimal.Decimal    { return s.TotalSum }
func (s *PairsScore) Total() decimal.Decimal   { return s.Points }
func (s *RazoblScore) Total() decimal.Decimal  { return s.TotalSum }
func (s *AuctionScore) Total() decimal.Decimal { return s.TotalSum }
func (s *MotScore) Total() decimal.Decimal     { return s.TotalSum }
