package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidGame marks a submission that is rejected before any write.
var ErrInvalidGame = errors.New("invalid game submission")

// GameData is the in-memory representation of a full game: the date plus one
// result entry per participating team. It is the input shape for AddGame and
// FindIdenticalGame and the output shape of GetGameData.
type GameData struct {
	GameID int64        `json:"game_id,omitempty"` // set on games read back from the store
	Date   time.Time    `json:"date"`
	Teams  []TeamResult `json:"teams"`
}

// TeamResult holds one team's scores for a game. A nil round pointer means
// the team has no record for that round; the aggregation view counts it as
// zero points.
type TeamResult struct {
	Name    string        `json:"name"`
	Vybor   *VyborScore   `json:"vybor,omitempty"`
	Chisla  *ChislaScore  `json:"chisla,omitempty"`
	Pref    *PrefScore    `json:"pref,omitempty"`
	Pairs   *PairsScore   `json:"pairs,omitempty"`
	Razobl  *RazoblScore  `json:"razobl,omitempty"`
	Auction *AuctionScore `json:"auction,omitempty"`
	Mot     *MotScore     `json:"mot,omitempty"`
}

// Validate rejects malformed submissions: a zero date, an empty team list,
// blank team names or the same team listed twice.
func (g *GameData) Validate() error {
	if g.Date.IsZero() {
		return fmt.Errorf("%w: missing game date", ErrInvalidGame)
	}
	if len(g.Teams) == 0 {
		return fmt.Errorf("%w: no teams", ErrInvalidGame)
	}
	seen := make(map[string]bool, len(g.Teams))
	for _, t := range g.Teams {
		if t.Name == "" {
			return fmt.Errorf("%w: empty team name", ErrInvalidGame)
		}
		if seen[t.Name] {
			return fmt.Errorf("%w: team %q listed twice", ErrInvalidGame, t.Name)
		}
		seen[t.Name] = true
	}
	return nil
}

// TeamNames returns the set of participating team names.
func (g *GameData) TeamNames() map[string]bool {
	names := make(map[string]bool, len(g.Teams))
	for _, t := range g.Teams {
		names[t.Name] = true
	}
	return names
}

// Subtotals returns the seven per-round subtotals for a team in view column
// order (vybor, chisla, pref, pairs, razobl, auction, mot). Missing rounds
// count as zero, matching the COALESCE in team_game_scores.
func (t *TeamResult) Subtotals() [7]decimal.Decimal {
	var sub [7]decimal.Decimal
	if t.Vybor != nil {
		sub[0] = t.Vybor.Total()
	}
	if t.Chisla != nil {
		sub[1] = t.Chisla.Total()
	}
	if t.Pref != nil {
		sub[2] = t.Pref.Total()
	}
	if t.Pairs != nil {
		sub[3] = t.Pairs.Total()
	}
	if t.Razobl != nil {
		sub[4] = t.Razobl.Total()
	}
	if t.Auction != nil {
		sub[5] = t.Auction.Total()
	}
	if t.Mot != nil {
		sub[6] = t.Mot.Total()
	}
	return sub
}

// TotalPoints is the grand total across all rounds for a team.
func (t *TeamResult) TotalPoints() decimal.Decimal {
	total := decimal.Zero
	for _, s := range t.Subtotals() {
		total = total.Add(s)
	}
	return total
}
