package service

import (
	"github.com/shopspring/decimal"

	"github.com/bezdurakov/quiz-service/internal/quizsvc/models"
)

// teamTotals is the per-team score vector used for duplicate detection:
// the seven round subtotals plus the grand total, rounded to the storage
// precision of 2 decimal places.
type teamTotals struct {
	subtotals [7]decimal.Decimal
	total     decimal.Decimal
}

// fingerprint maps each team name of a candidate game to its score vector.
func fingerprint(game *models.GameData) map[string]teamTotals {
	fp := make(map[string]teamTotals, len(game.Teams))
	for i := range game.Teams {
		t := &game.Teams[i]
		var tt teamTotals
		for j, sub := range t.Subtotals() {
			tt.subtotals[j] = sub.Round(2)
		}
		tt.total = t.TotalPoints().Round(2)
		fp[t.Name] = tt
	}
	return fp
}

// sameScores reports whether one stored game's view rows carry exactly the
// candidate's team set and score vectors. Comparison is exact at 2 decimal
// places; any nonzero difference in any subtotal or total is a mismatch.
func sameScores(rows []models.TeamGameScore, fp map[string]teamTotals) bool {
	if len(rows) != len(fp) {
		return false
	}
	for i := range rows {
		r := &rows[i]
		want, ok := fp[r.TeamName]
		if !ok {
			return false
		}
		for j, sub := range r.Subtotals() {
			if !sub.Round(2).Equal(want.subtotals[j]) {
				return false
			}
		}
		if !r.TotalPoints.Round(2).Equal(want.total) {
			return false
		}
	}
	return true
}
