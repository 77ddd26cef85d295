package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/bezdurakov/quiz-service/internal/quizsvc/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func candidate() *models.GameData {
	d, _ := time.Parse("2006-01-02", "2024-01-15")
	return &models.GameData{
		Date: d,
		Teams: []models.TeamResult{
			{
				Name:  "Alpha",
				Vybor: &models.VyborScore{Points: dec("10.00")},
				Mot:   &models.MotScore{TotalSum: dec("32.50")},
			},
			{
				Name:  "Beta",
				Pairs: &models.PairsScore{Points: dec("37.00")},
			},
		},
	}
}

// storedRows mirrors what the team_game_scores view returns for candidate().
func storedRows() []models.TeamGameScore {
	return []models.TeamGameScore{
		{
			GameID:      7,
			TeamID:      1,
			TeamName:    "Alpha",
			VyborPoints: dec("10.00"),
			MotPoints:   dec("32.50"),
			TotalPoints: dec("42.50"),
		},
		{
			GameID:      7,
			TeamID:      2,
			TeamName:    "Beta",
			PairsPoints: dec("37.00"),
			TotalPoints: dec("37.00"),
		},
	}
}

func TestSameScoresMatchesIdenticalGame(t *testing.T) {
	assert.True(t, sameScores(storedRows(), fingerprint(candidate())))
}

func TestSameScoresIgnoresTrailingZeros(t *testing.T) {
	// 42.5 and 42.50 are the same value at 2-decimal precision.
	cand := candidate()
	cand.Teams[0].Mot.TotalSum = dec("32.5")
	assert.True(t, sameScores(storedRows(), fingerprint(cand)))
}

func TestSameScoresRejectsDifferentTotal(t *testing.T) {
	cand := candidate()
	cand.Teams[1].Pairs.Points = dec("37.01")
	assert.False(t, sameScores(storedRows(), fingerprint(cand)))
}

func TestSameScoresRejectsShiftedSubtotals(t *testing.T) {
	// Same grand total, points booked under a different round.
	cand := candidate()
	cand.Teams[0].Vybor = nil
	cand.Teams[0].Pairs = &models.PairsScore{Points: dec("10.00")}
	assert.False(t, sameScores(storedRows(), fingerprint(cand)))
}

func TestSameScoresRejectsDifferentTeamSet(t *testing.T) {
	cand := candidate()
	cand.Teams[1].Name = "Gamma"
	assert.False(t, sameScores(storedRows(), fingerprint(cand)))
}

func TestSameScoresRejectsDifferentCardinality(t *testing.T) {
	cand := candidate()
	cand.Teams = append(cand.Teams, models.TeamResult{Name: "Gamma"})
	assert.False(t, sameScores(storedRows(), fingerprint(cand)))

	assert.False(t, sameScores(storedRows()[:1], fingerprint(candidate())))
}

func TestSameScoresIsOrderIndependent(t *testing.T) {
	cand := candidate()
	cand.Teams[0], cand.Teams[1] = cand.Teams[1], cand.Teams[0]
	assert.True(t, sameScores(storedRows(), fingerprint(cand)))
}
