package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bezdurakov/quiz-service/internal/quizsvc/models"
	"github.com/bezdurakov/quiz-service/internal/quizsvc/quiztest"
	"github.com/bezdurakov/quiz-service/internal/quizsvc/store"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func rate(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// fullGame builds a submission exercising every round table.
func fullGame(date string) *models.GameData {
	return &models.GameData{
		Date: day(date),
		Teams: []models.TeamResult{
			{
				Name:  "Alpha",
				Vybor: &models.VyborScore{Points: dec("10.00")},
				Chisla: &models.ChislaScore{
					Tasks:    [5]decimal.Decimal{dec("1"), dec("2"), dec("3"), dec("4"), dec("5")},
					TotalSum: dec("15.00"),
				},
				Pref: &models.PrefScore{
					Tasks:    [7]decimal.Decimal{dec("1"), dec("1"), dec("1"), dec("1"), dec("1"), dec("1"), dec("1")},
					Points:   dec("7.00"),
					Penalty:  dec("-1.00"),
					Bonus:    dec("2.00"),
					TotalSum: dec("8.00"),
				},
				Pairs: &models.PairsScore{Points: dec("4.00")},
				Razobl: &models.RazoblScore{
					Tasks:    [4]decimal.Decimal{dec("1"), dec("0"), dec("1"), dec("0")},
					TotalSum: dec("2.00"),
				},
				Auction: &models.AuctionScore{
					Tasks: [4]models.AuctionTask{
						{Bid: dec("5"), Points: dec("7.50"), Rate: rate("1.50")},
						{Bid: dec("3"), Points: dec("0")},
						{Bid: dec("2"), Points: dec("2"), Rate: rate("1")},
						{Bid: dec("1"), Points: dec("1"), Rate: rate("1")},
					},
					TotalSum: dec("10.50"),
				},
				Mot: &models.MotScore{
					Tasks:    [3]decimal.Decimal{dec("1"), dec("1"), dec("1")},
					TotalSum: dec("3.00"),
				},
			},
			{
				Name:  "Beta",
				Vybor: &models.VyborScore{Points: dec("7.50")},
				Pairs: &models.PairsScore{Points: dec("29.50")},
			},
		},
	}
}

func TestAddGameRoundTrip(t *testing.T) {
	pool := quiztest.Pool(t)
	svc := NewGameService(pool)
	ctx := context.Background()

	want := fullGame("2024-01-15")
	gameID, err := svc.AddGame(ctx, want)
	require.NoError(t, err)
	require.NotZero(t, gameID)

	got, err := svc.GetGameData(ctx, gameID)
	require.NoError(t, err)

	assert.Equal(t, gameID, got.GameID)
	assert.Equal(t, "2024-01-15", got.Date.Format("2006-01-02"))
	require.Len(t, got.Teams, 2)

	byName := map[string]*models.TeamResult{}
	for i := range got.Teams {
		byName[got.Teams[i].Name] = &got.Teams[i]
	}
	alpha := byName["Alpha"]
	require.NotNil(t, alpha)

	assert.True(t, alpha.Vybor.Points.Equal(dec("10.00")))
	assert.True(t, alpha.Chisla.Tasks[4].Equal(dec("5")))
	assert.True(t, alpha.Pref.Penalty.Equal(dec("-1.00")))
	require.NotNil(t, alpha.Auction.Tasks[0].Rate)
	assert.True(t, alpha.Auction.Tasks[0].Rate.Equal(dec("1.50")))
	assert.Nil(t, alpha.Auction.Tasks[1].Rate)
	assert.True(t, alpha.TotalPoints().Equal(dec("52.50")))

	beta := byName["Beta"]
	require.NotNil(t, beta)
	assert.Nil(t, beta.Chisla, "beta has no chisla record")
	assert.True(t, beta.TotalPoints().Equal(dec("37.00")))
}

func TestAddGameRejectsInvalidSubmission(t *testing.T) {
	pool := quiztest.Pool(t)
	svc := NewGameService(pool)
	ctx := context.Background()

	_, err := svc.AddGame(ctx, &models.GameData{Date: day("2024-01-15")})
	require.ErrorIs(t, err, models.ErrInvalidGame)

	// Nothing may be written by a rejected submission.
	games, err := svc.GetAllGames(ctx)
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestGetOrCreateTeamIdempotent(t *testing.T) {
	pool := quiztest.Pool(t)
	teams := store.NewTeamStore(pool)
	ctx := context.Background()

	id1, err := teams.GetOrCreate(ctx, "Alpha")
	require.NoError(t, err)
	id2, err := teams.GetOrCreate(ctx, "Alpha")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	n, err := teams.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Exact-match lookup: different case is a different team.
	id3, err := teams.GetOrCreate(ctx, "alpha")
	require.NoError(t, err)
	assert.NotEqual(t, id1, id3)
}

func TestRemoveGame(t *testing.T) {
	pool := quiztest.Pool(t)
	svc := NewGameService(pool)
	ctx := context.Background()

	gameID, err := svc.AddGame(ctx, fullGame("2024-01-15"))
	require.NoError(t, err)

	require.NoError(t, svc.RemoveGame(ctx, gameID))

	_, err = svc.GetGameData(ctx, gameID)
	assert.ErrorIs(t, err, ErrNotFound)

	games, err := svc.GetAllGames(ctx)
	require.NoError(t, err)
	assert.Empty(t, games)

	// No orphaned membership or round rows.
	for _, table := range []string{"game_teams", "vybor", "chisla", "pref", "pairs", "razobl", "auction", "mot"} {
		var n int
		require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n))
		assert.Zero(t, n, "table %s should be empty", table)
	}

	// Teams survive removal and are reusable.
	teams := store.NewTeamStore(pool)
	n, err := teams.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = svc.AddGame(ctx, fullGame("2024-02-01"))
	require.NoError(t, err)
	n, err = teams.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "re-adding with the same teams must not duplicate them")
}

func TestRemoveGameNotFound(t *testing.T) {
	pool := quiztest.Pool(t)
	svc := NewGameService(pool)

	err := svc.RemoveGame(context.Background(), 424242)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetAllGamesOrdering(t *testing.T) {
	pool := quiztest.Pool(t)
	svc := NewGameService(pool)
	ctx := context.Background()

	// Inserted out of date order on purpose.
	id2, err := svc.AddGame(ctx, fullGame("2024-03-01"))
	require.NoError(t, err)
	id1, err := svc.AddGame(ctx, fullGame("2024-01-15"))
	require.NoError(t, err)
	id3, err := svc.AddGame(ctx, fullGame("2024-03-01"))
	require.NoError(t, err)

	games, err := svc.GetAllGames(ctx)
	require.NoError(t, err)
	require.Len(t, games, 3)
	assert.Equal(t, []int64{id1, id2, id3},
		[]int64{games[0].GameID, games[1].GameID, games[2].GameID})
}

func TestGetGameIDsByDate(t *testing.T) {
	pool := quiztest.Pool(t)
	svc := NewGameService(pool)
	ctx := context.Background()

	id1, err := svc.AddGame(ctx, fullGame("2024-01-15"))
	require.NoError(t, err)
	id2, err := svc.AddGame(ctx, fullGame("2024-01-20"))
	require.NoError(t, err)
	_, err = svc.AddGame(ctx, fullGame("2024-02-05"))
	require.NoError(t, err)

	// Single-day query: nil end defaults to start.
	ids, err := svc.GetGameIDsByDate(ctx, day("2024-01-15"), nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{id1}, ids)

	// Inclusive on both ends.
	end := day("2024-01-20")
	ids, err = svc.GetGameIDsByDate(ctx, day("2024-01-15"), &end)
	require.NoError(t, err)
	assert.Equal(t, []int64{id1, id2}, ids)

	ids, err = svc.GetGameIDsByDate(ctx, day("2023-12-01"), nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFindIdenticalGame(t *testing.T) {
	pool := quiztest.Pool(t)
	svc := NewGameService(pool)
	ctx := context.Background()

	first, err := svc.AddGame(ctx, fullGame("2024-01-15"))
	require.NoError(t, err)

	// An identical resubmission matches the stored game.
	id, err := svc.FindIdenticalGame(ctx, fullGame("2024-01-15"))
	require.NoError(t, err)
	assert.Equal(t, first, id)

	// Same date, one total off by a cent: no match.
	offByOne := fullGame("2024-01-15")
	offByOne.Teams[1].Pairs.Points = dec("29.51")
	_, err = svc.FindIdenticalGame(ctx, offByOne)
	assert.ErrorIs(t, err, ErrNoMatch)

	// Different date: no match.
	_, err = svc.FindIdenticalGame(ctx, fullGame("2024-01-16"))
	assert.ErrorIs(t, err, ErrNoMatch)

	// Same scores but an extra team: no match.
	extra := fullGame("2024-01-15")
	extra.Teams = append(extra.Teams, models.TeamResult{
		Name:  "Gamma",
		Vybor: &models.VyborScore{Points: dec("0")},
	})
	_, err = svc.FindIdenticalGame(ctx, extra)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestFindIdenticalGamePrefersLowestID(t *testing.T) {
	pool := quiztest.Pool(t)
	svc := NewGameService(pool)
	ctx := context.Background()

	// Two byte-identical stored games on the same date.
	first, err := svc.AddGame(ctx, fullGame("2024-01-15"))
	require.NoError(t, err)
	second, err := svc.AddGame(ctx, fullGame("2024-01-15"))
	require.NoError(t, err)
	require.Greater(t, second, first)

	id, err := svc.FindIdenticalGame(ctx, fullGame("2024-01-15"))
	require.NoError(t, err)
	assert.Equal(t, first, id)
}

func TestSaveGameDeduplicates(t *testing.T) {
	pool := quiztest.Pool(t)
	svc := NewGameService(pool)
	ctx := context.Background()

	id1, stored, err := svc.SaveGame(ctx, fullGame("2024-01-15"))
	require.NoError(t, err)
	assert.True(t, stored)

	id2, stored, err := svc.SaveGame(ctx, fullGame("2024-01-15"))
	require.NoError(t, err)
	assert.False(t, stored, "identical resubmission must be skipped")
	assert.Equal(t, id1, id2)

	games, err := svc.GetAllGames(ctx)
	require.NoError(t, err)
	assert.Len(t, games, 1)
}

func TestClearGames(t *testing.T) {
	pool := quiztest.Pool(t)
	svc := NewGameService(pool)
	ctx := context.Background()

	_, err := svc.AddGame(ctx, fullGame("2024-01-15"))
	require.NoError(t, err)
	_, err = svc.AddGame(ctx, fullGame("2024-01-16"))
	require.NoError(t, err)

	removed, failed, err := svc.ClearGames(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Zero(t, failed)

	games, err := svc.GetAllGames(ctx)
	require.NoError(t, err)
	assert.Empty(t, games)

	// Teams are only cleared on explicit request.
	teams := store.NewTeamStore(pool)
	n, err := teams.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	deleted, err := svc.ClearTeams(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)
}
