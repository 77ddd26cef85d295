package store

import (
	"context"
	"fmt"
	"time"

	"github.com/bezdurakov/quiz-service/internal/quizsvc/models"
)

type GameStore struct {
	db DBTX
}

func NewGameStore(db DBTX) *GameStore {
	return &GameStore{db: db}
}

// Insert creates a game row for the given date and returns its id.
func (s *GameStore) Insert(ctx context.Context, gameDate time.Time) (int64, error) {
	var gameID int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO games (game_date)
		VALUES ($1)
		RETURNING game_id
	`, gameDate).Scan(&gameID)
	if err != nil {
		return 0, fmt.Errorf("insert game: %w", err)
	}
	return gameID, nil
}

// GetByID fetches a single game row. Returns pgx.ErrNoRows for unknown ids.
func (s *GameStore) GetByID(ctx context.Context, gameID int64) (*models.Game, error) {
	g := &models.Game{}
	err := s.db.QueryRow(ctx, `
		SELECT game_id, game_date, created_at
		FROM games
		WHERE game_id = $1
	`, gameID).Scan(&g.GameID, &g.GameDate, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// List returns every game, ordered by date then id so the listing is stable.
func (s *GameStore) List(ctx context.Context) ([]models.Game, error) {
	rows, err := s.db.Query(ctx, `
		SELECT game_id, game_date, created_at
		FROM games
		ORDER BY game_date ASC, game_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		var g models.Game
		if err := rows.Scan(&g.GameID, &g.GameDate, &g.CreatedAt); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// IDsByDateRange returns ids of games whose date falls in [start, end],
// inclusive on both sides. A nil end means a single-day query on start.
func (s *GameStore) IDsByDateRange(ctx context.Context, start time.Time, end *time.Time) ([]int64, error) {
	until := start
	if end != nil {
		until = *end
	}

	rows, err := s.db.Query(ctx, `
		SELECT game_id
		FROM games
		WHERE game_date BETWEEN $1 AND $2
		ORDER BY game_id ASC
	`, start, until)
	if err != nil {
		return nil, fmt.Errorf("games by date: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Delete removes the game row itself. Round records and memberships must be
// gone first; the caller drives the dependency order inside its transaction.
// Returns the number of rows deleted (0 for an unknown id).
func (s *GameStore) Delete(ctx context.Context, gameID int64) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM games WHERE game_id = $1`, gameID)
	if err != nil {
		return 0, fmt.Errorf("delete game %d: %w", gameID, err)
	}
	return tag.RowsAffected(), nil
}
