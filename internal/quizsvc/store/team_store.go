package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bezdurakov/quiz-service/internal/quizsvc/models"
)

type TeamStore struct {
	db DBTX
}

func NewTeamStore(db DBTX) *TeamStore {
	return &TeamStore{db: db}
}

// GetByName looks a team up by exact name. The team_name column uses a
// binary collation, so the match is case- and accent-sensitive.
func (s *TeamStore) GetByName(ctx context.Context, name string) (*models.Team, error) {
	t := &models.Team{}
	err := s.db.QueryRow(ctx, `
		SELECT team_id, team_name
		FROM teams
		WHERE team_name = $1
	`, name).Scan(&t.TeamID, &t.TeamName)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetOrCreate resolves a team name to its id, inserting the team on first
// reference. The insert runs in its own savepoint so that losing a race on
// the team_name unique constraint does not poison the caller's transaction;
// the loser re-reads the row the winner committed.
func (s *TeamStore) GetOrCreate(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("empty team name")
	}
	team, err := s.GetByName(ctx, name)
	if err == nil {
		return team.TeamID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("lookup team %q: %w", name, err)
	}

	sub, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin team insert: %w", err)
	}

	var teamID int64
	err = sub.QueryRow(ctx, `
		INSERT INTO teams (team_name)
		VALUES ($1)
		RETURNING team_id
	`, name).Scan(&teamID)
	if err != nil {
		_ = sub.Rollback(ctx)
		if uniqueViolation(err) {
			// Lost the race; the row exists now.
			team, rerr := s.GetByName(ctx, name)
			if rerr != nil {
				return 0, fmt.Errorf("re-read team %q after conflict: %w", name, rerr)
			}
			return team.TeamID, nil
		}
		return 0, fmt.Errorf("create team %q: %w", name, err)
	}
	if err := sub.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit team insert: %w", err)
	}

	return teamID, nil
}

// Count returns the number of registered teams.
func (s *TeamStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM teams`).Scan(&n)
	return n, err
}

// DeleteAll wipes the teams table. Only valid once no game references any
// team; used by the clear-database tool.
func (s *TeamStore) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM teams`)
	if err != nil {
		return 0, fmt.Errorf("clear teams: %w", err)
	}
	return tag.RowsAffected(), nil
}
