package store

import (
	"context"
	"fmt"
	"time"

	"github.com/bezdurakov/quiz-service/internal/quizsvc/models"
)

// ScoreStore covers the game_teams membership table, the seven round tables
// and the team_game_scores view. A round row may only exist under a
// membership row, so membership writes live here too.
type ScoreStore struct {
	db DBTX
}

func NewScoreStore(db DBTX) *ScoreStore {
	return &ScoreStore{db: db}
}

// AddMembership records that a team played in a game.
func (s *ScoreStore) AddMembership(ctx context.Context, gameID, teamID int64) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO game_teams (game_id, team_id)
		VALUES ($1, $2)
	`, gameID, teamID)
	if err != nil {
		return fmt.Errorf("insert membership (%d,%d): %w", gameID, teamID, err)
	}
	return nil
}

// TeamsForGame returns the participating teams of a game, ordered by team id.
func (s *ScoreStore) TeamsForGame(ctx context.Context, gameID int64) ([]models.Team, error) {
	rows, err := s.db.Query(ctx, `
		SELECT t.team_id, t.team_name
		FROM game_teams gt
		JOIN teams t ON t.team_id = gt.team_id
		WHERE gt.game_id = $1
		ORDER BY t.team_id ASC
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("teams for game %d: %w", gameID, err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.TeamID, &t.TeamName); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (s *ScoreStore) InsertVybor(ctx context.Context, gameID, teamID int64, sc *models.VyborScore) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO vybor (game_id, team_id, points)
		VALUES ($1, $2, $3)
	`, gameID, teamID, sc.Points)
	if err != nil {
		return fmt.Errorf("insert vybor (%d,%d): %w", gameID, teamID, err)
	}
	return nil
}

func (s *ScoreStore) InsertChisla(ctx context.Context, gameID, teamID int64, sc *models.ChislaScore) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO chisla (game_id, team_id, task_1, task_2, task_3, task_4, task_5, total_sum)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, gameID, teamID, sc.Tasks[0], sc.Tasks[1], sc.Tasks[2], sc.Tasks[3], sc.Tasks[4], sc.TotalSum)
	if err != nil {
		return fmt.Errorf("insert chisla (%d,%d): %w", gameID, teamID, err)
	}
	return nil
}

func (s *ScoreStore) InsertPref(ctx context.Context, gameID, teamID int64, sc *models.PrefScore) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO pref (game_id, team_id, task_1, task_2, task_3, task_4, task_5, task_6, task_7,
			points, penalty, bonus, total_sum)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, gameID, teamID, sc.Tasks[0], sc.Tasks[1], sc.Tasks[2], sc.Tasks[3], sc.Tasks[4], sc.Tasks[5],
		sc.Tasks[6], sc.Points, sc.Penalty, sc.Bonus, sc.TotalSum)
	if err != nil {
		return fmt.Errorf("insert pref (%d,%d): %w", gameID, teamID, err)
	}
	return nil
}

func (s *ScoreStore) InsertPairs(ctx context.Context, gameID, teamID int64, sc *models.PairsScore) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO pairs (game_id, team_id, points)
		VALUES ($1, $2, $3)
	`, gameID, teamID, sc.Points)
	if err != nil {
		return fmt.Errorf("insert pairs (%d,%d): %w", gameID, teamID, err)
	}
	return nil
}

func (s *ScoreStore) InsertRazobl(ctx context.Context, gameID, teamID int64, sc *models.RazoblScore) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO razobl (game_id, team_id, task_1, task_2, task_3, task_4, total_sum)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, gameID, teamID, sc.Tasks[0], sc.Tasks[1], sc.Tasks[2], sc.Tasks[3], sc.TotalSum)
	if err != nil {
		return fmt.Errorf("insert razobl (%d,%d): %w", gameID, teamID, err)
	}
	return nil
}

func (s *ScoreStore) InsertAuction(ctx context.Context, gameID, teamID int64, sc *models.AuctionScore) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO auction (game_id, team_id,
			task_1_bid, task_1_points, task_1_rate,
			task_2_bid, task_2_points, task_2_rate,
			task_3_bid, task_3_points, task_3_rate,
			task_4_bid, task_4_points, task_4_rate,
			total_sum)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, gameID, teamID,
		sc.Tasks[0].Bid, sc.Tasks[0].Points, sc.Tasks[0].Rate,
		sc.Tasks[1].Bid, sc.Tasks[1].Points, sc.Tasks[1].Rate,
		sc.Tasks[2].Bid, sc.Tasks[2].Points, sc.Tasks[2].Rate,
		sc.Tasks[3].Bid, sc.Tasks[3].Points, sc.Tasks[3].Rate,
		sc.TotalSum)
	if err != nil {
		return fmt.Errorf("insert auction (%d,%d): %w", gameID, teamID, err)
	}
	return nil
}

func (s *ScoreStore) InsertMot(ctx context.Context, gameID, teamID int64, sc *models.MotScore) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO mot (game_id, team_id, task_1, task_2, task_3, total_sum)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, gameID, teamID, sc.Tasks[0], sc.Tasks[1], sc.Tasks[2], sc.TotalSum)
	if err != nil {
		return fmt.Errorf("insert mot (%d,%d): %w", gameID, teamID, err)
	}
	return nil
}

// VyborByGame returns the vybor rows of a game keyed by team id. Rounds with
// no record for a team simply have no map entry.
func (s *ScoreStore) VyborByGame(ctx context.Context, gameID int64) (map[int64]*models.VyborScore, error) {
	rows, err := s.db.Query(ctx, `
		SELECT team_id, points FROM vybor WHERE game_id = $1
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("vybor for game %d: %w", gameID, err)
	}
	defer rows.Close()

	out := make(map[int64]*models.VyborScore)
	for rows.Next() {
		var teamID int64
		sc := &models.VyborScore{}
		if err := rows.Scan(&teamID, &sc.Points); err != nil {
			return nil, err
		}
		out[teamID] = sc
	}
	return out, rows.Err()
}

func (s *ScoreStore) ChislaByGame(ctx context.Context, gameID int64) (map[int64]*models.ChislaScore, error) {
	rows, err := s.db.Query(ctx, `
		SELECT team_id, task_1, task_2, task_3, task_4, task_5, total_sum
		FROM chisla WHERE game_id = $1
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("chisla for game %d: %w", gameID, err)
	}
	defer rows.Close()

	out := make(map[int64]*models.ChislaScore)
	for rows.Next() {
		var teamID int64
		sc := &models.ChislaScore{}
		if err := rows.Scan(&teamID, &sc.Tasks[0], &sc.Tasks[1], &sc.Tasks[2], &sc.Tasks[3],
			&sc.Tasks[4], &sc.TotalSum); err != nil {
			return nil, err
		}
		out[teamID] = sc
	}
	return out, rows.Err()
}

func (s *ScoreStore) PrefByGame(ctx context.Context, gameID int64) (map[int64]*models.PrefScore, error) {
	rows, err := s.db.Query(ctx, `
		SELECT team_id, task_1, task_2, task_3, task_4, task_5, task_6, task_7,
			points, penalty, bonus, total_sum
		FROM pref WHERE game_id = $1
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("pref for game %d: %w", gameID, err)
	}
	defer rows.Close()

	out := make(map[int64]*models.PrefScore)
	for rows.Next() {
		var teamID int64
		sc := &models.PrefScore{}
		if err := rows.Scan(&teamID, &sc.Tasks[0], &sc.Tasks[1], &sc.Tasks[2], &sc.Tasks[3],
			&sc.Tasks[4], &sc.Tasks[5], &sc.Tasks[6],
			&sc.Points, &sc.Penalty, &sc.Bonus, &sc.TotalSum); err != nil {
			return nil, err
		}
		out[teamID] = sc
	}
	return out, rows.Err()
}

func (s *ScoreStore) PairsByGame(ctx context.Context, gameID int64) (map[int64]*models.PairsScore, error) {
	rows, err := s.db.Query(ctx, `
		SELECT team_id, points FROM pairs WHERE game_id = $1
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("pairs for game %d: %w", gameID, err)
	}
	defer rows.Close()

	out := make(map[int64]*models.PairsScore)
	for rows.Next() {
		var teamID int64
		sc := &models.PairsScore{}
		if err := rows.Scan(&teamID, &sc.Points); err != nil {
			return nil, err
		}
		out[teamID] = sc
	}
	return out, rows.Err()
}

func (s *ScoreStore) RazoblByGame(ctx context.Context, gameID int64) (map[int64]*models.RazoblScore, error) {
	rows, err := s.db.Query(ctx, `
		SELECT team_id, task_1, task_2, task_3, task_4, total_sum
		FROM razobl WHERE game_id = $1
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("razobl for game %d: %w", gameID, err)
	}
	defer rows.Close()

	out := make(map[int64]*models.RazoblScore)
	for rows.Next() {
		var teamID int64
		sc := &models.RazoblScore{}
		if err := rows.Scan(&teamID, &sc.Tasks[0], &sc.Tasks[1], &sc.Tasks[2], &sc.Tasks[3],
			&sc.TotalSum); err != nil {
			return nil, err
		}
		out[teamID] = sc
	}
	return out, rows.Err()
}

func (s *ScoreStore) AuctionByGame(ctx context.Context, gameID int64) (map[int64]*models.AuctionScore, error) {
	rows, err := s.db.Query(ctx, `
		SELECT team_id,
			task_1_bid, task_1_points, task_1_rate,
			task_2_bid, task_2_points, task_2_rate,
			task_3_bid, task_3_points, task_3_rate,
			task_4_bid, task_4_points, task_4_rate,
			total_sum
		FROM auction WHERE game_id = $1
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("auction for game %d: %w", gameID, err)
	}
	defer rows.Close()

	out := make(map[int64]*models.AuctionScore)
	for rows.Next() {
		var teamID int64
		sc := &models.AuctionScore{}
		if err := rows.Scan(&teamID,
			&sc.Tasks[0].Bid, &sc.Tasks[0].Points, &sc.Tasks[0].Rate,
			&sc.Tasks[1].Bid, &sc.Tasks[1].Points, &sc.Tasks[1].Rate,
			&sc.Tasks[2].Bid, &sc.Tasks[2].Points, &sc.Tasks[2].Rate,
			&sc.Tasks[3].Bid, &sc.Tasks[3].Points, &sc.Tasks[3].Rate,
			&sc.TotalSum); err != nil {
			return nil, err
		}
		out[teamID] = sc
	}
	return out, rows.Err()
}

func (s *ScoreStore) MotByGame(ctx context.Context, gameID int64) (map[int64]*models.MotScore, error) {
	rows, err := s.db.Query(ctx, `
		SELECT team_id, task_1, task_2, task_3, total_sum
		FROM mot WHERE game_id = $1
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("mot for game %d: %w", gameID, err)
	}
	defer rows.Close()

	out := make(map[int64]*models.MotScore)
	for rows.Next() {
		var teamID int64
		sc := &models.MotScore{}
		if err := rows.Scan(&teamID, &sc.Tasks[0], &sc.Tasks[1], &sc.Tasks[2], &sc.TotalSum); err != nil {
			return nil, err
		}
		out[teamID] = sc
	}
	return out, rows.Err()
}

// DeleteForGame removes every round record and membership row of a game,
// children before the games row the caller deletes next.
func (s *ScoreStore) DeleteForGame(ctx context.Context, gameID int64) error {
	tables := []string{"vybor", "chisla", "pref", "pairs", "razobl", "auction", "mot", "game_teams"}
	for _, table := range tables {
		if _, err := s.db.Exec(ctx, `DELETE FROM `+table+` WHERE game_id = $1`, gameID); err != nil {
			return fmt.Errorf("delete %s rows for game %d: %w", table, gameID, err)
		}
	}
	return nil
}

// ScoresByDate reads the team_game_scores view for one calendar date,
// ordered by game id then team id so grouping by game is deterministic and
// the lowest-id game comes first.
func (s *ScoreStore) ScoresByDate(ctx context.Context, gameDate time.Time) ([]models.TeamGameScore, error) {
	rows, err := s.db.Query(ctx, `
		SELECT game_id, game_date, team_id, team_name,
			COALESCE(vybor_points, 0),
			COALESCE(chisla_points, 0),
			COALESCE(pref_points, 0),
			COALESCE(pairs_points, 0),
			COALESCE(razobl_points, 0),
			COALESCE(auction_points, 0),
			COALESCE(mot_points, 0),
			total_points
		FROM team_game_scores
		WHERE game_date = $1
		ORDER BY game_id ASC, team_id ASC
	`, gameDate)
	if err != nil {
		return nil, fmt.Errorf("scores for date %s: %w", gameDate.Format("2006-01-02"), err)
	}
	defer rows.Close()

	var out []models.TeamGameScore
	for rows.Next() {
		var r models.TeamGameScore
		if err := rows.Scan(&r.GameID, &r.GameDate, &r.TeamID, &r.TeamName,
			&r.VyborPoints, &r.ChislaPoints, &r.PrefPoints, &r.PairsPoints,
			&r.RazoblPoints, &r.AuctionPoints, &r.MotPoints, &r.TotalPoints); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
