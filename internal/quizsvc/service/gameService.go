package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/bezdurakov/quiz-service/internal/quizsvc/models"
	"github.com/bezdurakov/quiz-service/internal/quizsvc/store"
)

var (
	// ErrNotFound is returned for reads and removals of unknown game ids.
	ErrNotFound = errors.New("game not found")
	// ErrNoMatch is returned by FindIdenticalGame when no stored game
	// matches the candidate.
	ErrNoMatch = errors.New("no identical game")
)

// GameService is the persistence façade over games, teams, memberships and
// the seven round tables. Every write operation runs as one transaction;
// there is no in-process state, so any number of instances may run against
// the same database.
type GameService struct {
	pool   *pgxpool.Pool
	games  *store.GameStore
	teams  *store.TeamStore
	scores *store.ScoreStore
}

func NewGameService(pool *pgxpool.Pool) *GameService {
	return &GameService{
		pool:   pool,
		games:  store.NewGameStore(pool),
		teams:  store.NewTeamStore(pool),
		scores: store.NewScoreStore(pool),
	}
}

// AddGame stores a full game submission: the game row, one membership per
// team (teams created on first reference) and one row per present round
// score. Everything commits or nothing does. Returns the new game id.
func (s *GameService) AddGame(ctx context.Context, game *models.GameData) (int64, error) {
	if err := game.Validate(); err != nil {
		return 0, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	games := store.NewGameStore(tx)
	teams := store.NewTeamStore(tx)
	scores := store.NewScoreStore(tx)

	gameID, err := games.Insert(ctx, game.Date)
	if err != nil {
		return 0, err
	}

	for i := range game.Teams {
		t := &game.Teams[i]

		teamID, err := teams.GetOrCreate(ctx, t.Name)
		if err != nil {
			return 0, err
		}
		if err := scores.AddMembership(ctx, gameID, teamID); err != nil {
			return 0, err
		}
		if err := insertRounds(ctx, scores, gameID, teamID, t); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit game: %w", err)
	}

	log.Infof("game %d (%s) saved with %d team(s)",
		gameID, game.Date.Format("2006-01-02"), len(game.Teams))
	return gameID, nil
}

func insertRounds(ctx context.Context, scores *store.ScoreStore, gameID, teamID int64, t *models.TeamResult) error {
	if t.Vybor != nil {
		if err := scores.InsertVybor(ctx, gameID, teamID, t.Vybor); err != nil {
			return err
		}
	}
	if t.Chisla != nil {
		if err := scores.InsertChisla(ctx, gameID, teamID, t.Chisla); err != nil {
			return err
		}
	}
	if t.Pref != nil {
		if err := scores.InsertPref(ctx, gameID, teamID, t.Pref); err != nil {
			return err
		}
	}
	if t.Pairs != nil {
		if err := scores.InsertPairs(ctx, gameID, teamID, t.Pairs); err != nil {
			return err
		}
	}
	if t.Razobl != nil {
		if err := scores.InsertRazobl(ctx, gameID, teamID, t.Razobl); err != nil {
			return err
		}
	}
	if t.Auction != nil {
		if err := scores.InsertAuction(ctx, gameID, teamID, t.Auction); err != nil {
			return err
		}
	}
	if t.Mot != nil {
		if err := scores.InsertMot(ctx, gameID, teamID, t.Mot); err != nil {
			return err
		}
	}
	return nil
}

// RemoveGame deletes a game with all its memberships and round records in one
// transaction, children before parent. Teams stay untouched. Unknown ids
// report ErrNotFound.
func (s *GameService) RemoveGame(ctx context.Context, gameID int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	scores := store.NewScoreStore(tx)
	games := store.NewGameStore(tx)

	if err := scores.DeleteForGame(ctx, gameID); err != nil {
		return err
	}
	deleted, err := games.Delete(ctx, gameID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit removal: %w", err)
	}

	log.Infof("game %d removed", gameID)
	return nil
}

// GetGameData reconstructs the in-memory representation of a stored game:
// date, participating teams and every round record. ErrNotFound for unknown
// ids — never a zero-filled record.
func (s *GameService) GetGameData(ctx context.Context, gameID int64) (*models.GameData, error) {
	g, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get game %d: %w", gameID, err)
	}

	teams, err := s.scores.TeamsForGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	vybor, err := s.scores.VyborByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	chisla, err := s.scores.ChislaByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	pref, err := s.scores.PrefByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	pairs, err := s.scores.PairsByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	razobl, err := s.scores.RazoblByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	auction, err := s.scores.AuctionByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	mot, err := s.scores.MotByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	data := &models.GameData{
		GameID: g.GameID,
		Date:   g.GameDate,
		Teams:  make([]models.TeamResult, 0, len(teams)),
	}
	for _, t := range teams {
		data.Teams = append(data.Teams, models.TeamResult{
			Name:    t.TeamName,
			Vybor:   vybor[t.TeamID],
			Chisla:  chisla[t.TeamID],
			Pref:    pref[t.TeamID],
			Pairs:   pairs[t.TeamID],
			Razobl:  razobl[t.TeamID],
			Auction: auction[t.TeamID],
			Mot:     mot[t.TeamID],
		})
	}
	return data, nil
}

// GetAllGames lists every stored game, date ascending then id ascending.
func (s *GameService) GetAllGames(ctx context.Context) ([]models.Game, error) {
	return s.games.List(ctx)
}

// GetGameIDsByDate returns the ids of games dated within [start, end]
// inclusive. A nil end queries the single day of start.
func (s *GameService) GetGameIDsByDate(ctx context.Context, start time.Time, end *time.Time) ([]int64, error) {
	return s.games.IDsByDateRange(ctx, start, end)
}

// FindIdenticalGame looks for a stored game with the candidate's date, the
// exact same team-name set and equal per-round and grand totals at 2-decimal
// precision. When several match, the lowest game id wins. ErrNoMatch if none.
func (s *GameService) FindIdenticalGame(ctx context.Context, candidate *models.GameData) (int64, error) {
	if err := candidate.Validate(); err != nil {
		return 0, err
	}

	rows, err := s.scores.ScoresByDate(ctx, candidate.Date)
	if err != nil {
		return 0, err
	}

	fp := fingerprint(candidate)

	// Rows arrive ordered by game id, so the first matching group is the
	// lowest-id match.
	for start := 0; start < len(rows); {
		end := start
		for end < len(rows) && rows[end].GameID == rows[start].GameID {
			end++
		}
		if sameScores(rows[start:end], fp) {
			return rows[start].GameID, nil
		}
		start = end
	}
	return 0, ErrNoMatch
}

// SaveGame is the ingest entry point: it skips the insert when an identical
// game is already stored. Returns the stored game's id and whether a new
// game was actually written.
func (s *GameService) SaveGame(ctx context.Context, game *models.GameData) (int64, bool, error) {
	existing, err := s.FindIdenticalGame(ctx, game)
	if err == nil {
		log.Infof("identical game from %s already stored as game %d, skipping",
			game.Date.Format("02.01.2006"), existing)
		return existing, false, nil
	}
	if !errors.Is(err, ErrNoMatch) {
		return 0, false, err
	}

	gameID, err := s.AddGame(ctx, game)
	if err != nil {
		return 0, false, err
	}
	return gameID, true, nil
}

// ClearGames removes every stored game one by one, continuing past
// individual failures. Returns how many were removed and how many failed.
func (s *GameService) ClearGames(ctx context.Context) (removed, failed int, err error) {
	games, err := s.GetAllGames(ctx)
	if err != nil {
		return 0, 0, err
	}
	for _, g := range games {
		if err := s.RemoveGame(ctx, g.GameID); err != nil {
			failed++
			log.Errorf("remove game %d: %v", g.GameID, err)
			continue
		}
		removed++
		if removed%10 == 0 {
			log.Infof("removed %d/%d games", removed, len(games))
		}
	}
	return removed, failed, nil
}

// ClearTeams wipes the team registry. Callers must clear games first or the
// membership foreign keys will reject the delete.
func (s *GameService) ClearTeams(ctx context.Context) (int64, error) {
	return s.teams.DeleteAll(ctx)
}
