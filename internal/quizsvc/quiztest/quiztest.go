// Package quiztest provides database helpers for integration tests. Tests
// skip unless TEST_DATABASE_URL points at a throwaway Postgres database; the
// helper applies the schema the migration tool would own in production and
// truncates it between tests.
package quiztest

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id    BIGSERIAL PRIMARY KEY,
	game_date  DATE NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS teams (
	team_id   BIGSERIAL PRIMARY KEY,
	team_name VARCHAR(1024) NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS game_teams (
	game_id BIGINT NOT NULL REFERENCES games(game_id),
	team_id BIGINT NOT NULL REFERENCES teams(team_id),
	PRIMARY KEY (game_id, team_id)
);

CREATE TABLE IF NOT EXISTS vybor (
	game_id BIGINT NOT NULL,
	team_id BIGINT NOT NULL,
	points  NUMERIC(10,2) NOT NULL,
	PRIMARY KEY (game_id, team_id),
	FOREIGN KEY (game_id, team_id) REFERENCES game_teams(game_id, team_id)
);

CREATE TABLE IF NOT EXISTS chisla (
	game_id   BIGINT NOT NULL,
	team_id   BIGINT NOT NULL,
	task_1    NUMERIC(10,2) NOT NULL,
	task_2    NUMERIC(10,2) NOT NULL,
	task_3    NUMERIC(10,2) NOT NULL,
	task_4    NUMERIC(10,2) NOT NULL,
	task_5    NUMERIC(10,2) NOT NULL,
	total_sum NUMERIC(10,2) NOT NULL,
	PRIMARY KEY (game_id, team_id),
	FOREIGN KEY (game_id, team_id) REFERENCES game_teams(game_id, team_id)
);

CREATE TABLE IF NOT EXISTS pref (
	game_id   BIGINT NOT NULL,
	team_id   BIGINT NOT NULL,
	task_1    NUMERIC(10,2) NOT NULL,
	task_2    NUMERIC(10,2) NOT NULL,
	task_3    NUMERIC(10,2) NOT NULL,
	task_4    NUMERIC(10,2) NOT NULL,
	task_5    NUMERIC(10,2) NOT NULL,
	task_6    NUMERIC(10,2) NOT NULL,
	task_7    NUMERIC(10,2) NOT NULL,
	points    NUMERIC(10,2) NOT NULL,
	penalty   NUMERIC(10,2) NOT NULL,
	bonus     NUMERIC(10,2) NOT NULL,
	total_sum NUMERIC(10,2) NOT NULL,
	PRIMARY KEY (game_id, team_id),
	FOREIGN KEY (game_id, team_id) REFERENCES game_teams(game_id, team_id)
);

CREATE TABLE IF NOT EXISTS pairs (
	game_id BIGINT NOT NULL,
	team_id BIGINT NOT NULL,
	points  NUMERIC(10,2) NOT NULL,
	PRIMARY KEY (game_id, team_id),
	FOREIGN KEY (game_id, team_id) REFERENCES game_teams(game_id, team_id)
);

CREATE TABLE IF NOT EXISTS razobl (
	game_id   BIGINT NOT NULL,
	team_id   BIGINT NOT NULL,
	task_1    NUMERIC(10,2) NOT NULL,
	task_2    NUMERIC(10,2) NOT NULL,
	task_3    NUMERIC(10,2) NOT NULL,
	task_4    NUMERIC(10,2) NOT NULL,
	total_sum NUMERIC(10,2) NOT NULL,
	PRIMARY KEY (game_id, team_id),
	FOREIGN KEY (game_id, team_id) REFERENCES game_teams(game_id, team_id)
);

CREATE TABLE IF NOT EXISTS auction (
	game_id       BIGINT NOT NULL,
	team_id       BIGINT NOT NULL,
	task_1_bid    NUMERIC(10,2) NOT NULL,
	task_1_points NUMERIC(10,2) NOT NULL,
	task_1_rate   NUMERIC(10,2),
	task_2_bid    NUMERIC(10,2) NOT NULL,
	task_2_points NUMERIC(10,2) NOT NULL,
	task_2_rate   NUMERIC(10,2),
	task_3_bid    NUMERIC(10,2) NOT NULL,
	task_3_points NUMERIC(10,2) NOT NULL,
	task_3_rate   NUMERIC(10,2),
	task_4_bid    NUMERIC(10,2) NOT NULL,
	task_4_points NUMERIC(10,2) NOT NULL,
	task_4_rate   NUMERIC(10,2),
	total_sum     NUMERIC(10,2) NOT NULL,
	PRIMARY KEY (game_id, team_id),
	FOREIGN KEY (game_id, team_id) REFERENCES game_teams(game_id, team_id)
);

CREATE TABLE IF NOT EXISTS mot (
	game_id   BIGINT NOT NULL,
	team_id   BIGINT NOT NULL,
	task_1    NUMERIC(10,2) NOT NULL,
	task_2    NUMERIC(10,2) NOT NULL,
	task_3    NUMERIC(10,2) NOT NULL,
	total_sum NUMERIC(10,2) NOT NULL,
	PRIMARY KEY (game_id, team_id),
	FOREIGN KEY (game_id, team_id) REFERENCES game_teams(game_id, team_id)
);

CREATE OR REPLACE VIEW team_game_scores AS
SELECT
	games.game_id,
	games.game_date,
	teams.team_id,
	teams.team_name,
	vybor.points AS vybor_points,
	chisla.total_sum AS chisla_points,
	pref.total_sum AS pref_points,
	pairs.points AS pairs_points,
	razobl.total_sum AS razobl_points,
	auction.total_sum AS auction_points,
	mot.total_sum AS mot_points,
	(
		COALESCE(vybor.points, 0) +
		COALESCE(chisla.total_sum, 0) +
		COALESCE(pref.total_sum, 0) +
		COALESCE(pairs.points, 0) +
		COALESCE(razobl.total_sum, 0) +
		COALESCE(auction.total_sum, 0) +
		COALESCE(mot.total_sum, 0)
	) AS total_points
FROM games
JOIN game_teams ON games.game_id = game_teams.game_id
JOIN teams ON game_teams.team_id = teams.team_id
LEFT JOIN vybor ON (games.game_id = vybor.game_id AND teams.team_id = vybor.team_id)
LEFT JOIN chisla ON (games.game_id = chisla.game_id AND teams.team_id = chisla.team_id)
LEFT JOIN pref ON (games.game_id = pref.game_id AND teams.team_id = pref.team_id)
LEFT JOIN pairs ON (games.game_id = pairs.game_id AND teams.team_id = pairs.team_id)
LEFT JOIN razobl ON (games.game_id = razobl.game_id AND teams.team_id = razobl.team_id)
LEFT JOIN auction ON (games.game_id = auction.game_id AND teams.team_id = auction.team_id)
LEFT JOIN mot ON (games.game_id = mot.game_id AND teams.team_id = mot.team_id)
`

// Pool connects to the test database, (re)applies the schema and wipes all
// rows. Skips the test when TEST_DATABASE_URL is unset.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database integration test")
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	// One statement per Exec: pgx's default query mode rejects
	// multi-statement strings.
	for _, stmt := range strings.Split(schema, ";\n\n") {
		if stmt = strings.TrimSpace(stmt); stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			t.Fatalf("apply test schema: %v", err)
		}
	}
	if _, err := pool.Exec(ctx,
		`TRUNCATE vybor, chisla, pref, pairs, razobl, auction, mot, game_teams, games, teams
		 RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate test tables: %v", err)
	}

	return pool
}
