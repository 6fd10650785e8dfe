package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/preston-bernstein/nba-game-recommender/internal/domain/games"
)

const (
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
)

// SQLStore persists games through database/sql. SQLite is the default;
// postgres:// and postgresql:// DSNs use lib/pq.
type SQLStore struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// Open connects to dsn and creates the schema if needed.
func Open(ctx context.Context, dsn string) (*SQLStore, error) {
	driver, source := parseDSN(dsn)
	if source == "" {
		return nil, fmt.Errorf("store: empty dsn")
	}
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", driver, err)
	}
	if driver == driverSQLite {
		// One writer keeps SQLite from reporting SQLITE_BUSY and lets :memory: work.
		db.SetMaxOpenConns(1)
	}

	s := &SQLStore{db: db, driver: driver, now: time.Now}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}
	return s, nil
}

func parseDSN(dsn string) (driver, source string) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return driverPostgres, dsn
	case strings.HasPrefix(dsn, "sqlite://"):
		return driverSQLite, strings.TrimPrefix(dsn, "sqlite://")
	default:
		return driverSQLite, dsn
	}
}

// Driver reports the database/sql driver in use.
func (s *SQLStore) Driver() string { return s.driver }

// Ping checks connectivity.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) initSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS games (
			game_id TEXT PRIMARY KEY,
			game_date TEXT NOT NULL,
			home_name TEXT NOT NULL,
			home_abbr TEXT NOT NULL,
			home_score INTEGER NOT NULL,
			away_name TEXT NOT NULL,
			away_abbr TEXT NOT NULL,
			away_score INTEGER NOT NULL,
			lead_changes INTEGER NOT NULL DEFAULT 0,
			star_players_count INTEGER NOT NULL DEFAULT 0,
			provider TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_games_date ON games (game_date)`,
	}
	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

const upsertGame = `INSERT INTO games (
	game_id, game_date, home_name, home_abbr, home_score,
	away_name, away_abbr, away_score, lead_changes, star_players_count,
	provider, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (game_id) DO UPDATE SET
	game_date = excluded.game_date,
	home_name = excluded.home_name,
	home_abbr = excluded.home_abbr,
	home_score = excluded.home_score,
	away_name = excluded.away_name,
	away_abbr = excluded.away_abbr,
	away_score = excluded.away_score,
	lead_changes = excluded.lead_changes,
	star_players_count = excluded.star_players_count,
	provider = excluded.provider,
	updated_at = excluded.updated_at`

// UpsertGames writes valid records in one transaction. Invalid records are skipped.
func (s *SQLStore) UpsertGames(ctx context.Context, records []games.GameRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.rebind(upsertGame))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	updatedAt := s.now().UTC().Format(time.RFC3339)
	written := 0
	for _, g := range records {
		if g.Validate() != nil {
			continue
		}
		if _, err := stmt.ExecContext(ctx,
			g.ID, g.Date,
			g.HomeTeam.Name, g.HomeTeam.Abbreviation, g.HomeTeam.Score,
			g.AwayTeam.Name, g.AwayTeam.Abbreviation, g.AwayTeam.Score,
			g.LeadChanges, g.StarPlayersCount, g.Provider, updatedAt,
		); err != nil {
			return 0, fmt.Errorf("upsert game %s: %w", g.ID, err)
		}
		written++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return written, nil
}

// GamesBetween returns stored games dated within [startDay, endDay].
func (s *SQLStore) GamesBetween(ctx context.Context, startDay, endDay string) ([]games.GameRecord, error) {
	query := s.rebind(`SELECT game_id, game_date, home_name, home_abbr, home_score,
		away_name, away_abbr, away_score, lead_changes, star_players_count, provider
		FROM games WHERE game_date >= ? AND game_date <= ?
		ORDER BY game_date, game_id`)

	rows, err := s.db.QueryContext(ctx, query, startDay, endDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]games.GameRecord, 0)
	for rows.Next() {
		var g games.GameRecord
		if err := rows.Scan(
			&g.ID, &g.Date,
			&g.HomeTeam.Name, &g.HomeTeam.Abbreviation, &g.HomeTeam.Score,
			&g.AwayTeam.Name, &g.AwayTeam.Abbreviation, &g.AwayTeam.Score,
			&g.LeadChanges, &g.StarPlayersCount, &g.Provider,
		); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// rebind rewrites ? placeholders to $n for Postgres.
func (s *SQLStore) rebind(query string) string {
	if s.driver != driverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
