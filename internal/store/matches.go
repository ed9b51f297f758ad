// Package store persists the roommate match list. Only pairs whose
// compatibility score clears the materialization cutoff are written;
// everything else in the assist layer is request-scoped or lives in
// the cache.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver (no CGO required)

	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/match"
)

var migrations = []struct {
	version int
	sql     string
}{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_versions (
    version     INTEGER PRIMARY KEY,
    applied_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS roommate_matches (
    pair_key    TEXT PRIMARY KEY,
    profile_a   TEXT NOT NULL,
    profile_b   TEXT NOT NULL,
    score       REAL NOT NULL,
    rationale   TEXT NOT NULL DEFAULT '',
    created_at  DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_roommate_matches_score ON roommate_matches(score DESC);
CREATE INDEX IF NOT EXISTS idx_roommate_matches_profile_a ON roommate_matches(profile_a);
CREATE INDEX IF NOT EXISTS idx_roommate_matches_profile_b ON roommate_matches(profile_b);
`,
	},
}

// RoommateMatch is a stored, materialized pair.
type RoommateMatch struct {
	PairKey   string    `json:"pair_key"`
	ProfileA  string    `json:"profile_a"`
	ProfileB  string    `json:"profile_b"`
	Score     float64   `json:"score"`
	Rationale string    `json:"rationale"`
	CreatedAt time.Time `json:"created_at"`
}

// MatchStore is the persistence contract for materialized matches.
type MatchStore interface {
	// SaveRoommateMatch upserts a pair; the pair key is unordered so
	// (a,b) and (b,a) occupy one row.
	SaveRoommateMatch(ctx context.Context, aID, bID string, score match.RoommateScore) error

	// ListRoommateMatches returns stored matches for one profile, best
	// score first.
	ListRoommateMatches(ctx context.Context, profileID string) ([]RoommateMatch, error)

	Close() error
}

type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at the given
// path and runs pending migrations. Pass ":memory:" for tests.
func NewSQLiteStore(path string) (MatchStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// WAL improves concurrent read behavior under the HTTP workers.
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	s := &sqliteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *sqliteStore) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_versions (
        version INTEGER PRIMARY KEY,
        applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
    )`); err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	var current int
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_versions`).Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("apply migration %d: %w", m.version, err)
		}
		if _, err := s.db.Exec(`INSERT INTO schema_versions (version) VALUES (?)`, m.version); err != nil {
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
	}
	return nil
}

func (s *sqliteStore) SaveRoommateMatch(ctx context.Context, aID, bID string, score match.RoommateScore) error {
	rationale := ""
	if len(score.Rationale) > 0 {
		rationale = score.Rationale[0]
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO roommate_matches (pair_key, profile_a, profile_b, score, rationale, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(pair_key) DO UPDATE SET
            score = excluded.score,
            rationale = excluded.rationale,
            created_at = excluded.created_at`,
		match.PairKey(aID, bID), aID, bID, score.Combined, rationale, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save roommate match: %w", err)
	}
	return nil
}

func (s *sqliteStore) ListRoommateMatches(ctx context.Context, profileID string) ([]RoommateMatch, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT pair_key, profile_a, profile_b, score, rationale, created_at
        FROM roommate_matches
        WHERE profile_a = ? OR profile_b = ?
        ORDER BY score DESC`, profileID, profileID)
	if err != nil {
		return nil, fmt.Errorf("list roommate matches: %w", err)
	}
	defer rows.Close()

	var out []RoommateMatch
	for rows.Next() {
		var m RoommateMatch
		if err := rows.Scan(&m.PairKey, &m.ProfileA, &m.ProfileB, &m.Score, &m.Rationale, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan roommate match: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
