// Package storage provides SQLite-based persistence for match history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultPath is the database location when none is configured.
const DefaultPath = "~/.ctf/history.db"

// Store manages the SQLite database connection for match history.
type Store struct {
	db *sql.DB
}

// MatchResult is the outcome of one match (or an abandoned round).
type MatchResult struct {
	ID        int64
	MatchID   string
	MapName   string
	RedScore  int
	BlueScore int
	Winner    string // "red", "blue" or empty when abandoned
	EndReason string // "completed" or "abandoned"
	Duration  int    // Duration in seconds
	CreatedAt time.Time
}

// FlagEventRecord is one logged flag transition.
type FlagEventRecord struct {
	ID        int64
	MatchID   string
	Event     string // "flag_taken", "flag_dropped", "flag_returned", "flag_captured"
	UserID    int
	Player    string
	FlagTeam  string
	Attacker  int
	Location  string
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		dbPath = DefaultPath
	}

	// Expand ~ to home directory
	if dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			map_name TEXT NOT NULL,
			red_score INTEGER NOT NULL DEFAULT 0,
			blue_score INTEGER NOT NULL DEFAULT 0,
			winner TEXT,
			end_reason TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_matches_map ON matches(map_name);

		CREATE TABLE IF NOT EXISTS flag_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL,
			event TEXT NOT NULL,
			user_id INTEGER NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			flag_team TEXT NOT NULL,
			attacker INTEGER NOT NULL DEFAULT 0,
			location TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_flag_events_match ON flag_events(match_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveMatch records the result of a match.
// Returns the ID of the inserted record.
func (s *Store) SaveMatch(result MatchResult) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO matches
		 (match_id, map_name, red_score, blue_score, winner, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.MatchID,
		result.MapName,
		result.RedScore,
		result.BlueScore,
		nullString(result.Winner),
		result.EndReason,
		result.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save match: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const matchColumns = `id, match_id, map_name, red_score, blue_score, winner, end_reason, duration_secs, created_at`

// MatchByID retrieves a match by its match ID. Returns nil if not found.
func (s *Store) MatchByID(matchID string) (*MatchResult, error) {
	row := s.db.QueryRow(`SELECT `+matchColumns+` FROM matches WHERE match_id = ?`, matchID)

	result, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}
	return &result, nil
}

// RecentMatches retrieves the most recent matches, newest first.
func (s *Store) RecentMatches(limit int) ([]MatchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+matchColumns+`
		 FROM matches
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var results []MatchResult
	for rows.Next() {
		result, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// SaveFlagEvent appends a flag transition to the log.
func (s *Store) SaveFlagEvent(rec FlagEventRecord) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO flag_events
		 (match_id, event, user_id, player, flag_team, attacker, location)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.MatchID,
		rec.Event,
		rec.UserID,
		rec.Player,
		rec.FlagTeam,
		rec.Attacker,
		rec.Location,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save flag event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// FlagEvents returns the logged transitions of a match in order.
func (s *Store) FlagEvents(matchID string) ([]FlagEventRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, match_id, event, user_id, player, flag_team, attacker, location, created_at
		 FROM flag_events
		 WHERE match_id = ?
		 ORDER BY id`,
		matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query flag events: %w", err)
	}
	defer rows.Close()

	var records []FlagEventRecord
	for rows.Next() {
		var r FlagEventRecord
		var createdAt any
		if err := rows.Scan(&r.ID, &r.MatchID, &r.Event, &r.UserID, &r.Player, &r.FlagTeam, &r.Attacker, &r.Location, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

// TeamStats contains aggregated results for one team.
type TeamStats struct {
	Team     string
	Wins     int
	Captures int
}

// AllTeamStats aggregates wins and captures per team over all matches.
func (s *Store) AllTeamStats() (map[string]*TeamStats, error) {
	stats := map[string]*TeamStats{
		"red":  {Team: "red"},
		"blue": {Team: "blue"},
	}

	rows, err := s.db.Query(`SELECT winner, COUNT(*) FROM matches WHERE winner IS NOT NULL GROUP BY winner`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get team wins: %w", err)
	}
	for rows.Next() {
		var team string
		var n int
		if err := rows.Scan(&team, &n); err != nil {
			rows.Close()
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		if st, ok := stats[team]; ok {
			st.Wins = n
		}
	}
	rows.Close()

	var red, blue sql.NullInt64
	err = s.db.QueryRow(`SELECT SUM(red_score), SUM(blue_score) FROM matches`).Scan(&red, &blue)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get team captures: %w", err)
	}
	stats["red"].Captures = int(red.Int64)
	stats["blue"].Captures = int(blue.Int64)

	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(row scanner) (MatchResult, error) {
	var result MatchResult
	var winner sql.NullString
	var createdAt any

	err := row.Scan(
		&result.ID,
		&result.MatchID,
		&result.MapName,
		&result.RedScore,
		&result.BlueScore,
		&winner,
		&result.EndReason,
		&result.Duration,
		&createdAt,
	)
	if err != nil {
		return result, err
	}

	if winner.Valid {
		result.Winner = winner.String
	}
	result.CreatedAt = parseTime(createdAt)
	return result, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
