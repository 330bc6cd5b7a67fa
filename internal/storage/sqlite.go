// Package storage keeps the log of finished runs for the current session.
// Uses the pure-Go modernc.org/sqlite driver on a private in-memory database,
// so nothing outlives the process.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

// memoryDSN is a private in-memory database. Every pooled connection would get
// its own empty database, so the store pins the pool to one connection.
const memoryDSN = ":memory:"

// Store manages the SQLite connection holding the run log.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// RunRecord is a single finished run.
type RunRecord struct {
	ID       string
	Run      int
	Apples   int
	Length   int
	Ticks    int
	Width    int
	Height   int
	Speed    int
	HasWalls bool
	EndedAt  time.Time
}

// OpenMemory creates an empty in-memory run log.
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", memoryDSN)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, now: time.Now}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the schema.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			run INTEGER NOT NULL,
			apples INTEGER NOT NULL,
			length INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			speed INTEGER NOT NULL,
			walls INTEGER NOT NULL,
			ended_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_apples ON runs(apples DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection. The log is gone afterwards.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun stores a finished run and returns its generated ID.
// ID and EndedAt are filled in when empty.
func (s *Store) RecordRun(r RunRecord) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.EndedAt.IsZero() {
		r.EndedAt = s.now()
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (id, run, apples, length, ticks, width, height, speed, walls, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Run, r.Apples, r.Length, r.Ticks,
		r.Width, r.Height, r.Speed, r.HasWalls, r.EndedAt.UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot record run: %w", err)
	}
	return r.ID, nil
}

// SaveRunResult implements snake.RunRecorder.
func (s *Store) SaveRunResult(res snake.RunResult) error {
	_, err := s.RecordRun(RunRecord{
		Run:      res.Run,
		Apples:   res.Apples,
		Length:   res.Length,
		Ticks:    res.Ticks,
		Width:    res.Width,
		Height:   res.Height,
		Speed:    res.Speed,
		HasWalls: res.HasWalls,
	})
	return err
}

// Ensure Store implements RunRecorder
var _ snake.RunRecorder = (*Store)(nil)

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, run, apples, length, ticks, width, height, speed, walls, ended_at
		 FROM runs
		 ORDER BY seq DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		var endedAt int64
		if err := rows.Scan(
			&r.ID, &r.Run, &r.Apples, &r.Length, &r.Ticks,
			&r.Width, &r.Height, &r.Speed, &r.HasWalls, &endedAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.EndedAt = time.UnixMilli(endedAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// RunCount returns the number of recorded runs.
func (s *Store) RunCount() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count runs: %w", err)
	}
	return n, nil
}

// BestApples returns the most apples eaten in a single run.
// Returns 0 if no runs exist.
func (s *Store) BestApples() (int, error) {
	var best sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(apples) FROM runs").Scan(&best); err != nil {
		return 0, fmt.Errorf("storage: cannot query best run: %w", err)
	}
	if !best.Valid {
		return 0, nil
	}
	return int(best.Int64), nil
}
