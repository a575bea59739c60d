// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package checkpoint persists per-stage state snapshots so an interrupted
// run can be inspected or resumed. Snapshots are YAML-serialized
// ThesisState records keyed by run id and step in a SQLite database.
package checkpoint

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/thesis-engine/pkg/types"
)

const dbFile = "runs.db"

// ErrNoSnapshot reports that a run has no stored snapshots.
var ErrNoSnapshot = fmt.Errorf("checkpoint: no snapshot for run")

// Store manages the checkpoint SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the checkpoint database at cfg.Dir/runs.db,
// creating the schema if it does not exist.
func NewStore(cfg types.CheckpointConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "checkpoints"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating checkpoint directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			topic TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			run_id TEXT NOT NULL REFERENCES runs(id),
			step INTEGER NOT NULL,
			agent TEXT NOT NULL,
			state TEXT NOT NULL,
			created_at TEXT NOT NULL,
			PRIMARY KEY (run_id, step)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_run_id ON snapshots(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// StartRun registers a new run for topic and returns its id.
func (s *Store) StartRun(ctx context.Context, topic string) (string, error) {
	runID := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, topic, created_at) VALUES (?, ?, ?)`,
		runID, topic, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("registering run: %w", err)
	}
	return runID, nil
}

// Save stores one state snapshot. Re-saving a (run, step) pair replaces
// the earlier snapshot, which happens when a stage is retried.
func (s *Store) Save(ctx context.Context, runID string, step int, agent string, state types.ThesisState) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("serializing state: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (run_id, step, agent, state, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(run_id, step) DO UPDATE SET
			agent=excluded.agent, state=excluded.state, created_at=excluded.created_at`,
		runID, step, agent, string(data), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// Latest returns the highest-step snapshot for runID along with its step
// number. Returns ErrNoSnapshot when the run has nothing stored.
func (s *Store) Latest(ctx context.Context, runID string) (types.ThesisState, int, error) {
	var (
		step int
		data string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT step, state FROM snapshots WHERE run_id = ? ORDER BY step DESC LIMIT 1`,
		runID,
	).Scan(&step, &data)
	if err == sql.ErrNoRows {
		return types.ThesisState{}, 0, ErrNoSnapshot
	}
	if err != nil {
		return types.ThesisState{}, 0, fmt.Errorf("loading snapshot: %w", err)
	}

	var state types.ThesisState
	if err := yaml.Unmarshal([]byte(data), &state); err != nil {
		return types.ThesisState{}, 0, fmt.Errorf("parsing snapshot: %w", err)
	}
	return state, step, nil
}

// RunInfo describes one registered run.
type RunInfo struct {
	ID        string
	Topic     string
	CreatedAt string
	Steps     int
}

// ListRuns returns all runs, newest first, with their snapshot counts.
func (s *Store) ListRuns(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.topic, r.created_at, COUNT(s.run_id)
		 FROM runs r LEFT JOIN snapshots s ON s.run_id = r.id
		 GROUP BY r.id ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var info RunInfo
		if err := rows.Scan(&info.ID, &info.Topic, &info.CreatedAt, &info.Steps); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, info)
	}
	return runs, rows.Err()
}
