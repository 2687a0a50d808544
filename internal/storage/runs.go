// Package storage archives benchmark summaries in SQLite.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"battlesim/internal/bench"
)

var ErrNotFound = errors.New("run not found")

type Store struct {
	db *sql.DB
}

type Run struct {
	ID        int64         `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Summary   bench.Summary `json:"summary"`
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	player TEXT NOT NULL,
	opponent TEXT NOT NULL,
	games INTEGER NOT NULL,
	workers INTEGER NOT NULL,
	seed INTEGER NOT NULL,
	wins INTEGER NOT NULL,
	losses INTEGER NOT NULL,
	ties INTEGER NOT NULL,
	avg_moves REAL NOT NULL,
	min_moves_win INTEGER NOT NULL,
	max_moves_win INTEGER NOT NULL,
	min_moves_loss INTEGER NOT NULL,
	max_moves_loss INTEGER NOT NULL,
	avg_game_ms REAL NOT NULL,
	wall_ms REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_pair ON runs(player, opponent);
`

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) SaveRun(sum bench.Summary) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO runs (player, opponent, games, workers, seed, wins, losses, ties,
			avg_moves, min_moves_win, max_moves_win, min_moves_loss, max_moves_loss, avg_game_ms, wall_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sum.Player, sum.Opponent, sum.Games, sum.Workers, sum.Seed, sum.Wins, sum.Losses, sum.Ties,
		sum.AvgMoves, sum.MinMovesWin, sum.MaxMovesWin, sum.MinMovesLoss, sum.MaxMovesLoss, sum.AvgGameMs, sum.WallMs,
	)
	if err != nil {
		return 0, fmt.Errorf("save run: %w", err)
	}
	return res.LastInsertId()
}

const selectRun = `
	SELECT id, created_at, player, opponent, games, workers, seed, wins, losses, ties,
		avg_moves, min_moves_win, max_moves_win, min_moves_loss, max_moves_loss, avg_game_ms, wall_ms
	FROM runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	s := &r.Summary
	err := row.Scan(&r.ID, &r.CreatedAt, &s.Player, &s.Opponent, &s.Games, &s.Workers, &s.Seed,
		&s.Wins, &s.Losses, &s.Ties, &s.AvgMoves, &s.MinMovesWin, &s.MaxMovesWin,
		&s.MinMovesLoss, &s.MaxMovesLoss, &s.AvgGameMs, &s.WallMs)
	if err != nil {
		return Run{}, err
	}
	if s.Games > 0 {
		s.WinRate = float64(s.Wins) / float64(s.Games)
		s.MovesPercent = s.AvgMoves / bench.MaxMoves * 100
	}
	return r, nil
}

func (s *Store) GetRun(id int64) (Run, error) {
	r, err := scanRun(s.db.QueryRow(selectRun+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run %d: %w", id, err)
	}
	return r, nil
}

// ListRuns returns the newest runs first.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(selectRun+` ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
