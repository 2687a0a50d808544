package bench

import (
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// MaxMoves is the theoretical longest game: both sides fire at all 100 cells.
const MaxMoves = 200

// Stats is shared by every worker of a run. Counters are atomic; the min/max
// pairs move together under mu.
type Stats struct {
	wins       atomic.Int64
	losses     atomic.Int64
	ties       atomic.Int64
	totalMoves atomic.Int64
	totalNs    atomic.Int64
	completed  atomic.Int64

	mu      sync.Mutex
	minWin  int
	maxWin  int
	minLoss int
	maxLoss int
}

func NewStats() *Stats {
	return &Stats{minWin: math.MaxInt32, minLoss: math.MaxInt32}
}

func (s *Stats) Record(r GameResult) {
	s.totalMoves.Add(int64(r.Moves))
	s.totalNs.Add(int64(r.Elapsed))

	switch r.Outcome {
	case Tie:
		s.ties.Add(1)
	case Win:
		s.wins.Add(1)
		s.mu.Lock()
		observe(&s.minWin, &s.maxWin, r.Moves)
		s.mu.Unlock()
	default:
		s.losses.Add(1)
		s.mu.Lock()
		observe(&s.minLoss, &s.maxLoss, r.Moves)
		s.mu.Unlock()
	}
	s.completed.Add(1)
}

func observe(lo, hi *int, v int) {
	if v < *lo {
		*lo = v
	}
	if v > *hi {
		*hi = v
	}
}

// Completed is the number of games recorded so far.
func (s *Stats) Completed() int { return int(s.completed.Load()) }

type Summary struct {
	Player       string  `json:"player"`
	Opponent     string  `json:"opponent"`
	Games        int     `json:"games"`
	Workers      int     `json:"workers"`
	Seed         int64   `json:"seed"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Ties         int     `json:"ties"`
	WinRate      float64 `json:"win_rate"`
	AvgMoves     float64 `json:"avg_moves"`
	MovesPercent float64 `json:"moves_percent_of_max"`
	MinMovesWin  int     `json:"min_moves_win"`
	MaxMovesWin  int     `json:"max_moves_win"`
	MinMovesLoss int     `json:"min_moves_loss"`
	MaxMovesLoss int     `json:"max_moves_loss"`
	AvgGameMs    float64 `json:"avg_game_ms"`
	WallMs       float64 `json:"wall_ms"`
}

// Summary snapshots the counters. Averages are taken over recorded games.
func (s *Stats) Summary() Summary {
	out := Summary{
		Wins:   int(s.wins.Load()),
		Losses: int(s.losses.Load()),
		Ties:   int(s.ties.Load()),
	}
	out.Games = out.Wins + out.Losses + out.Ties
	if out.Games > 0 {
		n := float64(out.Games)
		out.WinRate = float64(out.Wins) / n
		out.AvgMoves = float64(s.totalMoves.Load()) / n
		out.MovesPercent = out.AvgMoves / MaxMoves * 100
		out.AvgGameMs = float64(s.totalNs.Load()) / n / float64(time.Millisecond)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if out.Wins > 0 {
		out.MinMovesWin, out.MaxMovesWin = s.minWin, s.maxWin
	}
	if out.Losses > 0 {
		out.MinMovesLoss, out.MaxMovesLoss = s.minLoss, s.maxLoss
	}
	return out
}
