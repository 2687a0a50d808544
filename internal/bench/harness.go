// Package bench runs many independent games across worker goroutines and
// aggregates their outcomes.
package bench

import (
	"errors"
	"runtime"
	"sync"
	"time"

	"battlesim/internal/diag"
	"battlesim/internal/targeting"
	"battlesim/internal/util"
)

const DefaultPollInterval = 100 * time.Millisecond

var ErrNoGames = errors.New("game count must be positive")

type Options struct {
	Games    int
	Workers  int // 0 = one per CPU
	Seed     int64
	Player   string
	Opponent string

	Diag      *diag.Log
	LogLosses bool
	// LossLog receives the loss records; nil falls back to Diag.
	LossLog *diag.Log

	PollInterval time.Duration
	// Progress receives milestone counts from the monitor goroutine.
	Progress func(completed, total int)
}

// MaxWorkers bounds the worker count of a single run.
func MaxWorkers() int {
	if n := 4 * runtime.NumCPU(); n > 16 {
		return n
	}
	return 16
}

// WorkerCount resolves the configured worker count, capped at MaxWorkers.
func WorkerCount(n int) int {
	if n > 0 {
		return min(n, MaxWorkers())
	}
	if c := runtime.NumCPU(); c > 0 {
		return c
	}
	return 4
}

// Partition splits games across workers as evenly as possible, the
// remainder going to the first workers. No worker is left without a game.
func Partition(games, workers int) []int {
	workers = min(workers, games)
	if workers <= 0 {
		workers = 1
	}
	out := make([]int, workers)
	per, rem := games/workers, games%workers
	for w := range out {
		out[w] = per
		if w < rem {
			out[w]++
		}
	}
	return out
}

// ProgressInterval is the milestone spacing used by the monitor.
func ProgressInterval(total int) int {
	switch {
	case total >= 10000:
		return 1000
	case total >= 1000:
		return 100
	case total >= 100:
		return 10
	default:
		return total / 5
	}
}

// Run plays opts.Games games and returns the aggregate. Worker goroutines
// own their generator, strategies, boards and memories; only stats and the
// diagnostics log are shared.
func Run(opts Options) (Summary, error) {
	if opts.Games <= 0 {
		return Summary{}, ErrNoGames
	}
	pf, err := targeting.Lookup(opts.Player)
	if err != nil {
		return Summary{}, err
	}
	of, err := targeting.Lookup(opts.Opponent)
	if err != nil {
		return Summary{}, err
	}

	workers := min(WorkerCount(opts.Workers), opts.Games)
	lossLog := opts.LossLog
	if lossLog == nil {
		lossLog = opts.Diag
	}
	seed := util.ResolveSeed(opts.Seed)
	stats := NewStats()
	start := time.Now()

	var wg sync.WaitGroup
	for w, n := range Partition(opts.Games, workers) {
		wg.Add(1)
		go func(workerID, n int) {
			defer wg.Done()
			rng := util.New(util.WorkerSeed(seed, workerID))
			player := pf(rng, opts.Diag)
			opponent := of(rng, opts.Diag)
			for i := 0; i < n; i++ {
				r := PlayGame(rng, player, opponent, GameOptions{Diag: opts.Diag})
				stats.Record(r)
				if opts.LogLosses && r.Outcome == Loss {
					lossLog.Recordf("LOSS after %d moves (worker %d, game %d): sunk %d/%d",
						r.Moves, workerID, i, r.PlayerSunk, r.OpponentSunk)
				}
			}
		}(w, n)
	}

	var mon sync.WaitGroup
	mon.Add(1)
	go func() {
		defer mon.Done()
		monitor(stats, opts.Games, opts.PollInterval, opts.Progress)
	}()

	wg.Wait()
	mon.Wait()

	sum := stats.Summary()
	sum.Player = opts.Player
	sum.Opponent = opts.Opponent
	sum.Workers = workers
	sum.Seed = seed
	sum.WallMs = float64(time.Since(start)) / float64(time.Millisecond)
	return sum, nil
}

func monitor(stats *Stats, total int, poll time.Duration, progress func(int, int)) {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	interval := ProgressInterval(total)
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	last := 0
	for range ticker.C {
		done := stats.Completed()
		if progress != nil && interval > 0 && done >= last+interval {
			progress(done, total)
			last = (done / interval) * interval
		}
		if done >= total {
			return
		}
	}
}
