package bench

import (
	"battlesim/internal/diag"
	"battlesim/internal/targeting"
	"battlesim/internal/util"
)

const DefaultGuardTail = 50

type GuardOptions struct {
	Seed     int64
	Player   string
	Opponent string
	Diag     *diag.Log
	// MaxGames bounds the search; 0 keeps playing until a guard trips.
	MaxGames int
	Tail     int
	Progress func(games int)
}

type GuardReport struct {
	Games   int
	Tripped bool
	Entries []string
}

// CatchGuards plays games one at a time, resetting diagnostics before each,
// until a proposal trips the guard. The report carries the newest records.
func CatchGuards(opts GuardOptions) (GuardReport, error) {
	pf, err := targeting.Lookup(opts.Player)
	if err != nil {
		return GuardReport{}, err
	}
	of, err := targeting.Lookup(opts.Opponent)
	if err != nil {
		return GuardReport{}, err
	}
	d := opts.Diag
	if d == nil {
		d = diag.New(diag.DefaultMaxEntries)
	}
	tail := opts.Tail
	if tail <= 0 {
		tail = DefaultGuardTail
	}

	rng := util.New(util.ResolveSeed(opts.Seed))
	player := pf(rng, d)
	opponent := of(rng, d)

	var rep GuardReport
	for opts.MaxGames <= 0 || rep.Games < opts.MaxGames {
		rep.Games++
		d.Reset()
		r := PlayGame(rng, player, opponent, GameOptions{Diag: d, StopOnGuard: true})
		if r.GuardTripped {
			rep.Tripped = true
			rep.Entries = d.Tail(tail)
			return rep, nil
		}
		if opts.Progress != nil && rep.Games%100 == 0 {
			opts.Progress(rep.Games)
		}
	}
	return rep, nil
}
