package bench_test

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"battlesim/internal/bench"
	"battlesim/internal/diag"
	"battlesim/internal/game"
	"battlesim/internal/targeting"
	"battlesim/internal/util"
)

func TestPartition(t *testing.T) {
	tests := []struct {
		games, workers int
		want           []int
	}{
		{10, 4, []int{3, 3, 2, 2}},
		{8, 4, []int{2, 2, 2, 2}},
		{3, 4, []int{1, 1, 1}},
		{10, 1 << 40, []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}},
		{0, 2, []int{0}},
	}
	for _, tt := range tests {
		have := bench.Partition(tt.games, tt.workers)
		if len(have) != len(tt.want) {
			t.Fatalf("%d/%d: want=%v, have=%v", tt.games, tt.workers, tt.want, have)
		}
		sum := 0
		for i := range have {
			sum += have[i]
			if tt.want[i] != have[i] {
				t.Errorf("%d/%d: want=%v, have=%v", tt.games, tt.workers, tt.want, have)
				break
			}
		}
		if sum != tt.games {
			t.Errorf("%d/%d: partition sums to %d", tt.games, tt.workers, sum)
		}
	}
}

func TestWorkerCount(t *testing.T) {
	if want, have := 3, bench.WorkerCount(3); want != have {
		t.Errorf("explicit: want=%d, have=%d", want, have)
	}
	if want, have := bench.MaxWorkers(), bench.WorkerCount(1<<40); want != have {
		t.Errorf("capped: want=%d, have=%d", want, have)
	}
	if have := bench.WorkerCount(0); have <= 0 || have > bench.MaxWorkers() {
		t.Errorf("detected: have=%d", have)
	}
}

func TestRun_WorkersCappedByGames(t *testing.T) {
	sum, err := bench.Run(bench.Options{
		Games:    3,
		Workers:  1 << 40,
		Seed:     11,
		Player:   targeting.HunterName,
		Opponent: targeting.RandomName,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, have := 3, sum.Workers; want != have {
		t.Errorf("workers want=%d, have=%d", want, have)
	}
	if want, have := 3, sum.Games; want != have {
		t.Errorf("games want=%d, have=%d", want, have)
	}
}

func TestProgressInterval(t *testing.T) {
	for total, want := range map[int]int{20000: 1000, 5000: 100, 100: 10, 50: 10, 4: 0} {
		if have := bench.ProgressInterval(total); want != have {
			t.Errorf("%d: want=%d, have=%d", total, want, have)
		}
	}
}

func TestStats_ConcurrentRecord(t *testing.T) {
	s := bench.NewStats()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				o := bench.Outcome(i % 3)
				s.Record(bench.GameResult{Outcome: o, Moves: 40 + w + i%10, Elapsed: time.Microsecond})
			}
		}(w)
	}
	wg.Wait()

	sum := s.Summary()
	if want, have := 800, sum.Games; want != have {
		t.Fatalf("games want=%d, have=%d", want, have)
	}
	if want, have := 800, s.Completed(); want != have {
		t.Errorf("completed want=%d, have=%d", want, have)
	}
	if sum.MinMovesWin < 40 || sum.MaxMovesWin > 56 || sum.MinMovesWin > sum.MaxMovesWin {
		t.Errorf("win range out of bounds: %d-%d", sum.MinMovesWin, sum.MaxMovesWin)
	}
	if sum.MinMovesLoss < 40 || sum.MaxMovesLoss > 56 {
		t.Errorf("loss range out of bounds: %d-%d", sum.MinMovesLoss, sum.MaxMovesLoss)
	}
}

func TestStats_EmptyRangesAreZero(t *testing.T) {
	s := bench.NewStats()
	s.Record(bench.GameResult{Outcome: bench.Tie, Moves: 60})
	sum := s.Summary()
	if sum.MinMovesWin != 0 || sum.MaxMovesWin != 0 || sum.MinMovesLoss != 0 || sum.MaxMovesLoss != 0 {
		t.Errorf("expected zero ranges, have %+v", sum)
	}
	if want, have := 60.0, sum.AvgMoves; want != have {
		t.Errorf("avg moves want=%v, have=%v", want, have)
	}
}

func TestPlayGame_EndsWithFleetSunk(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		rng := util.New(seed)
		p := targeting.NewHunter(rng, nil)
		o := targeting.NewRandom(rng)

		var events []bench.Event
		r := bench.PlayGame(rng, p, o, bench.GameOptions{Emit: func(ev bench.Event) { events = append(events, ev) }})

		if r.PlayerSunk != game.NumShips && r.OpponentSunk != game.NumShips {
			t.Fatalf("seed %d: game ended early: %+v", seed, r)
		}
		if r.Moves > game.BoardSize*game.BoardSize {
			t.Fatalf("seed %d: %d rounds exceed grid size", seed, r.Moves)
		}
		switch {
		case r.PlayerSunk == game.NumShips && r.OpponentSunk == game.NumShips:
			if r.Outcome != bench.Tie {
				t.Errorf("seed %d: want tie, have %s", seed, r.Outcome)
			}
		case r.PlayerSunk == game.NumShips:
			if r.Outcome != bench.Win {
				t.Errorf("seed %d: want win, have %s", seed, r.Outcome)
			}
		default:
			if r.Outcome != bench.Loss {
				t.Errorf("seed %d: want loss, have %s", seed, r.Outcome)
			}
		}
		if want, have := 2*r.Moves+1, len(events); want != have {
			t.Errorf("seed %d: events want=%d, have=%d", seed, want, have)
		}
		if last := events[len(events)-1]; last.Type != "End" {
			t.Errorf("seed %d: last event %q", seed, last.Type)
		}
	}
}

func TestPlayGame_DiagnosticsDoNotChangeOutcome(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		run := func(d *diag.Log) bench.GameResult {
			rng := util.New(seed)
			return bench.PlayGame(rng, targeting.NewHunter(rng, d), targeting.NewRandom(rng), bench.GameOptions{Diag: d})
		}
		d := diag.New(1000)
		d.SetDebug(true)
		with, without := run(d), run(nil)
		if with.Outcome != without.Outcome || with.Moves != without.Moves {
			t.Errorf("seed %d: diagnostics changed the game: %+v vs %+v", seed, with, without)
		}
	}
}

func TestRun_HunterMirrorMatch(t *testing.T) {
	var mu sync.Mutex
	var milestones []int
	sum, err := bench.Run(bench.Options{
		Games:        100,
		Workers:      4,
		Seed:         2024,
		Player:       targeting.HunterName,
		Opponent:     targeting.HunterName,
		PollInterval: time.Millisecond,
		Progress: func(done, total int) {
			mu.Lock()
			milestones = append(milestones, done)
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, have := 100, sum.Wins+sum.Losses+sum.Ties; want != have {
		t.Errorf("wins+losses+ties want=%d, have=%d", want, have)
	}
	if sum.AvgMoves <= 0 || sum.AvgMoves >= bench.MaxMoves {
		t.Errorf("avg moves out of range: %v", sum.AvgMoves)
	}
	if want, have := 4, sum.Workers; want != have {
		t.Errorf("workers want=%d, have=%d", want, have)
	}
	mu.Lock()
	defer mu.Unlock()
	for i := 1; i < len(milestones); i++ {
		if milestones[i] <= milestones[i-1] {
			t.Errorf("milestones not increasing: %v", milestones)
		}
	}
}

func TestRun_HunterBeatsRandom(t *testing.T) {
	d := diag.New(2000)
	sum, err := bench.Run(bench.Options{
		Games:     200,
		Workers:   3,
		Seed:      7,
		Player:    targeting.HunterName,
		Opponent:  targeting.RandomName,
		Diag:      d,
		LogLosses: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, have := 200, sum.Games; want != have {
		t.Fatalf("games want=%d, have=%d", want, have)
	}
	if sum.Wins <= sum.Losses {
		t.Errorf("hunter should dominate random: %+v", sum)
	}
	losses := 0
	for _, e := range d.Entries() {
		if strings.HasPrefix(e, "LOSS after") {
			losses++
		}
	}
	if want, have := sum.Losses, losses; want != have {
		t.Errorf("logged losses want=%d, have=%d", want, have)
	}
}

func TestRun_LossLogSurvivesDebugTraffic(t *testing.T) {
	d := diag.New(5)
	d.SetDebug(true)
	losses := diag.New(500)
	sum, err := bench.Run(bench.Options{
		Games:     100,
		Workers:   2,
		Seed:      19,
		Player:    targeting.HunterName,
		Opponent:  targeting.HunterName,
		Diag:      d,
		LogLosses: true,
		LossLog:   losses,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, have := sum.Losses, losses.Len(); want != have {
		t.Errorf("loss records want=%d, have=%d", want, have)
	}
	for _, e := range d.Entries() {
		if strings.HasPrefix(e, "LOSS after") {
			t.Errorf("loss record leaked into the debug log: %q", e)
		}
	}
}

func TestRun_Errors(t *testing.T) {
	if _, err := bench.Run(bench.Options{Games: 0, Player: "hunter", Opponent: "random"}); !errors.Is(err, bench.ErrNoGames) {
		t.Errorf("want ErrNoGames, have %v", err)
	}
	if _, err := bench.Run(bench.Options{Games: 1, Player: "nope", Opponent: "random"}); !errors.Is(err, targeting.ErrUnknownStrategy) {
		t.Errorf("want ErrUnknownStrategy, have %v", err)
	}
}

// tripwire proposes an off-board target on its third turn.
type tripwire struct {
	*targeting.Hunter
	log   *diag.Log
	turns int
}

func (w *tripwire) Init(m *targeting.Memory) {
	w.turns = 0
	w.Hunter.Init(m)
}

func (w *tripwire) Propose(m *targeting.Memory) string {
	w.turns++
	if w.turns == 3 {
		w.log.Guardf("OFFBOARD: synthetic")
		return "K11"
	}
	return w.Hunter.Propose(m)
}

func TestCatchGuards(t *testing.T) {
	targeting.Register("tripwire", func(rng *rand.Rand, log *diag.Log) targeting.Strategy {
		return &tripwire{Hunter: targeting.NewHunter(rng, log), log: log}
	})

	d := diag.New(100)
	rep, err := bench.CatchGuards(bench.GuardOptions{
		Seed: 3, Player: "tripwire", Opponent: targeting.RandomName, Diag: d, MaxGames: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rep.Tripped || rep.Games != 1 {
		t.Fatalf("want trip in first game, have %+v", rep)
	}
	if len(rep.Entries) == 0 || !strings.Contains(rep.Entries[len(rep.Entries)-1], "synthetic") {
		t.Errorf("unexpected entries: %v", rep.Entries)
	}

	rep, err = bench.CatchGuards(bench.GuardOptions{
		Seed: 3, Player: targeting.HunterName, Opponent: targeting.RandomName, MaxGames: 25,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Tripped || rep.Games != 25 {
		t.Errorf("hunter tripped a guard: %+v", rep)
	}
}
