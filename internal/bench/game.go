package bench

import (
	"math/rand"
	"time"

	"battlesim/internal/diag"
	"battlesim/internal/game"
	"battlesim/internal/targeting"
)

type Outcome int

const (
	Loss Outcome = iota
	Win
	Tie
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Tie:
		return "tie"
	default:
		return "loss"
	}
}

// Event is one entry of an optional game trace.
type Event struct {
	Round   int            `json:"round"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

type GameOptions struct {
	Diag *diag.Log
	// StopOnGuard ends the game as soon as a proposal trips the guard.
	StopOnGuard bool
	Emit        func(Event)
}

// GameResult is reported from the first player's point of view.
type GameResult struct {
	Outcome      Outcome
	Moves        int
	Elapsed      time.Duration
	PlayerSunk   int
	OpponentSunk int
	GuardTripped bool
}

// PlayGame runs one game to completion. Each round both sides propose a
// move, invalid proposals are replaced by random ones until they validate,
// then both shots land and both memories are updated.
func PlayGame(rng *rand.Rand, player, opponent targeting.Strategy, opts GameOptions) GameResult {
	start := time.Now()
	emit := opts.Emit
	if emit == nil {
		emit = func(Event) {}
	}

	var playerFleet, opponentFleet game.Board
	playerFleet.Initialize(rng)
	opponentFleet.Initialize(rng)

	var pm, om targeting.Memory
	player.Init(&pm)
	opponent.Init(&om)

	var res GameResult
	for {
		res.Moves++

		pTok := player.Propose(&pm)
		oTok := opponent.Propose(&om)
		if opts.StopOnGuard && opts.Diag.Tripped() {
			res.GuardTripped = true
			break
		}
		pc, pTok := settle(pTok, &opponentFleet, rng, opts.Diag)
		oc, oTok := settle(oTok, &playerFleet, rng, opts.Diag)

		pRes := fire(&opponentFleet, pc, opts.Diag)
		oRes := fire(&playerFleet, oc, opts.Diag)
		player.Update(pc.Row, pc.Col, pRes, &pm)
		opponent.Update(oc.Row, oc.Col, oRes, &om)

		emit(Event{Round: res.Moves, Type: "Shot", Payload: map[string]any{
			"side": "player", "strategy": player.Name(), "move": pTok, "result": pRes.String(),
		}})
		emit(Event{Round: res.Moves, Type: "Shot", Payload: map[string]any{
			"side": "opponent", "strategy": opponent.Name(), "move": oTok, "result": oRes.String(),
		}})

		if pRes.IsSunk() {
			res.PlayerSunk++
		}
		if oRes.IsSunk() {
			res.OpponentSunk++
		}
		if res.PlayerSunk == game.NumShips || res.OpponentSunk == game.NumShips {
			break
		}
	}

	switch {
	case res.PlayerSunk == game.NumShips && res.OpponentSunk == game.NumShips:
		res.Outcome = Tie
	case res.PlayerSunk == game.NumShips:
		res.Outcome = Win
	default:
		res.Outcome = Loss
	}
	res.Elapsed = time.Since(start)
	if !res.GuardTripped {
		emit(Event{Round: res.Moves, Type: "End", Payload: map[string]any{
			"outcome": res.Outcome.String(), "player_sunk": res.PlayerSunk, "opponent_sunk": res.OpponentSunk,
		}})
	}
	return res
}

// settle validates tok against the target board, re-sampling random moves
// until one is legal. The game is still running, so an open cell exists.
func settle(tok string, target *game.Board, rng *rand.Rand, d *diag.Log) (game.Coord, string) {
	c, check := game.CheckMove(tok, target)
	for check != game.MoveValid {
		d.Debugf("INVALID move %q (%s), using random instead", tok, check)
		tok = game.RandomMove(rng)
		c, check = game.CheckMove(tok, target)
	}
	return c, tok
}

func fire(target *game.Board, c game.Coord, d *diag.Log) game.Result {
	res, err := target.Fire(c.Row, c.Col)
	if err != nil {
		d.Recordf("executor rejected validated move %s: %v", c, err)
	}
	return res
}
