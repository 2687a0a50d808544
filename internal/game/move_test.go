package game_test

import (
	"errors"
	"testing"

	"battlesim/internal/game"
	"battlesim/internal/util"
)

func TestCheckMove(t *testing.T) {
	var b game.Board
	b.Clear()
	b.Grid[2][4] = game.CellMiss

	tests := []struct {
		token string
		want  game.MoveCheck
		coord game.Coord
	}{
		{"A1", game.MoveValid, game.Coord{Row: 0, Col: 0}},
		{"a 1", game.MoveValid, game.Coord{Row: 0, Col: 0}},
		{"  J10 ", game.MoveValid, game.Coord{Row: 9, Col: 9}},
		{"j\t7", game.MoveValid, game.Coord{Row: 9, Col: 6}},
		{"C5", game.MoveAlreadyUsed, game.Coord{Row: 2, Col: 4}},
		{"c 5", game.MoveAlreadyUsed, game.Coord{Row: 2, Col: 4}},
		{"", game.MoveIllegalFormat, game.Coord{}},
		{"K1", game.MoveIllegalFormat, game.Coord{}},
		{"A", game.MoveIllegalFormat, game.Coord{}},
		{"A0", game.MoveIllegalFormat, game.Coord{}},
		{"A11", game.MoveIllegalFormat, game.Coord{}},
		{"Ax", game.MoveIllegalFormat, game.Coord{}},
		{"A-1", game.MoveIllegalFormat, game.Coord{}},
		{"A5x", game.MoveIllegalFormat, game.Coord{}},
		{"5A", game.MoveIllegalFormat, game.Coord{}},
	}
	for _, tt := range tests {
		c, have := game.CheckMove(tt.token, &b)
		if tt.want != have {
			t.Errorf("%q: want=%s, have=%s", tt.token, tt.want, have)
			continue
		}
		if tt.want != game.MoveIllegalFormat && tt.coord != c {
			t.Errorf("%q: coord want=%v, have=%v", tt.token, tt.coord, c)
		}
	}
}

func TestCheckMove_ResolvedIsAlwaysAlreadyUsed(t *testing.T) {
	var b game.Board
	b.Initialize(util.New(3))

	for r := 0; r < game.BoardSize; r++ {
		for c := 0; c < game.BoardSize; c++ {
			token := game.FormatMove(r, c)
			if _, check := game.CheckMove(token, &b); check != game.MoveValid {
				t.Fatalf("%s: want valid before firing, have %s", token, check)
			}
			if _, err := b.Fire(r, c); err != nil {
				t.Fatalf("%s: unexpected error: %v", token, err)
			}
			for i := 0; i < 3; i++ {
				_, check := game.CheckMove(token, &b)
				if want, have := game.MoveAlreadyUsed, check; want != have {
					t.Fatalf("%s: want=%s, have=%s", token, want, have)
				}
				if !errors.Is(check.Err(), game.ErrAlreadyUsed) {
					t.Fatalf("%s: unexpected error %v", token, check.Err())
				}
			}
		}
	}
}

func TestRandomMove_AlwaysParses(t *testing.T) {
	rng := util.New(11)
	for i := 0; i < 1000; i++ {
		tok := game.RandomMove(rng)
		if _, ok := game.ParseMove(tok); !ok {
			t.Fatalf("random token %q failed to parse", tok)
		}
	}
}

func TestFormatMove(t *testing.T) {
	if want, have := "D5", game.FormatMove(3, 4); want != have {
		t.Errorf("want=%q, have=%q", want, have)
	}
	if want, have := "J10", (game.Coord{Row: 9, Col: 9}).String(); want != have {
		t.Errorf("want=%q, have=%q", want, have)
	}
}

func TestResult_Flags(t *testing.T) {
	var b game.Board
	b.Clear()
	if err := b.PlaceShip(game.ShipDestroyer, 0, 0, game.Vertical); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	miss, _ := b.Fire(5, 5)
	hit, _ := b.Fire(0, 0)
	sunk, _ := b.Fire(1, 0)

	if !miss.IsMiss() || miss.IsHit() || miss.IsSunk() || miss.Ship() != game.ShipNone {
		t.Errorf("miss flags wrong: %s", miss)
	}
	if !hit.IsHit() || hit.IsSunk() || hit.Ship() != game.ShipDestroyer {
		t.Errorf("hit flags wrong: %s", hit)
	}
	if !sunk.IsHit() || !sunk.IsSunk() || sunk.Ship() != game.ShipDestroyer {
		t.Errorf("sunk flags wrong: %s", sunk)
	}
}
