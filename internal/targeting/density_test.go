package targeting_test

import (
	"errors"
	"testing"

	"battlesim/internal/game"
	"battlesim/internal/targeting"
	"battlesim/internal/util"
)

func TestCellScore(t *testing.T) {
	var m targeting.Memory
	m.Reset()

	corner := targeting.CellScore(&m, 0, 0)
	center := targeting.CellScore(&m, 4, 4)
	if corner >= center {
		t.Errorf("expected corner < center, have corner=%d center=%d", corner, center)
	}
	// Corner: one horizontal and one vertical placement per ship.
	if want, have := 2*game.NumShips, corner; want != have {
		t.Errorf("corner score want=%d, have=%d", want, have)
	}

	m.Grid[4][5] = targeting.MarkMiss
	if have := targeting.CellScore(&m, 4, 4); have >= center {
		t.Errorf("adjacent miss must lower score: before=%d after=%d", center, have)
	}
	if want, have := 0, targeting.CellScore(&m, 4, 5); want != have {
		t.Errorf("resolved cell score want=%d, have=%d", want, have)
	}

	before := targeting.CellScore(&m, 7, 7)
	m.SunkShips[game.ShipCarrier-1] = true
	if have := targeting.CellScore(&m, 7, 7); have >= before {
		t.Errorf("sunk ship must stop counting: before=%d after=%d", before, have)
	}
}

func TestHuntMove_PrefersParity(t *testing.T) {
	rng := util.New(5)
	var m targeting.Memory
	m.Reset()
	for i := 0; i < 40; i++ {
		c, ok := game.ParseMove(targeting.HuntMove(&m, rng))
		if !ok {
			t.Fatal("hunt move did not parse")
		}
		if (c.Row+c.Col)%2 != 0 {
			t.Fatalf("expected parity cell, have %s", c)
		}
		m.Grid[c.Row][c.Col] = targeting.MarkMiss
	}
}

func TestHuntMove_FallsBackToOddCells(t *testing.T) {
	rng := util.New(5)
	var m targeting.Memory
	m.Reset()
	for r := 0; r < game.BoardSize; r++ {
		for c := 0; c < game.BoardSize; c++ {
			if (r+c)%2 == 0 {
				m.Grid[r][c] = targeting.MarkMiss
			}
		}
	}
	c, ok := game.ParseMove(targeting.HuntMove(&m, rng))
	if !ok || (c.Row+c.Col)%2 == 0 {
		t.Errorf("expected odd cell, have %v (ok=%v)", c, ok)
	}

	for r := range m.Grid {
		for c := range m.Grid[r] {
			m.Grid[r][c] = targeting.MarkMiss
		}
	}
	if want, have := "", targeting.HuntMove(&m, rng); want != have {
		t.Errorf("full grid want=%q, have=%q", want, have)
	}
}

func TestRegistry(t *testing.T) {
	names := targeting.Names()
	if len(names) < 2 {
		t.Fatalf("expected built-in strategies, have %v", names)
	}
	for _, n := range []string{targeting.HunterName, targeting.RandomName} {
		s, err := targeting.New(n, util.New(1), nil)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", n, err)
		}
		if want, have := n, s.Name(); want != have {
			t.Errorf("name want=%s, have=%s", want, have)
		}
	}
	if _, err := targeting.Lookup("spiral"); !errors.Is(err, targeting.ErrUnknownStrategy) {
		t.Errorf("want ErrUnknownStrategy, have %v", err)
	}
}
