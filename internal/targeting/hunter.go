package targeting

import (
	"math/rand"

	"battlesim/internal/diag"
	"battlesim/internal/game"
)

const HunterName = "hunter"

// Hunter is the hunt/search/destroy controller. Random hunts by parity and
// placement density; the first hit opens Search, which probes the four
// neighbours of the anchor; a second hit fixes the axis and Destroy walks
// along it, turning around once before giving up.
type Hunter struct {
	rng *rand.Rand
	log *diag.Log
}

func NewHunter(rng *rand.Rand, log *diag.Log) *Hunter {
	return &Hunter{rng: rng, log: log}
}

func (h *Hunter) Name() string { return HunterName }

func (h *Hunter) Init(m *Memory) { m.Reset() }

func (h *Hunter) Propose(m *Memory) string {
	if m.Mode == ModeRandom {
		return HuntMove(m, h.rng)
	}

	row, col := m.Target()
	if !game.OnBoard(row, col) {
		h.log.Guardf("OFFBOARD: row=%d col=%d | anchor=(%d,%d) | dir=%s dist=%d | mode=%s",
			row, col, m.AnchorRow, m.AnchorCol, m.Dir, m.Dist, m.Mode)
		return HuntMove(m, h.rng)
	}
	if mk := m.Grid[row][col]; mk != MarkUnknown {
		h.log.Guardf("ALREADY FIRED: %s (mark=%s) | anchor=(%d,%d) | dir=%s dist=%d | mode=%s lastResult=%s",
			game.FormatMove(row, col), mk, m.AnchorRow, m.AnchorCol, m.Dir, m.Dist, m.Mode, m.LastResult)
		return HuntMove(m, h.rng)
	}
	return game.FormatMove(row, col)
}

func (h *Hunter) Update(row, col int, res game.Result, m *Memory) {
	m.Record(row, col, res)

	switch m.Mode {
	case ModeRandom:
		h.afterHunt(row, col, res, m)
	case ModeSearch:
		h.afterSearch(row, col, res, m)
	case ModeDestroy:
		h.afterDestroy(row, col, res, m)
	}
}

func (h *Hunter) afterHunt(row, col int, res game.Result, m *Memory) {
	if res.IsMiss() || res.IsSunk() {
		return
	}
	dir := nextOpenDir(m, row, col, DirNone)
	if dir == DirNone {
		// Every neighbour is resolved; the density hunt keeps making progress.
		h.log.Debugf("RANDOM: hit at %s has no open neighbour", game.FormatMove(row, col))
		return
	}
	m.Mode = ModeSearch
	m.AnchorRow, m.AnchorCol = row, col
	m.Dir = dir
	m.Dist = 1
}

func (h *Hunter) afterSearch(row, col int, res game.Result, m *Memory) {
	switch {
	case res.IsSunk():
		m.clearLead()
	case res.IsMiss():
		next := nextOpenDir(m, m.AnchorRow, m.AnchorCol, m.Dir)
		if next == DirNone {
			m.clearLead()
			return
		}
		m.Dir = next
		m.Dist = 1
	default:
		h.log.Debugf("SEARCH->DESTROY: 2nd hit at %s | anchor=(%d,%d) dir=%s",
			game.FormatMove(row, col), m.AnchorRow, m.AnchorCol, m.Dir)
		m.Mode = ModeDestroy
		m.Dist = 2
		if mk, ok := m.at(m.Target()); ok && mk == MarkMiss {
			h.turnAround(m)
			return
		}
		if !extend(m) {
			h.turnAround(m)
		}
	}
}

func (h *Hunter) afterDestroy(row, col int, res game.Result, m *Memory) {
	switch {
	case res.IsSunk():
		m.clearLead()
	case res.IsMiss():
		h.turnAround(m)
	default:
		h.log.Debugf("DESTROY: hit at %s | dist %d->%d", game.FormatMove(row, col), m.Dist, m.Dist+1)
		m.Dist++
		if !extend(m) {
			h.turnAround(m)
		}
	}
}

// turnAround switches to the opposite ray at its first unresolved cell, or
// drops the lead when that ray is blocked as well.
func (h *Hunter) turnAround(m *Memory) {
	opp := m.Dir.Opposite()
	dist, ok := openCell(m, opp, 1)
	if opp == DirNone || !ok {
		m.clearLead()
		return
	}
	r, c := m.AnchorRow, m.AnchorCol
	dr, dc := opp.Delta()
	h.log.Debugf("%s: switching dir %s->%s at dist=%d to fire at %s",
		m.Mode, m.Dir, opp, dist, game.FormatMove(r+dr*dist, c+dc*dist))
	m.Dir = opp
	m.Dist = dist
}

// extend skips hits along the current ray from m.Dist outward and reports
// whether it stopped on a cell that can still be fired at.
func extend(m *Memory) bool {
	dist, ok := openCell(m, m.Dir, m.Dist)
	m.Dist = dist
	return ok
}

func openCell(m *Memory, dir Direction, dist int) (int, bool) {
	dr, dc := dir.Delta()
	if dr == 0 && dc == 0 {
		return dist, false
	}
	for {
		mk, on := m.at(m.AnchorRow+dr*dist, m.AnchorCol+dc*dist)
		if !on {
			return dist, false
		}
		if mk != MarkHit {
			return dist, mk == MarkUnknown
		}
		dist++
	}
}

// nextOpenDir returns the first direction after cur, in N-E-S-W order, whose
// neighbour of (row, col) is on the board and not yet fired at.
func nextOpenDir(m *Memory, row, col int, cur Direction) Direction {
	idx := -1
	for i, d := range probeOrder {
		if d == cur {
			idx = i
			break
		}
	}
	for step := 1; step <= len(probeOrder); step++ {
		d := probeOrder[(idx+step+len(probeOrder))%len(probeOrder)]
		dr, dc := d.Delta()
		if m.unknown(row+dr, col+dc) {
			return d
		}
	}
	return DirNone
}
