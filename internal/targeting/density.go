package targeting

import (
	"math/rand"

	"battlesim/internal/game"
)

// CellScore counts placements of every ship not yet reported sunk that cover
// (row, col) without crossing a known miss or sunk cell.
func CellScore(m *Memory, row, col int) int {
	if !m.unknown(row, col) {
		return 0
	}
	score := 0
	for i, id := range game.Ships {
		if m.SunkShips[i] {
			continue
		}
		size := id.Size()
		for start := col - size + 1; start <= col; start++ {
			if start >= 0 && start+size <= game.BoardSize && m.lineOpen(row, start, 0, 1, size) {
				score++
			}
		}
		for start := row - size + 1; start <= row; start++ {
			if start >= 0 && start+size <= game.BoardSize && m.lineOpen(start, col, 1, 0, size) {
				score++
			}
		}
	}
	return score
}

func (m *Memory) lineOpen(row, col, dr, dc, n int) bool {
	for i := 0; i < n; i++ {
		switch m.Grid[row+dr*i][col+dc*i] {
		case MarkMiss, MarkSunk:
			return false
		}
	}
	return true
}

// HuntMove picks a cell while no lead is open: unknown parity cells first,
// the densest of them winning, ties broken uniformly. It returns "" only when
// every cell has been fired at.
func HuntMove(m *Memory, rng *rand.Rand) string {
	all := m.Unknown()
	if len(all) == 0 {
		return ""
	}
	cands := make([]game.Coord, 0, len(all))
	for _, c := range all {
		if (c.Row+c.Col)%2 == 0 {
			cands = append(cands, c)
		}
	}
	if len(cands) == 0 {
		cands = all
	}

	best := 0
	top := make([]game.Coord, 0, len(cands))
	for _, c := range cands {
		s := CellScore(m, c.Row, c.Col)
		switch {
		case s > best:
			best = s
			top = append(top[:0], c)
		case s == best && s > 0:
			top = append(top, c)
		}
	}
	if best == 0 {
		top = all
	}
	pick := top[rng.Intn(len(top))]
	return game.FormatMove(pick.Row, pick.Col)
}
