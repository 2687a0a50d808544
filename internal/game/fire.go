package game

import "errors"

var (
	// ErrCellResolved means a shot reached the board without passing CheckMove.
	ErrCellResolved = errors.New("cell already resolved")
	ErrOffBoard     = errors.New("coordinate off board")
)

// Fire resolves a shot at (row, col). It is the only mutator of grid and
// ship state. A resolved or off-board target reports a Miss together with a
// contract error and leaves the board untouched.
func (b *Board) Fire(row, col int) (Result, error) {
	if !OnBoard(row, col) {
		return ResultMiss, ErrOffBoard
	}
	cell := b.Grid[row][col]
	if cell.IsResolved() {
		return ResultMiss, ErrCellResolved
	}
	if cell == CellEmpty {
		b.Grid[row][col] = CellMiss
		return ResultMiss, nil
	}

	s := b.ship(cell.Ship())
	if s == nil {
		b.Grid[row][col] = CellMiss
		return ResultMiss, nil
	}
	s.HitsToSink--
	b.Grid[row][col] = CellHit
	if s.HitsToSink > 0 {
		return hitResult(s.ID, false), nil
	}
	for _, c := range s.Cells() {
		b.Grid[c.Row][c.Col] = CellSunk
	}
	return hitResult(s.ID, true), nil
}
