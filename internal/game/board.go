package game

import (
	"fmt"
	"math/rand"
)

const (
	BoardSize = 10
	NumShips  = 5
)

type ShipID int

const (
	ShipNone ShipID = iota
	ShipCarrier
	ShipBattleship
	ShipCruiser
	ShipSubmarine
	ShipDestroyer
)

// Ships lists every ship in placement order.
var Ships = [NumShips]ShipID{ShipCarrier, ShipBattleship, ShipCruiser, ShipSubmarine, ShipDestroyer}

func (s ShipID) String() string {
	switch s {
	case ShipCarrier:
		return "Carrier"
	case ShipBattleship:
		return "Battleship"
	case ShipCruiser:
		return "Cruiser"
	case ShipSubmarine:
		return "Submarine"
	case ShipDestroyer:
		return "Destroyer"
	default:
		return "Unknown"
	}
}

func (s ShipID) IsValid() bool { return s >= ShipCarrier && s <= ShipDestroyer }

func (s ShipID) Size() int {
	switch s {
	case ShipCarrier:
		return 5
	case ShipBattleship:
		return 4
	case ShipCruiser, ShipSubmarine:
		return 3
	case ShipDestroyer:
		return 2
	default:
		return 0
	}
}

// TotalShipCells is the number of occupied cells on a freshly placed board.
const TotalShipCells = 5 + 4 + 3 + 3 + 2

type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "Vertical"
	}
	return "Horizontal"
}

// Cell values 1..5 are ship markers and equal the ShipID occupying the cell.
type Cell uint8

const (
	CellEmpty Cell = 0
	CellHit   Cell = 6
	CellMiss  Cell = 7
	CellSunk  Cell = 8
)

func (c Cell) Ship() ShipID {
	if id := ShipID(c); id.IsValid() {
		return id
	}
	return ShipNone
}

func (c Cell) IsShip() bool { return c.Ship() != ShipNone }

// IsResolved reports whether a shot has already landed on the cell.
func (c Cell) IsResolved() bool { return c == CellHit || c == CellMiss || c == CellSunk }

func (c Cell) String() string {
	switch {
	case c == CellEmpty:
		return "Empty"
	case c == CellHit:
		return "Hit"
	case c == CellMiss:
		return "Miss"
	case c == CellSunk:
		return "Sunk"
	case c.IsShip():
		return c.Ship().String()
	default:
		return "Unknown"
	}
}

type Ship struct {
	ID         ShipID
	Row, Col   int
	Orient     Orientation
	HitsToSink int
	placed     bool
}

// Cells returns the coordinates covered by the ship.
func (s Ship) Cells() []Coord {
	out := make([]Coord, s.ID.Size())
	for i := range out {
		if s.Orient == Vertical {
			out[i] = Coord{Row: s.Row + i, Col: s.Col}
		} else {
			out[i] = Coord{Row: s.Row, Col: s.Col + i}
		}
	}
	return out
}

func (s Ship) Sunk() bool { return s.placed && s.HitsToSink == 0 }

type Board struct {
	Grid  [BoardSize][BoardSize]Cell
	Ships [NumShips]Ship
}

func OnBoard(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// Clear empties the grid and resets every ship to its full size, unplaced.
func (b *Board) Clear() {
	b.Grid = [BoardSize][BoardSize]Cell{}
	for i, id := range Ships {
		b.Ships[i] = Ship{ID: id, HitsToSink: id.Size()}
	}
}

// Initialize clears the board and places all ships at random.
func (b *Board) Initialize(rng *rand.Rand) {
	b.Clear()
	for _, id := range Ships {
		for {
			row := rng.Intn(BoardSize)
			col := rng.Intn(BoardSize)
			orient := Orientation(rng.Intn(2))
			if b.PlaceShip(id, row, col, orient) == nil {
				break
			}
		}
	}
}

func (b *Board) ship(id ShipID) *Ship {
	if !id.IsValid() {
		return nil
	}
	return &b.Ships[id-1]
}

// Ship returns the record for id.
func (b *Board) Ship(id ShipID) (Ship, bool) {
	s := b.ship(id)
	if s == nil {
		return Ship{}, false
	}
	return *s, s.placed
}

// PlaceShip puts ship id on the grid starting at (row, col).
func (b *Board) PlaceShip(id ShipID, row, col int, orient Orientation) error {
	s := b.ship(id)
	if s == nil {
		return fmt.Errorf("invalid ship id: %d", id)
	}
	if s.placed {
		return fmt.Errorf("ship %s already placed", id)
	}
	cand := Ship{ID: id, Row: row, Col: col, Orient: orient, HitsToSink: id.Size()}
	cells := cand.Cells()
	for _, c := range cells {
		if !OnBoard(c.Row, c.Col) {
			return fmt.Errorf("ship %s out of bounds: start=%s, orient=%s", id, Coord{row, col}, orient)
		}
		if b.Grid[c.Row][c.Col] != CellEmpty {
			return fmt.Errorf("ship %s overlaps at %s", id, c)
		}
	}
	for _, c := range cells {
		b.Grid[c.Row][c.Col] = Cell(id)
	}
	cand.placed = true
	*s = cand
	return nil
}

// ShipCells counts cells still carrying a ship marker.
func (b *Board) ShipCells() int {
	n := 0
	for r := range b.Grid {
		for c := range b.Grid[r] {
			if b.Grid[r][c].IsShip() {
				n++
			}
		}
	}
	return n
}

func (b *Board) SunkCount() int {
	n := 0
	for _, s := range b.Ships {
		if s.Sunk() {
			n++
		}
	}
	return n
}

func (b *Board) AllSunk() bool { return b.SunkCount() == NumShips }
