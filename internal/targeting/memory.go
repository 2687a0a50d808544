package targeting

import "battlesim/internal/game"

type Mode int

const (
	ModeRandom Mode = iota
	ModeSearch
	ModeDestroy
)

func (m Mode) String() string {
	switch m {
	case ModeRandom:
		return "Random"
	case ModeSearch:
		return "Search"
	case ModeDestroy:
		return "Destroy"
	default:
		return "Unknown"
	}
}

type Direction int

const (
	DirNone Direction = iota
	North
	East
	South
	West
)

// probeOrder is the cyclic order in which Search tries directions.
var probeOrder = [4]Direction{North, East, South, West}

func (d Direction) String() string {
	switch d {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	default:
		return "-"
	}
}

func (d Direction) Delta() (dr, dc int) {
	switch d {
	case North:
		return -1, 0
	case East:
		return 0, 1
	case South:
		return 1, 0
	case West:
		return 0, -1
	default:
		return 0, 0
	}
}

func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case East:
		return West
	case South:
		return North
	case West:
		return East
	default:
		return DirNone
	}
}

// Mark is a mirror-grid cell as seen by the shooter.
type Mark uint8

const (
	MarkUnknown Mark = iota
	MarkHit
	MarkMiss
	MarkSunk
)

func (m Mark) String() string {
	switch m {
	case MarkHit:
		return "hit"
	case MarkMiss:
		return "miss"
	case MarkSunk:
		return "sunk"
	default:
		return "unknown"
	}
}

// Memory is one player's private view of the opponent board plus the
// controller state. It is built from that player's own shots only.
type Memory struct {
	Grid [game.BoardSize][game.BoardSize]Mark

	Mode       Mode
	AnchorRow  int
	AnchorCol  int
	Dir        Direction
	Dist       int
	LastResult game.Result

	// SunkShips is indexed by ShipID-1.
	SunkShips [game.NumShips]bool
}

// Reset puts the memory back into its start-of-game state.
func (m *Memory) Reset() {
	*m = Memory{}
	m.clearLead()
}

func (m *Memory) clearLead() {
	m.Mode = ModeRandom
	m.AnchorRow, m.AnchorCol = -1, -1
	m.Dir = DirNone
	m.Dist = 1
}

// Record writes the outcome of a shot into the mirror grid.
func (m *Memory) Record(row, col int, res game.Result) {
	m.LastResult = res
	if !game.OnBoard(row, col) {
		return
	}
	switch {
	case res.IsSunk():
		m.Grid[row][col] = MarkSunk
		if id := res.Ship(); id.IsValid() {
			m.SunkShips[id-1] = true
		}
	case res.IsHit():
		m.Grid[row][col] = MarkHit
	default:
		m.Grid[row][col] = MarkMiss
	}
}

func (m *Memory) at(row, col int) (Mark, bool) {
	if !game.OnBoard(row, col) {
		return MarkUnknown, false
	}
	return m.Grid[row][col], true
}

func (m *Memory) unknown(row, col int) bool {
	mk, ok := m.at(row, col)
	return ok && mk == MarkUnknown
}

// Unknown lists every cell not yet fired at, row-major.
func (m *Memory) Unknown() []game.Coord {
	out := make([]game.Coord, 0, game.BoardSize*game.BoardSize)
	for r := 0; r < game.BoardSize; r++ {
		for c := 0; c < game.BoardSize; c++ {
			if m.Grid[r][c] == MarkUnknown {
				out = append(out, game.Coord{Row: r, Col: c})
			}
		}
	}
	return out
}

// Target is the cell the current lead points at.
func (m *Memory) Target() (row, col int) {
	dr, dc := m.Dir.Delta()
	return m.AnchorRow + dr*m.Dist, m.AnchorCol + dc*m.Dist
}
