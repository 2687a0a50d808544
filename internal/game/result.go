package game

import "fmt"

// Result packs the outcome of one shot: the low bits carry the ship id,
// ResultHit and ResultSunk are independent flags. Miss is the zero value.
type Result uint8

const (
	ResultMiss Result = 0
	ResultHit  Result = 1 << 3
	ResultSunk Result = 1 << 4

	resultShipMask Result = 0x07
)

func hitResult(id ShipID, sunk bool) Result {
	r := ResultHit | Result(id)&resultShipMask
	if sunk {
		r |= ResultSunk
	}
	return r
}

func (r Result) IsMiss() bool { return r&ResultHit == 0 }
func (r Result) IsHit() bool  { return r&ResultHit != 0 }
func (r Result) IsSunk() bool { return r&ResultSunk != 0 && r.IsHit() }

// Ship is only meaningful when IsHit is true.
func (r Result) Ship() ShipID {
	if !r.IsHit() {
		return ShipNone
	}
	return ShipID(r & resultShipMask)
}

func (r Result) String() string {
	switch {
	case r.IsSunk():
		return fmt.Sprintf("Sunk(%s)", r.Ship())
	case r.IsHit():
		return fmt.Sprintf("Hit(%s)", r.Ship())
	default:
		return "Miss"
	}
}
