package game

import (
	"errors"
	"math/rand"
	"strconv"
	"strings"
)

var (
	ErrIllegalFormat = errors.New("illegal move format")
	ErrAlreadyUsed   = errors.New("move already used")
)

type Coord struct{ Row, Col int }

// String renders the coordinate as a move token, e.g. "A1".
func (c Coord) String() string { return FormatMove(c.Row, c.Col) }

func FormatMove(row, col int) string {
	if !OnBoard(row, col) {
		return "(" + strconv.Itoa(row) + "," + strconv.Itoa(col) + ")"
	}
	return string(rune('A'+row)) + strconv.Itoa(col+1)
}

// RandomMove returns a token for a uniformly random cell, in the spaced "A 1" form.
func RandomMove(rng *rand.Rand) string {
	row := rng.Intn(BoardSize)
	col := rng.Intn(BoardSize)
	return string(rune('A'+row)) + " " + strconv.Itoa(col+1)
}

type MoveCheck int

const (
	MoveValid MoveCheck = iota
	MoveIllegalFormat
	MoveAlreadyUsed
)

func (m MoveCheck) String() string {
	switch m {
	case MoveValid:
		return "Valid"
	case MoveIllegalFormat:
		return "IllegalFormat"
	case MoveAlreadyUsed:
		return "AlreadyUsed"
	default:
		return "Unknown"
	}
}

// Err maps the tag onto the package sentinel errors; MoveValid yields nil.
func (m MoveCheck) Err() error {
	switch m {
	case MoveIllegalFormat:
		return ErrIllegalFormat
	case MoveAlreadyUsed:
		return ErrAlreadyUsed
	default:
		return nil
	}
}

// ParseMove is the lexical stage: letter A-J (any case), optional blanks,
// then a column 1-10 made only of digits.
func ParseMove(token string) (Coord, bool) {
	s := strings.TrimSpace(token)
	if s == "" {
		return Coord{}, false
	}
	letter := s[0]
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	if letter < 'A' || letter >= 'A'+BoardSize {
		return Coord{}, false
	}
	num := strings.TrimLeft(s[1:], " \t")
	if num == "" || len(num) > 2 {
		return Coord{}, false
	}
	for i := 0; i < len(num); i++ {
		if num[i] < '0' || num[i] > '9' {
			return Coord{}, false
		}
	}
	col, err := strconv.Atoi(num)
	if err != nil || col < 1 || col > BoardSize {
		return Coord{}, false
	}
	return Coord{Row: int(letter - 'A'), Col: col - 1}, true
}

// CheckMove parses token and validates it against the shots already on b.
func CheckMove(token string, b *Board) (Coord, MoveCheck) {
	c, ok := ParseMove(token)
	if !ok {
		return Coord{}, MoveIllegalFormat
	}
	if b.Grid[c.Row][c.Col].IsResolved() {
		return c, MoveAlreadyUsed
	}
	return c, MoveValid
}
