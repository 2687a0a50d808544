package targeting

import (
	"math/rand"

	"battlesim/internal/game"
)

const RandomName = "random"

// Random fires anywhere, repeats included; the game driver re-samples
// proposals that fail validation.
type Random struct {
	rng *rand.Rand
}

func NewRandom(rng *rand.Rand) *Random { return &Random{rng: rng} }

func (r *Random) Name() string { return RandomName }

func (r *Random) Init(m *Memory) { m.Reset() }

func (r *Random) Propose(_ *Memory) string { return game.RandomMove(r.rng) }

func (r *Random) Update(row, col int, res game.Result, m *Memory) { m.Record(row, col, res) }
