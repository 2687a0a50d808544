// Package targeting contains the pluggable shot-selection strategies and the
// per-player memory they operate on.
package targeting

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"battlesim/internal/diag"
	"battlesim/internal/game"
)

var ErrUnknownStrategy = errors.New("unknown strategy")

// Strategy is implemented by every automated player. Init resets memory,
// Propose returns a move token, Update folds the result of the shot that was
// actually fired back into memory and must run exactly once per shot.
type Strategy interface {
	Name() string
	Init(m *Memory)
	Propose(m *Memory) string
	Update(row, col int, res game.Result, m *Memory)
}

// Factory builds a strategy bound to one goroutine's generator.
type Factory func(rng *rand.Rand, log *diag.Log) Strategy

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func init() {
	Register(HunterName, func(rng *rand.Rand, log *diag.Log) Strategy { return NewHunter(rng, log) })
	Register(RandomName, func(rng *rand.Rand, _ *diag.Log) Strategy { return NewRandom(rng) })
}

// Register adds or replaces a named strategy.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

func Lookup(name string) (Factory, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return f, nil
}

func New(name string, rng *rand.Rand, log *diag.Log) (Strategy, error) {
	f, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return f(rng, log), nil
}

func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
