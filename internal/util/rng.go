package util

import (
	"math/rand"
	"time"
)

// New returns a private generator; seed 0 is remapped so runs stay reproducible.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	src := rand.NewSource(seed)
	return rand.New(src)
}

// WorkerSeed derives a distinct seed for worker w of a run seeded with base.
func WorkerSeed(base int64, w int) int64 {
	return base + int64(w)*7919
}

// ResolveSeed turns a configured seed into a concrete one; 0 means wall clock.
func ResolveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}
