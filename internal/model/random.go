package model

import (
	"math/rand"
	"sync/atomic"
	"time"
)

// IsReproducible reports whether seed takes part in the same-seed-same-result
// guarantee. Negative seeds request intentionally stochastic runs.
func IsReproducible(seed int64) bool { return seed >= 0 }

var entropyCounter atomic.Uint64

// entropy returns a clock-derived seed that differs between concurrent callers.
func entropy() int64 {
	return int64(splitmix64(uint64(time.Now().UnixNano()) + entropyCounter.Add(1)))
}

// PathSeed derives the seed of Monte Carlo path index from the base seed.
// The result depends only on (seed, index), so a path draws the same stream
// whatever the worker count or total run count. Negative base seeds yield a
// fresh clock-derived seed on every call.
func PathSeed(seed int64, index int) int64 {
	if !IsReproducible(seed) {
		return entropy()
	}
	mixed := splitmix64(uint64(seed)*0x9E3779B97F4A7C15 + uint64(index) + 1)
	return int64(mixed >> 1)
}

func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}

// NewSource returns a random generator for seed; negative seeds are replaced
// by clock entropy.
func NewSource(seed int64) *rand.Rand {
	if !IsReproducible(seed) {
		seed = entropy()
	}
	return rand.New(rand.NewSource(seed))
}
