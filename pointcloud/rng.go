// Package pointcloud - RNG utilities for synthetic clouds.
//
// Goals:
//   - Reproducibility on demand: a non-zero seed ⇒ identical clouds across runs.
//   - No accidental caching: seed==0 ⇒ a fresh stream on every call, even for
//     calls within the same clock tick.
//
// Concurrency:
//   - math/rand.Rand is NOT goroutine-safe. Each Random call owns its RNG.
package pointcloud

import (
	"math/rand"
	"sync/atomic"
	"time"
)

// entropyCounter separates unseeded streams created within one clock tick.
var entropyCounter atomic.Uint64

// rngFromSeed returns a *rand.Rand.
// Policy: seed==0 ⇒ mix wall-clock nanoseconds with a process-wide counter;
// otherwise use the provided seed verbatim.
//
// Complexity: O(1).
func rngFromSeed(seed int64) *rand.Rand {
	s := seed
	if s == 0 {
		s = deriveSeed(time.Now().UnixNano(), entropyCounter.Add(1))
	}

	return rand.New(rand.NewSource(s))
}

// deriveSeed mixes a parent seed and a stream identifier into a new 64-bit seed.
// SplitMix64 finalizer; small input changes give well-spread outputs.
//
// Complexity: O(1).
func deriveSeed(parent int64, stream uint64) int64 {
	var x uint64
	x = uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}
