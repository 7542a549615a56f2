// Package randutil builds the seeded random sources used to shuffle decks.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Two sources built from the same seed shuffle decks identically, which is what
// makes a session replayable with --seed.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Resolve returns seed unchanged when it is non-zero, otherwise a seed derived
// from the current time. The resolved seed is what gets logged for replay.
func Resolve(seed int64, now time.Time) int64 {
	if seed != 0 {
		return seed
	}
	s := now.UnixNano()
	if s == 0 {
		s = 1
	}
	return s
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
