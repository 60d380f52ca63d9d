package planner

import "math/rand"

// defaultSeed is used when callers pass seed 0.
const defaultSeed int64 = 1

// deriveSeed mixes a base seed and a stream number into a new seed using the
// SplitMix64 finalizer, so consecutive streams are uncorrelated.
func deriveSeed(base int64, stream uint64) int64 {
	x := uint64(base) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed)) //nolint:gosec // shuffling only, not security sensitive
}
