package random

import "time"

const (
	// Golden ratio increment used by SplitMix64 to traverse states uniformly.
	splitmix64Increment = 0x9e3779b97f4a7c15

	// Multipliers from SplitMix64 reference implementation.
	splitmix64Mul1 = 0xbf58476d1ce4e5b9
	splitmix64Mul2 = 0x94d049bb133111eb
)

// SplitMix is a deterministic SplitMix64 stream.
// It is not safe for concurrent use; each search owns its own stream.
type SplitMix struct {
	state uint64
}

func NewSplitMix(seed uint64) *SplitMix {
	return &SplitMix{state: seed}
}

// Next advances the stream and returns a mixed 64-bit value.
// This is the canonical SplitMix64 step: x += golden; mix(x).
func (s *SplitMix) Next() uint64 {
	s.state += splitmix64Increment
	return finalize64(s.state)
}

// Mix64 produces well-diffused pseudo-independent values from a single 64-bit key.
func Mix64(x uint64) uint64 {
	return finalize64(x + splitmix64Increment)
}

func finalize64(z uint64) uint64 {
	z = (z ^ (z >> 30)) * splitmix64Mul1
	z = (z ^ (z >> 27)) * splitmix64Mul2
	return z ^ (z >> 31)
}

// Mix32 is the MurmurHash3 finalizer. It is a bijection on uint32,
// so distinct inputs always give distinct outputs.
func Mix32(h uint32) uint32 {
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h
}

// Mix31 is Mix32 restricted to 31-bit words: a bijection on [0, 2^31).
// Bits above bit 30 of h are ignored.
func Mix31(h uint32) uint32 {
	const mask = 1<<31 - 1
	h &= mask
	h ^= h >> 16
	h = (h * 0x85ebca6b) & mask
	h ^= h >> 13
	h = (h * 0xc2b2ae35) & mask
	h ^= h >> 16
	return h
}

// TimeSeed turns the current time into a decent 64-bit seed.
func TimeSeed() uint64 {
	z := Mix64(uint64(time.Now().UnixNano()))
	if z == 0 {
		z = splitmix64Increment
	}
	return z
}
