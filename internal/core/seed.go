package core

import (
	"errors"
	"golang.org/x/text/unicode/norm"
)

const (
	// minLoop is the number of mixing rounds of both seed expansions.
	minLoop = 8
	// preLoop is the number of discarded transitions after seeding the 32-bit generator.
	preLoop = 8
)

var (
	ErrNotSeeded     = errors.New("tinymt: generator used before seeding")
	ErrWidthMismatch = errors.New("tinymt: parameter width does not match generator")
)

type word interface {
	~uint32 | ~uint64
}

// textKeys folds the NFC form of s into seed words, one byte per word,
// so canonically equivalent strings seed identically.
func textKeys[W word](s string) []W {
	b := []byte(norm.NFC.String(s))
	keys := make([]W, len(b))
	for i, c := range b {
		keys[i] = W(c)
	}
	return keys
}

// expandKeys mixes keys into the four-word array st with the TinyMT
// array-initialization scheme. mix1 and mix2 are the width-specific
// avalanche functions.
func expandKeys[W word](st [4]W, keys []W, mix1, mix2 func(W) W) [4]W {
	const lag, mid, size = 1, 1, 4

	count := minLoop
	if len(keys)+1 > minLoop {
		count = len(keys) + 1
	}

	r := mix1(st[0] ^ st[mid%size] ^ st[(size-1)%size])
	st[mid%size] += r
	r += W(len(keys))
	st[(mid+lag)%size] += r
	st[0] = r
	count--

	i, j := 1, 0
	for ; j < count && j < len(keys); j++ {
		r = mix1(st[i] ^ st[(i+mid)%size] ^ st[(i+size-1)%size])
		st[(i+mid)%size] += r
		r += keys[j] + W(i)
		st[(i+mid+lag)%size] += r
		st[i] = r
		i = (i + 1) % size
	}
	for ; j < count; j++ {
		r = mix1(st[i] ^ st[(i+mid)%size] ^ st[(i+size-1)%size])
		st[(i+mid)%size] += r
		r += W(i)
		st[(i+mid+lag)%size] += r
		st[i] = r
		i = (i + 1) % size
	}
	for j = 0; j < size; j++ {
		r = mix2(st[i] + st[(i+mid)%size] + st[(i+size-1)%size])
		st[(i+mid)%size] ^= r
		r -= W(i)
		st[(i+mid+lag)%size] ^= r
		st[i] = r
		i = (i + 1) % size
	}
	return st
}
