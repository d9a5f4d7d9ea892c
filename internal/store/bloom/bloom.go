// Package bloom implements an in-memory Bloom filter used to answer
// "definitely absent" before a tree descent.
package bloom

import (
	"math"
	"math/bits"

	"github.com/creachadair/cityhash"
)

const defaultSeed = 0x9747b28c

// Filter is a probabilistic data structure for testing set membership.
// It allows false positives but not false negatives. A Filter is not safe
// for concurrent use.
type Filter struct {
	bitset []byte // Bit array
	k      uint   // Number of probes per key
	n      uint   // Expected number of elements
	m      uint   // Size of the filter in bits
	seed   uint64
}

// New creates a Bloom filter optimized for n expected elements.
// The bitsPerElement parameter affects the false positive rate.
func New(n, bitsPerElement int) *Filter {
	if n <= 0 {
		n = 1
	}
	if bitsPerElement <= 0 {
		bitsPerElement = 10
	}

	m := max(uint(n*bitsPerElement), 8)

	// k = (m/n) * ln(2)
	k := uint(math.Ceil(float64(m) / float64(n) * math.Log(2)))
	k = min(max(k, 1), 30)

	return &Filter{
		bitset: make([]byte, (m+7)/8),
		k:      k,
		n:      uint(n),
		m:      m,
		seed:   defaultSeed,
	}
}

// probe calls fn with each of the k bit positions of key. Positions are
// derived from one 64-bit hash by double hashing.
func (f *Filter) probe(key []byte, fn func(byteIndex uint, mask byte) bool) bool {
	h1 := cityhash.Hash64WithSeed(key, f.seed)
	h2 := bits.RotateLeft64(h1, 32) | 1
	for i := uint64(0); i < uint64(f.k); i++ {
		loc := uint((h1 + i*h2) % uint64(f.m))
		if !fn(loc/8, byte(1)<<(loc%8)) {
			return false
		}
	}
	return true
}

// Add adds a key to the filter.
func (f *Filter) Add(key []byte) {
	f.probe(key, func(i uint, mask byte) bool {
		f.bitset[i] |= mask
		return true
	})
}

// MayContain returns true if the key might be in the set, false if it
// definitely is not.
func (f *Filter) MayContain(key []byte) bool {
	return f.probe(key, func(i uint, mask byte) bool {
		return f.bitset[i]&mask != 0
	})
}

// EstimateFalsePositiveRate estimates the false positive rate once
// numElements keys have been added.
func (f *Filter) EstimateFalsePositiveRate(numElements int) float64 {
	if numElements <= 0 {
		return 0.0
	}

	// P = (1 - e^(-k*n/m))^k
	exponent := -float64(f.k) * float64(numElements) / float64(f.m)
	return math.Pow(1.0-math.Exp(exponent), float64(f.k))
}

// Reset clears the filter.
func (f *Filter) Reset() {
	clear(f.bitset)
}

// Size returns the size of the filter in bits.
func (f *Filter) Size() uint {
	return f.m
}

// NumHashFunctions returns the number of probes per key.
func (f *Filter) NumHashFunctions() uint {
	return f.k
}

// ExpectedElements returns the expected number of elements.
func (f *Filter) ExpectedElements() uint {
	return f.n
}
