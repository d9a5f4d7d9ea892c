// Package store implements an in-memory ordered-key store backed by a
// Red-Black Tree.
//
// Keys are kept as a sorted multiset: putting a key twice stores it twice.
// A bloom filter sits in front of the tree so that lookups for keys that
// were never stored return without descending it.
package store

import (
	"cmp"
	"fmt"
	"sync"
	"unsafe"

	"github.com/ansel1/merry"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/AlonMell/rbstore/internal/config"
	"github.com/AlonMell/rbstore/internal/logger"
	"github.com/AlonMell/rbstore/internal/rbtree"
	"github.com/AlonMell/rbstore/internal/store/bloom"
)

// Store is an ordered-key store. It is safe for concurrent use; writers
// are serialized and readers never observe a half-finished insertion.
type Store[K cmp.Ordered] struct {
	tree   *rbtree.Tree[K]
	filter *bloom.Filter
	cfg    *config.Config
	log    *logrus.Entry
	mu     sync.RWMutex
}

// New creates an empty Store. A nil cfg means config.DefaultConfig(); a
// nil log discards all output.
func New[K cmp.Ordered](cfg *config.Config, log *logrus.Entry) *Store[K] {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Store[K]{
		tree:   rbtree.New[K](),
		filter: bloom.New(cfg.ExpectedKeys, cfg.BloomBitsPerKey),
		cfg:    cfg,
		log:    log,
	}
}

// keyBytes is the bloom filter encoding of key. -0 and +0 compare equal
// and must encode equal.
func keyBytes[K cmp.Ordered](key K) []byte {
	var zero K
	if key == zero {
		key = zero
	}
	return fmt.Appendf(nil, "%v", key)
}

// Put adds key to the store. It only fails when VerifyWrites is set and the
// tree breaks an invariant, which is a bug in the tree and not in the caller.
func (s *Store[K]) Put(key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tree.Insert(key)
	s.filter.Add(keyBytes(key))

	count := s.tree.Len()
	s.log.WithFields(logrus.Fields{"key": key, "count": count}).Debug("put")
	if count == s.cfg.ExpectedKeys+1 {
		s.log.WithField("expectedKeys", humanize.Comma(int64(s.cfg.ExpectedKeys))).
			Warn("bloom filter over capacity, false positive rate will grow")
	}

	if !s.cfg.VerifyWrites {
		return nil
	}
	if err := s.tree.Check(); err != nil {
		s.log.WithError(err).WithField("key", key).Error("tree invariant violated")
		return merry.Prepend(err, "put").WithValue("put", key)
	}
	return nil
}

// Contains checks if a key is present in the store.
func (s *Store[K]) Contains(key K) bool {
	_, _, ok := s.Search(key)
	return ok
}

// Search returns the stored key equal to key and the color of its node.
func (s *Store[K]) Search(key K) (K, rbtree.Color, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var zero K
	if !s.filter.MayContain(keyBytes(key)) {
		return zero, rbtree.Black, false
	}

	n, ok := s.tree.Search(key)
	if !ok {
		s.log.WithField("key", key).Trace("bloom filter false positive")
		return zero, rbtree.Black, false
	}
	return n.Key(), n.Color(), true
}

// Count returns the number of keys in the store, duplicates included.
func (s *Store[K]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.tree.Len()
}

// ForEach calls fn for every key in sorted order until fn returns false.
// fn must not call back into the store's write methods.
func (s *Store[K]) ForEach(fn func(key K, color rbtree.Color) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for key, color := range s.tree.InOrder() {
		if !fn(key, color) {
			break
		}
	}
}

// Keys returns every key in sorted order.
func (s *Store[K]) Keys() []K {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]K, 0, s.tree.Len())
	for key := range s.tree.InOrder() {
		keys = append(keys, key)
	}
	return keys
}

// Entries returns every key with its node color in sorted order.
func (s *Store[K]) Entries() []rbtree.Entry[K] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.tree.Traversal()
}

// Validate checks every invariant of the underlying tree.
func (s *Store[K]) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.tree.Check(); err != nil {
		return merry.Prepend(err, "validate")
	}
	return nil
}

// BlackHeight returns the black-height of the tree root.
func (s *Store[K]) BlackHeight() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.tree.BlackHeight()
}

// Stats describes the shape and footprint of a store.
type Stats struct {
	Count       int
	Height      int
	BlackHeight int
	Red         int
	Black       int
	// Memory held by tree nodes, keys' own heap data excluded.
	NodeBytes uint64
	BloomBits uint
	// Expected false positive rate of the bloom filter at Count keys.
	BloomFalsePositive float64
}

// Stats walks the whole tree and returns its statistics.
func (s *Store[K]) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Count:       s.tree.Len(),
		Height:      s.tree.Height(),
		BlackHeight: s.tree.BlackHeight(),
		BloomBits:   s.filter.Size(),
	}
	for _, color := range s.tree.InOrder() {
		if color == rbtree.Red {
			st.Red++
		} else {
			st.Black++
		}
	}
	var node rbtree.Node[K]
	st.NodeBytes = uint64(st.Count) * uint64(unsafe.Sizeof(node))
	st.BloomFalsePositive = s.filter.EstimateFalsePositiveRate(st.Count)
	return st
}

// LogStats logs Stats at info level.
func (s *Store[K]) LogStats() Stats {
	st := s.Stats()
	s.log.WithFields(logrus.Fields{
		"count":       humanize.Comma(int64(st.Count)),
		"height":      st.Height,
		"blackHeight": st.BlackHeight,
		"red":         st.Red,
		"black":       st.Black,
		"nodes":       humanize.Bytes(st.NodeBytes),
		"bloom":       humanize.Bytes(uint64(st.BloomBits / 8)),
		"bloomFP":     fmt.Sprintf("%.4f", st.BloomFalsePositive),
	}).Info("store stats")
	return st
}
