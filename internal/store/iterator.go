package store

import (
	"sync"

	"github.com/AlonMell/rbstore/internal/rbtree"
)

// Iterator walks a snapshot of the store in sorted order. The store's read
// lock is held from Iterator() until Close, so writers block meanwhile.
type Iterator[K any] struct {
	release   func()
	entries   []rbtree.Entry[K]
	currIndex int
	current   rbtree.Entry[K]
	mu        sync.Mutex
	closed    bool
}

// Iterator creates a new Iterator positioned before the smallest key.
func (s *Store[K]) Iterator() *Iterator[K] {
	s.mu.RLock() // Will be released when Close() is called

	return &Iterator[K]{
		release:   s.mu.RUnlock,
		entries:   s.tree.Traversal(),
		currIndex: -1, // Start before the first element
	}
}

// Next advances the iterator to the next entry.
func (it *Iterator[K]) Next() bool {
	it.mu.Lock()
	defer it.mu.Unlock()

	if it.closed || it.currIndex >= len(it.entries)-1 {
		return false
	}

	it.currIndex++
	it.current = it.entries[it.currIndex]
	return true
}

// Key returns the current key.
func (it *Iterator[K]) Key() K {
	return it.current.Key
}

// Color returns the color of the node holding the current key.
func (it *Iterator[K]) Color() rbtree.Color {
	return it.current.Color
}

// Close releases the store's read lock. It is safe to call more than once.
func (it *Iterator[K]) Close() error {
	it.mu.Lock()
	defer it.mu.Unlock()

	if !it.closed {
		it.closed = true
		it.release()
	}

	return nil
}
