package rbtree

import (
	"iter"
	"math/bits"
)

// Entry is a key paired with the color of the node holding it.
type Entry[K any] struct {
	Key   K
	Color Color
}

// InOrder yields every key with its color in non-decreasing key order.
// The sequence can be ranged over any number of times.
func (t *Tree[K]) InOrder() iter.Seq2[K, Color] {
	return func(yield func(K, Color) bool) {
		// Height never exceeds 2*log2(n+1).
		stack := make([]*Node[K], 0, 2*bits.Len(uint(t.size)))
		current := t.root
		for current != t.nilNode || len(stack) > 0 {
			for current != t.nilNode {
				stack = append(stack, current)
				current = current.left
			}

			current = stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if !yield(current.key, current.color) {
				return
			}

			current = current.right
		}
	}
}

// Traversal collects InOrder into a slice.
func (t *Tree[K]) Traversal() []Entry[K] {
	entries := make([]Entry[K], 0, t.size)
	for key, color := range t.InOrder() {
		entries = append(entries, Entry[K]{Key: key, Color: color})
	}
	return entries
}
