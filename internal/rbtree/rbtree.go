// Package rbtree implements an in-memory Red-Black Tree of ordered keys
// with insertion, search, in-order traversal and invariant validation.
//
// Red-Black Tree is a self-balancing binary search tree that guarantees
// O(log n) time complexity for insertion and search. Equal keys are
// accepted as separate nodes and always descend to the right, so the tree
// behaves as a sorted multiset.
//
// A Tree is not safe for concurrent use. Readers must not run while an
// Insert is in progress.
package rbtree

import (
	"cmp"
)

// Color is the red/black tag carried by every node.
type Color uint8

const (
	Black Color = iota
	Red
)

func (c Color) String() string {
	switch c {
	case Black:
		return "BLACK"
	case Red:
		return "RED"
	}
	return "UNKNOWN"
}

// Node is a single entry in the tree. Nodes are created only by Insert and
// their key never changes afterwards.
type Node[K any] struct {
	key   K
	color Color
	// parent is a back-reference used by fixup and rotation only.
	left, right, parent *Node[K]
}

// Key returns the key stored in the node.
func (n *Node[K]) Key() K {
	return n.key
}

// Color returns the current color of the node.
func (n *Node[K]) Color() Color {
	return n.color
}

// Tree represents a Red-Black Tree instance.
// Use New() or NewFunc() to create a new tree instance.
type Tree[K any] struct {
	root    *Node[K]
	nilNode *Node[K] // Sentinel node
	compare func(a, b K) int
	size    int
}

// New creates an empty tree ordered by the natural order of K.
func New[K cmp.Ordered]() *Tree[K] {
	return NewFunc(cmp.Compare[K])
}

// NewFunc creates an empty tree ordered by compare, which must define a
// total order and return a negative number, zero or a positive number as
// a is less than, equal to or greater than b.
func NewFunc[K any](compare func(a, b K) int) *Tree[K] {
	nilNode := &Node[K]{color: Black}
	return &Tree[K]{
		root:    nilNode,
		nilNode: nilNode,
		compare: compare,
	}
}

// Len returns the number of keys in the tree, duplicates included.
func (t *Tree[K]) Len() int {
	return t.size
}

// Root returns the root node, or false if the tree is empty.
func (t *Tree[K]) Root() (*Node[K], bool) {
	return t.node(t.root)
}

// Insert adds key to the tree and restores the Red-Black properties.
// Keys that compare equal to an existing key are kept as well.
func (t *Tree[K]) Insert(key K) {
	z := &Node[K]{
		key:    key,
		color:  Red,
		left:   t.nilNode,
		right:  t.nilNode,
		parent: t.nilNode,
	}

	parent := t.nilNode
	for current := t.root; current != t.nilNode; {
		parent = current
		if t.compare(key, current.key) < 0 {
			current = current.left
		} else {
			current = current.right
		}
	}

	z.parent = parent
	switch {
	case parent == t.nilNode:
		t.root = z
	case t.compare(key, parent.key) < 0:
		parent.left = z
	default:
		parent.right = z
	}
	t.size++

	t.insertFixup(z)
}

// insertFixup walks up from the freshly attached red node z while its
// parent is red. A red uncle is resolved by recoloring and moves the
// violation two levels up; a black uncle is resolved by at most two
// rotations and ends the walk.
func (t *Tree[K]) insertFixup(z *Node[K]) {
	for z.parent.color == Red {
		parent := z.parent
		grand := parent.parent

		if parent == grand.left {
			uncle := grand.right
			if uncle.color == Red {
				parent.color = Black
				uncle.color = Black
				grand.color = Red
				z = grand
				continue
			}
			if z == parent.right {
				z = parent
				t.rotateLeft(z)
				parent = z.parent
			}
			parent.color = Black
			grand.color = Red
			t.rotateRight(grand)
		} else {
			uncle := grand.left
			if uncle.color == Red {
				parent.color = Black
				uncle.color = Black
				grand.color = Red
				z = grand
				continue
			}
			if z == parent.left {
				z = parent
				t.rotateRight(z)
				parent = z.parent
			}
			parent.color = Black
			grand.color = Red
			t.rotateLeft(grand)
		}
	}
	t.root.color = Black
}

// Search returns the first node found holding key, or false on a miss.
func (t *Tree[K]) Search(key K) (*Node[K], bool) {
	return t.node(t.findNode(key))
}

// Contains checks if a key is present in the tree.
func (t *Tree[K]) Contains(key K) bool {
	return t.findNode(key) != t.nilNode
}

func (t *Tree[K]) findNode(key K) *Node[K] {
	current := t.root
	for current != t.nilNode {
		c := t.compare(key, current.key)
		if c == 0 {
			return current
		}
		if c < 0 {
			current = current.left
		} else {
			current = current.right
		}
	}
	return t.nilNode
}

// Min returns the node holding the smallest key.
func (t *Tree[K]) Min() (*Node[K], bool) {
	if t.root == t.nilNode {
		return nil, false
	}
	x := t.root
	for x.left != t.nilNode {
		x = x.left
	}
	return x, true
}

// Max returns the node holding the largest key.
func (t *Tree[K]) Max() (*Node[K], bool) {
	if t.root == t.nilNode {
		return nil, false
	}
	x := t.root
	for x.right != t.nilNode {
		x = x.right
	}
	return x, true
}

// node hides the sentinel from callers.
func (t *Tree[K]) node(n *Node[K]) (*Node[K], bool) {
	if n == t.nilNode {
		return nil, false
	}
	return n, true
}
