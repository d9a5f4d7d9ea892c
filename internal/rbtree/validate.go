package rbtree

import (
	"github.com/ansel1/merry"
)

// Invariant violations reported by Check. Each returned error carries the
// offending key under the "key" value where one exists.
var (
	ErrSentinel     = merry.New("rbtree: sentinel is not a black leaf")
	ErrRootNotBlack = merry.New("rbtree: root is not black")
	ErrRedRed       = merry.New("rbtree: red node has a red child")
	ErrBlackHeight  = merry.New("rbtree: black-height differs between paths")
	ErrParentLink   = merry.New("rbtree: child does not point back to its parent")
	ErrOrder        = merry.New("rbtree: keys out of order")
)

// Validate reports whether all Red-Black invariants hold:
// 1. Sentinel is black and has no children
// 2. Root is black
// 3. Red nodes have black children
// 4. All paths from the root to the sentinel have the same black count
func (t *Tree[K]) Validate() bool {
	return t.Check() == nil
}

// Check is Validate with a reason: it returns the first violation found,
// matchable with merry.Is against the Err* values of this package.
func (t *Tree[K]) Check() error {
	if t.nilNode.color != Black || t.nilNode.left != nil || t.nilNode.right != nil {
		return ErrSentinel.Here()
	}
	if t.root == t.nilNode {
		return nil
	}
	if t.root.color != Black {
		return ErrRootNotBlack.Here().WithValue("key", t.root.key)
	}
	if t.root.parent != t.nilNode {
		return ErrParentLink.Here().WithValue("key", t.root.key)
	}

	want := t.BlackHeight()
	return t.checkSubtree(t.root, nil, nil, 0, want)
}

// checkSubtree descends from n with lo and hi bounding the keys allowed
// below it, and blacks counting the black nodes above n.
func (t *Tree[K]) checkSubtree(n, lo, hi *Node[K], blacks, want int) error {
	if n == t.nilNode {
		if blacks != want {
			return ErrBlackHeight.Here().
				WithValue("want", want).
				WithValue("got", blacks)
		}
		return nil
	}

	if (lo != nil && t.compare(n.key, lo.key) < 0) ||
		(hi != nil && t.compare(n.key, hi.key) > 0) {
		return ErrOrder.Here().WithValue("key", n.key)
	}

	if n.color == Red && (n.left.color == Red || n.right.color == Red) {
		return ErrRedRed.Here().WithValue("key", n.key)
	}

	for _, child := range [...]*Node[K]{n.left, n.right} {
		if child != t.nilNode && child.parent != n {
			return ErrParentLink.Here().WithValue("key", child.key)
		}
	}

	if n.color == Black {
		blacks++
	}
	if err := t.checkSubtree(n.left, lo, n, blacks, want); err != nil {
		return err
	}
	return t.checkSubtree(n.right, n, hi, blacks, want)
}

// BlackHeight returns the black-height of the root.
func (t *Tree[K]) BlackHeight() int {
	return t.blackHeight(t.root)
}

// BlackHeightOf returns the number of black nodes on the longest-black path
// from n down to the sentinel, n included. A nil n counts as the sentinel.
//
// The result takes the larger of both sides, so it hides an imbalance;
// use Check to detect one.
func (t *Tree[K]) BlackHeightOf(n *Node[K]) int {
	if n == nil {
		return 0
	}
	return t.blackHeight(n)
}

func (t *Tree[K]) blackHeight(n *Node[K]) int {
	if n == t.nilNode {
		return 0
	}
	h := max(t.blackHeight(n.left), t.blackHeight(n.right))
	if n.color == Black {
		h++
	}
	return h
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (t *Tree[K]) Height() int {
	return t.height(t.root)
}

func (t *Tree[K]) height(n *Node[K]) int {
	if n == t.nilNode {
		return 0
	}
	return max(t.height(n.left), t.height(n.right)) + 1
}
