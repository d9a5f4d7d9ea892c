package rbtree

// rotateLeft promotes x.right into the position of x. x.right must not be
// the sentinel. Colors are left untouched.
//
//	    p                p
//	    |                |
//	    x                y
//	   / \              / \
//	  a   y     ->     x   c
//	     / \          / \
//	    b   c        a   b
func (t *Tree[K]) rotateLeft(x *Node[K]) {
	y := x.right
	x.right = y.left
	if y.left != t.nilNode {
		y.left.parent = x
	}
	t.replaceChild(x, y)
	y.left = x
	x.parent = y
}

// rotateRight is the mirror image of rotateLeft: it promotes x.left into
// the position of x. x.left must not be the sentinel.
//
//	      p            p
//	      |            |
//	      x            y
//	     / \          / \
//	    y   c   ->   a   x
//	   / \              / \
//	  a   b            b   c
func (t *Tree[K]) rotateRight(x *Node[K]) {
	y := x.left
	x.left = y.right
	if y.right != t.nilNode {
		y.right.parent = x
	}
	t.replaceChild(x, y)
	y.right = x
	x.parent = y
}

// replaceChild hangs y where x used to hang below x's parent, updating
// the root when x was the root.
func (t *Tree[K]) replaceChild(x, y *Node[K]) {
	y.parent = x.parent
	switch {
	case x.parent == t.nilNode:
		t.root = y
	case x == x.parent.left:
		x.parent.left = y
	default:
		x.parent.right = y
	}
}
