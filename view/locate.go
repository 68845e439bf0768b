package view

// FindByID searches the descendants of root, depth first in document order,
// for the element whose id equals id. The root itself is never returned.
func (t *Tree) FindByID(root NodeID, id string) NodeID {
	if id == "" {
		return NoNode
	}
	found := NoNode
	t.Walk(root, func(n NodeID) bool {
		if t.nodes[n].ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// NearestAncestor walks up from n, n included, and returns the first node
// accepted by pred.
func (t *Tree) NearestAncestor(n NodeID, pred func(*Node) bool) NodeID {
	for cur := n; cur != NoNode; {
		node := t.Node(cur)
		if node == nil {
			return NoNode
		}
		if pred(node) {
			return cur
		}
		cur = node.Parent
	}
	return NoNode
}

// NextUnitOrHeading looks after n in document order, first below n and then
// along its following siblings, for a heading of level at most level or a
// slide. The search never climbs above n's parent.
func (t *Tree) NextUnitOrHeading(n NodeID, level int) NodeID {
	node := t.Node(n)
	if node == nil {
		return NoNode
	}
	if c := node.FirstChild; c != NoNode {
		if t.stopsSearch(c, level) {
			return c
		}
		if hit := t.NextUnitOrHeading(c, level); hit != NoNode {
			return hit
		}
	}
	if s := node.NextSibling; s != NoNode {
		if t.stopsSearch(s, level) {
			return s
		}
		return t.NextUnitOrHeading(s, level)
	}
	return NoNode
}

func (t *Tree) stopsSearch(id NodeID, level int) bool {
	n := &t.nodes[id]
	if n.Heading > 0 && n.Heading <= level {
		return true
	}
	return n.Kind == KindSlide
}

// IsUnit reports whether id is a slide.
func (t *Tree) IsUnit(id NodeID) bool {
	n := t.Node(id)
	return n != nil && n.Kind == KindSlide
}

// LastLeaf descends through last children until it reaches a leaf.
func (t *Tree) LastLeaf(id NodeID) NodeID {
	n := t.Node(id)
	if n == nil {
		return NoNode
	}
	for n.LastChild != NoNode {
		id = n.LastChild
		n = &t.nodes[id]
	}
	return id
}

// PrecedingHeading walks backwards from n through previous siblings and then
// parents and returns the first heading accepted by accept.
func (t *Tree) PrecedingHeading(n NodeID, accept func(*Node) bool) NodeID {
	cur := n
	for cur != NoNode {
		node := &t.nodes[cur]
		next := node.PrevSibling
		if next == NoNode {
			next = node.Parent
		}
		if next == NoNode {
			return NoNode
		}
		if cand := &t.nodes[next]; cand.Heading > 0 && accept(cand) {
			return next
		}
		cur = next
	}
	return NoNode
}

// Contains reports whether n lies inside the subtree rooted at root.
func (t *Tree) Contains(root, n NodeID) bool {
	target := t.Node(root)
	if target == nil {
		return false
	}
	return t.NearestAncestor(n, func(a *Node) bool { return a == target }) != NoNode
}
