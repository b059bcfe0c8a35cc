package domain

import "strings"

// nodeID indexes a node in the LinkTree arena
type nodeID int32

const noNode nodeID = -1

// linkEntry is one (name, kind) pair recorded for a path at a node
type linkEntry struct {
	Name string
	Kind LinkKind
}

// pathLinks holds everything a node knows about one document
type pathLinks struct {
	FileName string
	Links    []linkEntry
}

// linkNode is one character of a lowercased name. Roots are keyed by sign.
type linkNode struct {
	key      rune
	parent   nodeID
	children map[rune]nodeID
	paths    map[string]*pathLinks
}

func (n *linkNode) empty() bool {
	return len(n.children) == 0 && len(n.paths) == 0
}

// LinkTree is a per-sign prefix tree stored in an arena. Parent and child
// references are indices, freed slots are reused.
type LinkTree struct {
	nodes []linkNode
	free  []nodeID
	roots map[string]nodeID
}

// NewLinkTree creates an empty tree
func NewLinkTree() *LinkTree {
	return &LinkTree{
		roots: make(map[string]nodeID),
	}
}

// formatNameKey returns the trie key for a mentionable name
func formatNameKey(name string) string {
	return strings.ToLower(name)
}

func (t *LinkTree) alloc(key rune, parent nodeID) nodeID {
	node := linkNode{
		key:      key,
		parent:   parent,
		children: make(map[rune]nodeID),
		paths:    make(map[string]*pathLinks),
	}

	if n := len(t.free); n > 0 {
		id := t.free[n-1]
		t.free = t.free[:n-1]
		t.nodes[id] = node
		return id
	}

	t.nodes = append(t.nodes, node)
	return nodeID(len(t.nodes) - 1)
}

func (t *LinkTree) release(id nodeID) {
	t.nodes[id] = linkNode{parent: noNode}
	t.free = append(t.free, id)
}

func (t *LinkTree) node(id nodeID) *linkNode {
	return &t.nodes[id]
}

// findOrCreate descends from the sign root along nameKey, creating nodes as needed
func (t *LinkTree) findOrCreate(sign, nameKey string) nodeID {
	id, ok := t.roots[sign]
	if !ok {
		signRune := []rune(sign)[0]
		id = t.alloc(signRune, noNode)
		t.roots[sign] = id
	}

	for _, r := range nameKey {
		child, ok := t.nodes[id].children[r]
		if !ok {
			child = t.alloc(r, id)
			t.nodes[id].children[r] = child
		}
		id = child
	}

	return id
}

// find descends from the sign root along key without creating nodes
func (t *LinkTree) find(sign, key string) (nodeID, bool) {
	id, ok := t.roots[sign]
	if !ok {
		return noNode, false
	}

	for _, r := range key {
		child, ok := t.nodes[id].children[r]
		if !ok {
			return noNode, false
		}
		id = child
	}

	return id, true
}

// prune walks from id toward the root, unlinking nodes that hold nothing.
// It stops at the first node that still has content.
func (t *LinkTree) prune(sign string, id nodeID) {
	for id != noNode {
		n := t.node(id)
		if !n.empty() {
			return
		}

		parent := n.parent
		if parent == noNode {
			delete(t.roots, sign)
		} else {
			delete(t.nodes[parent].children, n.key)
		}
		t.release(id)
		id = parent
	}
}

// collect appends every record stored in the subtree rooted at id
func (t *LinkTree) collect(sign string, id nodeID, out []Link) []Link {
	n := t.node(id)
	for path, details := range n.paths {
		for _, entry := range details.Links {
			out = append(out, Link{
				Sign:     sign,
				Path:     path,
				Name:     entry.Name,
				FileName: details.FileName,
				Kind:     entry.Kind,
			})
		}
	}

	for _, child := range n.children {
		out = t.collect(sign, child, out)
	}

	return out
}

// nodeCount returns the number of live nodes
func (t *LinkTree) nodeCount() int {
	return len(t.nodes) - len(t.free)
}

// reachable counts nodes reachable from the sign roots
func (t *LinkTree) reachable() int {
	count := 0
	var walk func(id nodeID)
	walk = func(id nodeID) {
		count++
		for _, child := range t.nodes[id].children {
			walk(child)
		}
	}
	for _, root := range t.roots {
		walk(root)
	}
	return count
}
