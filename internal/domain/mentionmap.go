package domain

import (
	"fmt"
	"slices"
)

// pathNameKeys is the reverse index: path -> sign -> set of name keys
type pathNameKeys map[string]map[string]map[string]struct{}

// MentionMap keeps the link tree and the reverse path index in step.
// It is not safe for concurrent use; callers serialise access.
type MentionMap struct {
	types     MentionTypes
	tree      *LinkTree
	pathKeys  pathNameKeys
	corrupted bool
}

// MapStats summarises the size of a MentionMap
type MapStats struct {
	Signs int
	Paths int
	Links int
	Nodes int
}

// NewMentionMap creates an empty map for the given mention types
func NewMentionMap(types MentionTypes) *MentionMap {
	return &MentionMap{
		types:    types,
		tree:     NewLinkTree(),
		pathKeys: make(pathNameKeys),
	}
}

// Types returns the mention types the map parses against
func (m *MentionMap) Types() MentionTypes {
	return m.types
}

// AddFilename records the filename link of path, if path is mentionable
func (m *MentionMap) AddFilename(path string) bool {
	parts, ok := ParseLinkFromPath(path, m.types)
	if !ok {
		return false
	}
	return m.addLink(parts.Name, parts.Sign, path, parts.FileName, LinkKindFilename)
}

// RemoveFilename drops the filename link of path
func (m *MentionMap) RemoveFilename(path string) bool {
	parts, ok := ParseLinkFromPath(path, m.types)
	if !ok {
		return false
	}
	return m.RemoveLink(parts.Sign, parts.Name, path, LinkKindFilename)
}

// AddAlias records alias for path. Both the alias and path must be mentionable.
func (m *MentionMap) AddAlias(alias, path string) bool {
	parts, ok := ParseLinkFromAlias(alias, m.types)
	if !ok {
		return false
	}
	return m.AddLink(parts.Name, parts.Sign, path, LinkKindAlias)
}

// RemoveAlias drops alias from path
func (m *MentionMap) RemoveAlias(alias, path string) bool {
	parts, ok := ParseLinkFromAlias(alias, m.types)
	if !ok {
		return false
	}
	return m.RemoveLink(parts.Sign, parts.Name, path, LinkKindAlias)
}

// AddLink files (name, kind) for path under sign. The canonical file name is
// taken from path, so a path that is not mentionable cannot hold links.
// Adding an identical link twice is a no-op.
func (m *MentionMap) AddLink(name, sign, path string, kind LinkKind) bool {
	if name == "" {
		return false
	}
	if _, ok := m.types[sign]; !ok {
		return false
	}

	parts, ok := ParseLinkFromPath(path, m.types)
	if !ok {
		return false
	}

	return m.addLink(name, sign, path, parts.FileName, kind)
}

func (m *MentionMap) addLink(name, sign, path, fileName string, kind LinkKind) bool {
	nameKey := formatNameKey(name)
	id := m.tree.findOrCreate(sign, nameKey)
	node := m.tree.node(id)

	details, ok := node.paths[path]
	if !ok {
		details = &pathLinks{FileName: fileName}
		node.paths[path] = details
	}

	entry := linkEntry{Name: name, Kind: kind}
	if slices.Contains(details.Links, entry) {
		return false
	}
	details.Links = append(details.Links, entry)

	m.trackNameKey(path, sign, nameKey)
	return true
}

// RemoveLink removes (name, kind) for path under sign, pruning nodes that
// no longer hold anything
func (m *MentionMap) RemoveLink(sign, name, path string, kind LinkKind) bool {
	nameKey := formatNameKey(name)
	id, ok := m.tree.find(sign, nameKey)
	if !ok {
		return false
	}

	node := m.tree.node(id)
	details, ok := node.paths[path]
	if !ok {
		return false
	}

	i := slices.Index(details.Links, linkEntry{Name: name, Kind: kind})
	if i < 0 {
		return false
	}
	details.Links = slices.Delete(details.Links, i, i+1)

	if len(details.Links) == 0 {
		delete(node.paths, path)
		m.tree.prune(sign, id)
		m.untrackNameKey(path, sign, nameKey)
	}

	return true
}

// RemoveAllForPath drops every link of path. It returns false when the path
// held nothing.
func (m *MentionMap) RemoveAllForPath(path string) bool {
	signs, ok := m.pathKeys[path]
	if !ok {
		return false
	}

	for sign, keys := range signs {
		for nameKey := range keys {
			id, ok := m.tree.find(sign, nameKey)
			if !ok {
				m.corrupted = true
				continue
			}
			node := m.tree.node(id)
			if _, ok := node.paths[path]; !ok {
				m.corrupted = true
				continue
			}
			delete(node.paths, path)
			m.tree.prune(sign, id)
		}
	}

	delete(m.pathKeys, path)
	return true
}

// UpdatePath moves the links of oldPath to newPath. Alias links keep their
// (name, kind); the filename link and the canonical file name are derived
// from newPath. If newPath is not mentionable the links are dropped.
func (m *MentionMap) UpdatePath(oldPath, newPath string) bool {
	if oldPath == newPath {
		return false
	}

	aliases := m.linksForPath(oldPath, LinkKindAlias)
	if !m.RemoveAllForPath(oldPath) {
		return false
	}

	parts, ok := ParseLinkFromPath(newPath, m.types)
	if !ok {
		return true
	}

	m.addLink(parts.Name, parts.Sign, newPath, parts.FileName, LinkKindFilename)
	for _, link := range aliases {
		m.addLink(link.Name, link.Sign, newPath, parts.FileName, LinkKindAlias)
	}

	return true
}

// SyncAliases makes the alias links of path match aliases. Aliases that are
// no longer declared are removed.
func (m *MentionMap) SyncAliases(path string, aliases []string) bool {
	type aliasKey struct{ sign, name string }

	want := make(map[aliasKey]bool)
	for _, alias := range aliases {
		if parts, ok := ParseLinkFromAlias(alias, m.types); ok {
			want[aliasKey{parts.Sign, parts.Name}] = true
		}
	}

	changed := false
	for _, link := range m.linksForPath(path, LinkKindAlias) {
		key := aliasKey{link.Sign, link.Name}
		if want[key] {
			delete(want, key)
			continue
		}
		changed = m.RemoveLink(link.Sign, link.Name, path, LinkKindAlias) || changed
	}

	for _, alias := range aliases {
		parts, ok := ParseLinkFromAlias(alias, m.types)
		if !ok || !want[aliasKey{parts.Sign, parts.Name}] {
			continue
		}
		changed = m.AddLink(parts.Name, parts.Sign, path, LinkKindAlias) || changed
	}

	return changed
}

// Links returns every link recorded for path
func (m *MentionMap) Links(path string) []Link {
	var links []Link
	for _, kind := range []LinkKind{LinkKindFilename, LinkKindAlias} {
		links = append(links, m.linksForPath(path, kind)...)
	}
	return links
}

func (m *MentionMap) linksForPath(path string, kind LinkKind) []Link {
	var links []Link
	for sign, keys := range m.pathKeys[path] {
		for nameKey := range keys {
			id, ok := m.tree.find(sign, nameKey)
			if !ok {
				continue
			}
			details, ok := m.tree.node(id).paths[path]
			if !ok {
				continue
			}
			for _, entry := range details.Links {
				if entry.Kind != kind {
					continue
				}
				links = append(links, Link{
					Sign:     sign,
					Path:     path,
					Name:     entry.Name,
					FileName: details.FileName,
					Kind:     entry.Kind,
				})
			}
		}
	}
	return links
}

// GetLinks returns every link under sign whose name starts with prefix,
// ignoring case. Order is unspecified.
func (m *MentionMap) GetLinks(sign, prefix string) []Link {
	id, ok := m.tree.find(sign, formatNameKey(prefix))
	if !ok {
		return nil
	}
	return m.tree.collect(sign, id, nil)
}

// AllLinks returns every link under sign
func (m *MentionMap) AllLinks(sign string) []Link {
	return m.GetLinks(sign, "")
}

// Lookup returns a read-only view of the map
func (m *MentionMap) Lookup() *Lookup {
	return &Lookup{m: m}
}

// HasPath reports whether the reverse index tracks path
func (m *MentionMap) HasPath(path string) bool {
	_, ok := m.pathKeys[path]
	return ok
}

// Corrupted reports whether an operation found the reverse index pointing
// at a node or path entry that does not exist
func (m *MentionMap) Corrupted() bool {
	return m.corrupted
}

// Stats returns size counters
func (m *MentionMap) Stats() MapStats {
	stats := MapStats{
		Signs: len(m.tree.roots),
		Paths: len(m.pathKeys),
		Nodes: m.tree.nodeCount(),
	}
	for sign := range m.tree.roots {
		stats.Links += len(m.AllLinks(sign))
	}
	return stats
}

// Verify checks that the reverse index and the tree describe the same
// records and that no unreachable or empty nodes remain
func (m *MentionMap) Verify() error {
	for path, signs := range m.pathKeys {
		if len(signs) == 0 {
			return fmt.Errorf("path %q has an empty sign set", path)
		}
		for sign, keys := range signs {
			if len(keys) == 0 {
				return fmt.Errorf("path %q has an empty name key set under %q", path, sign)
			}
			for nameKey := range keys {
				id, ok := m.tree.find(sign, nameKey)
				if !ok {
					return fmt.Errorf("path %q: no node for %q under %q", path, nameKey, sign)
				}
				details, ok := m.tree.node(id).paths[path]
				if !ok || len(details.Links) == 0 {
					return fmt.Errorf("path %q: node %q under %q has no records", path, nameKey, sign)
				}
			}
		}
	}

	for sign, root := range m.tree.roots {
		if err := m.verifyNode(sign, root, ""); err != nil {
			return err
		}
	}

	if reachable, live := m.tree.reachable(), m.tree.nodeCount(); reachable != live {
		return fmt.Errorf("%d nodes allocated but %d reachable", live, reachable)
	}

	return nil
}

func (m *MentionMap) verifyNode(sign string, id nodeID, nameKey string) error {
	node := m.tree.node(id)
	if node.empty() {
		return fmt.Errorf("empty node left at %q under %q", nameKey, sign)
	}

	for path, details := range node.paths {
		if len(details.Links) == 0 {
			return fmt.Errorf("path %q has no records at %q under %q", path, nameKey, sign)
		}
		if _, ok := m.pathKeys[path][sign][nameKey]; !ok {
			return fmt.Errorf("path %q at %q under %q missing from reverse index", path, nameKey, sign)
		}
	}

	for r, child := range node.children {
		if m.tree.node(child).parent != id {
			return fmt.Errorf("node %q under %q has a wrong parent", nameKey+string(r), sign)
		}
		if err := m.verifyNode(sign, child, nameKey+string(r)); err != nil {
			return err
		}
	}

	return nil
}

func (m *MentionMap) trackNameKey(path, sign, nameKey string) {
	signs, ok := m.pathKeys[path]
	if !ok {
		signs = make(map[string]map[string]struct{})
		m.pathKeys[path] = signs
	}

	keys, ok := signs[sign]
	if !ok {
		keys = make(map[string]struct{})
		signs[sign] = keys
	}

	keys[nameKey] = struct{}{}
}

func (m *MentionMap) untrackNameKey(path, sign, nameKey string) {
	signs, ok := m.pathKeys[path]
	if !ok {
		return
	}

	delete(signs[sign], nameKey)
	if len(signs[sign]) == 0 {
		delete(signs, sign)
	}
	if len(signs) == 0 {
		delete(m.pathKeys, path)
	}
}
