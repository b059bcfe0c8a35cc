package domain

// Lookup is the read-only handle handed to the query side
type Lookup struct {
	m *MentionMap
}

// GetLinks returns all links under sign whose name starts with prefix
func (l *Lookup) GetLinks(sign, prefix string) []Link {
	if l == nil || l.m == nil {
		return nil
	}
	return l.m.GetLinks(sign, prefix)
}

// AllLinks returns all links under sign
func (l *Lookup) AllLinks(sign string) []Link {
	if l == nil || l.m == nil {
		return nil
	}
	return l.m.AllLinks(sign)
}
