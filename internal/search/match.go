// Package search matches nodes against the sidebar search box.
//
// Plain queries are case-insensitive substring matches on label, id and file
// path. Queries containing glob syntax are matched with doublestar against
// the file path, its base name, and the label.
package search

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ziadkadry99/code-landscape/internal/graphdoc"
)

// Query is a parsed search string.
type Query struct {
	raw   string
	lower string
	glob  bool
}

// Parse trims s and decides whether it is a glob.
func Parse(s string) Query {
	s = strings.TrimSpace(s)
	q := Query{raw: s, lower: strings.ToLower(s)}
	if strings.ContainsAny(s, "*?[{") && doublestar.ValidatePattern(filepath.ToSlash(s)) {
		q.glob = true
	}
	return q
}

// Empty reports whether the query matches nothing because it is blank.
func (q Query) Empty() bool { return q.raw == "" }

// String returns the trimmed query text.
func (q Query) String() string { return q.raw }

// IsGlob reports whether the query is matched as a glob.
func (q Query) IsGlob() bool { return q.glob }

// Match reports whether n matches the query. An empty query matches nothing.
func (q Query) Match(n *graphdoc.Node) bool {
	if q.raw == "" {
		return false
	}
	if q.glob {
		return q.matchGlob(n)
	}
	return strings.Contains(strings.ToLower(n.Label), q.lower) ||
		strings.Contains(strings.ToLower(n.ID), q.lower) ||
		strings.Contains(strings.ToLower(n.FilePath), q.lower)
}

func (q Query) matchGlob(n *graphdoc.Node) bool {
	pattern := filepath.ToSlash(q.raw)
	if n.FilePath != "" {
		path := filepath.ToSlash(n.FilePath)
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern, filepath.Base(path)); err == nil && ok {
			return true
		}
	}
	ok, err := doublestar.Match(strings.ToLower(pattern), strings.ToLower(n.Label))
	return err == nil && ok
}

// Indexes returns the positions in nodes that match q.
func (q Query) Indexes(nodes []*graphdoc.Node) map[int]bool {
	out := make(map[int]bool)
	if q.Empty() {
		return out
	}
	for i, n := range nodes {
		if q.Match(n) {
			out[i] = true
		}
	}
	return out
}

// Nodes returns the document nodes matching q, at most limit of them when
// limit is positive.
func (q Query) Nodes(doc *graphdoc.Document, limit int) []*graphdoc.Node {
	var out []*graphdoc.Node
	if q.Empty() || doc == nil {
		return out
	}
	for i := range doc.Nodes {
		if q.Match(&doc.Nodes[i]) {
			out = append(out, &doc.Nodes[i])
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out
}
