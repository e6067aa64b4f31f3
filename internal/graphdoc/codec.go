package graphdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Decode parses and validates a document. The nodes and edges arrays must be
// present; anything else missing is filled with empty values.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DecodeBytes is Decode over an in-memory buffer.
func DecodeBytes(data []byte) (*Document, error) {
	return Decode(bytes.NewReader(data))
}

// LoadFile reads a document from disk.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening document %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return doc, nil
}

// Validate checks the structural invariants and builds the id index. Edges
// whose source or target is not a known node are dropped.
func (d *Document) Validate() error {
	if d.Nodes == nil {
		return ErrMissingNodes
	}
	if d.Edges == nil {
		return ErrMissingEdges
	}

	byID := make(map[string]int, len(d.Nodes))
	for i, n := range d.Nodes {
		if _, dup := byID[n.ID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateNode, n.ID)
		}
		byID[n.ID] = i
	}
	kept := d.Edges[:0]
	for _, e := range d.Edges {
		_, okSource := byID[e.Source]
		_, okTarget := byID[e.Target]
		if okSource && okTarget {
			kept = append(kept, e)
		}
	}
	if dropped := len(d.Edges) - len(kept); dropped > 0 {
		slog.Warn("dropped edges referencing unknown nodes", "dropped", dropped, "kept", len(kept))
	}
	d.Edges = kept

	if d.NodeColors == nil {
		d.NodeColors = map[string]string{}
	}
	if d.EdgeColors == nil {
		d.EdgeColors = map[string]string{}
	}
	if d.NodeTypeCounts == nil {
		d.NodeTypeCounts = map[string]int{}
	}
	if d.EdgeTypeCounts == nil {
		d.EdgeTypeCounts = map[string]int{}
	}
	d.byID = byID
	return nil
}

// Encode writes the document as indented JSON. Node and edge order is
// preserved.
func Encode(w io.Writer, d *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	return nil
}

// SaveFile writes the document to dir using its download filename and
// returns the full path.
func SaveFile(dir string, d *Document) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, d.Filename())

	var buf bytes.Buffer
	if err := Encode(&buf, d); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
