// Package diagrams emits mermaid flowcharts for node reports.
package diagrams

import (
	"fmt"
	"sort"
	"strings"
)

// Node is a box in a flowchart. Class names a classDef, usually the node type.
type Node struct {
	ID    string
	Label string
	Class string
}

// Link is an arrow between two nodes.
type Link struct {
	From  string
	To    string
	Label string
}

// Flowchart builds a mermaid flowchart in the given direction ("LR", "TD").
// Nodes are declared once in first-seen order; links to undeclared nodes
// declare them with their id as label. classes maps a class name to a fill
// color and produces classDef lines.
func Flowchart(direction string, nodes []Node, links []Link, classes map[string]string) string {
	if direction == "" {
		direction = "LR"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "flowchart %s\n", direction)

	declared := make(map[string]bool, len(nodes))
	used := make(map[string]bool)
	declare := func(n Node) {
		id := sanitizeID(n.ID)
		if declared[id] {
			return
		}
		declared[id] = true
		label := n.Label
		if label == "" {
			label = n.ID
		}
		fmt.Fprintf(&b, "    %s[\"%s\"]\n", id, escapeMermaid(label))
		if n.Class != "" {
			fmt.Fprintf(&b, "    class %s %s\n", id, sanitizeID(n.Class))
			used[n.Class] = true
		}
	}

	for _, n := range nodes {
		declare(n)
	}
	for _, l := range links {
		declare(Node{ID: l.From})
		declare(Node{ID: l.To})
		if l.Label != "" {
			fmt.Fprintf(&b, "    %s -->|%s| %s\n", sanitizeID(l.From), escapeMermaid(l.Label), sanitizeID(l.To))
		} else {
			fmt.Fprintf(&b, "    %s --> %s\n", sanitizeID(l.From), sanitizeID(l.To))
		}
	}

	for _, name := range sortedKeys(used) {
		if color, ok := classes[name]; ok {
			fmt.Fprintf(&b, "    classDef %s fill:%s,color:#0d1117\n", sanitizeID(name), color)
		}
	}
	return b.String()
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// sanitizeID converts a string into a safe mermaid node ID.
func sanitizeID(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		".", "_",
		"-", "_",
		" ", "_",
		"(", "_",
		")", "_",
		"[", "_",
		"]", "_",
		"{", "_",
		"}", "_",
		":", "_",
		"#", "_",
		"<", "_",
		">", "_",
		"\"", "_",
	)
	id := replacer.Replace(s)
	if id == "end" || id == "graph" || id == "flowchart" {
		id = "n_" + id
	}
	return id
}

// escapeMermaid escapes characters that have special meaning in mermaid labels.
func escapeMermaid(s string) string {
	s = strings.ReplaceAll(s, "\"", "#quot;")
	s = strings.ReplaceAll(s, "(", "#lpar;")
	s = strings.ReplaceAll(s, ")", "#rpar;")
	s = strings.ReplaceAll(s, "[", "#lsqb;")
	s = strings.ReplaceAll(s, "]", "#rsqb;")
	s = strings.ReplaceAll(s, "{", "#lbrace;")
	s = strings.ReplaceAll(s, "}", "#rbrace;")
	s = strings.ReplaceAll(s, "<", "#lt;")
	s = strings.ReplaceAll(s, ">", "#gt;")
	s = strings.ReplaceAll(s, "|", "#124;")
	return s
}
