package viewer

import (
	"github.com/ziadkadry99/code-landscape/internal/layout"
	"github.com/ziadkadry99/code-landscape/internal/viewport"
)

// State is a JSON snapshot of the viewer for clients and the status API.
type State struct {
	Loaded       bool               `json:"loaded"`
	RepoName     string             `json:"repo_name,omitempty"`
	TotalNodes   int                `json:"total_nodes"`
	TotalEdges   int                `json:"total_edges"`
	VisibleNodes int                `json:"visible_nodes"`
	VisibleEdges int                `json:"visible_edges"`
	NodeTypes    map[string]int     `json:"node_type_counts,omitempty"`
	EdgeTypes    map[string]int     `json:"edge_type_counts,omitempty"`
	HiddenNodes  []string           `json:"hidden_node_types"`
	HiddenEdges  []string           `json:"hidden_edge_types"`
	Layout       string             `json:"layout"`
	Band         string             `json:"band,omitempty"`
	Alpha        float64            `json:"alpha"`
	Ticks        int                `json:"ticks"`
	Frozen       bool               `json:"frozen"`
	Transform    viewport.Transform `json:"transform"`
	Width        int                `json:"width"`
	Height       int                `json:"height"`
	Selected     string             `json:"selected,omitempty"`
	Hovered      string             `json:"hovered,omitempty"`
	History      []string           `json:"history"`
	Query        string             `json:"query,omitempty"`
	Matches      int                `json:"matches"`
	Arrows       bool               `json:"arrows"`
	Labels       bool               `json:"labels"`
	Version      uint64             `json:"version"`
}

// Snapshot captures the current state.
func (v *Viewer) Snapshot() State {
	hn, he := v.hidden.Lists()
	st := State{
		Loaded:      v.doc != nil,
		HiddenNodes: nonNil(hn),
		HiddenEdges: nonNil(he),
		Layout:      layout.Idle.String(),
		Frozen:      v.frozen,
		Transform:   v.vp.Transform(),
		Width:       v.opts.Width,
		Height:      v.opts.Height,
		Selected:    v.Selected(),
		Hovered:     v.Hovered(),
		History:     v.History(),
		Query:       v.Query(),
		Matches:     len(v.matches),
		Arrows:      v.showArrows,
		Labels:      v.showLabels,
		Version:     v.version,
	}
	if v.doc != nil {
		st.RepoName = v.doc.RepoName
		st.TotalNodes = len(v.doc.Nodes)
		st.TotalEdges = len(v.doc.Edges)
		st.NodeTypes = v.doc.NodeTypeCounts
		st.EdgeTypes = v.doc.EdgeTypeCounts
		st.VisibleNodes = len(v.view.Nodes)
		st.VisibleEdges = len(v.view.Edges)
	}
	if v.sim != nil {
		st.Layout = v.sim.State().String()
		st.Band = v.sim.Params().Band.String()
		st.Alpha = v.sim.Alpha()
		st.Ticks = v.sim.Ticks()
	}
	return st
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
