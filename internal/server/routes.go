package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/code-landscape/internal/analyzer"
	"github.com/ziadkadry99/code-landscape/internal/graphdoc"
	"github.com/ziadkadry99/code-landscape/internal/insight"
	"github.com/ziadkadry99/code-landscape/internal/metrics"
	"github.com/ziadkadry99/code-landscape/internal/report"
	"github.com/ziadkadry99/code-landscape/internal/search"
	"github.com/ziadkadry99/code-landscape/internal/session"
	"github.com/ziadkadry99/code-landscape/internal/viewer"
	"github.com/ziadkadry99/code-landscape/internal/visibility"
)

// maxDocumentBytes limits uploaded documents.
const maxDocumentBytes = 256 << 20

func (s *Server) registerAPI(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/status", handleHealth)
		r.Post("/analyze", s.handleAnalyze)

		r.Get("/document", s.handleSaveDocument)
		r.Post("/document", s.handleLoadDocument)

		r.Get("/state", s.handleState)
		r.Get("/frame.png", s.handleFrame)

		r.Post("/filter", s.handleFilter)
		r.Post("/search", s.handleSearch)
		r.Post("/layout/{action}", s.handleLayout)

		r.Post("/view/fit", s.handleFit)
		r.Post("/view/focus/{id}", s.handleFocus)
		r.Post("/view/{toggle}", s.handleViewToggle)

		r.Post("/select/{id}", s.handleSelect)
		r.Delete("/select", s.handleClearSelection)
		r.Post("/back", s.handleBack)

		r.Get("/nodes", s.handleNodeSearch)
		r.Get("/nodes/{id}/insight", s.handleInsight)
		r.Get("/nodes/{id}/report", s.handleReport)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, insight.ErrUnknownNode):
		return http.StatusNotFound
	case errors.Is(err, viewer.ErrNoDocument):
		return http.StatusConflict
	case errors.Is(err, graphdoc.ErrMissingNodes),
		errors.Is(err, graphdoc.ErrMissingEdges),
		errors.Is(err, graphdoc.ErrDuplicateNode),
		errors.Is(err, graphdoc.ErrMalformed),
		errors.Is(err, analyzer.ErrEmptyRepoPath):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// do runs fn on the session loop and writes an error response on failure.
func (s *Server) do(w http.ResponseWriter, r *http.Request, name string, fn func(*viewer.Viewer) error) bool {
	if err := s.sess.Do(r.Context(), name, fn); err != nil {
		writeError(w, statusFor(err), err)
		return false
	}
	return true
}

// respondState writes the viewer state after a command.
func (s *Server) respondState(w http.ResponseWriter, r *http.Request, name string, fn func(*viewer.Viewer) error) {
	var st viewer.State
	ok := s.do(w, r, name, func(v *viewer.Viewer) error {
		if err := fn(v); err != nil {
			return err
		}
		st = v.Snapshot()
		return nil
	})
	if ok {
		writeJSON(w, http.StatusOK, st)
	}
}

func (s *Server) load(w http.ResponseWriter, r *http.Request, source string, doc *graphdoc.Document) {
	var st viewer.State
	err := s.sess.Do(r.Context(), "load", func(v *viewer.Viewer) error {
		if err := v.Load(doc); err != nil {
			return err
		}
		st = v.Snapshot()
		return nil
	})
	metrics.Load(source, err)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	metrics.Nodes(st.TotalNodes, st.VisibleNodes)
	s.logger.Info("document loaded", "source", source, "repo", st.RepoName, "nodes", st.TotalNodes, "edges", st.TotalEdges)
	writeJSON(w, http.StatusOK, st)
}

type analyzeRequest struct {
	RepoPath string `json:"repo_path"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if strings.TrimSpace(req.RepoPath) == "" {
		writeError(w, http.StatusBadRequest, analyzer.ErrEmptyRepoPath)
		return
	}
	if s.submitter == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("no analyzer configured"))
		return
	}

	doc, err := s.submitter.Submit(r.Context(), req.RepoPath)
	if err != nil {
		metrics.Load("analyze", err)
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		writeError(w, status, err)
		return
	}
	s.load(w, r, "analyze", doc)
}

func (s *Server) handleLoadDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := graphdoc.Decode(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err != nil {
		metrics.Load("upload", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.load(w, r, "upload", doc)
}

func (s *Server) handleSaveDocument(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	var name string
	ok := s.do(w, r, "save", func(v *viewer.Viewer) error {
		doc := v.Document()
		if doc == nil {
			return viewer.ErrNoDocument
		}
		name = doc.Filename()
		return graphdoc.Encode(&buf, doc)
	})
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(buf.Bytes())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.respondState(w, r, "state", func(*viewer.Viewer) error { return nil })
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	ok := s.do(w, r, "frame", func(v *viewer.Viewer) error {
		start := time.Now()
		if err := v.EncodePNG(&buf); err != nil {
			return err
		}
		metrics.Frame(time.Since(start), buf.Len())
		return nil
	})
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

type filterRequest struct {
	HiddenNodeTypes []string `json:"hidden_node_types"`
	HiddenEdgeTypes []string `json:"hidden_edge_types"`
	ToggleNodeType  string   `json:"toggle_node_type,omitempty"`
	ToggleEdgeType  string   `json:"toggle_edge_type,omitempty"`
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	s.respondState(w, r, "filter", func(v *viewer.Viewer) error {
		switch {
		case req.ToggleNodeType != "":
			_, err := v.ToggleNodeType(req.ToggleNodeType)
			return err
		case req.ToggleEdgeType != "":
			_, err := v.ToggleEdgeType(req.ToggleEdgeType)
			return err
		default:
			return v.SetHidden(visibility.NewHidden(req.HiddenNodeTypes, req.HiddenEdgeTypes))
		}
	})
}

type searchRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	var matches []string
	ok := s.do(w, r, "search", func(v *viewer.Viewer) error {
		v.Search(req.Query)
		matches = v.Matches()
		return nil
	})
	if ok {
		writeJSON(w, http.StatusOK, map[string]any{"query": req.Query, "count": len(matches), "matches": matches})
	}
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var fn func(*viewer.Viewer) error
	switch action := chi.URLParam(r, "action"); action {
	case "freeze":
		fn = (*viewer.Viewer).Freeze
	case "unfreeze":
		fn = (*viewer.Viewer).Unfreeze
	default:
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown layout action %q", action))
		return
	}
	s.respondState(w, r, "layout", fn)
}

func (s *Server) handleFit(w http.ResponseWriter, r *http.Request) {
	s.respondState(w, r, "fit", func(v *viewer.Viewer) error {
		if v.Document() == nil {
			return viewer.ErrNoDocument
		}
		v.FitView()
		return nil
	})
}

func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.respondState(w, r, "focus", func(v *viewer.Viewer) error {
		if v.Document() == nil {
			return viewer.ErrNoDocument
		}
		if !v.Focus(id) {
			return fmt.Errorf("%w: %s is not visible", insight.ErrUnknownNode, id)
		}
		return nil
	})
}

type toggleRequest struct {
	On *bool `json:"on"`
}

func (s *Server) handleViewToggle(w http.ResponseWriter, r *http.Request) {
	toggle := chi.URLParam(r, "toggle")
	if toggle != "arrows" && toggle != "labels" {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown view toggle %q", toggle))
		return
	}
	var req toggleRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
			return
		}
	}
	s.respondState(w, r, toggle, func(v *viewer.Viewer) error {
		if toggle == "arrows" {
			on := !v.Arrows()
			if req.On != nil {
				on = *req.On
			}
			v.SetArrows(on)
		} else {
			on := !v.Labels()
			if req.On != nil {
				on = *req.On
			}
			v.SetLabels(on)
		}
		return nil
	})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var d *insight.Detail
	ok := s.do(w, r, "select", func(v *viewer.Viewer) error {
		if err := v.Select(id); err != nil {
			return err
		}
		v.Focus(id)
		var err error
		d, err = v.Detail(r.Context())
		return err
	})
	if ok {
		writeJSON(w, http.StatusOK, d)
	}
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.respondState(w, r, "clear_selection", func(v *viewer.Viewer) error {
		v.ClearSelection()
		return nil
	})
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	var d *insight.Detail
	var moved bool
	ok := s.do(w, r, "back", func(v *viewer.Viewer) error {
		if _, moved = v.Back(); !moved {
			return nil
		}
		var err error
		d, err = v.Detail(r.Context())
		return err
	})
	if !ok {
		return
	}
	if !moved {
		writeError(w, http.StatusConflict, errors.New("history is empty"))
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// engine fetches the immutable insight engine of the loaded document so that
// queries can run off the loop.
func (s *Server) engine(w http.ResponseWriter, r *http.Request) (*insight.Engine, bool) {
	var e *insight.Engine
	ok := s.do(w, r, "engine", func(v *viewer.Viewer) error {
		e = v.Engine()
		if e == nil {
			return viewer.ErrNoDocument
		}
		return nil
	})
	return e, ok
}

func (s *Server) handleNodeSearch(w http.ResponseWriter, r *http.Request) {
	e, ok := s.engine(w, r)
	if !ok {
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	nodes := search.Parse(r.URL.Query().Get("q")).Nodes(e.Document(), limit)
	refs := make([]insight.NodeRef, 0, len(nodes))
	for _, n := range nodes {
		refs = append(refs, e.Ref(n.ID))
	}
	writeJSON(w, http.StatusOK, refs)
}

func (s *Server) describe(w http.ResponseWriter, r *http.Request) (*insight.Detail, *insight.Engine, bool) {
	e, ok := s.engine(w, r)
	if !ok {
		return nil, nil, false
	}
	start := time.Now()
	d, err := e.Describe(r.Context(), chi.URLParam(r, "id"))
	metrics.Insight("describe", start)
	if err != nil {
		writeError(w, statusFor(err), err)
		return nil, nil, false
	}
	return d, e, true
}

func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	if d, _, ok := s.describe(w, r); ok {
		writeJSON(w, http.StatusOK, d)
	}
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	d, e, ok := s.describe(w, r)
	if !ok {
		return
	}
	doc := e.Document()
	var buf bytes.Buffer
	if err := report.Write(&buf, format, d, report.Options{Repo: doc.RepoName, NodeColors: doc.NodeColors}); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Write(buf.Bytes())
}
