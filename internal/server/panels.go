package server

import (
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vantagedata/dashlayout/pkg/errors"
	"github.com/vantagedata/dashlayout/pkg/events"
	"github.com/vantagedata/dashlayout/pkg/panels"
	"github.com/vantagedata/dashlayout/pkg/store"
)

var scopeRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

func totalParam(r *http.Request) (float64, error) {
	raw := r.URL.Query().Get("total")
	if raw == "" {
		return 0, errors.New(errors.ErrCodeInvalidInput, "query parameter total is required")
	}
	total, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid total %q", raw)
	}
	return total, nil
}

// persister returns a persister whose keys are prefixed with the scope.
func (s *Server) persister(r *http.Request) (*panels.Persister, string, error) {
	scope := chi.URLParam(r, "scope")
	if !scopeRegex.MatchString(scope) {
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "invalid scope %q", scope)
	}
	p := panels.NewPersister(s.opts.Store, store.NewScopedKeyer(s.opts.Keyer, scope+":"), s.opts.Logger)
	p.Constraints = s.opts.Constraints
	return p, scope, nil
}

func (s *Server) handlePanelDefaults(w http.ResponseWriter, r *http.Request) {
	total, err := totalParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.opts.Constraints.Calculate(total, panels.DefaultLeft, panels.DefaultRight))
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Total float64 `json:"total"`
		Left  float64 `json:"left"`
		Right float64 `json:"right"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.opts.Constraints.Calculate(req.Total, req.Left, req.Right))
}

func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Handle  string        `json:"handle"`
		DeltaX  float64       `json:"deltaX"`
		Current panels.Widths `json:"current"`
		Total   float64       `json:"total"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	h, err := panels.ParseHandle(req.Handle)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid handle"))
		return
	}
	total := req.Total
	if total == 0 {
		total = req.Current.Total()
	}
	writeJSON(w, http.StatusOK, s.opts.Constraints.HandleResizeDrag(h, req.DeltaX, req.Current, total))
}

type panelState struct {
	Widths  panels.Widths `json:"widths"`
	Sidebar *float64      `json:"sidebar,omitempty"`
}

func (s *Server) handleLoadPanels(w http.ResponseWriter, r *http.Request) {
	p, _, err := s.persister(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	total, err := totalParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	state := panelState{Widths: p.LoadPanelWidths(r.Context(), total)}
	if sidebar, ok := p.LoadSidebarWidth(r.Context()); ok {
		state.Sidebar = &sidebar
	}
	writeJSON(w, http.StatusOK, state)
}

// handleSavePanels never fails on a storage error; the response reports
// whether the widths were persisted.
func (s *Server) handleSavePanels(w http.ResponseWriter, r *http.Request) {
	p, scope, err := s.persister(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req panelState
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	saved := p.SavePanelWidths(r.Context(), req.Widths)
	if req.Sidebar != nil {
		saved = p.SaveSidebarWidth(r.Context(), *req.Sidebar) && saved
	}

	s.opts.Bus.Publish(events.TopicPanelsChanged, panels.Changed{
		Scope:   scope,
		Widths:  req.Widths,
		Sidebar: req.Sidebar,
	})
	writeJSON(w, http.StatusOK, struct {
		Saved bool `json:"saved"`
	}{saved})
}
