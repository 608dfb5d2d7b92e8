package server

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vantagedata/dashlayout/pkg/buildinfo"
	"github.com/vantagedata/dashlayout/pkg/dashboard"
	"github.com/vantagedata/dashlayout/pkg/errors"
	"github.com/vantagedata/dashlayout/pkg/events"
	"github.com/vantagedata/dashlayout/pkg/grid"
	"github.com/vantagedata/dashlayout/pkg/layout"
	"github.com/vantagedata/dashlayout/pkg/observability"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

func (s *Server) userID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "userID")
	return id, errors.ValidateUserID(id)
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cfg, err := layout.LoadOrDefault(r.Context(), s.opts.Repository, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handlePutLayout(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var cfg layout.Configuration
	if err := decode(r, &cfg); err != nil {
		s.writeError(w, r, err)
		return
	}
	if cfg.UserID != "" && cfg.UserID != userID {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "body userId %q does not match path", cfg.UserID))
		return
	}
	cfg.UserID = userID

	saved, err := s.opts.Repository.Save(r.Context(), cfg)
	observability.Layout().OnCommit(r.Context(), "save", len(cfg.Items), err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.opts.Bus.Publish(events.TopicLayoutChanged, dashboard.LayoutChanged{
		UserID: userID,
		Op:     "save",
		Items:  saved.Items,
	})
	s.opts.Logger.Info("layout saved", "user", userID, "items", len(saved.Items))
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.opts.Repository.Delete(r.Context(), userID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.opts.Bus.Publish(events.TopicLayoutChanged, dashboard.LayoutChanged{UserID: userID, Op: "delete"})
	w.WriteHeader(http.StatusNoContent)
}

type itemsRequest struct {
	Items []layout.Item `json:"items"`
}

func (s *Server) handleCompact(w http.ResponseWriter, r *http.Request) {
	var req itemsRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	cfg := layout.Configuration{Items: req.Items}
	res := grid.CompactLayout(cfg.GridItems())
	writeJSON(w, http.StatusOK, struct {
		Items   []layout.Item `json:"items"`
		Changed bool          `json:"changed"`
	}{cfg.WithGrid(res.Items).Items, res.Changed})
}

func (s *Server) handleCollisions(w http.ResponseWriter, r *http.Request) {
	var req itemsRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	collisions := grid.DetectCollisions(layout.Configuration{Items: req.Items}.GridItems())
	if collisions == nil {
		collisions = []grid.Collision{}
	}
	writeJSON(w, http.StatusOK, struct {
		Collisions []grid.Collision `json:"collisions"`
	}{collisions})
}

// positionRequest places Item at (X, Y) among Items. With a positive
// ContainerWidth, X and Y are pixel offsets and are snapped to the grid
// first; otherwise they are grid cells.
type positionRequest struct {
	Item           grid.Item     `json:"item"`
	X              float64       `json:"x"`
	Y              float64       `json:"y"`
	ContainerWidth float64       `json:"containerWidth"`
	Items          []layout.Item `json:"items"`
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Item.W < 1 || req.Item.H < 1 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidItem, "item must be at least 1x1"))
		return
	}

	existing := layout.Configuration{Items: req.Items}.GridItems()
	var pos grid.Position
	if req.ContainerWidth > 0 {
		pos = grid.NewEngine(s.opts.Grid, req.ContainerWidth).CalculatePosition(req.Item, req.X, req.Y, existing)
	} else {
		pos = grid.ResolvePosition(s.opts.Grid, req.Item, int(math.Round(req.X)), int(math.Round(req.Y)), existing)
	}
	observability.Layout().OnPositionResolved(r.Context(), req.Item.ID, pos.Fallback)
	writeJSON(w, http.StatusOK, pos)
}

// componentsRequest carries the layout items plus the backend data for
// each, keyed by item ID.
type componentsRequest struct {
	Items    []layout.Item              `json:"items"`
	Payloads map[string]json.RawMessage `json:"payloads"`
}

// handleComponents reports which components have data and splits the
// items into those worth exporting and those that would render empty.
func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	var req componentsRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	comps, err := dashboard.Components(req.Items, req.Payloads)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	included, excluded, err := dashboard.FilterEmpty(req.Items, req.Payloads)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Components []dashboard.Component `json:"components"`
		Included   []layout.Item         `json:"included"`
		Excluded   []layout.Item         `json:"excluded"`
	}{comps, included, excluded})
}

type validation struct {
	Valid   bool        `json:"valid"`
	Code    errors.Code `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Field   string      `json:"field,omitempty"`
}

// handleValidateLayout reports validation failures in a 200 body; only a
// malformed request is an HTTP error.
func (s *Server) handleValidateLayout(w http.ResponseWriter, r *http.Request) {
	var req itemsRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	err := layout.Configuration{Items: req.Items}.ValidateItems(s.opts.Grid)
	writeJSON(w, http.StatusOK, validationOf(err))
}

func (s *Server) handleValidateEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, validationOf(errors.ValidateEmail(req.Email)))
}

func validationOf(err error) validation {
	if err == nil {
		return validation{Valid: true}
	}
	return validation{Code: errors.GetCode(err), Message: errors.UserMessage(err), Field: errors.GetField(err)}
}
