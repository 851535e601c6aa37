package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"poi-map-server/middleware"
	"poi-map-server/models"
	"poi-map-server/services"
	"poi-map-server/utils/errors"
)

const fitPadding = 60

type ViewHandler struct {
	view     *services.MapView
	rendered *services.RenderedMap
}

type ViewResponse struct {
	Viewport models.Viewport           `json:"viewport"`
	Markers  []services.RenderedMarker `json:"markers"`
	List     []models.ListRow          `json:"list"`
}

func NewViewHandler(view *services.MapView, rendered *services.RenderedMap) *ViewHandler {
	return &ViewHandler{view: view, rendered: rendered}
}

// GetView returns what the client should render. Shareable-link params
// (lng, lat, z) override the viewport when present and valid.
func (h *ViewHandler) GetView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ViewResponse{
		Viewport: models.ViewportFromQuery(r.URL.Query(), h.rendered.Viewport()),
		Markers:  h.rendered.Markers(),
		List:     h.view.Rows(),
	})
}

// SetFilter replaces the active text query and category filters.
func (h *ViewHandler) SetFilter(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Query      string   `json:"query"`
		Categories []string `json:"categories"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	h.view.SetFilter(input.Query, input.Categories)
	writeJSON(w, http.StatusOK, ViewResponse{
		Viewport: h.rendered.Viewport(),
		Markers:  h.rendered.Markers(),
		List:     h.view.Rows(),
	})
}

// DragStart marks a rendered marker as being dragged.
func (h *ViewHandler) DragStart(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.view.DragStart(id); err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "dragging", "id": id})
}

// DragEnd commits a marker drag as a coordinate update.
func (h *ViewHandler) DragEnd(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var input struct {
		Coords models.LngLat `json:"coords"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	if err := h.view.DragEnd(r.Context(), id, input.Coords); err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "moved", "id": id})
}

// DispatchAction routes a list action (go, info, edit, delete) by name.
func (h *ViewHandler) DispatchAction(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Action string `json:"action"`
		ID     string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	if err := h.view.Dispatch(r.Context(), input.Action, input.ID); err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "action": input.Action, "id": input.ID})
}

// CancelEdit reverts an editing POI without committing anything.
func (h *ViewHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	h.view.EditCancel(id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled", "id": id})
}

// FitView frames all visible markers.
func (h *ViewHandler) FitView(w http.ResponseWriter, r *http.Request) {
	h.view.FitVisible(fitPadding)
	writeJSON(w, http.StatusOK, map[string]any{"viewport": h.rendered.Viewport()})
}
