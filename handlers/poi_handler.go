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

const exportFilename = "mis_pois.json"

type POIHandler struct {
	store *services.POIStore
}

type POIListResponse struct {
	POIs  []models.POI `json:"pois"`
	Count int          `json:"count"`
}

func NewPOIHandler(store *services.POIStore) *POIHandler {
	return &POIHandler{store: store}
}

// ListPOIs returns the collection, optionally narrowed by ?q= and one or
// more ?category= parameters.
func (h *POIHandler) ListPOIs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	categories := services.CategorySet(r.URL.Query()["category"])

	pois := services.FilterPOIs(h.store.List(), query, categories)
	writeJSON(w, http.StatusOK, POIListResponse{POIs: pois, Count: len(pois)})
}

// CreatePOI adds one POI; when the id is omitted it is derived from the
// title. The category defaults to "user", matching map-click additions.
func (h *POIHandler) CreatePOI(w http.ResponseWriter, r *http.Request) {
	var poi models.POI
	if err := json.NewDecoder(r.Body).Decode(&poi); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}
	if poi.ID == "" {
		poi.ID = h.store.GenerateID(poi.Title)
	}
	if poi.Category == "" {
		poi.Category = "user"
	}

	if err := h.store.Add(r.Context(), poi); err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, poi)
}

// UpdatePOI applies a partial update to title, description or coords.
func (h *POIHandler) UpdatePOI(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var patch models.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	if err := h.store.Update(r.Context(), id, patch); err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated", "id": id})
}

func (h *POIHandler) DeletePOI(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.store.Remove(r.Context(), id); err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

// ImportPOIs replaces the whole collection from an uploaded JSON array.
// One bad element rejects the entire payload and leaves the store as-is.
func (h *POIHandler) ImportPOIs(w http.ResponseWriter, r *http.Request) {
	var pois []models.POI
	if err := json.NewDecoder(r.Body).Decode(&pois); err != nil {
		middleware.WriteError(w, errors.NewAPIError(errors.ErrInvalidImport.Code, errors.ErrInvalidImport.Message, errors.ErrInvalidImport.Status, err.Error()))
		return
	}
	// Decode maps a JSON null onto a nil slice; only a real array may replace the store.
	if pois == nil {
		middleware.WriteError(w, errors.NewAPIError(errors.ErrInvalidImport.Code, errors.ErrInvalidImport.Message, errors.ErrInvalidImport.Status, "payload must be a JSON array"))
		return
	}

	if err := h.store.ReplaceAll(r.Context(), pois); err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "imported", "count": len(pois)})
}

// ExportPOIs serves the collection as a pretty-printed JSON download.
func (h *POIHandler) ExportPOIs(w http.ResponseWriter, r *http.Request) {
	raw, err := json.MarshalIndent(h.store.List(), "", "  ")
	if err != nil {
		middleware.WriteError(w, errors.ErrInternal)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	w.Write(raw)
}

// ResetPOIs restores the built-in default collection.
func (h *POIHandler) ResetPOIs(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ReplaceAll(r.Context(), models.DefaultPOIs()); err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
