package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/abhinaya/internal/gesture"
	"github.com/ayusman/abhinaya/internal/store"
)

// BindingHandler handles HTTP requests for gesture binding resources.
type BindingHandler struct {
	store *store.Store
}

// NewBindingHandler creates a new BindingHandler with the given store.
func NewBindingHandler(s *store.Store) *BindingHandler {
	return &BindingHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *BindingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/bindings or /api/bindings/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/bindings")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type createBindingRequest struct {
	GestureType string          `json:"gesture_type"`
	PluginName  string          `json:"plugin_name"`
	ActionName  string          `json:"action_name"`
	Config      json.RawMessage `json:"config"`
	Enabled     *bool           `json:"enabled"`
}

type updateBindingRequest struct {
	GestureType string          `json:"gesture_type"`
	PluginName  string          `json:"plugin_name"`
	ActionName  string          `json:"action_name"`
	Config      json.RawMessage `json:"config"`
	Enabled     *bool           `json:"enabled"`
}

type bindingResponse struct {
	ID          string          `json:"id"`
	GestureType string          `json:"gesture_type"`
	PluginName  string          `json:"plugin_name"`
	ActionName  string          `json:"action_name"`
	Config      json.RawMessage `json:"config"`
	Enabled     bool            `json:"enabled"`
	CreatedAt   string          `json:"created_at"`
}

type listBindingsResponse struct {
	Bindings []bindingResponse `json:"bindings"`
}

// toBindingResponse converts a store.Binding to a bindingResponse.
func toBindingResponse(b *store.Binding) bindingResponse {
	return bindingResponse{
		ID:          b.ID,
		GestureType: b.GestureType,
		PluginName:  b.PluginName,
		ActionName:  b.ActionName,
		Config:      b.Config,
		Enabled:     b.Enabled,
		CreatedAt:   b.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// validGestureType reports whether s names a known gesture event type.
func validGestureType(s string) bool {
	switch gesture.EventType(s) {
	case gesture.EventDoubleBlink, gesture.EventLongClose, gesture.EventMouthOpen,
		gesture.EventEyebrowsRaised, gesture.EventHeadTiltLeft, gesture.EventHeadTiltRight:
		return true
	}
	return false
}

// list handles GET /api/bindings and returns all bindings.
func (h *BindingHandler) list(w http.ResponseWriter, r *http.Request) {
	bindings, err := h.store.Bindings().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list bindings")
		return
	}

	response := listBindingsResponse{
		Bindings: make([]bindingResponse, 0, len(bindings)),
	}
	for _, b := range bindings {
		response.Bindings = append(response.Bindings, toBindingResponse(b))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/bindings/{id} and returns a single binding.
func (h *BindingHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	binding, err := h.store.Bindings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get binding")
		return
	}

	writeJSON(w, http.StatusOK, toBindingResponse(binding))
}

// create handles POST /api/bindings and creates a new binding.
func (h *BindingHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createBindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !validGestureType(req.GestureType) {
		writeError(w, http.StatusBadRequest, "Invalid gesture type")
		return
	}
	if req.PluginName == "" || req.ActionName == "" {
		writeError(w, http.StatusBadRequest, "Plugin name and action name are required")
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	binding := &store.Binding{
		ID:          uuid.New().String(),
		GestureType: req.GestureType,
		PluginName:  req.PluginName,
		ActionName:  req.ActionName,
		Config:      req.Config,
		Enabled:     enabled,
	}

	if err := h.store.Bindings().Create(binding); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create binding")
		return
	}

	writeJSON(w, http.StatusCreated, toBindingResponse(binding))
}

// update handles PUT /api/bindings/{id} and updates an existing binding.
func (h *BindingHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	binding, err := h.store.Bindings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get binding")
		return
	}

	var req updateBindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.GestureType != "" {
		if !validGestureType(req.GestureType) {
			writeError(w, http.StatusBadRequest, "Invalid gesture type")
			return
		}
		binding.GestureType = req.GestureType
	}
	if req.PluginName != "" {
		binding.PluginName = req.PluginName
	}
	if req.ActionName != "" {
		binding.ActionName = req.ActionName
	}
	if req.Config != nil {
		binding.Config = req.Config
	}
	if req.Enabled != nil {
		binding.Enabled = *req.Enabled
	}

	if err := h.store.Bindings().Update(binding); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update binding")
		return
	}

	writeJSON(w, http.StatusOK, toBindingResponse(binding))
}

// delete handles DELETE /api/bindings/{id} and removes a binding.
func (h *BindingHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Bindings().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete binding")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
