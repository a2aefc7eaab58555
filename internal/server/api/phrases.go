// Package api provides HTTP API handlers for the Abhinaya face gesture
// communication system.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/abhinaya/internal/store"
)

// PhraseHandler handles HTTP requests for phrase resources.
type PhraseHandler struct {
	store *store.Store
}

// NewPhraseHandler creates a new PhraseHandler with the given store.
func NewPhraseHandler(s *store.Store) *PhraseHandler {
	return &PhraseHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *PhraseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/phrases or /api/phrases/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/phrases")
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

// Request and response types

type createPhraseRequest struct {
	CategoryID string `json:"category_id"`
	Text       string `json:"text"`
	Short      string `json:"short"`
}

type updatePhraseRequest struct {
	CategoryID string `json:"category_id"`
	Text       string `json:"text"`
	Short      string `json:"short"`
}

type phraseResponse struct {
	ID         string `json:"id"`
	CategoryID string `json:"category_id,omitempty"`
	Text       string `json:"text"`
	Short      string `json:"short"`
	Custom     bool   `json:"custom"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type categoryResponse struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Icon    string           `json:"icon"`
	Phrases []phraseResponse `json:"phrases"`
}

type listPhrasesResponse struct {
	Categories []categoryResponse `json:"categories"`
	Custom     []phraseResponse   `json:"custom"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toPhraseResponse converts a store.Phrase to a phraseResponse.
func toPhraseResponse(p *store.Phrase) phraseResponse {
	return phraseResponse{
		ID:         p.ID,
		CategoryID: p.CategoryID,
		Text:       p.Text,
		Short:      p.Short,
		Custom:     p.Custom,
		CreatedAt:  p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:  p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/phrases and returns the phrase board grouped by
// category, with custom phrases in their own section.
func (h *PhraseHandler) list(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.Phrases().Categories()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list categories")
		return
	}

	response := listPhrasesResponse{
		Categories: make([]categoryResponse, 0, len(categories)),
		Custom:     []phraseResponse{},
	}

	for _, c := range categories {
		phrases, err := h.store.Phrases().ListByCategory(c.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list phrases")
			return
		}

		cr := categoryResponse{
			ID:      c.ID,
			Name:    c.Name,
			Icon:    c.Icon,
			Phrases: make([]phraseResponse, 0, len(phrases)),
		}
		for _, p := range phrases {
			cr.Phrases = append(cr.Phrases, toPhraseResponse(p))
		}
		response.Categories = append(response.Categories, cr)
	}

	custom, err := h.store.Phrases().ListCustom()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list phrases")
		return
	}
	for _, p := range custom {
		response.Custom = append(response.Custom, toPhraseResponse(p))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/phrases/{id} and returns a single phrase.
func (h *PhraseHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	phrase, err := h.store.Phrases().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Phrase not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get phrase")
		return
	}

	writeJSON(w, http.StatusOK, toPhraseResponse(phrase))
}

// create handles POST /api/phrases and creates a new custom phrase.
func (h *PhraseHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createPhraseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "Text is required")
		return
	}

	short := req.Short
	if short == "" {
		short = req.Text
	}

	phrase := &store.Phrase{
		ID:         uuid.New().String(),
		CategoryID: req.CategoryID,
		Text:       req.Text,
		Short:      short,
		Custom:     true,
	}

	if err := h.store.Phrases().Create(phrase); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create phrase")
		return
	}

	writeJSON(w, http.StatusCreated, toPhraseResponse(phrase))
}

// update handles PUT /api/phrases/{id} and updates an existing phrase.
func (h *PhraseHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	phrase, err := h.store.Phrases().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Phrase not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get phrase")
		return
	}

	var req updatePhraseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Text != "" {
		phrase.Text = req.Text
	}
	if req.Short != "" {
		phrase.Short = req.Short
	}
	if req.CategoryID != "" {
		phrase.CategoryID = req.CategoryID
	}

	if err := h.store.Phrases().Update(phrase); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update phrase")
		return
	}

	writeJSON(w, http.StatusOK, toPhraseResponse(phrase))
}

// delete handles DELETE /api/phrases/{id} and removes a phrase.
func (h *PhraseHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Phrases().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Phrase not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete phrase")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
