package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/planner-be/internal/services"
)

// ResourceHandler serves the CRUD routes of one resource kind on behalf of
// the authenticated account.
type ResourceHandler[T any] struct {
	store services.ResourceStore[T]
	kind  string
}

// NewResourceHandler creates a handler for kind backed by store.
func NewResourceHandler[T any](kind string, store services.ResourceStore[T]) *ResourceHandler[T] {
	return &ResourceHandler[T]{store: store, kind: kind}
}

type createdResponse struct {
	ID int64 `json:"id"`
}

// Routes mounts the handler's endpoints on r.
func (h *ResourceHandler[T]) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
	})
}

// List returns every item the account owns.
func (h *ResourceHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requireAccount(w, r)
	if !ok {
		return
	}
	items, err := h.store.List(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to list "+h.kind)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Get returns a single item.
func (h *ResourceHandler[T]) Get(w http.ResponseWriter, r *http.Request) {
	accountID, id, ok := h.target(w, r)
	if !ok {
		return
	}
	item, err := h.store.Get(r.Context(), accountID, id)
	if err != nil {
		writeServiceError(w, r, err, "Failed to get "+h.kind)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Create stores a new item and returns its id.
func (h *ResourceHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requireAccount(w, r)
	if !ok {
		return
	}
	var item T
	if !decodeJSON(w, r, &item) {
		return
	}
	id, err := h.store.Create(r.Context(), accountID, item)
	if err != nil {
		writeServiceError(w, r, err, "Failed to create "+h.kind)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

// Update overwrites an item.
func (h *ResourceHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	accountID, id, ok := h.target(w, r)
	if !ok {
		return
	}
	var item T
	if !decodeJSON(w, r, &item) {
		return
	}
	if err := h.store.Update(r.Context(), accountID, id, item); err != nil {
		writeServiceError(w, r, err, "Failed to update "+h.kind)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Delete removes an item.
func (h *ResourceHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	accountID, id, ok := h.target(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), accountID, id); err != nil {
		writeServiceError(w, r, err, "Failed to delete "+h.kind)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// target resolves the account and the {id} path parameter. Ids that are
// not positive integers are reported as not found.
func (h *ResourceHandler[T]) target(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	accountID, ok := requireAccount(w, r)
	if !ok {
		return 0, 0, false
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeErr(w, http.StatusNotFound, ErrCodeNotFound, "not found")
		return 0, 0, false
	}
	return accountID, id, true
}
