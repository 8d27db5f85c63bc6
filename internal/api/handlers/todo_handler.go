package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/planner-be/internal/models"
	"github.com/isdelr/planner-be/internal/services"
)

// TodoHandler serves the todo routes, including the summary.
type TodoHandler struct {
	*ResourceHandler[models.Todo]
	service services.TodoServiceProvider
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(service services.TodoServiceProvider) *TodoHandler {
	return &TodoHandler{
		ResourceHandler: NewResourceHandler[models.Todo]("todos", service),
		service:         service,
	}
}

// Summary reports the completion rate of today's todos.
func (h *TodoHandler) Summary(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requireAccount(w, r)
	if !ok {
		return
	}
	summary, err := h.service.Summary(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to summarize todos")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Routes mounts the todo endpoints on r.
func (h *TodoHandler) Routes(r chi.Router) {
	r.Get("/summary", h.Summary)
	h.ResourceHandler.Routes(r)
}
