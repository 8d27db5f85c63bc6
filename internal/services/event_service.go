package services

import (
	"database/sql"

	"github.com/isdelr/planner-be/internal/models"
)

// EventService stores calendar events.
type EventService struct {
	*ResourceService[models.Event]
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB, notifier ChangeNotifier) *EventService {
	return &EventService{ResourceService: newResourceService(db, table[models.Event]{
		name:    "events",
		kind:    "events",
		columns: []string{"title", "start_time", "end_time"},
		dest: func(e *models.Event) []any {
			return []any{&e.ID, &e.OwnerID, &e.Title, &e.StartTime, &e.EndTime}
		},
		values: func(e *models.Event) map[string]any {
			return map[string]any{"title": e.Title, "start_time": e.StartTime.UTC(), "end_time": e.EndTime.UTC()}
		},
	}, notifier)}
}
