package services

import (
	"database/sql"
	"sort"

	"github.com/isdelr/planner-be/internal/models"
)

// TaskService stores tasks. Lists come back in deadline order with fully
// completed tasks last.
type TaskService struct {
	*ResourceService[models.Task]
}

// NewTaskService creates a new TaskService.
func NewTaskService(db *sql.DB, notifier ChangeNotifier) *TaskService {
	svc := newResourceService(db, table[models.Task]{
		name:    "tasks",
		kind:    "tasks",
		columns: []string{"content", "status", "deadline"},
		dest: func(t *models.Task) []any {
			return []any{&t.ID, &t.OwnerID, &t.Content, &t.Status, &t.Deadline}
		},
		values: func(t *models.Task) map[string]any {
			return map[string]any{"content": t.Content, "status": t.Status, "deadline": t.Deadline.UTC()}
		},
	}, notifier)
	svc.sort = SortTasks
	return &TaskService{ResourceService: svc}
}

// SortTasks orders incomplete tasks by ascending deadline, followed by
// completed tasks regardless of deadline. Ties keep id order.
func SortTasks(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Done() != b.Done() {
			return !a.Done()
		}
		return a.Deadline.Before(b.Deadline)
	})
}
