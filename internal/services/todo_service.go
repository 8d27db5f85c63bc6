package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/isdelr/planner-be/internal/database"
	"github.com/isdelr/planner-be/internal/models"
)

// TodoServiceProvider adds the daily rotation and the summary to the todo store.
type TodoServiceProvider interface {
	ResourceStore[models.Todo]
	Summary(ctx context.Context, ownerID int64) (models.TodoSummary, error)
	Rotate(ctx context.Context) (RotationResult, error)
}

// RotationResult reports what one rotation changed.
type RotationResult struct {
	Deleted  int64 `json:"deleted"`
	Promoted int64 `json:"promoted"`
}

// TodoService stores daily todos.
type TodoService struct {
	*ResourceService[models.Todo]
}

// NewTodoService creates a new TodoService.
func NewTodoService(db *sql.DB, notifier ChangeNotifier) *TodoService {
	return &TodoService{ResourceService: newResourceService(db, table[models.Todo]{
		name:    "todos",
		kind:    "todos",
		columns: []string{"content", "today_flag", "tomorrow_flag", "everyday_flag", "completed"},
		dest: func(t *models.Todo) []any {
			return []any{&t.ID, &t.OwnerID, &t.Content, &t.Today, &t.Tomorrow, &t.Everyday, &t.Completed}
		},
		values: func(t *models.Todo) map[string]any {
			return map[string]any{
				"content":       t.Content,
				"today_flag":    t.Today,
				"tomorrow_flag": t.Tomorrow,
				"everyday_flag": t.Everyday,
				"completed":     t.Completed,
			}
		},
	}, notifier)}
}

// Rotate advances every account's todos by one day in a single transaction:
// today's todos are deleted, then tomorrow's become today's. Everyday todos
// and completion state are left alone. On error nothing is changed.
func (s *TodoService) Rotate(ctx context.Context) (RotationResult, error) {
	var result RotationResult
	err := database.WithTx(ctx, s.db, func(ctx context.Context, tx database.DBTX) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM todos WHERE today_flag = 1`)
		if err != nil {
			return fmt.Errorf("delete today's todos: %w", err)
		}
		if result.Deleted, err = res.RowsAffected(); err != nil {
			return err
		}

		res, err = tx.ExecContext(ctx,
			`UPDATE todos SET today_flag = tomorrow_flag, tomorrow_flag = 0 WHERE tomorrow_flag = 1`)
		if err != nil {
			return fmt.Errorf("promote tomorrow's todos: %w", err)
		}
		result.Promoted, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return RotationResult{}, err
	}

	s.notifier.NotifyAll("todos.rotated", result)
	return result, nil
}

// Summary reports how many of the owner's todos are on today's list and how
// many of those are completed.
func (s *TodoService) Summary(ctx context.Context, ownerID int64) (models.TodoSummary, error) {
	var summary models.TodoSummary
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(completed), 0)
		FROM todos
		WHERE owner_id = ? AND (today_flag = 1 OR everyday_flag = 1)`, ownerID).
		Scan(&summary.Total, &summary.Completed)
	if err != nil {
		return models.TodoSummary{}, fmt.Errorf("summarize todos: %w", err)
	}
	if summary.Total > 0 {
		summary.Rate = int(math.Round(float64(summary.Completed) * 100 / float64(summary.Total)))
	}
	return summary, nil
}
