package services

import (
	"database/sql"
	"time"

	"github.com/isdelr/planner-be/internal/models"
)

// MemoService stores memos.
type MemoService struct {
	*ResourceService[models.Memo]
}

// NewMemoService creates a new MemoService.
func NewMemoService(db *sql.DB, notifier ChangeNotifier) *MemoService {
	return &MemoService{ResourceService: newResourceService(db, table[models.Memo]{
		name:      "memos",
		kind:      "memos",
		columns:   []string{"content", "created_at"},
		immutable: []string{"created_at"},
		dest: func(m *models.Memo) []any {
			return []any{&m.ID, &m.OwnerID, &m.Content, &m.CreatedAt}
		},
		values: func(m *models.Memo) map[string]any {
			return map[string]any{"content": m.Content, "created_at": m.CreatedAt}
		},
		prepare: func(m *models.Memo) {
			m.CreatedAt = time.Now().UTC()
		},
	}, notifier)}
}
