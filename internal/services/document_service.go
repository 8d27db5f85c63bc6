package services

import (
	"database/sql"

	"github.com/isdelr/planner-be/internal/models"
)

// DocumentService stores markdown documents.
type DocumentService struct {
	*ResourceService[models.Document]
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *sql.DB, notifier ChangeNotifier) *DocumentService {
	return &DocumentService{ResourceService: newResourceService(db, table[models.Document]{
		name:    "documents",
		kind:    "documents",
		columns: []string{"name", "content"},
		dest: func(d *models.Document) []any {
			return []any{&d.ID, &d.OwnerID, &d.Name, &d.Content}
		},
		values: func(d *models.Document) map[string]any {
			return map[string]any{"name": d.Name, "content": d.Content}
		},
	}, notifier)}
}
