package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/isdelr/planner-be/internal/database"
	"github.com/isdelr/planner-be/internal/models"
)

// ResourceStore is the ownership-gated CRUD contract shared by every
// resource kind. A row owned by another account behaves exactly like a
// missing row: Get, Update and Delete return models.ErrNotFound.
type ResourceStore[T any] interface {
	List(ctx context.Context, ownerID int64) ([]T, error)
	Get(ctx context.Context, ownerID, id int64) (T, error)
	Create(ctx context.Context, ownerID int64, item T) (int64, error)
	Update(ctx context.Context, ownerID, id int64, item T) error
	Delete(ctx context.Context, ownerID, id int64) error
}

// table describes how one resource kind maps onto its SQL table.
type table[T any] struct {
	name string
	kind string
	// columns lists the kind-specific columns in the order dest returns them.
	columns []string
	// immutable columns are written on insert only.
	immutable []string
	// dest returns scan targets for id, owner_id and then columns.
	dest func(item *T) []any
	// values maps column names to the values to write.
	values func(item *T) map[string]any
	// prepare runs before validation on create, e.g. to stamp timestamps.
	prepare func(item *T)
}

func (t table[T]) selectColumns() []string {
	return append([]string{"id", "owner_id"}, t.columns...)
}

// ResourceService implements ResourceStore for one table.
type ResourceService[T any] struct {
	db       *sql.DB
	table    table[T]
	notifier ChangeNotifier
	sort     func(items []T)
}

func newResourceService[T any](db *sql.DB, t table[T], notifier ChangeNotifier) *ResourceService[T] {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &ResourceService[T]{db: db, table: t, notifier: notifier}
}

// List returns every row owned by ownerID.
func (s *ResourceService[T]) List(ctx context.Context, ownerID int64) ([]T, error) {
	query, args, err := sq.Select(s.table.selectColumns()...).
		From(s.table.name).
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.table.name, err)
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		var item T
		if err := rows.Scan(s.table.dest(&item)...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table.name, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", s.table.name, err)
	}

	if s.sort != nil {
		s.sort(items)
	}
	return items, nil
}

// Get returns the row with the given id if ownerID owns it.
func (s *ResourceService[T]) Get(ctx context.Context, ownerID, id int64) (T, error) {
	var item T
	query, args, err := sq.Select(s.table.selectColumns()...).
		From(s.table.name).
		Where(sq.Eq{"id": id, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return item, err
	}

	err = s.db.QueryRowContext(ctx, query, args...).Scan(s.table.dest(&item)...)
	if errors.Is(err, sql.ErrNoRows) {
		return item, models.ErrNotFound
	}
	if err != nil {
		return item, fmt.Errorf("get %s %d: %w", s.table.name, id, err)
	}
	return item, nil
}

// Create validates item and inserts it on behalf of ownerID.
func (s *ResourceService[T]) Create(ctx context.Context, ownerID int64, item T) (int64, error) {
	if s.table.prepare != nil {
		s.table.prepare(&item)
	}
	if err := models.Validate(&item); err != nil {
		return 0, err
	}

	values := s.table.values(&item)
	values["owner_id"] = ownerID
	query, args, err := sq.Insert(s.table.name).SetMap(values).ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	err = database.WithTx(ctx, s.db, func(ctx context.Context, tx database.DBTX) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("insert %s: %w", s.table.name, err)
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}

	s.notifier.NotifyAccount(ownerID, s.table.kind+".created", ChangePayload{ID: id})
	return id, nil
}

// Update overwrites the mutable fields of a row owned by ownerID.
func (s *ResourceService[T]) Update(ctx context.Context, ownerID, id int64, item T) error {
	if err := models.Validate(&item); err != nil {
		return err
	}

	values := s.table.values(&item)
	for _, col := range s.table.immutable {
		delete(values, col)
	}
	query, args, err := sq.Update(s.table.name).
		SetMap(values).
		Where(sq.Eq{"id": id, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return err
	}

	if err := s.execOwned(ctx, query, args); err != nil {
		return err
	}
	s.notifier.NotifyAccount(ownerID, s.table.kind+".updated", ChangePayload{ID: id})
	return nil
}

// Delete removes a row owned by ownerID.
func (s *ResourceService[T]) Delete(ctx context.Context, ownerID, id int64) error {
	query, args, err := sq.Delete(s.table.name).
		Where(sq.Eq{"id": id, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return err
	}

	if err := s.execOwned(ctx, query, args); err != nil {
		return err
	}
	s.notifier.NotifyAccount(ownerID, s.table.kind+".deleted", ChangePayload{ID: id})
	return nil
}

// execOwned runs a mutation filtered by id and owner in one statement and
// reports models.ErrNotFound when it matched nothing.
func (s *ResourceService[T]) execOwned(ctx context.Context, query string, args []any) error {
	return database.WithTx(ctx, s.db, func(ctx context.Context, tx database.DBTX) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("mutate %s: %w", s.table.name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("mutate %s: %w", s.table.name, err)
		}
		if n == 0 {
			return models.ErrNotFound
		}
		return nil
	})
}
