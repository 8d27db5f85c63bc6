package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/isdelr/planner-be/internal/database"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "planner.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

func newAccount(t *testing.T, db *sql.DB, handle string) int64 {
	t.Helper()
	svc, err := NewAccountService(db, bcrypt.MinCost)
	require.NoError(t, err)
	account, err := svc.Register(context.Background(), handle, "secret-"+handle)
	require.NoError(t, err)
	return account.ID
}

type notification struct {
	accountID int64
	action    string
	payload   any
}

// recordingNotifier captures notifications; accountID 0 marks NotifyAll.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (r *recordingNotifier) NotifyAccount(accountID int64, action string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, notification{accountID, action, payload})
}

func (r *recordingNotifier) NotifyAll(action string, payload any) {
	r.NotifyAccount(0, action, payload)
}

func (r *recordingNotifier) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, n := range r.sent {
		out = append(out, n.action)
	}
	return out
}
