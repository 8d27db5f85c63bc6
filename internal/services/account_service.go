package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/isdelr/planner-be/internal/database"
	"github.com/isdelr/planner-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// AccountServiceProvider defines the interface for the credential store.
type AccountServiceProvider interface {
	Register(ctx context.Context, handle, secret string) (models.Account, error)
	Verify(ctx context.Context, handle, secret string) (models.Account, error)
	GetAccountByID(ctx context.Context, id int64) (models.Account, error)
	ChangePassword(ctx context.Context, id int64, currentSecret, newSecret string) error
}

// AccountService persists accounts and checks their secrets.
type AccountService struct {
	db   *sql.DB
	cost int
	// dummyHash is compared against when the handle is unknown so that an
	// unknown handle and a wrong secret take the same time to reject.
	dummyHash []byte
}

// NewAccountService creates a new AccountService hashing with the given bcrypt cost.
func NewAccountService(db *sql.DB, cost int) (*AccountService, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("planner-dummy-secret"), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	return &AccountService{db: db, cost: cost, dummyHash: dummy}, nil
}

// Register creates a new account, hashing its secret.
func (s *AccountService) Register(ctx context.Context, handle, secret string) (models.Account, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), s.cost)
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to hash secret: %w", err)
	}

	account := models.Account{Handle: handle, CreatedAt: time.Now().UTC()}
	err = database.WithTx(ctx, s.db, func(ctx context.Context, tx database.DBTX) error {
		// The unique index decides the race between two registrations of one handle.
		res, err := tx.ExecContext(ctx,
			`INSERT INTO accounts (handle, secret_hash, created_at) VALUES (?, ?, ?) ON CONFLICT(handle) DO NOTHING`,
			handle, string(hashed), account.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert account: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("insert account: %w", err)
		}
		if n == 0 {
			return models.ErrDuplicateHandle
		}
		account.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return models.Account{}, err
	}
	return account, nil
}

// Verify checks a handle/secret pair. Unknown handles and wrong secrets fail
// with the same error.
func (s *AccountService) Verify(ctx context.Context, handle, secret string) (models.Account, error) {
	account, err := s.getByHandle(ctx, handle)
	if errors.Is(err, models.ErrNotFound) {
		// Result ignored; the comparison only keeps the timing in line with a wrong secret.
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(secret))
		return models.Account{}, models.ErrInvalidCredentials
	}
	if err != nil {
		return models.Account{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.SecretHash), []byte(secret)); err != nil {
		return models.Account{}, models.ErrInvalidCredentials
	}

	account.SecretHash = ""
	return account, nil
}

// GetAccountByID retrieves a single account without its secret hash.
func (s *AccountService) GetAccountByID(ctx context.Context, id int64) (models.Account, error) {
	var account models.Account
	row := s.db.QueryRowContext(ctx, "SELECT id, handle, created_at FROM accounts WHERE id = ?", id)
	if err := row.Scan(&account.ID, &account.Handle, &account.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, models.ErrNotFound
		}
		return models.Account{}, fmt.Errorf("get account %d: %w", id, err)
	}
	return account, nil
}

// ChangePassword verifies the current secret, then stores a hash of the new one.
func (s *AccountService) ChangePassword(ctx context.Context, id int64, currentSecret, newSecret string) error {
	var current string
	err := s.db.QueryRowContext(ctx, "SELECT secret_hash FROM accounts WHERE id = ?", id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load secret hash: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(current), []byte(currentSecret)); err != nil {
		return models.ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newSecret), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash new secret: %w", err)
	}

	return database.WithTx(ctx, s.db, func(ctx context.Context, tx database.DBTX) error {
		// Conditioned on the old hash so two concurrent changes cannot both win.
		res, err := tx.ExecContext(ctx,
			"UPDATE accounts SET secret_hash = ? WHERE id = ? AND secret_hash = ?",
			string(hashed), id, current)
		if err != nil {
			return fmt.Errorf("update secret hash: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return models.ErrInvalidCredentials
		}
		return nil
	})
}

func (s *AccountService) getByHandle(ctx context.Context, handle string) (models.Account, error) {
	var account models.Account
	row := s.db.QueryRowContext(ctx,
		"SELECT id, handle, secret_hash, created_at FROM accounts WHERE handle = ?", handle)
	err := row.Scan(&account.ID, &account.Handle, &account.SecretHash, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, models.ErrNotFound
		}
		return models.Account{}, fmt.Errorf("get account by handle: %w", err)
	}
	return account, nil
}
