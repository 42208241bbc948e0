// Package accounts provides the PostgreSQL-backed repository for account
// rows: identity, credential hash, reputation, boosted flag, and the
// reset-token fields.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dkrasnov-dev/baraholka/internal/common"
	"github.com/dkrasnov-dev/baraholka/internal/dbx"
	"github.com/dkrasnov-dev/baraholka/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

// PostgresRepository implements account storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = `id, handle, password_hash, email, phone, role, reputation, boosted, reset_token, reset_token_expires, created_at`

func (r *PostgresRepository) scanAccount(row *sql.Row) (*models.Account, error) {
	a := &models.Account{}
	err := row.Scan(&a.ID, &a.Handle, &a.PasswordHash, &a.Email, &a.Phone, &a.Role,
		&a.Reputation, &a.Boosted, &a.ResetToken, &a.ResetTokenExpires, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (handle, password_hash, email, phone, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.Handle, account.PasswordHash, account.Email, account.Phone, account.Role).
		Scan(&account.ID, &account.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByHandle(ctx context.Context, handle string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE handle = $1`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, handle))
}

func (r *PostgresRepository) GetByResetToken(ctx context.Context, token string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE reset_token = $1`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, token))
}

func (r *PostgresRepository) LockByID(ctx context.Context, id int64) error {
	query := `SELECT id FROM accounts WHERE id = $1 FOR UPDATE`

	var got int64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&got)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateReputation(ctx context.Context, id int64, score float64) error {
	query := `UPDATE accounts SET reputation = $2 WHERE id = $1`
	return r.execExpectingOneRow(ctx, query, id, score)
}

func (r *PostgresRepository) UpdateBoosted(ctx context.Context, id int64, boosted bool) error {
	query := `UPDATE accounts SET boosted = $2 WHERE id = $1`
	return r.execExpectingOneRow(ctx, query, id, boosted)
}

func (r *PostgresRepository) SetResetToken(ctx context.Context, id int64, token string, expires time.Time) error {
	query := `UPDATE accounts SET reset_token = $2, reset_token_expires = $3 WHERE id = $1`
	return r.execExpectingOneRow(ctx, query, id, token, expires)
}

func (r *PostgresRepository) UpdatePasswordAndClearResetToken(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE accounts SET password_hash = $2, reset_token = NULL, reset_token_expires = NULL WHERE id = $1`
	return r.execExpectingOneRow(ctx, query, id, passwordHash)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM accounts WHERE id = $1`
	return r.execExpectingOneRow(ctx, query, id)
}

func (r *PostgresRepository) execExpectingOneRow(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
