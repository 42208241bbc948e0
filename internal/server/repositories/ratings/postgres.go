// Package ratings provides the PostgreSQL-backed repository for rating
// events and the aggregate query backing reputation recomputation.
package ratings

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkrasnov-dev/baraholka/internal/common"
	"github.com/dkrasnov-dev/baraholka/internal/dbx"
	"github.com/dkrasnov-dev/baraholka/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

// PostgresRepository implements rating storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rating *models.Rating) (*models.Rating, error) {
	query :=
		`INSERT INTO ratings (sender_id, recipient_id, value)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		rating.SenderID, rating.RecipientID, rating.Value).
		Scan(&rating.ID, &rating.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			// the race loser: another submission for the same pair got in
			// between the existence check and this insert
			return nil, common.ErrDuplicateRating
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rating, nil
}

func (r *PostgresRepository) ExistsForPair(ctx context.Context, senderID, recipientID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM ratings WHERE sender_id = $1 AND recipient_id = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, senderID, recipientID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) AverageForRecipient(ctx context.Context, recipientID int64) (float64, error) {
	query := `SELECT COALESCE(AVG(value), 0) FROM ratings WHERE recipient_id = $1`

	var avg float64
	if err := r.db.QueryRowContext(ctx, query, recipientID).Scan(&avg); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return avg, nil
}

func (r *PostgresRepository) RecipientsRatedBy(ctx context.Context, senderID int64) ([]int64, error) {
	query := `SELECT recipient_id FROM ratings WHERE sender_id = $1`

	rows, err := r.db.QueryContext(ctx, query, senderID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var recipients []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		recipients = append(recipients, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return recipients, nil
}

func (r *PostgresRepository) DeleteByParticipant(ctx context.Context, accountID int64) (int64, error) {
	query := `DELETE FROM ratings WHERE sender_id = $1 OR recipient_id = $1`

	res, err := r.db.ExecContext(ctx, query, accountID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
