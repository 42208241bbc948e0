// Package messages provides the PostgreSQL-backed repository for direct
// messages between accounts.
package messages

import (
	"context"
	"fmt"

	"github.com/dkrasnov-dev/baraholka/internal/dbx"
	"github.com/dkrasnov-dev/baraholka/internal/server/models"
)

// PostgresRepository implements message storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, message *models.Message) (*models.Message, error) {
	query :=
		`INSERT INTO messages (sender_id, recipient_id, body)
		 VALUES ($1, $2, $3)
		 RETURNING id, sent_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		message.SenderID, message.RecipientID, message.Body).
		Scan(&message.ID, &message.SentAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return message, nil
}

func (r *PostgresRepository) DeleteByParticipant(ctx context.Context, accountID int64) (int64, error) {
	query := `DELETE FROM messages WHERE sender_id = $1 OR recipient_id = $1`

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
