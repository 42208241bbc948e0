// Package comments provides the PostgreSQL-backed repository for listing
// comments.
package comments

import (
	"context"
	"fmt"

	"github.com/dkrasnov-dev/baraholka/internal/dbx"
	"github.com/dkrasnov-dev/baraholka/internal/server/models"
)

// PostgresRepository implements comment storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	query :=
		`INSERT INTO comments (author_id, listing_id, body)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		comment.AuthorID, comment.ListingID, comment.Body).
		Scan(&comment.ID, &comment.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return comment, nil
}

func (r *PostgresRepository) DeleteByAuthor(ctx context.Context, authorID int64) (int64, error) {
	query := `DELETE FROM comments WHERE author_id = $1`
	return r.execCounting(ctx, query, authorID)
}

// DeleteByListingOwner removes comments left by anyone on listings owned by
// the account. Must run before the listings themselves are deleted.
func (r *PostgresRepository) DeleteByListingOwner(ctx context.Context, ownerID int64) (int64, error) {
	query := `DELETE FROM comments WHERE listing_id IN (SELECT id FROM listings WHERE owner_id = $1)`
	return r.execCounting(ctx, query, ownerID)
}

func (r *PostgresRepository) execCounting(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
