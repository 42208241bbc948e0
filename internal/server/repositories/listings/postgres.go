// Package listings provides the PostgreSQL-backed repository for
// advertisements, including the owner-joined query the ranking reads.
package listings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkrasnov-dev/baraholka/internal/common"
	"github.com/dkrasnov-dev/baraholka/internal/dbx"
	"github.com/dkrasnov-dev/baraholka/internal/server/models"
)

// PostgresRepository implements listing storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	query :=
		`INSERT INTO listings (owner_id, title, description, price_cents)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		listing.OwnerID, listing.Title, listing.Description, listing.PriceCents).
		Scan(&listing.ID, &listing.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return listing, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Listing, error) {
	query :=
		`SELECT id, owner_id, title, description, price_cents, photo_key, created_at
		 FROM listings WHERE id = $1`

	l := &models.Listing{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&l.ID, &l.OwnerID, &l.Title, &l.Description, &l.PriceCents, &l.PhotoKey, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return l, nil
}

func (r *PostgresRepository) ListWithOwners(ctx context.Context) ([]*models.RankedListing, error) {
	query :=
		`SELECT l.id, l.owner_id, l.title, l.description, l.price_cents, l.photo_key, l.created_at,
		        a.boosted, a.reputation
		 FROM listings l
		 JOIN accounts a ON a.id = l.owner_id
		 ORDER BY l.id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.RankedListing
	for rows.Next() {
		rl := &models.RankedListing{}
		err := rows.Scan(&rl.ID, &rl.OwnerID, &rl.Title, &rl.Description, &rl.PriceCents,
			&rl.PhotoKey, &rl.CreatedAt, &rl.OwnerBoosted, &rl.OwnerReputation)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, rl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

// SetPhotoKey records the storage key of an uploaded photo. The owner id is
// part of the predicate so an account cannot attach photos to listings it
// does not own.
func (r *PostgresRepository) SetPhotoKey(ctx context.Context, id int64, ownerID int64, key string) error {
	query := `UPDATE listings SET photo_key = $3 WHERE id = $1 AND owner_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, ownerID, key)
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

func (r *PostgresRepository) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	query := `DELETE FROM listings WHERE owner_id = $1`

	res, err := r.db.ExecContext(ctx, query, ownerID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
