package listings

import (
	"context"

	"github.com/dkrasnov-dev/baraholka/internal/server/models"
)

// Repository stores listings. ListWithOwners joins in the owner attributes
// the ranking comparator needs; DeleteByOwner serves the account deletion
// cascade.
type Repository interface {
	Create(ctx context.Context, listing *models.Listing) (*models.Listing, error)
	GetByID(ctx context.Context, id int64) (*models.Listing, error)
	ListWithOwners(ctx context.Context) ([]*models.RankedListing, error)
	SetPhotoKey(ctx context.Context, id int64, ownerID int64, key string) error
	DeleteByOwner(ctx context.Context, ownerID int64) (int64, error)
}
