package comments

import (
	"context"

	"github.com/dkrasnov-dev/baraholka/internal/server/models"
)

// Repository stores listing comments. The two delete operations mirror the
// two cascade rules that touch comments: by author, and by the owner of the
// commented listings.
type Repository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	DeleteByAuthor(ctx context.Context, authorID int64) (int64, error)
	DeleteByListingOwner(ctx context.Context, ownerID int64) (int64, error)
}
