package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkrasnov-dev/baraholka/internal/common"
	"github.com/dkrasnov-dev/baraholka/internal/server/models"
	"github.com/dkrasnov-dev/baraholka/internal/server/repositories/repomanager"
)

// ListingService covers the slice of the listing lifecycle the trust core
// touches: creation, the ranked display query, and photo attachment.
type ListingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewListingService(db *sql.DB, m repomanager.RepositoryManager) *ListingService {
	return &ListingService{db: db, repomanager: m}
}

func (s *ListingService) Create(ctx context.Context, ownerID int64, title, description string, priceCents int64) (*models.Listing, error) {
	if title == "" {
		return nil, common.ErrorValidation
	}

	listing := &models.Listing{OwnerID: ownerID, Title: title, Description: description, PriceCents: priceCents}
	l, err := s.repomanager.Listings(s.db).Create(ctx, listing)
	if err != nil {
		return nil, fmt.Errorf("error creating listing: %w", err)
	}
	return l, nil
}

// ListRanked returns all listings ordered for display: boosted owners
// first, then by owner reputation descending (see SortListings).
func (s *ListingService) ListRanked(ctx context.Context) ([]*models.RankedListing, error) {
	listings, err := s.repomanager.Listings(s.db).ListWithOwners(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing: %w", err)
	}
	SortListings(listings)
	return listings, nil
}

// AttachPhoto records the storage key of an uploaded photo on a listing the
// account owns.
func (s *ListingService) AttachPhoto(ctx context.Context, listingID, ownerID int64, key string) error {
	if key == "" {
		return common.ErrorValidation
	}
	return s.repomanager.Listings(s.db).SetPhotoKey(ctx, listingID, ownerID, key)
}

// AddComment stores a comment under a listing. The listing must exist; its
// owner may comment on it like anyone else.
func (s *ListingService) AddComment(ctx context.Context, listingID, authorID int64, body string) (*models.Comment, error) {
	if body == "" {
		return nil, common.ErrorValidation
	}

	if _, err := s.repomanager.Listings(s.db).GetByID(ctx, listingID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error resolving listing: %w", err)
	}

	comment := &models.Comment{AuthorID: authorID, ListingID: listingID, Body: body}
	c, err := s.repomanager.Comments(s.db).Create(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("error creating comment: %w", err)
	}
	return c, nil
}
