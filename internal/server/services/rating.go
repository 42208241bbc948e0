package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkrasnov-dev/baraholka/internal/common"
	"github.com/dkrasnov-dev/baraholka/internal/dbx"
	"github.com/dkrasnov-dev/baraholka/internal/server/models"
	"github.com/dkrasnov-dev/baraholka/internal/server/repositories/repomanager"
)

// RatingService is the single writer of rating events. Every write through
// it leaves the recipient's cached reputation equal to the mean of their
// rating events at that instant; no other component may touch the ratings
// table, or the cached score silently diverges.
type RatingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewRatingService(db *sql.DB, m repomanager.RepositoryManager) *RatingService {
	return &RatingService{db: db, repomanager: m}
}

// Submit records one account's evaluation of another (value 1..5). A sender
// may rate a given recipient only once, ever; there is no update or
// correction path. The existence check gives the friendly error; the unique
// index on the ordered pair closes the check-then-act race, and its
// violation surfaces as the same ErrDuplicateRating.
//
// Insert and recompute run in one transaction, so the recipient's cached
// reputation never drifts from the event set.
func (s *RatingService) Submit(ctx context.Context, senderID, recipientID int64, value int) (*models.Rating, error) {
	if value < 1 || value > 5 {
		return nil, common.ErrorValidation
	}
	if senderID == recipientID {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Ratings(s.db)
	exists, err := repo.ExistsForPair(ctx, senderID, recipientID)
	if err != nil {
		return nil, fmt.Errorf("error checking rating pair: %w", err)
	}
	if exists {
		return nil, common.ErrDuplicateRating
	}

	rating := &models.Rating{SenderID: senderID, RecipientID: recipientID, Value: value}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		ratingsTx := s.repomanager.Ratings(tx)
		if _, err := ratingsTx.Create(ctx, rating); err != nil {
			return err
		}
		score, err := ratingsTx.AverageForRecipient(ctx, recipientID)
		if err != nil {
			return err
		}
		return s.repomanager.Accounts(tx).UpdateReputation(ctx, recipientID, score)
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateRating) {
			return nil, common.ErrDuplicateRating
		}
		return nil, fmt.Errorf("error submitting rating: %w", err)
	}
	return rating, nil
}

// Recompute recalculates and persists the account's reputation from its
// rating events: the mean of received values, exactly 0.0 when none exist.
func (s *RatingService) Recompute(ctx context.Context, accountID int64) (float64, error) {
	repo := s.repomanager.Ratings(s.db)

	score, err := repo.AverageForRecipient(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("error recomputing reputation: %w", err)
	}
	if err := s.repomanager.Accounts(s.db).UpdateReputation(ctx, accountID, score); err != nil {
		return 0, fmt.Errorf("error persisting reputation: %w", err)
	}
	return score, nil
}
