package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkrasnov-dev/baraholka/internal/common"
	"github.com/dkrasnov-dev/baraholka/internal/dbx"
	"github.com/dkrasnov-dev/baraholka/internal/server/repositories/repomanager"
)

// DeletionService removes an account together with every record that
// references it. The store has no cross-aggregate cascade, so the order
// lives here, encoded as a fixed rule list executed inside one transaction:
// either every rule's effect commits or none does.
//
// Deleting the account row also discards any outstanding reset token, since
// the token lives on that row and reset-token lookups resolve it through the
// account.
type DeletionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewDeletionService(db *sql.DB, m repomanager.RepositoryManager) *DeletionService {
	return &DeletionService{db: db, repomanager: m}
}

// cascadeRule is one step of the deletion pipeline: a dependent collection
// plus the predicate removing its records for the account. Adding a future
// dependent collection means appending a rule, not re-deriving the order.
type cascadeRule struct {
	name string
	run  func(ctx context.Context, tx dbx.DBTX, accountID int64) error
}

func (s *DeletionService) cascade() []cascadeRule {
	return []cascadeRule{
		{"messages", func(ctx context.Context, tx dbx.DBTX, id int64) error {
			_, err := s.repomanager.Messages(tx).DeleteByParticipant(ctx, id)
			return err
		}},
		{"authored comments", func(ctx context.Context, tx dbx.DBTX, id int64) error {
			_, err := s.repomanager.Comments(tx).DeleteByAuthor(ctx, id)
			return err
		}},
		{"comments on own listings", func(ctx context.Context, tx dbx.DBTX, id int64) error {
			_, err := s.repomanager.Comments(tx).DeleteByListingOwner(ctx, id)
			return err
		}},
		{"listings", func(ctx context.Context, tx dbx.DBTX, id int64) error {
			_, err := s.repomanager.Listings(tx).DeleteByOwner(ctx, id)
			return err
		}},
		{"ratings", s.deleteRatings},
		{"account", func(ctx context.Context, tx dbx.DBTX, id int64) error {
			return s.repomanager.Accounts(tx).Delete(ctx, id)
		}},
	}
}

// deleteRatings removes every rating the account participated in, then
// recomputes the cached reputation of each account the deleted one had
// rated, keeping the eager-cache invariant across the cascade.
func (s *DeletionService) deleteRatings(ctx context.Context, tx dbx.DBTX, accountID int64) error {
	ratingsTx := s.repomanager.Ratings(tx)

	recipients, err := ratingsTx.RecipientsRatedBy(ctx, accountID)
	if err != nil {
		return err
	}

	if _, err := ratingsTx.DeleteByParticipant(ctx, accountID); err != nil {
		return err
	}

	accountsTx := s.repomanager.Accounts(tx)
	for _, recipientID := range recipients {
		if recipientID == accountID {
			continue
		}
		score, err := ratingsTx.AverageForRecipient(ctx, recipientID)
		if err != nil {
			return err
		}
		if err := accountsTx.UpdateReputation(ctx, recipientID, score); err != nil {
			return err
		}
	}
	return nil
}

// Delete runs the whole cascade in one transaction. The row lock taken on
// the account first serializes concurrent deletions of the same account id.
// An unknown account yields ErrorNotFound; any mid-sequence failure rolls
// everything back and surfaces as ErrDeletionFailed with the cause attached,
// so the caller must not assume any step completed.
func (s *DeletionService) Delete(ctx context.Context, accountID int64) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Accounts(tx).LockByID(ctx, accountID); err != nil {
			return err
		}
		for _, rule := range s.cascade() {
			if err := rule.run(ctx, tx, accountID); err != nil {
				return fmt.Errorf("%s: %w", rule.name, err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("%w: %v", common.ErrDeletionFailed, err)
	}
	return nil
}
