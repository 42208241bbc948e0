package ratings

import (
	"context"

	"github.com/dkrasnov-dev/baraholka/internal/server/models"
)

// Repository stores immutable rating events. Rows are only ever inserted
// (through the rating service) or bulk-deleted by the account deletion
// cascade; there is no update path.
type Repository interface {
	Create(ctx context.Context, rating *models.Rating) (*models.Rating, error)

	// ExistsForPair reports whether the ordered (sender, recipient) pair has
	// already rated. This is the friendly-error fast path; the unique index
	// on the pair is the actual race-safety mechanism.
	ExistsForPair(ctx context.Context, senderID, recipientID int64) (bool, error)

	// AverageForRecipient is the mean of all rating values received by the
	// account, exactly 0.0 when none exist.
	AverageForRecipient(ctx context.Context, recipientID int64) (float64, error)

	// RecipientsRatedBy lists the accounts the given sender has rated.
	RecipientsRatedBy(ctx context.Context, senderID int64) ([]int64, error)

	// DeleteByParticipant removes every rating where the account is sender
	// or recipient.
	DeleteByParticipant(ctx context.Context, accountID int64) (int64, error)
}
