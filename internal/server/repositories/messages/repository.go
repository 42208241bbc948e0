package messages

import (
	"context"

	"github.com/dkrasnov-dev/baraholka/internal/server/models"
)

// Repository stores direct messages between accounts.
type Repository interface {
	Create(ctx context.Context, message *models.Message) (*models.Message, error)

	// DeleteByParticipant removes every message where the account is sender
	// or recipient.
	DeleteByParticipant(ctx context.Context, accountID int64) (int64, error)
}
