package accounts

import (
	"context"
	"time"

	"github.com/dkrasnov-dev/baraholka/internal/server/models"
)

// Repository is the single point of access to account rows. Reset-token
// fields are mutated only through SetResetToken and
// UpdatePasswordAndClearResetToken; reputation only through
// UpdateReputation.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	GetByHandle(ctx context.Context, handle string) (*models.Account, error)
	GetByResetToken(ctx context.Context, token string) (*models.Account, error)

	// LockByID takes a row lock on the account, serializing concurrent
	// deletion cascades for the same account id.
	LockByID(ctx context.Context, id int64) error

	UpdateReputation(ctx context.Context, id int64, score float64) error
	UpdateBoosted(ctx context.Context, id int64, boosted bool) error
	SetResetToken(ctx context.Context, id int64, token string, expires time.Time) error
	UpdatePasswordAndClearResetToken(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}
