package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dkrasnov-dev/baraholka/internal/common"
	"github.com/dkrasnov-dev/baraholka/internal/dbx"
	"github.com/dkrasnov-dev/baraholka/internal/server/config"
	"github.com/dkrasnov-dev/baraholka/internal/server/mail"
	"github.com/dkrasnov-dev/baraholka/internal/server/models"
	"github.com/dkrasnov-dev/baraholka/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// resetTokenBytes is the entropy of the opaque reset token: 16 random bytes
// rendered as 32 hex characters.
const resetTokenBytes = 16

// ResetTokenService owns the password-recovery token lifecycle:
//
//	NoToken -> Issued -> {Consumed, Expired} -> NoToken
//
// At most one token is outstanding per account; Request overwrites any
// previous one. An expired token is not cleared by the failed Validate,
// only by the next Request or a successful Consume.
type ResetTokenService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	mailer      mail.Mailer
	validity    time.Duration

	now func() time.Time
}

// NewResetTokenService constructs a ResetTokenService. The mailer is the
// delivery collaborator for the reset link.
func NewResetTokenService(db *sql.DB, m repomanager.RepositoryManager, mailer mail.Mailer, cfg *config.Config) *ResetTokenService {
	return &ResetTokenService{
		db:          db,
		repomanager: m,
		mailer:      mailer,
		validity:    cfg.ResetTokenValidityDuration,
		now:         time.Now,
	}
}

// Request issues a fresh reset token for the account behind the handle and
// asks the mailer to deliver it. The token is durably stored before delivery
// is attempted; a delivery failure surfaces as ErrEmailDeliveryFailed and
// does not retract the token, so the caller can retry delivery.
func (s *ResetTokenService) Request(ctx context.Context, handle string) error {
	repo := s.repomanager.Accounts(s.db)

	account, err := repo.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	token, err := common.MakeRandHexString(resetTokenBytes)
	if err != nil {
		return common.ErrorInternal
	}

	expires := s.now().Add(s.validity)
	if err := repo.SetResetToken(ctx, account.ID, token, expires); err != nil {
		return fmt.Errorf("error issuing reset token: %w", err)
	}

	if err := s.mailer.SendPasswordReset(account.Email, token); err != nil {
		return fmt.Errorf("%w: %v", common.ErrEmailDeliveryFailed, err)
	}
	return nil
}

// Validate resolves the account holding the token. An unknown token yields
// ErrNoSuchToken; a known but stale one yields ErrTokenExpired. The stale
// token stays on the row.
func (s *ResetTokenService) Validate(ctx context.Context, token string) (*models.Account, error) {
	if token == "" {
		return nil, common.ErrNoSuchToken
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrNoSuchToken
		}
		return nil, fmt.Errorf("error searching reset token: %w", err)
	}

	if account.ResetTokenExpires == nil || !s.now().Before(*account.ResetTokenExpires) {
		return nil, common.ErrTokenExpired
	}
	return account, nil
}

// Consume revalidates the token and then, in one transaction, replaces the
// credential hash and clears both token fields. Any failure leaves the token
// fields untouched, so a transient store error does not burn the token.
func (s *ResetTokenService) Consume(ctx context.Context, token, newPassword string) error {
	account, err := s.Validate(ctx, token)
	if err != nil {
		return err
	}

	if newPassword == "" {
		return common.ErrorValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return common.ErrorInternal
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.Accounts(tx)
		return repoTx.UpdatePasswordAndClearResetToken(ctx, account.ID, string(hash))
	}); err != nil {
		return fmt.Errorf("error consuming reset token: %w", err)
	}
	return nil
}
