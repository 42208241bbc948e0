// Package services contains server-side business logic. This file implements
// AccountService, which handles registration, login (minting session tokens),
// profile lookup, and the boosted-flag promotion.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dkrasnov-dev/baraholka/internal/common"
	"github.com/dkrasnov-dev/baraholka/internal/server/auth"
	"github.com/dkrasnov-dev/baraholka/internal/server/config"
	"github.com/dkrasnov-dev/baraholka/internal/server/models"
	"github.com/dkrasnov-dev/baraholka/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// AccountService provides the account lifecycle up to (but not including)
// deletion, which DeletionService owns.
type AccountService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	sessionTokenValidityDuration time.Duration
}

// NewAccountService constructs an AccountService using repositories and
// server config.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AccountService {
	return &AccountService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		sessionTokenValidityDuration: cfg.SessionTokenValidityDuration,
	}
}

// Register creates a new account with the USER role and a bcrypt credential
// hash. A taken handle yields common.ErrorAlreadyExists.
func (s *AccountService) Register(ctx context.Context, handle, email, phone, password string) (*models.Account, error) {
	if handle == "" || password == "" {
		return nil, common.ErrorValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	account := &models.Account{
		Handle:       handle,
		PasswordHash: string(hash),
		Email:        email,
		Phone:        phone,
		Role:         models.RoleUser,
	}

	repo := s.repomanager.Accounts(s.db)
	a, err := repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}
	return a, nil
}

// Login verifies the credentials and mints a session token. Both an unknown
// handle and a wrong password collapse into ErrorUnauthorized.
func (s *AccountService) Login(ctx context.Context, handle, password string) (string, error) {
	repo := s.repomanager.Accounts(s.db)

	account, err := repo.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(account.Handle, account.ID, account.Role, s.jwtSecret, s.sessionTokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// Get returns the account for a handle.
func (s *AccountService) Get(ctx context.Context, handle string) (*models.Account, error) {
	return s.repomanager.Accounts(s.db).GetByHandle(ctx, handle)
}

// Promote sets or clears the boosted flag. Boosted owners sort before
// everyone else in the listing ranking regardless of reputation.
func (s *AccountService) Promote(ctx context.Context, accountID int64, boosted bool) error {
	repo := s.repomanager.Accounts(s.db)
	if err := repo.UpdateBoosted(ctx, accountID, boosted); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error updating boosted flag: %w", err)
	}
	return nil
}
