package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dkrasnov-dev/baraholka/internal/common"
	"github.com/dkrasnov-dev/baraholka/internal/dbx"
	"github.com/dkrasnov-dev/baraholka/internal/server/config"
	"github.com/dkrasnov-dev/baraholka/internal/server/models"
	accountsrepo "github.com/dkrasnov-dev/baraholka/internal/server/repositories/accounts"
	commentsrepo "github.com/dkrasnov-dev/baraholka/internal/server/repositories/comments"
	listingsrepo "github.com/dkrasnov-dev/baraholka/internal/server/repositories/listings"
	messagesrepo "github.com/dkrasnov-dev/baraholka/internal/server/repositories/messages"
	ratingsrepo "github.com/dkrasnov-dev/baraholka/internal/server/repositories/ratings"
)

// --- shared helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "k"
	return cfg
}

// callLog records the order repositories are hit in, so cascade-order tests
// can assert on it.
type callLog struct{ calls []string }

func (l *callLog) add(name string) {
	if l != nil {
		l.calls = append(l.calls, name)
	}
}

// --- fake repositories ---

type fakeAccountsRepo struct {
	log *callLog

	accounts map[string]*models.Account // by handle
	byToken  map[string]*models.Account // by reset token

	createOut *models.Account
	createErr error

	lockErr        error
	reputationErr  error
	boostedErr     error
	setTokenErr    error
	updatePassErr  error
	deleteAccErr   error
	getByTokenErr  error
	getByHandleErr error

	reputations map[int64]float64
	boosted     map[int64]bool

	setTokenValue   string
	setTokenExpires time.Time

	newPasswordHash string
	tokenCleared    bool
	deletedID       int64
}

func newFakeAccountsRepo() *fakeAccountsRepo {
	return &fakeAccountsRepo{
		accounts:    map[string]*models.Account{},
		byToken:     map[string]*models.Account{},
		reputations: map[int64]float64{},
		boosted:     map[int64]bool{},
	}
}

func (f *fakeAccountsRepo) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, taken := f.accounts[a.Handle]; taken {
		return nil, common.ErrorAlreadyExists
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	a.ID = int64(len(f.accounts) + 1)
	f.accounts[a.Handle] = a
	return a, nil
}

func (f *fakeAccountsRepo) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	for _, a := range f.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccountsRepo) GetByHandle(ctx context.Context, handle string) (*models.Account, error) {
	if f.getByHandleErr != nil {
		return nil, f.getByHandleErr
	}
	a, ok := f.accounts[handle]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return a, nil
}

func (f *fakeAccountsRepo) GetByResetToken(ctx context.Context, token string) (*models.Account, error) {
	if f.getByTokenErr != nil {
		return nil, f.getByTokenErr
	}
	a, ok := f.byToken[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return a, nil
}

func (f *fakeAccountsRepo) LockByID(ctx context.Context, id int64) error {
	f.log.add("lock account")
	return f.lockErr
}

func (f *fakeAccountsRepo) UpdateReputation(ctx context.Context, id int64, score float64) error {
	if f.reputationErr != nil {
		return f.reputationErr
	}
	f.log.add("update reputation")
	f.reputations[id] = score
	return nil
}

func (f *fakeAccountsRepo) UpdateBoosted(ctx context.Context, id int64, boosted bool) error {
	if f.boostedErr != nil {
		return f.boostedErr
	}
	f.boosted[id] = boosted
	return nil
}

func (f *fakeAccountsRepo) SetResetToken(ctx context.Context, id int64, token string, expires time.Time) error {
	if f.setTokenErr != nil {
		return f.setTokenErr
	}
	f.setTokenValue = token
	f.setTokenExpires = expires
	for _, a := range f.accounts {
		if a.ID == id {
			tok := token
			exp := expires
			a.ResetToken = &tok
			a.ResetTokenExpires = &exp
			f.byToken = map[string]*models.Account{token: a}
		}
	}
	return nil
}

func (f *fakeAccountsRepo) UpdatePasswordAndClearResetToken(ctx context.Context, id int64, passwordHash string) error {
	if f.updatePassErr != nil {
		return f.updatePassErr
	}
	f.newPasswordHash = passwordHash
	f.tokenCleared = true
	for tok, a := range f.byToken {
		if a.ID == id {
			a.PasswordHash = passwordHash
			a.ResetToken = nil
			a.ResetTokenExpires = nil
			delete(f.byToken, tok)
		}
	}
	return nil
}

func (f *fakeAccountsRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteAccErr != nil {
		return f.deleteAccErr
	}
	f.log.add("delete account")
	f.deletedID = id
	return nil
}

type fakeRatingsRepo struct {
	log *callLog

	exists    bool
	existsErr error

	createErr error
	created   *models.Rating

	averages map[int64]float64
	avgErr   error

	recipients    []int64
	recipientsErr error

	deleteErr          error
	deletedParticipant int64
}

func (f *fakeRatingsRepo) Create(ctx context.Context, r *models.Rating) (*models.Rating, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	r.ID = 1
	f.created = r
	return r, nil
}

func (f *fakeRatingsRepo) ExistsForPair(ctx context.Context, senderID, recipientID int64) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeRatingsRepo) AverageForRecipient(ctx context.Context, recipientID int64) (float64, error) {
	if f.avgErr != nil {
		return 0, f.avgErr
	}
	return f.averages[recipientID], nil
}

func (f *fakeRatingsRepo) RecipientsRatedBy(ctx context.Context, senderID int64) ([]int64, error) {
	return f.recipients, f.recipientsErr
}

func (f *fakeRatingsRepo) DeleteByParticipant(ctx context.Context, accountID int64) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.log.add("delete ratings")
	f.deletedParticipant = accountID
	return 2, nil
}

type fakeListingsRepo struct {
	log *callLog

	createErr error
	getOut    *models.Listing
	listOut   []*models.RankedListing
	listErr   error

	photoKey  string
	photoErr  error
	deleteErr error
}

func (f *fakeListingsRepo) Create(ctx context.Context, l *models.Listing) (*models.Listing, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	l.ID = 1
	return l, nil
}

func (f *fakeListingsRepo) GetByID(ctx context.Context, id int64) (*models.Listing, error) {
	if f.getOut != nil && f.getOut.ID == id {
		return f.getOut, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeListingsRepo) ListWithOwners(ctx context.Context) ([]*models.RankedListing, error) {
	return f.listOut, f.listErr
}

func (f *fakeListingsRepo) SetPhotoKey(ctx context.Context, id int64, ownerID int64, key string) error {
	if f.photoErr != nil {
		return f.photoErr
	}
	f.photoKey = key
	return nil
}

func (f *fakeListingsRepo) DeleteByOwner(ctx context.Context, ownerID int64) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.log.add("delete listings")
	return 1, nil
}

type fakeMessagesRepo struct {
	log       *callLog
	deleteErr error
}

func (f *fakeMessagesRepo) Create(ctx context.Context, m *models.Message) (*models.Message, error) {
	m.ID = 1
	return m, nil
}

func (f *fakeMessagesRepo) DeleteByParticipant(ctx context.Context, accountID int64) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.log.add("delete messages")
	return 1, nil
}

type fakeCommentsRepo struct {
	log *callLog

	deleteByAuthorErr error
	deleteByOwnerErr  error
}

func (f *fakeCommentsRepo) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	c.ID = 1
	return c, nil
}

func (f *fakeCommentsRepo) DeleteByAuthor(ctx context.Context, authorID int64) (int64, error) {
	if f.deleteByAuthorErr != nil {
		return 0, f.deleteByAuthorErr
	}
	f.log.add("delete authored comments")
	return 1, nil
}

func (f *fakeCommentsRepo) DeleteByListingOwner(ctx context.Context, ownerID int64) (int64, error) {
	if f.deleteByOwnerErr != nil {
		return 0, f.deleteByOwnerErr
	}
	f.log.add("delete comments on own listings")
	return 1, nil
}

// --- fake repository manager ---

type fakeRepoManager struct {
	a *fakeAccountsRepo
	r *fakeRatingsRepo
	l *fakeListingsRepo
	m *fakeMessagesRepo
	c *fakeCommentsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	log := &callLog{}
	return &fakeRepoManager{
		a: func() *fakeAccountsRepo { f := newFakeAccountsRepo(); f.log = log; return f }(),
		r: &fakeRatingsRepo{log: log, averages: map[int64]float64{}},
		l: &fakeListingsRepo{log: log},
		m: &fakeMessagesRepo{log: log},
		c: &fakeCommentsRepo{log: log},
	}
}

func (m *fakeRepoManager) log() *callLog { return m.a.log }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error       { return nil }
func (m *fakeRepoManager) Accounts(db dbx.DBTX) accountsrepo.Repository       { return m.a }
func (m *fakeRepoManager) Listings(db dbx.DBTX) listingsrepo.Repository       { return m.l }
func (m *fakeRepoManager) Messages(db dbx.DBTX) messagesrepo.Repository       { return m.m }
func (m *fakeRepoManager) Comments(db dbx.DBTX) commentsrepo.Repository       { return m.c }
func (m *fakeRepoManager) Ratings(db dbx.DBTX) ratingsrepo.Repository         { return m.r }

// fakeMailer records the last delivery and optionally fails.
type fakeMailer struct {
	to    string
	token string
	err   error
}

func (f *fakeMailer) SendPasswordReset(to string, token string) error {
	if f.err != nil {
		return f.err
	}
	f.to = to
	f.token = token
	return nil
}
