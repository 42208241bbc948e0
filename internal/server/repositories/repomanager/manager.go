package repomanager

import (
	"context"
	"database/sql"

	"github.com/dkrasnov-dev/baraholka/internal/dbx"
	"github.com/dkrasnov-dev/baraholka/internal/server/repositories/accounts"
	"github.com/dkrasnov-dev/baraholka/internal/server/repositories/comments"
	"github.com/dkrasnov-dev/baraholka/internal/server/repositories/listings"
	"github.com/dkrasnov-dev/baraholka/internal/server/repositories/messages"
	"github.com/dkrasnov-dev/baraholka/internal/server/repositories/ratings"
)

// RepositoryManager hands out repositories bound to either the root *sql.DB
// or a transaction handle, so a service can run several repositories inside
// the same transaction (the deletion cascade relies on this).
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Listings(db dbx.DBTX) listings.Repository
	Messages(db dbx.DBTX) messages.Repository
	Comments(db dbx.DBTX) comments.Repository
	Ratings(db dbx.DBTX) ratings.Repository
}
