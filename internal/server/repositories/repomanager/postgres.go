// Package repomanager wires the per-entity PostgreSQL repositories together
// and runs the embedded goose migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dkrasnov-dev/baraholka/internal/dbx"
	"github.com/dkrasnov-dev/baraholka/internal/server/migrations"
	"github.com/dkrasnov-dev/baraholka/internal/server/repositories/accounts"
	"github.com/dkrasnov-dev/baraholka/internal/server/repositories/comments"
	"github.com/dkrasnov-dev/baraholka/internal/server/repositories/listings"
	"github.com/dkrasnov-dev/baraholka/internal/server/repositories/messages"
	"github.com/dkrasnov-dev/baraholka/internal/server/repositories/ratings"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct {
}

func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Listings(db dbx.DBTX) listings.Repository {
	return listings.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Messages(db dbx.DBTX) messages.Repository {
	return messages.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Comments(db dbx.DBTX) comments.Repository {
	return comments.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Ratings(db dbx.DBTX) ratings.Repository {
	return ratings.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}
