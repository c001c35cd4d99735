package repository

import (
	"context"
	"fmt"

	"yamdb/pkg/database"

	"go.uber.org/zap"
)

// Transactor runs fn with repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	InTx(ctx context.Context, fn func(repos *Repository) error) error
}

type pgxTransactor struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTransactor(db database.PgxIface, log *zap.Logger) Transactor {
	return &pgxTransactor{db: db, log: log}
}

func (t *pgxTransactor) InTx(ctx context.Context, fn func(repos *Repository) error) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		t.log.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(newRepositories(tx, t.log)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		t.log.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", translateError(err))
	}
	return nil
}
