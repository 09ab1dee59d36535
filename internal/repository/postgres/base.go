package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/salon-api/internal/model"
	apperrors "github.com/jwalitptl/salon-api/pkg/errors"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"

	confirmedSlotConstraint = "appointments_confirmed_slot_key"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db *sqlx.DB
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *sqlx.DB) BaseRepository {
	return BaseRepository{db: db}
}

// GetDB returns the database instance
func (r *BaseRepository) GetDB() *sqlx.DB {
	return r.db
}

// WithTx executes a function within a transaction
func (r *BaseRepository) WithTx(ctx context.Context, opts *sql.TxOptions, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// translate maps driver errors onto application errors. op is the verb used
// in wrapped messages ("create", "delete", ...).
func translate(err error, kind model.EntityKind, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound(string(kind), err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			if pqErr.Constraint == confirmedSlotConstraint {
				return apperrors.Conflict(model.SlotConflictMessage, err)
			}
		case pqForeignKeyViolation:
			if op == "delete" {
				return apperrors.NewDeleteBlocked(string(kind), err)
			}
			return apperrors.BadRequest("referenced customer, service or expert does not exist", err)
		case pqCheckViolation:
			return apperrors.BadRequest(pqErr.Message, err)
		}
	}

	return fmt.Errorf("failed to %s %s: %w", op, kind, err)
}

func rowsAffected(result sql.Result, kind model.EntityKind, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return translate(sql.ErrNoRows, kind, op)
	}
	return nil
}
