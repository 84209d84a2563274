package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medresidency/logbook/internal/pkg/logger"
)

// AccountRepository answers questions spanning both account tables.
type AccountRepository struct {
	db *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

// EmailExists checks whether an email is registered in either account table
func (r *AccountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.existsInEitherTable(ctx, "email", email)
}

// CPFExists checks whether a CPF is registered in either account table
func (r *AccountRepository) CPFExists(ctx context.Context, cpf string) (bool, error) {
	return r.existsInEitherTable(ctx, "cpf", cpf)
}

func (r *AccountRepository) existsInEitherTable(ctx context.Context, column, value string) (bool, error) {
	// Uniqueness spans both account tables since login searches both.
	sql := fmt.Sprintf(
		"SELECT EXISTS (SELECT 1 FROM residents WHERE %s = $1) OR EXISTS (SELECT 1 FROM preceptors WHERE %s = $1)",
		column, column,
	)

	var exists bool
	err := r.db.QueryRow(ctx, sql, value).Scan(&exists)
	if err != nil {
		logger.Error().Err(err).Str("column", column).Msg("Error checking account existence")
		return false, fmt.Errorf("error checking account existence: %w", err)
	}

	return exists, nil
}
