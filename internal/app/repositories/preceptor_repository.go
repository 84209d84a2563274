package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medresidency/logbook/internal/app/models"
	"github.com/medresidency/logbook/internal/pkg/apperrors"
	"github.com/medresidency/logbook/internal/pkg/dberrors"
	"github.com/medresidency/logbook/internal/pkg/logger"
)

var preceptorColumns = []string{
	"id", "name", "email", "phone", "cpf", "license_state", "license_number",
	"university_id", "hospital_id", "specialty_id", "password_hash", "created_at",
}

// PreceptorRepository handles preceptor account database operations
type PreceptorRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPreceptorRepository creates a new PreceptorRepository
func NewPreceptorRepository(db *pgxpool.Pool) *PreceptorRepository {
	return &PreceptorRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanPreceptor(row pgx.Row) (*models.Preceptor, error) {
	preceptor := &models.Preceptor{}
	err := row.Scan(
		&preceptor.ID, &preceptor.Name, &preceptor.Email, &preceptor.Phone,
		&preceptor.CPF, &preceptor.LicenseState, &preceptor.LicenseNumber,
		&preceptor.UniversityID, &preceptor.HospitalID, &preceptor.SpecialtyID,
		&preceptor.PasswordHash, &preceptor.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return preceptor, nil
}

// CreatePreceptor inserts a preceptor account and returns its ID
func (r *PreceptorRepository) CreatePreceptor(ctx context.Context, preceptor *models.Preceptor) (int64, error) {
	sql, args, err := r.sb.Insert("preceptors").
		Columns("name", "email", "phone", "cpf", "license_state", "license_number",
			"university_id", "hospital_id", "specialty_id", "password_hash").
		Values(preceptor.Name, preceptor.Email, preceptor.Phone, preceptor.CPF,
			preceptor.LicenseState, preceptor.LicenseNumber,
			preceptor.UniversityID, preceptor.HospitalID, preceptor.SpecialtyID,
			preceptor.PasswordHash).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create preceptor SQL")
		return 0, fmt.Errorf("failed to build create preceptor query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "preceptors_email_key") {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		if dberrors.IsDuplicateConstraintError(err, "preceptors_cpf_key") {
			return 0, apperrors.ErrCPFAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing create preceptor query")
		return 0, fmt.Errorf("error creating preceptor: %w", err)
	}

	return id, nil
}

// GetPreceptorByID retrieves a preceptor by ID
func (r *PreceptorRepository) GetPreceptorByID(ctx context.Context, id int64) (*models.Preceptor, error) {
	sql, args, err := r.sb.Select(preceptorColumns...).
		From("preceptors").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get preceptor by ID SQL")
		return nil, fmt.Errorf("failed to build get preceptor query: %w", err)
	}

	preceptor, err := scanPreceptor(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPreceptorNotFound
		}
		logger.Error().Err(err).Int64("preceptorID", id).Msg("Error scanning preceptor row")
		return nil, fmt.Errorf("error getting preceptor by ID: %w", err)
	}

	return preceptor, nil
}

// GetPreceptorByEmail retrieves a preceptor by email
func (r *PreceptorRepository) GetPreceptorByEmail(ctx context.Context, email string) (*models.Preceptor, error) {
	sql, args, err := r.sb.Select(preceptorColumns...).
		From("preceptors").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get preceptor by email SQL")
		return nil, fmt.Errorf("failed to build get preceptor by email query: %w", err)
	}

	preceptor, err := scanPreceptor(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPreceptorNotFound
		}
		logger.Error().Err(err).Str("email", email).Msg("Error scanning preceptor row")
		return nil, fmt.Errorf("error getting preceptor by email: %w", err)
	}

	return preceptor, nil
}

// ListPreceptors retrieves all preceptors ordered by name
func (r *PreceptorRepository) ListPreceptors(ctx context.Context) ([]*models.Preceptor, error) {
	sql, args, err := r.sb.Select(preceptorColumns...).
		From("preceptors").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list preceptors SQL")
		return nil, fmt.Errorf("failed to build list preceptors query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list preceptors query")
		return nil, fmt.Errorf("error querying preceptors: %w", err)
	}
	defer rows.Close()

	preceptors := []*models.Preceptor{}
	for rows.Next() {
		preceptor, err := scanPreceptor(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning preceptor row during list")
			return nil, fmt.Errorf("error scanning preceptor row: %w", err)
		}
		preceptors = append(preceptors, preceptor)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating preceptor rows")
		return nil, fmt.Errorf("error iterating preceptor rows: %w", err)
	}

	return preceptors, nil
}
