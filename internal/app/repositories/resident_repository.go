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

var residentColumns = []string{
	"id", "name", "email", "phone", "cpf", "license_state", "license_number",
	"specialty_id", "preceptor_id", "university_id", "hospital_id",
	"entry_year", "category", "password_hash", "created_at",
}

// ResidentRepository handles resident account database operations
type ResidentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewResidentRepository creates a new ResidentRepository
func NewResidentRepository(db *pgxpool.Pool) *ResidentRepository {
	return &ResidentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanResident(row pgx.Row) (*models.Resident, error) {
	resident := &models.Resident{}
	err := row.Scan(
		&resident.ID, &resident.Name, &resident.Email, &resident.Phone,
		&resident.CPF, &resident.LicenseState, &resident.LicenseNumber,
		&resident.SpecialtyID, &resident.PreceptorID, &resident.UniversityID,
		&resident.HospitalID, &resident.EntryYear, &resident.Category,
		&resident.PasswordHash, &resident.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return resident, nil
}

// CreateResident inserts a resident account and returns its ID
func (r *ResidentRepository) CreateResident(ctx context.Context, resident *models.Resident) (int64, error) {
	sql, args, err := r.sb.Insert("residents").
		Columns("name", "email", "phone", "cpf", "license_state", "license_number",
			"specialty_id", "preceptor_id", "university_id", "hospital_id",
			"entry_year", "category", "password_hash").
		Values(resident.Name, resident.Email, resident.Phone, resident.CPF,
			resident.LicenseState, resident.LicenseNumber,
			resident.SpecialtyID, resident.PreceptorID, resident.UniversityID,
			resident.HospitalID, resident.EntryYear, resident.Category,
			resident.PasswordHash).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create resident SQL")
		return 0, fmt.Errorf("failed to build create resident query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "residents_email_key") {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		if dberrors.IsDuplicateConstraintError(err, "residents_cpf_key") {
			return 0, apperrors.ErrCPFAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing create resident query")
		return 0, fmt.Errorf("error creating resident: %w", err)
	}

	return id, nil
}

// GetResidentByID retrieves a resident by ID
func (r *ResidentRepository) GetResidentByID(ctx context.Context, id int64) (*models.Resident, error) {
	sql, args, err := r.sb.Select(residentColumns...).
		From("residents").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get resident by ID SQL")
		return nil, fmt.Errorf("failed to build get resident query: %w", err)
	}

	resident, err := scanResident(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResidentNotFound
		}
		logger.Error().Err(err).Int64("residentID", id).Msg("Error scanning resident row")
		return nil, fmt.Errorf("error getting resident by ID: %w", err)
	}

	return resident, nil
}

// GetResidentByEmail retrieves a resident by email
func (r *ResidentRepository) GetResidentByEmail(ctx context.Context, email string) (*models.Resident, error) {
	sql, args, err := r.sb.Select(residentColumns...).
		From("residents").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get resident by email SQL")
		return nil, fmt.Errorf("failed to build get resident by email query: %w", err)
	}

	resident, err := scanResident(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResidentNotFound
		}
		logger.Error().Err(err).Str("email", email).Msg("Error scanning resident row")
		return nil, fmt.Errorf("error getting resident by email: %w", err)
	}

	return resident, nil
}

// ListResidentsByPreceptor retrieves residents supervised by the given preceptor
func (r *ResidentRepository) ListResidentsByPreceptor(ctx context.Context, preceptorID int64) ([]*models.Resident, error) {
	sql, args, err := r.sb.Select(residentColumns...).
		From("residents").
		Where(squirrel.Eq{"preceptor_id": preceptorID}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list residents by preceptor SQL")
		return nil, fmt.Errorf("failed to build list residents query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list residents by preceptor query")
		return nil, fmt.Errorf("error querying residents: %w", err)
	}
	defer rows.Close()

	residents := []*models.Resident{}
	for rows.Next() {
		resident, err := scanResident(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning resident row during list")
			return nil, fmt.Errorf("error scanning resident row: %w", err)
		}
		residents = append(residents, resident)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating resident rows")
		return nil, fmt.Errorf("error iterating resident rows: %w", err)
	}

	return residents, nil
}
