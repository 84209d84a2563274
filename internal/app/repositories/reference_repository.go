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

// ReferenceRepository handles the pre-seeded reference tables
type ReferenceRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewReferenceRepository creates a new ReferenceRepository
func NewReferenceRepository(db *pgxpool.Pool) *ReferenceRepository {
	return &ReferenceRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListUniversities retrieves all universities ordered by name
func (r *ReferenceRepository) ListUniversities(ctx context.Context) ([]*models.University, error) {
	sql, args, err := r.sb.Select("id", "name", "state").
		From("universities").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list universities SQL")
		return nil, fmt.Errorf("failed to build list universities query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list universities query")
		return nil, fmt.Errorf("error querying universities: %w", err)
	}
	defer rows.Close()

	universities := []*models.University{}
	for rows.Next() {
		university := &models.University{}
		if err := rows.Scan(&university.ID, &university.Name, &university.State); err != nil {
			logger.Error().Err(err).Msg("Error scanning university row")
			return nil, fmt.Errorf("error scanning university row: %w", err)
		}
		universities = append(universities, university)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating university rows")
		return nil, fmt.Errorf("error iterating university rows: %w", err)
	}

	return universities, nil
}

// GetUniversityByID retrieves a university by ID
func (r *ReferenceRepository) GetUniversityByID(ctx context.Context, id int64) (*models.University, error) {
	sql, args, err := r.sb.Select("id", "name", "state").
		From("universities").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get university SQL")
		return nil, fmt.Errorf("failed to build get university query: %w", err)
	}

	university := &models.University{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&university.ID, &university.Name, &university.State)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUniversityNotFound
		}
		logger.Error().Err(err).Int64("universityID", id).Msg("Error scanning university row")
		return nil, fmt.Errorf("error getting university by ID: %w", err)
	}

	return university, nil
}

// ListHospitals retrieves all hospitals ordered by name
func (r *ReferenceRepository) ListHospitals(ctx context.Context) ([]*models.Hospital, error) {
	sql, args, err := r.sb.Select("id", "name", "university_id").
		From("hospitals").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list hospitals SQL")
		return nil, fmt.Errorf("failed to build list hospitals query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list hospitals query")
		return nil, fmt.Errorf("error querying hospitals: %w", err)
	}
	defer rows.Close()

	hospitals := []*models.Hospital{}
	for rows.Next() {
		hospital := &models.Hospital{}
		if err := rows.Scan(&hospital.ID, &hospital.Name, &hospital.UniversityID); err != nil {
			logger.Error().Err(err).Msg("Error scanning hospital row")
			return nil, fmt.Errorf("error scanning hospital row: %w", err)
		}
		hospitals = append(hospitals, hospital)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating hospital rows")
		return nil, fmt.Errorf("error iterating hospital rows: %w", err)
	}

	return hospitals, nil
}

// GetHospitalByID retrieves a hospital by ID
func (r *ReferenceRepository) GetHospitalByID(ctx context.Context, id int64) (*models.Hospital, error) {
	sql, args, err := r.sb.Select("id", "name", "university_id").
		From("hospitals").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get hospital SQL")
		return nil, fmt.Errorf("failed to build get hospital query: %w", err)
	}

	hospital := &models.Hospital{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&hospital.ID, &hospital.Name, &hospital.UniversityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrHospitalNotFound
		}
		logger.Error().Err(err).Int64("hospitalID", id).Msg("Error scanning hospital row")
		return nil, fmt.Errorf("error getting hospital by ID: %w", err)
	}

	return hospital, nil
}

// ListSpecialties retrieves all specialties ordered by name
func (r *ReferenceRepository) ListSpecialties(ctx context.Context) ([]*models.Specialty, error) {
	sql, args, err := r.sb.Select("id", "name").
		From("specialties").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list specialties SQL")
		return nil, fmt.Errorf("failed to build list specialties query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list specialties query")
		return nil, fmt.Errorf("error querying specialties: %w", err)
	}
	defer rows.Close()

	specialties := []*models.Specialty{}
	for rows.Next() {
		specialty := &models.Specialty{}
		if err := rows.Scan(&specialty.ID, &specialty.Name); err != nil {
			logger.Error().Err(err).Msg("Error scanning specialty row")
			return nil, fmt.Errorf("error scanning specialty row: %w", err)
		}
		specialties = append(specialties, specialty)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating specialty rows")
		return nil, fmt.Errorf("error iterating specialty rows: %w", err)
	}

	return specialties, nil
}

// GetSpecialtyByID retrieves a specialty by ID
func (r *ReferenceRepository) GetSpecialtyByID(ctx context.Context, id int64) (*models.Specialty, error) {
	sql, args, err := r.sb.Select("id", "name").
		From("specialties").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get specialty SQL")
		return nil, fmt.Errorf("failed to build get specialty query: %w", err)
	}

	specialty := &models.Specialty{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&specialty.ID, &specialty.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSpecialtyNotFound
		}
		logger.Error().Err(err).Int64("specialtyID", id).Msg("Error scanning specialty row")
		return nil, fmt.Errorf("error getting specialty by ID: %w", err)
	}

	return specialty, nil
}

// CreateUniversity inserts a university, used by the seeder
func (r *ReferenceRepository) CreateUniversity(ctx context.Context, university *models.University) (int64, error) {
	sql, args, err := r.sb.Insert("universities").
		Columns("name", "state").
		Values(university.Name, university.State).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create university query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrReferenceExists
		}
		return 0, fmt.Errorf("error creating university: %w", err)
	}

	return id, nil
}

// CreateHospital inserts a hospital, used by the seeder
func (r *ReferenceRepository) CreateHospital(ctx context.Context, hospital *models.Hospital) (int64, error) {
	sql, args, err := r.sb.Insert("hospitals").
		Columns("name", "university_id").
		Values(hospital.Name, hospital.UniversityID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create hospital query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrReferenceExists
		}
		return 0, fmt.Errorf("error creating hospital: %w", err)
	}

	return id, nil
}

// CreateSpecialty inserts a specialty, used by the seeder
func (r *ReferenceRepository) CreateSpecialty(ctx context.Context, specialty *models.Specialty) (int64, error) {
	sql, args, err := r.sb.Insert("specialties").
		Columns("name").
		Values(specialty.Name).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create specialty query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrReferenceExists
		}
		return 0, fmt.Errorf("error creating specialty: %w", err)
	}

	return id, nil
}
