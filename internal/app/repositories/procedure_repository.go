package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medresidency/logbook/internal/app/models"
	"github.com/medresidency/logbook/internal/pkg/apperrors"
	"github.com/medresidency/logbook/internal/pkg/dberrors"
	"github.com/medresidency/logbook/internal/pkg/logger"
)

var procedureColumns = []string{
	"id", "name", "performed_at", "clinical_history", "physical_exam",
	"diagnostic_interpretation", "treatment_plan", "patient_guidance",
	"lessons_learned", "status", "evaluator_remarks", "resident_id",
	"preceptor_id", "created_at", "evaluated_at",
}

// ValidatedProcedure is a validated record joined with its preceptor's name,
// as the report needs it.
type ValidatedProcedure struct {
	models.Procedure
	PreceptorName string
}

// ProcedureRepository handles procedure record database operations
type ProcedureRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProcedureRepository creates a new ProcedureRepository
func NewProcedureRepository(db *pgxpool.Pool) *ProcedureRepository {
	return &ProcedureRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanProcedure(row pgx.Row) (*models.Procedure, error) {
	procedure := &models.Procedure{}
	var status string
	err := row.Scan(
		&procedure.ID, &procedure.Name, &procedure.PerformedAt,
		&procedure.ClinicalHistory, &procedure.PhysicalExam,
		&procedure.DiagnosticInterpretation, &procedure.TreatmentPlan,
		&procedure.PatientGuidance, &procedure.LessonsLearned,
		&status, &procedure.EvaluatorRemarks, &procedure.ResidentID,
		&procedure.PreceptorID, &procedure.CreatedAt, &procedure.EvaluatedAt,
	)
	if err != nil {
		return nil, err
	}
	procedure.Status = models.ProcedureStatus(status)
	return procedure, nil
}

// CreateProcedure inserts a procedure record and returns its ID
func (r *ProcedureRepository) CreateProcedure(ctx context.Context, procedure *models.Procedure) (int64, error) {
	sql, args, err := r.sb.Insert("procedures").
		Columns("name", "performed_at", "clinical_history", "physical_exam",
			"diagnostic_interpretation", "treatment_plan", "patient_guidance",
			"lessons_learned", "status", "resident_id", "preceptor_id").
		Values(procedure.Name, procedure.PerformedAt, procedure.ClinicalHistory,
			procedure.PhysicalExam, procedure.DiagnosticInterpretation,
			procedure.TreatmentPlan, procedure.PatientGuidance,
			procedure.LessonsLearned, string(models.StatusPending),
			procedure.ResidentID, procedure.PreceptorID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create procedure SQL")
		return 0, fmt.Errorf("failed to build create procedure query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrPreceptorNotFound
		}
		logger.Error().Err(err).Msg("Error executing create procedure query")
		return 0, fmt.Errorf("error creating procedure: %w", err)
	}

	return id, nil
}

// GetProcedureByID retrieves a procedure by ID
func (r *ProcedureRepository) GetProcedureByID(ctx context.Context, id int64) (*models.Procedure, error) {
	sql, args, err := r.sb.Select(procedureColumns...).
		From("procedures").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get procedure by ID SQL")
		return nil, fmt.Errorf("failed to build get procedure query: %w", err)
	}

	procedure, err := scanProcedure(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProcedureNotFound
		}
		logger.Error().Err(err).Int64("procedureID", id).Msg("Error scanning procedure row")
		return nil, fmt.Errorf("error getting procedure by ID: %w", err)
	}

	return procedure, nil
}

// ListProceduresByResident retrieves a resident's procedures, newest first.
// An empty status lists all of them.
func (r *ProcedureRepository) ListProceduresByResident(ctx context.Context, residentID int64, status models.ProcedureStatus) ([]*models.Procedure, error) {
	query := r.sb.Select(procedureColumns...).
		From("procedures").
		Where(squirrel.Eq{"resident_id": residentID}).
		OrderBy("performed_at DESC", "id DESC")
	if status != "" {
		query = query.Where(squirrel.Eq{"status": string(status)})
	}

	return r.listProcedures(ctx, query)
}

// ListProceduresByPreceptor retrieves procedures addressed to a preceptor.
// Pending records come oldest first so the queue is worked in order;
// evaluated records come newest first.
func (r *ProcedureRepository) ListProceduresByPreceptor(ctx context.Context, preceptorID int64, status models.ProcedureStatus) ([]*models.Procedure, error) {
	query := r.sb.Select(procedureColumns...).
		From("procedures").
		Where(squirrel.Eq{"preceptor_id": preceptorID})

	switch status {
	case models.StatusPending:
		query = query.Where(squirrel.Eq{"status": string(status)}).
			OrderBy("created_at ASC", "id ASC")
	case models.StatusValidated, models.StatusRejected:
		query = query.Where(squirrel.Eq{"status": string(status)}).
			OrderBy("evaluated_at DESC", "id DESC")
	default:
		query = query.OrderBy("created_at DESC", "id DESC")
	}

	return r.listProcedures(ctx, query)
}

func (r *ProcedureRepository) listProcedures(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Procedure, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list procedures SQL")
		return nil, fmt.Errorf("failed to build list procedures query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list procedures query")
		return nil, fmt.Errorf("error querying procedures: %w", err)
	}
	defer rows.Close()

	procedures := []*models.Procedure{}
	for rows.Next() {
		procedure, err := scanProcedure(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning procedure row during list")
			return nil, fmt.Errorf("error scanning procedure row: %w", err)
		}
		procedures = append(procedures, procedure)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating procedure rows")
		return nil, fmt.Errorf("error iterating procedure rows: %w", err)
	}

	return procedures, nil
}

// ListValidatedByResident retrieves a resident's validated procedures with
// preceptor names, ordered by performance date for the report.
func (r *ProcedureRepository) ListValidatedByResident(ctx context.Context, residentID int64) ([]*ValidatedProcedure, error) {
	sql, args, err := r.sb.Select(
		"p.id", "p.name", "p.performed_at", "p.clinical_history", "p.physical_exam",
		"p.diagnostic_interpretation", "p.treatment_plan", "p.patient_guidance",
		"p.lessons_learned", "p.status", "p.evaluator_remarks", "p.resident_id",
		"p.preceptor_id", "p.created_at", "p.evaluated_at", "pr.name").
		From("procedures p").
		Join("preceptors pr ON pr.id = p.preceptor_id").
		Where(squirrel.Eq{"p.resident_id": residentID, "p.status": string(models.StatusValidated)}).
		OrderBy("p.performed_at ASC", "p.id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list validated procedures SQL")
		return nil, fmt.Errorf("failed to build list validated procedures query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list validated procedures query")
		return nil, fmt.Errorf("error querying validated procedures: %w", err)
	}
	defer rows.Close()

	validated := []*ValidatedProcedure{}
	for rows.Next() {
		row := &ValidatedProcedure{}
		var status string
		err := rows.Scan(
			&row.ID, &row.Name, &row.PerformedAt, &row.ClinicalHistory,
			&row.PhysicalExam, &row.DiagnosticInterpretation, &row.TreatmentPlan,
			&row.PatientGuidance, &row.LessonsLearned, &status,
			&row.EvaluatorRemarks, &row.ResidentID, &row.PreceptorID,
			&row.CreatedAt, &row.EvaluatedAt, &row.PreceptorName,
		)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning validated procedure row")
			return nil, fmt.Errorf("error scanning validated procedure row: %w", err)
		}
		row.Status = models.ProcedureStatus(status)
		validated = append(validated, row)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating validated procedure rows")
		return nil, fmt.Errorf("error iterating validated procedure rows: %w", err)
	}

	return validated, nil
}

// CountByResidentAndStatus counts a resident's procedures in a given status
func (r *ProcedureRepository) CountByResidentAndStatus(ctx context.Context, residentID int64, status models.ProcedureStatus) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("procedures").
		Where(squirrel.Eq{"resident_id": residentID, "status": string(status)}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count procedures SQL")
		return 0, fmt.Errorf("failed to build count procedures query: %w", err)
	}

	var count int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&count)
	if err != nil {
		logger.Error().Err(err).Int64("residentID", residentID).Msg("Error counting procedures")
		return 0, fmt.Errorf("error counting procedures: %w", err)
	}

	return count, nil
}

// MarkEvaluated records a terminal verdict on a pending procedure.
// The update is guarded on the PENDING status so concurrent evaluations
// cannot both succeed; a lost race surfaces as ErrInvalidState.
func (r *ProcedureRepository) MarkEvaluated(ctx context.Context, id int64, status models.ProcedureStatus, remarks *string, evaluatedAt time.Time) error {
	sql, args, err := r.sb.Update("procedures").
		SetMap(map[string]interface{}{
			"status":            string(status),
			"evaluator_remarks": remarks,
			"evaluated_at":      evaluatedAt,
		}).
		Where(squirrel.Eq{"id": id, "status": string(models.StatusPending)}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building mark evaluated SQL")
		return fmt.Errorf("failed to build mark evaluated query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("procedureID", id).Msg("Error executing mark evaluated query")
		return fmt.Errorf("error marking procedure evaluated: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrInvalidState
	}

	return nil
}
