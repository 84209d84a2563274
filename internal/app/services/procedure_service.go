package services

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/medresidency/logbook/internal/app/models"
	"github.com/medresidency/logbook/internal/app/models/dto"
	"github.com/medresidency/logbook/internal/app/repositories"
	"github.com/medresidency/logbook/internal/pkg/apperrors"
	"github.com/medresidency/logbook/internal/pkg/email"
	"github.com/medresidency/logbook/internal/pkg/logger"
)

// narrativeField describes one free-text section of a procedure record
// and its accepted length bounds.
type narrativeField struct {
	name  string
	value string
	min   int
	max   int
}

// ProcedureService defines procedure submission and evaluation operations
type ProcedureService interface {
	Submit(ctx context.Context, principal models.Principal, req dto.SubmitProcedureRequest) (*dto.ProcedureResponse, error)
	List(ctx context.Context, principal models.Principal, status string) (*dto.ProcedureListResponse, error)
	GetByID(ctx context.Context, principal models.Principal, id int64) (*dto.ProcedureResponse, error)
	Evaluate(ctx context.Context, principal models.Principal, id int64, req dto.EvaluateProcedureRequest) (*dto.ProcedureResponse, error)
}

type procedureServiceImpl struct {
	procedures repositories.IProcedureRepository
	residents  repositories.IResidentRepository
	preceptors repositories.IPreceptorRepository
	notifier   email.Notifier
}

// NewProcedureService creates a new ProcedureService
func NewProcedureService(
	repos *repositories.Repositories,
	notifier email.Notifier,
) ProcedureService {
	return &procedureServiceImpl{
		procedures: repos.Procedures,
		residents:  repos.Residents,
		preceptors: repos.Preceptors,
		notifier:   notifier,
	}
}

// Submit records a new procedure. The record starts PENDING, owned by the
// calling resident and addressed to the chosen preceptor.
func (s *procedureServiceImpl) Submit(ctx context.Context, principal models.Principal, req dto.SubmitProcedureRequest) (*dto.ProcedureResponse, error) {
	if principal.Kind != models.AccountKindResident {
		return nil, apperrors.NewForbiddenError("only residents can submit procedures")
	}

	if nameLen := utf8.RuneCountInString(req.Name); nameLen < 5 || nameLen > 200 {
		return nil, apperrors.NewValidationError("name", "procedure name must be between 5 and 200 characters")
	}

	performedAt, err := time.Parse("2006-01-02", req.PerformedAt)
	if err != nil {
		return nil, apperrors.NewValidationError("performedAt", "performed date must be in YYYY-MM-DD format")
	}

	narratives := []narrativeField{
		{"clinicalHistory", req.ClinicalHistory, 20, 2000},
		{"physicalExam", req.PhysicalExam, 15, 2000},
		{"diagnosticInterpretation", req.DiagnosticInterpretation, 15, 2000},
		{"treatmentPlan", req.TreatmentPlan, 15, 2000},
		{"patientGuidance", req.PatientGuidance, 10, 1500},
		{"lessonsLearned", req.LessonsLearned, 15, 2000},
	}
	// Bounds count characters, not bytes, so accented text is not
	// penalized by its UTF-8 encoding.
	for _, field := range narratives {
		if length := utf8.RuneCountInString(field.value); length < field.min || length > field.max {
			return nil, apperrors.NewValidationError(field.name,
				fmt.Sprintf("%s must be between %d and %d characters", field.name, field.min, field.max))
		}
	}

	if _, err := s.preceptors.GetPreceptorByID(ctx, req.PreceptorID); err != nil {
		return nil, err
	}

	procedure := &models.Procedure{
		Name:                     req.Name,
		PerformedAt:              performedAt,
		ClinicalHistory:          req.ClinicalHistory,
		PhysicalExam:             req.PhysicalExam,
		DiagnosticInterpretation: req.DiagnosticInterpretation,
		TreatmentPlan:            req.TreatmentPlan,
		PatientGuidance:          req.PatientGuidance,
		LessonsLearned:           req.LessonsLearned,
		Status:                   models.StatusPending,
		ResidentID:               principal.ID,
		PreceptorID:              req.PreceptorID,
	}

	id, err := s.procedures.CreateProcedure(ctx, procedure)
	if err != nil {
		return nil, err
	}

	created, err := s.procedures.GetProcedureByID(ctx, id)
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("procedureID", id).Int64("residentID", principal.ID).Msg("Procedure submitted")

	return toProcedureResponse(created), nil
}

// List returns the caller's view of the logbook: residents see their own
// records, preceptors see records addressed to them.
func (s *procedureServiceImpl) List(ctx context.Context, principal models.Principal, status string) (*dto.ProcedureListResponse, error) {
	filter, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}

	var procedures []*models.Procedure
	switch principal.Kind {
	case models.AccountKindResident:
		procedures, err = s.procedures.ListProceduresByResident(ctx, principal.ID, filter)
	case models.AccountKindPreceptor:
		procedures, err = s.procedures.ListProceduresByPreceptor(ctx, principal.ID, filter)
	default:
		return nil, apperrors.ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ProcedureResponse, 0, len(procedures))
	for _, procedure := range procedures {
		responses = append(responses, *toProcedureResponse(procedure))
	}

	return &dto.ProcedureListResponse{
		Procedures: responses,
		Total:      len(responses),
	}, nil
}

// GetByID returns a single record to its submitting resident or its
// addressed preceptor.
func (s *procedureServiceImpl) GetByID(ctx context.Context, principal models.Principal, id int64) (*dto.ProcedureResponse, error) {
	procedure, err := s.procedures.GetProcedureByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canAccessProcedure(principal, procedure) {
		return nil, apperrors.NewForbiddenError("you do not have access to this procedure")
	}

	return toProcedureResponse(procedure), nil
}

// Evaluate records a preceptor's verdict on a pending procedure and queues
// a notification email to the resident.
func (s *procedureServiceImpl) Evaluate(ctx context.Context, principal models.Principal, id int64, req dto.EvaluateProcedureRequest) (*dto.ProcedureResponse, error) {
	if principal.Kind != models.AccountKindPreceptor {
		return nil, apperrors.NewForbiddenError("only preceptors can evaluate procedures")
	}

	decision := models.Decision(req.Decision)
	if !decision.IsValid() {
		return nil, apperrors.NewValidationError("decision", "decision must be VALIDATE or REJECT")
	}
	if utf8.RuneCountInString(req.Remarks) > 5000 {
		return nil, apperrors.NewValidationError("remarks", "remarks must be at most 5000 characters")
	}

	procedure, err := s.procedures.GetProcedureByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Authorization precedes the state check so a foreign preceptor
	// always gets Forbidden, never InvalidState.
	if procedure.PreceptorID != principal.ID {
		return nil, apperrors.NewForbiddenError("this procedure is addressed to another preceptor")
	}

	if !procedure.IsPending() {
		return nil, apperrors.ErrInvalidState
	}

	var remarks *string
	if req.Remarks != "" {
		remarks = &req.Remarks
	}
	evaluatedAt := time.Now()

	if err := s.procedures.MarkEvaluated(ctx, id, decision.Status(), remarks, evaluatedAt); err != nil {
		return nil, err
	}

	evaluated, err := s.procedures.GetProcedureByID(ctx, id)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int64("procedureID", id).
		Int64("preceptorID", principal.ID).
		Str("decision", string(decision)).
		Msg("Procedure evaluated")

	s.queueNotification(ctx, evaluated, principal.ID)

	return toProcedureResponse(evaluated), nil
}

// queueNotification enqueues the evaluation email. Lookup failures are
// logged and swallowed: the evaluation itself has already succeeded.
func (s *procedureServiceImpl) queueNotification(ctx context.Context, procedure *models.Procedure, preceptorID int64) {
	resident, err := s.residents.GetResidentByID(ctx, procedure.ResidentID)
	if err != nil {
		logger.Error().Err(err).Int64("residentID", procedure.ResidentID).Msg("Could not load resident for notification")
		return
	}
	preceptor, err := s.preceptors.GetPreceptorByID(ctx, preceptorID)
	if err != nil {
		logger.Error().Err(err).Int64("preceptorID", preceptorID).Msg("Could not load preceptor for notification")
		return
	}

	remarks := ""
	if procedure.EvaluatorRemarks != nil {
		remarks = *procedure.EvaluatorRemarks
	}

	s.notifier.QueueEvaluationResult(email.EvaluationNotice{
		ResidentName:  resident.Name,
		ResidentEmail: resident.Email,
		ProcedureName: procedure.Name,
		PerformedAt:   procedure.PerformedAt,
		PreceptorName: preceptor.Name,
		Approved:      procedure.Status == models.StatusValidated,
		Remarks:       remarks,
	})
}

func canAccessProcedure(principal models.Principal, procedure *models.Procedure) bool {
	switch principal.Kind {
	case models.AccountKindResident:
		return procedure.ResidentID == principal.ID
	case models.AccountKindPreceptor:
		return procedure.PreceptorID == principal.ID
	default:
		return false
	}
}

func parseStatusFilter(status string) (models.ProcedureStatus, error) {
	switch models.ProcedureStatus(status) {
	case "", models.StatusPending, models.StatusValidated, models.StatusRejected:
		return models.ProcedureStatus(status), nil
	default:
		return "", apperrors.NewValidationError("status", "status must be PENDING, VALIDATED or REJECTED")
	}
}

func toProcedureResponse(procedure *models.Procedure) *dto.ProcedureResponse {
	response := &dto.ProcedureResponse{
		ID:                       procedure.ID,
		Name:                     procedure.Name,
		PerformedAt:              procedure.PerformedAt.Format("2006-01-02"),
		ClinicalHistory:          procedure.ClinicalHistory,
		PhysicalExam:             procedure.PhysicalExam,
		DiagnosticInterpretation: procedure.DiagnosticInterpretation,
		TreatmentPlan:            procedure.TreatmentPlan,
		PatientGuidance:          procedure.PatientGuidance,
		LessonsLearned:           procedure.LessonsLearned,
		Status:                   string(procedure.Status),
		ResidentID:               procedure.ResidentID,
		PreceptorID:              procedure.PreceptorID,
		CreatedAt:                procedure.CreatedAt,
		EvaluatedAt:              procedure.EvaluatedAt,
	}
	if procedure.EvaluatorRemarks != nil {
		response.EvaluatorRemarks = *procedure.EvaluatorRemarks
	}
	return response
}
