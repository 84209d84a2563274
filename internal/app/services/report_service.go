package services

import (
	"context"
	"strings"
	"time"

	"github.com/medresidency/logbook/internal/app/models"
	"github.com/medresidency/logbook/internal/app/repositories"
	"github.com/medresidency/logbook/internal/pkg/apperrors"
	"github.com/medresidency/logbook/internal/pkg/logger"
	"github.com/medresidency/logbook/internal/pkg/report"
)

// ReportFormat selects the report output format
type ReportFormat string

const (
	FormatPDF  ReportFormat = "pdf"
	FormatHTML ReportFormat = "html"
)

// ReportDocument is a rendered report ready to be served
type ReportDocument struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ReportService builds resident logbook reports
type ReportService interface {
	Generate(ctx context.Context, principal models.Principal, residentID int64, format ReportFormat) (*ReportDocument, error)
}

type reportServiceImpl struct {
	procedures repositories.IProcedureRepository
	residents  repositories.IResidentRepository
	preceptors repositories.IPreceptorRepository
	references repositories.IReferenceRepository
	renderer   report.Renderer
	location   *time.Location
}

// NewReportService creates a new ReportService. Issuance timestamps are
// rendered in the given location.
func NewReportService(
	repos *repositories.Repositories,
	renderer report.Renderer,
	location *time.Location,
) ReportService {
	if location == nil {
		location = time.UTC
	}
	return &reportServiceImpl{
		procedures: repos.Procedures,
		residents:  repos.Residents,
		preceptors: repos.Preceptors,
		references: repos.References,
		renderer:   renderer,
		location:   location,
	}
}

// Generate builds the report for a resident. Residents can only request
// their own report; preceptors only reports of residents they supervise.
// A PDF request degrades to HTML when printing fails.
func (s *reportServiceImpl) Generate(ctx context.Context, principal models.Principal, residentID int64, format ReportFormat) (*ReportDocument, error) {
	resident, err := s.residents.GetResidentByID(ctx, residentID)
	if err != nil {
		return nil, err
	}

	switch principal.Kind {
	case models.AccountKindResident:
		if principal.ID != residentID {
			return nil, apperrors.NewForbiddenError("you can only access your own report")
		}
	case models.AccountKindPreceptor:
		if resident.PreceptorID != principal.ID {
			return nil, apperrors.NewForbiddenError("you can only access reports of residents you supervise")
		}
	default:
		return nil, apperrors.ErrUnauthenticated
	}

	data, err := s.buildReportData(ctx, resident)
	if err != nil {
		return nil, err
	}

	html, err := report.BuildHTML(*data)
	if err != nil {
		return nil, err
	}

	if format == FormatPDF {
		pdf, err := s.renderer.RenderPDF(ctx, html)
		if err == nil {
			return &ReportDocument{
				Content:     pdf,
				ContentType: "application/pdf",
				Filename:    reportFilename(resident.Name, "pdf"),
			}, nil
		}
		// Same data, different envelope: the request still succeeds.
		logger.Warn().Err(err).Int64("residentID", residentID).Msg("PDF rendering failed, serving HTML report")
	}

	return &ReportDocument{
		Content:     html,
		ContentType: "text/html; charset=utf-8",
		Filename:    reportFilename(resident.Name, "html"),
	}, nil
}

func (s *reportServiceImpl) buildReportData(ctx context.Context, resident *models.Resident) (*report.Data, error) {
	validated, err := s.procedures.ListValidatedByResident(ctx, resident.ID)
	if err != nil {
		return nil, err
	}

	pendingCount, err := s.procedures.CountByResidentAndStatus(ctx, resident.ID, models.StatusPending)
	if err != nil {
		return nil, err
	}
	rejectedCount, err := s.procedures.CountByResidentAndStatus(ctx, resident.ID, models.StatusRejected)
	if err != nil {
		return nil, err
	}

	entries := make([]report.ProcedureEntry, 0, len(validated))
	for _, row := range validated {
		entry := report.ProcedureEntry{
			Name:          row.Name,
			PerformedAt:   row.PerformedAt,
			PreceptorName: row.PreceptorName,
		}
		if row.EvaluatorRemarks != nil {
			entry.EvaluatorRemarks = *row.EvaluatorRemarks
		}
		entries = append(entries, entry)
	}

	data := &report.Data{
		ResidentName:   resident.Name,
		ResidentEmail:  resident.Email,
		Category:       string(resident.Category),
		EntryYear:      resident.EntryYear,
		IssuedAt:       time.Now().In(s.location),
		Validated:      entries,
		ValidatedCount: len(entries),
		PendingCount:   pendingCount,
		RejectedCount:  rejectedCount,
		GrandTotal:     len(entries) + pendingCount + rejectedCount,
		Frequencies:    preceptorFrequencies(validated),
	}

	if specialty, err := s.references.GetSpecialtyByID(ctx, resident.SpecialtyID); err == nil {
		data.SpecialtyName = specialty.Name
	}
	if university, err := s.references.GetUniversityByID(ctx, resident.UniversityID); err == nil {
		data.UniversityName = university.Name
	}
	if hospital, err := s.references.GetHospitalByID(ctx, resident.HospitalID); err == nil {
		data.HospitalName = hospital.Name
	}

	return data, nil
}

// preceptorFrequencies counts validations per preceptor, ordered by
// descending count; ties keep first-encountered order.
func preceptorFrequencies(validated []*repositories.ValidatedProcedure) []report.PreceptorFrequency {
	counts := map[string]int{}
	order := []string{}
	for _, row := range validated {
		if _, seen := counts[row.PreceptorName]; !seen {
			order = append(order, row.PreceptorName)
		}
		counts[row.PreceptorName]++
	}

	frequencies := make([]report.PreceptorFrequency, 0, len(order))
	for _, name := range order {
		frequencies = append(frequencies, report.PreceptorFrequency{
			PreceptorName: name,
			Count:         counts[name],
		})
	}

	// Stable insertion sort keeps first-encountered order on equal counts.
	for i := 1; i < len(frequencies); i++ {
		for j := i; j > 0 && frequencies[j].Count > frequencies[j-1].Count; j-- {
			frequencies[j], frequencies[j-1] = frequencies[j-1], frequencies[j]
		}
	}

	return frequencies
}

func reportFilename(residentName, extension string) string {
	name := strings.ToLower(strings.ReplaceAll(residentName, " ", "_"))
	return "report_" + name + "." + extension
}
