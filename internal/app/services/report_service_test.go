package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medresidency/logbook/internal/app/models"
	"github.com/medresidency/logbook/internal/app/repositories"
	"github.com/medresidency/logbook/internal/pkg/apperrors"
)

func newReportService(
	procedures *mockProcedureRepository,
	residents *mockResidentRepository,
	references *mockReferenceRepository,
	renderer *mockRenderer,
) ReportService {
	return NewReportService(
		newTestRepositories(residents, new(mockPreceptorRepository), new(mockAccountRepository), new(mockTokenRepository), procedures, references),
		renderer,
		time.UTC,
	)
}

func reportResident() *models.Resident {
	return &models.Resident{
		ID: 7, Name: "Ana Souza", Email: "ana@example.com",
		Category: models.CategoryR2, EntryYear: 2024,
		UniversityID: 1, HospitalID: 1, SpecialtyID: 1, PreceptorID: 2,
	}
}

func validatedRows() []*repositories.ValidatedProcedure {
	performed := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	return []*repositories.ValidatedProcedure{
		{Procedure: models.Procedure{ID: 101, Name: "Central venous access", PerformedAt: performed, Status: models.StatusValidated}, PreceptorName: "Dr. Lima"},
		{Procedure: models.Procedure{ID: 102, Name: "Lumbar puncture", PerformedAt: performed.AddDate(0, 0, 1), Status: models.StatusValidated}, PreceptorName: "Dr. Rocha"},
		{Procedure: models.Procedure{ID: 103, Name: "Thoracentesis", PerformedAt: performed.AddDate(0, 0, 2), Status: models.StatusValidated}, PreceptorName: "Dr. Rocha"},
	}
}

func stubReportData(procedures *mockProcedureRepository, references *mockReferenceRepository) {
	procedures.On("ListValidatedByResident", mock.Anything, int64(7)).Return(validatedRows(), nil)
	procedures.On("CountByResidentAndStatus", mock.Anything, int64(7), models.StatusPending).Return(2, nil)
	procedures.On("CountByResidentAndStatus", mock.Anything, int64(7), models.StatusRejected).Return(1, nil)
	references.On("GetSpecialtyByID", mock.Anything, int64(1)).Return(&models.Specialty{ID: 1, Name: "Cardiology"}, nil)
	references.On("GetUniversityByID", mock.Anything, int64(1)).Return(&models.University{ID: 1, Name: "Federal University"}, nil)
	references.On("GetHospitalByID", mock.Anything, int64(1)).Return(&models.Hospital{ID: 1, Name: "University Hospital"}, nil)
}

func TestGenerate_ResidentOwnReportPDF(t *testing.T) {
	procedures := new(mockProcedureRepository)
	residents := new(mockResidentRepository)
	references := new(mockReferenceRepository)
	renderer := new(mockRenderer)

	residents.On("GetResidentByID", mock.Anything, int64(7)).Return(reportResident(), nil)
	stubReportData(procedures, references)
	renderer.On("RenderPDF", mock.Anything, mock.Anything).Return([]byte("%PDF-1.4 fake"), nil)

	service := newReportService(procedures, residents, references, renderer)

	doc, err := service.Generate(context.Background(), models.Principal{ID: 7, Kind: models.AccountKindResident}, 7, FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, "report_ana_souza.pdf", doc.Filename)
	assert.Equal(t, []byte("%PDF-1.4 fake"), doc.Content)
	renderer.AssertExpectations(t)
}

func TestGenerate_PDFFailureFallsBackToHTML(t *testing.T) {
	procedures := new(mockProcedureRepository)
	residents := new(mockResidentRepository)
	references := new(mockReferenceRepository)
	renderer := new(mockRenderer)

	residents.On("GetResidentByID", mock.Anything, int64(7)).Return(reportResident(), nil)
	stubReportData(procedures, references)
	renderer.On("RenderPDF", mock.Anything, mock.Anything).Return(nil, errors.New("chrome not available"))

	service := newReportService(procedures, residents, references, renderer)

	doc, err := service.Generate(context.Background(), models.Principal{ID: 7, Kind: models.AccountKindResident}, 7, FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "text/html; charset=utf-8", doc.ContentType)
	assert.Equal(t, "report_ana_souza.html", doc.Filename)
	assert.Contains(t, string(doc.Content), "Ana Souza")
}

func TestGenerate_HTMLFormatSkipsRenderer(t *testing.T) {
	procedures := new(mockProcedureRepository)
	residents := new(mockResidentRepository)
	references := new(mockReferenceRepository)
	renderer := new(mockRenderer)

	residents.On("GetResidentByID", mock.Anything, int64(7)).Return(reportResident(), nil)
	stubReportData(procedures, references)

	service := newReportService(procedures, residents, references, renderer)

	doc, err := service.Generate(context.Background(), models.Principal{ID: 7, Kind: models.AccountKindResident}, 7, FormatHTML)
	require.NoError(t, err)
	assert.Equal(t, "text/html; charset=utf-8", doc.ContentType)
	assert.Contains(t, string(doc.Content), "Central venous access")
	renderer.AssertNotCalled(t, "RenderPDF", mock.Anything, mock.Anything)
}

func TestGenerate_ResidentCannotAccessOtherReport(t *testing.T) {
	residents := new(mockResidentRepository)
	residents.On("GetResidentByID", mock.Anything, int64(8)).Return(&models.Resident{ID: 8, PreceptorID: 2}, nil)

	service := newReportService(new(mockProcedureRepository), residents, new(mockReferenceRepository), new(mockRenderer))

	_, err := service.Generate(context.Background(), models.Principal{ID: 7, Kind: models.AccountKindResident}, 8, FormatHTML)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestGenerate_PreceptorSupervisionCheck(t *testing.T) {
	procedures := new(mockProcedureRepository)
	residents := new(mockResidentRepository)
	references := new(mockReferenceRepository)

	residents.On("GetResidentByID", mock.Anything, int64(7)).Return(reportResident(), nil)
	stubReportData(procedures, references)

	service := newReportService(procedures, residents, references, new(mockRenderer))

	_, err := service.Generate(context.Background(), models.Principal{ID: 2, Kind: models.AccountKindPreceptor}, 7, FormatHTML)
	assert.NoError(t, err)

	_, err = service.Generate(context.Background(), models.Principal{ID: 99, Kind: models.AccountKindPreceptor}, 7, FormatHTML)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestGenerate_UnknownResident(t *testing.T) {
	residents := new(mockResidentRepository)
	residents.On("GetResidentByID", mock.Anything, int64(404)).Return(nil, apperrors.ErrResidentNotFound)

	service := newReportService(new(mockProcedureRepository), residents, new(mockReferenceRepository), new(mockRenderer))

	_, err := service.Generate(context.Background(), models.Principal{ID: 404, Kind: models.AccountKindResident}, 404, FormatHTML)
	assert.ErrorIs(t, err, apperrors.ErrResidentNotFound)
}

func TestPreceptorFrequencies_OrderAndTies(t *testing.T) {
	rows := []*repositories.ValidatedProcedure{
		{PreceptorName: "Dr. Lima"},
		{PreceptorName: "Dr. Rocha"},
		{PreceptorName: "Dr. Rocha"},
		{PreceptorName: "Dr. Costa"},
	}

	frequencies := preceptorFrequencies(rows)
	require.Len(t, frequencies, 3)
	assert.Equal(t, "Dr. Rocha", frequencies[0].PreceptorName)
	assert.Equal(t, 2, frequencies[0].Count)
	// Lima and Costa tie at one; first encountered comes first.
	assert.Equal(t, "Dr. Lima", frequencies[1].PreceptorName)
	assert.Equal(t, "Dr. Costa", frequencies[2].PreceptorName)
}
