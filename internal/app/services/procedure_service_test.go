package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medresidency/logbook/internal/app/models"
	"github.com/medresidency/logbook/internal/app/models/dto"
	"github.com/medresidency/logbook/internal/pkg/apperrors"
	"github.com/medresidency/logbook/internal/pkg/email"
)

var longText = func(n int) string {
	s := make([]byte, n)
	for i := range s {
		s[i] = 'a'
	}
	return string(s)
}

func validSubmitRequest() dto.SubmitProcedureRequest {
	return dto.SubmitProcedureRequest{
		Name:                     "Central venous access",
		PerformedAt:              "2025-03-10",
		PreceptorID:              2,
		ClinicalHistory:          longText(50),
		PhysicalExam:             longText(40),
		DiagnosticInterpretation: longText(40),
		TreatmentPlan:            longText(40),
		PatientGuidance:          longText(30),
		LessonsLearned:           longText(40),
	}
}

func newProcedureService(
	procedures *mockProcedureRepository,
	residents *mockResidentRepository,
	preceptors *mockPreceptorRepository,
	notifier *mockNotifier,
) ProcedureService {
	return NewProcedureService(
		newTestRepositories(residents, preceptors, new(mockAccountRepository), new(mockTokenRepository), procedures, new(mockReferenceRepository)),
		notifier,
	)
}

func TestSubmit_Success(t *testing.T) {
	req := validSubmitRequest()

	procedures := new(mockProcedureRepository)
	preceptors := new(mockPreceptorRepository)
	preceptors.On("GetPreceptorByID", mock.Anything, int64(2)).Return(&models.Preceptor{ID: 2}, nil)
	procedures.On("CreateProcedure", mock.Anything, mock.MatchedBy(func(p *models.Procedure) bool {
		return p.ResidentID == 7 && p.PreceptorID == 2 && p.Status == models.StatusPending
	})).Return(int64(100), nil)
	procedures.On("GetProcedureByID", mock.Anything, int64(100)).Return(&models.Procedure{
		ID: 100, Name: req.Name, Status: models.StatusPending,
		PerformedAt: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		ResidentID:  7, PreceptorID: 2,
	}, nil)

	service := newProcedureService(procedures, new(mockResidentRepository), preceptors, new(mockNotifier))

	resp, err := service.Submit(context.Background(), models.Principal{ID: 7, Kind: models.AccountKindResident}, req)
	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, "2025-03-10", resp.PerformedAt)
	procedures.AssertExpectations(t)
}

func TestSubmit_PreceptorCannotSubmit(t *testing.T) {
	service := newProcedureService(new(mockProcedureRepository), new(mockResidentRepository), new(mockPreceptorRepository), new(mockNotifier))

	_, err := service.Submit(context.Background(), models.Principal{ID: 2, Kind: models.AccountKindPreceptor}, validSubmitRequest())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestSubmit_NarrativeTooShort(t *testing.T) {
	req := validSubmitRequest()
	req.ClinicalHistory = "too short"

	service := newProcedureService(new(mockProcedureRepository), new(mockResidentRepository), new(mockPreceptorRepository), new(mockNotifier))

	_, err := service.Submit(context.Background(), models.Principal{ID: 7, Kind: models.AccountKindResident}, req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, "clinicalHistory", apperrors.FieldOf(err))
}

func TestSubmit_GuidanceBounds(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"below minimum", longText(9), true},
		{"at minimum", longText(10), false},
		{"at maximum", longText(1500), false},
		{"above maximum", longText(1501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSubmitRequest()
			req.PatientGuidance = tt.value

			procedures := new(mockProcedureRepository)
			preceptors := new(mockPreceptorRepository)
			if !tt.wantErr {
				preceptors.On("GetPreceptorByID", mock.Anything, int64(2)).Return(&models.Preceptor{ID: 2}, nil)
				procedures.On("CreateProcedure", mock.Anything, mock.Anything).Return(int64(100), nil)
				procedures.On("GetProcedureByID", mock.Anything, int64(100)).Return(&models.Procedure{ID: 100, Status: models.StatusPending}, nil)
			}

			service := newProcedureService(procedures, new(mockResidentRepository), preceptors, new(mockNotifier))
			_, err := service.Submit(context.Background(), models.Principal{ID: 7, Kind: models.AccountKindResident}, req)

			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSubmit_AccentedNarrativeCountsCharacters(t *testing.T) {
	// 2000 accented characters are 4000 bytes; the bound is on characters.
	accented := strings.Repeat("é", 2000)

	req := validSubmitRequest()
	req.ClinicalHistory = accented

	procedures := new(mockProcedureRepository)
	preceptors := new(mockPreceptorRepository)
	preceptors.On("GetPreceptorByID", mock.Anything, int64(2)).Return(&models.Preceptor{ID: 2}, nil)
	procedures.On("CreateProcedure", mock.Anything, mock.Anything).Return(int64(100), nil)
	procedures.On("GetProcedureByID", mock.Anything, int64(100)).Return(&models.Procedure{ID: 100, Status: models.StatusPending}, nil)

	service := newProcedureService(procedures, new(mockResidentRepository), preceptors, new(mockNotifier))

	_, err := service.Submit(context.Background(), models.Principal{ID: 7, Kind: models.AccountKindResident}, req)
	assert.NoError(t, err)

	req.ClinicalHistory = accented + "é"
	_, err = service.Submit(context.Background(), models.Principal{ID: 7, Kind: models.AccountKindResident}, req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, "clinicalHistory", apperrors.FieldOf(err))
}

func TestSubmit_UnknownPreceptor(t *testing.T) {
	req := validSubmitRequest()

	preceptors := new(mockPreceptorRepository)
	preceptors.On("GetPreceptorByID", mock.Anything, int64(2)).Return(nil, apperrors.ErrPreceptorNotFound)

	service := newProcedureService(new(mockProcedureRepository), new(mockResidentRepository), preceptors, new(mockNotifier))

	_, err := service.Submit(context.Background(), models.Principal{ID: 7, Kind: models.AccountKindResident}, req)
	assert.ErrorIs(t, err, apperrors.ErrPreceptorNotFound)
}

func TestEvaluate_Validate(t *testing.T) {
	pending := &models.Procedure{
		ID: 100, Name: "Central venous access", Status: models.StatusPending,
		PerformedAt: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		ResidentID:  7, PreceptorID: 2,
	}
	remarks := "Good technique"
	evaluatedAt := time.Now()
	evaluated := &models.Procedure{
		ID: 100, Name: "Central venous access", Status: models.StatusValidated,
		PerformedAt: pending.PerformedAt, ResidentID: 7, PreceptorID: 2,
		EvaluatorRemarks: &remarks, EvaluatedAt: &evaluatedAt,
	}

	procedures := new(mockProcedureRepository)
	procedures.On("GetProcedureByID", mock.Anything, int64(100)).Return(pending, nil).Once()
	procedures.On("MarkEvaluated", mock.Anything, int64(100), models.StatusValidated, mock.Anything, mock.Anything).Return(nil)
	procedures.On("GetProcedureByID", mock.Anything, int64(100)).Return(evaluated, nil)

	residents := new(mockResidentRepository)
	residents.On("GetResidentByID", mock.Anything, int64(7)).
		Return(&models.Resident{ID: 7, Name: "Ana Souza", Email: "ana@example.com"}, nil)
	preceptors := new(mockPreceptorRepository)
	preceptors.On("GetPreceptorByID", mock.Anything, int64(2)).
		Return(&models.Preceptor{ID: 2, Name: "Dr. Lima"}, nil)

	notifier := new(mockNotifier)
	notifier.On("QueueEvaluationResult", mock.MatchedBy(func(n email.EvaluationNotice) bool {
		return n.Approved && n.ResidentEmail == "ana@example.com" && n.Remarks == "Good technique"
	})).Once()

	service := newProcedureService(procedures, residents, preceptors, notifier)

	resp, err := service.Evaluate(context.Background(), models.Principal{ID: 2, Kind: models.AccountKindPreceptor}, 100,
		dto.EvaluateProcedureRequest{Decision: "VALIDATE", Remarks: "Good technique"})
	require.NoError(t, err)
	assert.Equal(t, "VALIDATED", resp.Status)
	notifier.AssertExpectations(t)
	procedures.AssertExpectations(t)
}

func TestEvaluate_ForeignPreceptorForbidden(t *testing.T) {
	pending := &models.Procedure{ID: 100, Status: models.StatusPending, ResidentID: 7, PreceptorID: 2}

	procedures := new(mockProcedureRepository)
	procedures.On("GetProcedureByID", mock.Anything, int64(100)).Return(pending, nil)

	notifier := new(mockNotifier)
	service := newProcedureService(procedures, new(mockResidentRepository), new(mockPreceptorRepository), notifier)

	_, err := service.Evaluate(context.Background(), models.Principal{ID: 99, Kind: models.AccountKindPreceptor}, 100,
		dto.EvaluateProcedureRequest{Decision: "REJECT"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	notifier.AssertNotCalled(t, "QueueEvaluationResult", mock.Anything)
}

func TestEvaluate_AlreadyEvaluated(t *testing.T) {
	evaluatedAt := time.Now()
	terminal := &models.Procedure{
		ID: 100, Status: models.StatusValidated, ResidentID: 7, PreceptorID: 2,
		EvaluatedAt: &evaluatedAt,
	}

	procedures := new(mockProcedureRepository)
	procedures.On("GetProcedureByID", mock.Anything, int64(100)).Return(terminal, nil)

	notifier := new(mockNotifier)
	service := newProcedureService(procedures, new(mockResidentRepository), new(mockPreceptorRepository), notifier)

	_, err := service.Evaluate(context.Background(), models.Principal{ID: 2, Kind: models.AccountKindPreceptor}, 100,
		dto.EvaluateProcedureRequest{Decision: "VALIDATE"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	notifier.AssertNotCalled(t, "QueueEvaluationResult", mock.Anything)
}

func TestEvaluate_LostRace(t *testing.T) {
	// A concurrent evaluation can land between the read and the update;
	// the guarded update then affects zero rows.
	pending := &models.Procedure{ID: 100, Status: models.StatusPending, ResidentID: 7, PreceptorID: 2}

	procedures := new(mockProcedureRepository)
	procedures.On("GetProcedureByID", mock.Anything, int64(100)).Return(pending, nil)
	procedures.On("MarkEvaluated", mock.Anything, int64(100), models.StatusRejected, mock.Anything, mock.Anything).
		Return(apperrors.ErrInvalidState)

	notifier := new(mockNotifier)
	service := newProcedureService(procedures, new(mockResidentRepository), new(mockPreceptorRepository), notifier)

	_, err := service.Evaluate(context.Background(), models.Principal{ID: 2, Kind: models.AccountKindPreceptor}, 100,
		dto.EvaluateProcedureRequest{Decision: "REJECT"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	notifier.AssertNotCalled(t, "QueueEvaluationResult", mock.Anything)
}

func TestEvaluate_InvalidDecision(t *testing.T) {
	service := newProcedureService(new(mockProcedureRepository), new(mockResidentRepository), new(mockPreceptorRepository), new(mockNotifier))

	_, err := service.Evaluate(context.Background(), models.Principal{ID: 2, Kind: models.AccountKindPreceptor}, 100,
		dto.EvaluateProcedureRequest{Decision: "MAYBE"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestEvaluate_ResidentCannotEvaluate(t *testing.T) {
	service := newProcedureService(new(mockProcedureRepository), new(mockResidentRepository), new(mockPreceptorRepository), new(mockNotifier))

	_, err := service.Evaluate(context.Background(), models.Principal{ID: 7, Kind: models.AccountKindResident}, 100,
		dto.EvaluateProcedureRequest{Decision: "VALIDATE"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestGetByID_ResidentOwnsRecord(t *testing.T) {
	procedure := &models.Procedure{ID: 100, Status: models.StatusPending, ResidentID: 7, PreceptorID: 2}

	procedures := new(mockProcedureRepository)
	procedures.On("GetProcedureByID", mock.Anything, int64(100)).Return(procedure, nil)

	service := newProcedureService(procedures, new(mockResidentRepository), new(mockPreceptorRepository), new(mockNotifier))

	resp, err := service.GetByID(context.Background(), models.Principal{ID: 7, Kind: models.AccountKindResident}, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.ID)

	_, err = service.GetByID(context.Background(), models.Principal{ID: 8, Kind: models.AccountKindResident}, 100)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestList_InvalidStatusFilter(t *testing.T) {
	service := newProcedureService(new(mockProcedureRepository), new(mockResidentRepository), new(mockPreceptorRepository), new(mockNotifier))

	_, err := service.List(context.Background(), models.Principal{ID: 7, Kind: models.AccountKindResident}, "DONE")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestList_ResidentSeesOwnRecords(t *testing.T) {
	procedures := new(mockProcedureRepository)
	procedures.On("ListProceduresByResident", mock.Anything, int64(7), models.StatusPending).
		Return([]*models.Procedure{
			{ID: 101, Status: models.StatusPending, ResidentID: 7, PreceptorID: 2},
			{ID: 102, Status: models.StatusPending, ResidentID: 7, PreceptorID: 2},
		}, nil)

	service := newProcedureService(procedures, new(mockResidentRepository), new(mockPreceptorRepository), new(mockNotifier))

	resp, err := service.List(context.Background(), models.Principal{ID: 7, Kind: models.AccountKindResident}, "PENDING")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
}
