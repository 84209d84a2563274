package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/medresidency/logbook/internal/app/models"
	"github.com/medresidency/logbook/internal/app/repositories"
	"github.com/medresidency/logbook/internal/pkg/crm"
	"github.com/medresidency/logbook/internal/pkg/email"
)

type mockResidentRepository struct {
	mock.Mock
}

func (m *mockResidentRepository) CreateResident(ctx context.Context, resident *models.Resident) (int64, error) {
	args := m.Called(ctx, resident)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockResidentRepository) GetResidentByID(ctx context.Context, id int64) (*models.Resident, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resident), args.Error(1)
}

func (m *mockResidentRepository) GetResidentByEmail(ctx context.Context, emailAddr string) (*models.Resident, error) {
	args := m.Called(ctx, emailAddr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resident), args.Error(1)
}

func (m *mockResidentRepository) ListResidentsByPreceptor(ctx context.Context, preceptorID int64) ([]*models.Resident, error) {
	args := m.Called(ctx, preceptorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Resident), args.Error(1)
}

type mockPreceptorRepository struct {
	mock.Mock
}

func (m *mockPreceptorRepository) CreatePreceptor(ctx context.Context, preceptor *models.Preceptor) (int64, error) {
	args := m.Called(ctx, preceptor)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPreceptorRepository) GetPreceptorByID(ctx context.Context, id int64) (*models.Preceptor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Preceptor), args.Error(1)
}

func (m *mockPreceptorRepository) GetPreceptorByEmail(ctx context.Context, emailAddr string) (*models.Preceptor, error) {
	args := m.Called(ctx, emailAddr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Preceptor), args.Error(1)
}

func (m *mockPreceptorRepository) ListPreceptors(ctx context.Context) ([]*models.Preceptor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Preceptor), args.Error(1)
}

type mockAccountRepository struct {
	mock.Mock
}

func (m *mockAccountRepository) EmailExists(ctx context.Context, emailAddr string) (bool, error) {
	args := m.Called(ctx, emailAddr)
	return args.Bool(0), args.Error(1)
}

func (m *mockAccountRepository) CPFExists(ctx context.Context, cpf string) (bool, error) {
	args := m.Called(ctx, cpf)
	return args.Bool(0), args.Error(1)
}

type mockTokenRepository struct {
	mock.Mock
}

func (m *mockTokenRepository) CreateToken(ctx context.Context, token string, kind models.AccountKind, accountID int64, expiryDate time.Time) error {
	args := m.Called(ctx, token, kind, accountID, expiryDate)
	return args.Error(0)
}

func (m *mockTokenRepository) GetTokenByValue(ctx context.Context, token string) (*models.RefreshToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *mockTokenRepository) RevokeToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockTokenRepository) RevokeAllAccountTokens(ctx context.Context, kind models.AccountKind, accountID int64) error {
	args := m.Called(ctx, kind, accountID)
	return args.Error(0)
}

func (m *mockTokenRepository) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockProcedureRepository struct {
	mock.Mock
}

func (m *mockProcedureRepository) CreateProcedure(ctx context.Context, procedure *models.Procedure) (int64, error) {
	args := m.Called(ctx, procedure)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProcedureRepository) GetProcedureByID(ctx context.Context, id int64) (*models.Procedure, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Procedure), args.Error(1)
}

func (m *mockProcedureRepository) ListProceduresByResident(ctx context.Context, residentID int64, status models.ProcedureStatus) ([]*models.Procedure, error) {
	args := m.Called(ctx, residentID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Procedure), args.Error(1)
}

func (m *mockProcedureRepository) ListProceduresByPreceptor(ctx context.Context, preceptorID int64, status models.ProcedureStatus) ([]*models.Procedure, error) {
	args := m.Called(ctx, preceptorID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Procedure), args.Error(1)
}

func (m *mockProcedureRepository) ListValidatedByResident(ctx context.Context, residentID int64) ([]*repositories.ValidatedProcedure, error) {
	args := m.Called(ctx, residentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repositories.ValidatedProcedure), args.Error(1)
}

func (m *mockProcedureRepository) CountByResidentAndStatus(ctx context.Context, residentID int64, status models.ProcedureStatus) (int, error) {
	args := m.Called(ctx, residentID, status)
	return args.Int(0), args.Error(1)
}

func (m *mockProcedureRepository) MarkEvaluated(ctx context.Context, id int64, status models.ProcedureStatus, remarks *string, evaluatedAt time.Time) error {
	args := m.Called(ctx, id, status, remarks, evaluatedAt)
	return args.Error(0)
}

type mockReferenceRepository struct {
	mock.Mock
}

func (m *mockReferenceRepository) ListUniversities(ctx context.Context) ([]*models.University, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.University), args.Error(1)
}

func (m *mockReferenceRepository) GetUniversityByID(ctx context.Context, id int64) (*models.University, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.University), args.Error(1)
}

func (m *mockReferenceRepository) ListHospitals(ctx context.Context) ([]*models.Hospital, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Hospital), args.Error(1)
}

func (m *mockReferenceRepository) GetHospitalByID(ctx context.Context, id int64) (*models.Hospital, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Hospital), args.Error(1)
}

func (m *mockReferenceRepository) ListSpecialties(ctx context.Context) ([]*models.Specialty, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Specialty), args.Error(1)
}

func (m *mockReferenceRepository) GetSpecialtyByID(ctx context.Context, id int64) (*models.Specialty, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Specialty), args.Error(1)
}

func (m *mockReferenceRepository) CreateUniversity(ctx context.Context, university *models.University) (int64, error) {
	args := m.Called(ctx, university)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReferenceRepository) CreateHospital(ctx context.Context, hospital *models.Hospital) (int64, error) {
	args := m.Called(ctx, hospital)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReferenceRepository) CreateSpecialty(ctx context.Context, specialty *models.Specialty) (int64, error) {
	args := m.Called(ctx, specialty)
	return args.Get(0).(int64), args.Error(1)
}

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) LookupLicense(ctx context.Context, state, number string) (*crm.LookupResult, error) {
	args := m.Called(ctx, state, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.LookupResult), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) QueueEvaluationResult(notice email.EvaluationNotice) {
	m.Called(notice)
}

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) RenderPDF(ctx context.Context, html []byte) ([]byte, error) {
	args := m.Called(ctx, html)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func newTestRepositories(
	residents *mockResidentRepository,
	preceptors *mockPreceptorRepository,
	accounts *mockAccountRepository,
	tokens *mockTokenRepository,
	procedures *mockProcedureRepository,
	references *mockReferenceRepository,
) *repositories.Repositories {
	return &repositories.Repositories{
		Residents:  residents,
		Preceptors: preceptors,
		Accounts:   accounts,
		Tokens:     tokens,
		Procedures: procedures,
		References: references,
	}
}
