package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medresidency/logbook/internal/app/models"
)

// IResidentRepository defines resident account persistence operations
type IResidentRepository interface {
	CreateResident(ctx context.Context, resident *models.Resident) (int64, error)
	GetResidentByID(ctx context.Context, id int64) (*models.Resident, error)
	GetResidentByEmail(ctx context.Context, email string) (*models.Resident, error)
	ListResidentsByPreceptor(ctx context.Context, preceptorID int64) ([]*models.Resident, error)
}

// IPreceptorRepository defines preceptor account persistence operations
type IPreceptorRepository interface {
	CreatePreceptor(ctx context.Context, preceptor *models.Preceptor) (int64, error)
	GetPreceptorByID(ctx context.Context, id int64) (*models.Preceptor, error)
	GetPreceptorByEmail(ctx context.Context, email string) (*models.Preceptor, error)
	ListPreceptors(ctx context.Context) ([]*models.Preceptor, error)
}

// IAccountRepository defines cross-table account checks
type IAccountRepository interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	CPFExists(ctx context.Context, cpf string) (bool, error)
}

// ITokenRepository defines refresh token persistence operations
type ITokenRepository interface {
	CreateToken(ctx context.Context, token string, kind models.AccountKind, accountID int64, expiryDate time.Time) error
	GetTokenByValue(ctx context.Context, token string) (*models.RefreshToken, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllAccountTokens(ctx context.Context, kind models.AccountKind, accountID int64) error
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

// IProcedureRepository defines procedure record persistence operations
type IProcedureRepository interface {
	CreateProcedure(ctx context.Context, procedure *models.Procedure) (int64, error)
	GetProcedureByID(ctx context.Context, id int64) (*models.Procedure, error)
	ListProceduresByResident(ctx context.Context, residentID int64, status models.ProcedureStatus) ([]*models.Procedure, error)
	ListProceduresByPreceptor(ctx context.Context, preceptorID int64, status models.ProcedureStatus) ([]*models.Procedure, error)
	ListValidatedByResident(ctx context.Context, residentID int64) ([]*ValidatedProcedure, error)
	CountByResidentAndStatus(ctx context.Context, residentID int64, status models.ProcedureStatus) (int, error)
	MarkEvaluated(ctx context.Context, id int64, status models.ProcedureStatus, remarks *string, evaluatedAt time.Time) error
}

// IReferenceRepository defines reference data operations
type IReferenceRepository interface {
	ListUniversities(ctx context.Context) ([]*models.University, error)
	GetUniversityByID(ctx context.Context, id int64) (*models.University, error)
	ListHospitals(ctx context.Context) ([]*models.Hospital, error)
	GetHospitalByID(ctx context.Context, id int64) (*models.Hospital, error)
	ListSpecialties(ctx context.Context) ([]*models.Specialty, error)
	GetSpecialtyByID(ctx context.Context, id int64) (*models.Specialty, error)
	CreateUniversity(ctx context.Context, university *models.University) (int64, error)
	CreateHospital(ctx context.Context, hospital *models.Hospital) (int64, error)
	CreateSpecialty(ctx context.Context, specialty *models.Specialty) (int64, error)
}

// Repositories bundles every repository over one connection pool
type Repositories struct {
	Residents  IResidentRepository
	Preceptors IPreceptorRepository
	Accounts   IAccountRepository
	Tokens     ITokenRepository
	Procedures IProcedureRepository
	References IReferenceRepository
}

// NewRepositories creates all repositories
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Residents:  NewResidentRepository(pool),
		Preceptors: NewPreceptorRepository(pool),
		Accounts:   NewAccountRepository(pool),
		Tokens:     NewTokenRepository(pool),
		Procedures: NewProcedureRepository(pool),
		References: NewReferenceRepository(pool),
	}
}
