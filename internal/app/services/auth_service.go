package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/medresidency/logbook/internal/app/models"
	"github.com/medresidency/logbook/internal/app/models/dto"
	"github.com/medresidency/logbook/internal/app/repositories"
	"github.com/medresidency/logbook/internal/pkg/apperrors"
	"github.com/medresidency/logbook/internal/pkg/auth"
	"github.com/medresidency/logbook/internal/pkg/crm"
	"github.com/medresidency/logbook/internal/pkg/logger"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	cpfRegex   = regexp.MustCompile(`^\d{11}$`)
)

// AuthService defines authentication and registration operations
type AuthService interface {
	VerifyLicense(ctx context.Context, req dto.VerifyLicenseRequest) (*dto.VerifyLicenseResponse, error)
	RegisterResident(ctx context.Context, req dto.RegisterResidentRequest) (*dto.TokenResponse, error)
	RegisterPreceptor(ctx context.Context, req dto.RegisterPreceptorRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	GetProfile(ctx context.Context, principal models.Principal) (*dto.ProfileResponse, error)
}

type authServiceImpl struct {
	residents  repositories.IResidentRepository
	preceptors repositories.IPreceptorRepository
	accounts   repositories.IAccountRepository
	tokens     repositories.ITokenRepository
	references repositories.IReferenceRepository
	jwtService *auth.JWTService
	verifier   crm.Verifier
}

// NewAuthService creates a new AuthService
func NewAuthService(
	repos *repositories.Repositories,
	jwtService *auth.JWTService,
	verifier crm.Verifier,
) AuthService {
	return &authServiceImpl{
		residents:  repos.Residents,
		preceptors: repos.Preceptors,
		accounts:   repos.Accounts,
		tokens:     repos.Tokens,
		references: repos.References,
		jwtService: jwtService,
		verifier:   verifier,
	}
}

// VerifyLicense checks a license against the registry and, when eligible,
// issues a short-lived license token that registration endpoints require.
func (s *authServiceImpl) VerifyLicense(ctx context.Context, req dto.VerifyLicenseRequest) (*dto.VerifyLicenseResponse, error) {
	if req.State == "" || len(req.State) != 2 {
		return nil, apperrors.NewValidationError("state", "state must be a two-letter UF code")
	}
	if req.Number == "" || len(req.Number) > 10 {
		return nil, apperrors.NewValidationError("number", "license number must be between 1 and 10 characters")
	}

	result, err := s.verifier.LookupLicense(ctx, req.State, req.Number)
	if err != nil {
		logger.Warn().Err(err).Str("state", req.State).Msg("License registry lookup failed")
		return nil, err
	}

	if !result.Eligible() {
		if !result.Found {
			return nil, &apperrors.CustomError{
				Err:     apperrors.ErrLicenseNotEligible,
				Message: "license not found in the registry",
			}
		}
		return nil, &apperrors.CustomError{
			Err:     apperrors.ErrLicenseNotEligible,
			Message: fmt.Sprintf("license standing is %q, only regular licenses can register", result.Status),
		}
	}

	token, expiresIn, err := s.jwtService.GenerateLicenseToken(req.State, req.Number)
	if err != nil {
		return nil, err
	}

	return &dto.VerifyLicenseResponse{
		LicenseToken: token,
		ExpiresIn:    expiresIn,
	}, nil
}

// RegisterResident creates a resident account and returns a token pair
func (s *authServiceImpl) RegisterResident(ctx context.Context, req dto.RegisterResidentRequest) (*dto.TokenResponse, error) {
	license, err := s.jwtService.ValidateLicenseToken(req.LicenseToken)
	if err != nil {
		return nil, licenseTokenError(err)
	}

	if err := s.validateAccountFields(ctx, req.Name, req.Email, req.CPF, req.Password); err != nil {
		return nil, err
	}
	if !models.IsValidCategory(req.Category) {
		return nil, apperrors.NewValidationError("category", "category must be one of R1, R2, R3, R4, R+")
	}
	currentYear := time.Now().Year()
	if req.EntryYear < 1950 || req.EntryYear > currentYear {
		return nil, apperrors.NewValidationError("entryYear", fmt.Sprintf("entry year must be between 1950 and %d", currentYear))
	}

	if _, err := s.references.GetSpecialtyByID(ctx, req.SpecialtyID); err != nil {
		return nil, err
	}
	if _, err := s.references.GetUniversityByID(ctx, req.UniversityID); err != nil {
		return nil, err
	}
	if _, err := s.references.GetHospitalByID(ctx, req.HospitalID); err != nil {
		return nil, err
	}
	if _, err := s.preceptors.GetPreceptorByID(ctx, req.PreceptorID); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	resident := &models.Resident{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		CPF:           req.CPF,
		LicenseState:  license.LicenseState,
		LicenseNumber: license.LicenseNumber,
		SpecialtyID:   req.SpecialtyID,
		PreceptorID:   req.PreceptorID,
		UniversityID:  req.UniversityID,
		HospitalID:    req.HospitalID,
		EntryYear:     req.EntryYear,
		Category:      models.ResidencyCategory(req.Category),
		PasswordHash:  passwordHash,
	}

	id, err := s.residents.CreateResident(ctx, resident)
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("residentID", id).Str("email", req.Email).Msg("Resident registered")

	return s.issueTokenPair(ctx, models.Principal{
		ID:    id,
		Kind:  models.AccountKindResident,
		Email: req.Email,
	})
}

// RegisterPreceptor creates a preceptor account and returns a token pair
func (s *authServiceImpl) RegisterPreceptor(ctx context.Context, req dto.RegisterPreceptorRequest) (*dto.TokenResponse, error) {
	license, err := s.jwtService.ValidateLicenseToken(req.LicenseToken)
	if err != nil {
		return nil, licenseTokenError(err)
	}

	if err := s.validateAccountFields(ctx, req.Name, req.Email, req.CPF, req.Password); err != nil {
		return nil, err
	}

	if _, err := s.references.GetUniversityByID(ctx, req.UniversityID); err != nil {
		return nil, err
	}
	if _, err := s.references.GetHospitalByID(ctx, req.HospitalID); err != nil {
		return nil, err
	}
	if _, err := s.references.GetSpecialtyByID(ctx, req.SpecialtyID); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	preceptor := &models.Preceptor{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		CPF:           req.CPF,
		LicenseState:  license.LicenseState,
		LicenseNumber: license.LicenseNumber,
		UniversityID:  req.UniversityID,
		HospitalID:    req.HospitalID,
		SpecialtyID:   req.SpecialtyID,
		PasswordHash:  passwordHash,
	}

	id, err := s.preceptors.CreatePreceptor(ctx, preceptor)
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("preceptorID", id).Str("email", req.Email).Msg("Preceptor registered")

	return s.issueTokenPair(ctx, models.Principal{
		ID:    id,
		Kind:  models.AccountKindPreceptor,
		Email: req.Email,
	})
}

// Login authenticates a resident or preceptor by email and password.
// Residents are searched first, then preceptors.
func (s *authServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	resident, err := s.residents.GetResidentByEmail(ctx, req.Email)
	if err == nil {
		if !auth.CheckPassword(resident.PasswordHash, req.Password) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return s.issueTokenPair(ctx, models.Principal{
			ID:    resident.ID,
			Kind:  models.AccountKindResident,
			Email: resident.Email,
		})
	}
	if !errors.Is(err, apperrors.ErrResidentNotFound) {
		return nil, err
	}

	preceptor, err := s.preceptors.GetPreceptorByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrPreceptorNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(preceptor.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueTokenPair(ctx, models.Principal{
		ID:    preceptor.ID,
		Kind:  models.AccountKindPreceptor,
		Email: preceptor.Email,
	})
}

// RefreshToken rotates a refresh token: the presented token is revoked
// and a new pair is issued.
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	stored, err := s.tokens.GetTokenByValue(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	email, err := s.accountEmail(ctx, stored.AccountKind, stored.AccountID)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.RevokeToken(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.issueTokenPair(ctx, models.Principal{
		ID:    stored.AccountID,
		Kind:  stored.AccountKind,
		Email: email,
	})
}

// GetProfile returns the identity block for the authenticated account
func (s *authServiceImpl) GetProfile(ctx context.Context, principal models.Principal) (*dto.ProfileResponse, error) {
	switch principal.Kind {
	case models.AccountKindResident:
		resident, err := s.residents.GetResidentByID(ctx, principal.ID)
		if err != nil {
			return nil, err
		}
		profile := &dto.ProfileResponse{
			ID:            resident.ID,
			Kind:          string(models.AccountKindResident),
			Name:          resident.Name,
			Email:         resident.Email,
			Phone:         resident.Phone,
			CPF:           resident.CPF,
			LicenseState:  resident.LicenseState,
			LicenseNumber: resident.LicenseNumber,
			EntryYear:     resident.EntryYear,
			Category:      string(resident.Category),
		}
		s.fillReferenceNames(ctx, profile, resident.UniversityID, resident.HospitalID, resident.SpecialtyID)
		if preceptor, err := s.preceptors.GetPreceptorByID(ctx, resident.PreceptorID); err == nil {
			profile.PreceptorName = preceptor.Name
		}
		return profile, nil

	case models.AccountKindPreceptor:
		preceptor, err := s.preceptors.GetPreceptorByID(ctx, principal.ID)
		if err != nil {
			return nil, err
		}
		profile := &dto.ProfileResponse{
			ID:            preceptor.ID,
			Kind:          string(models.AccountKindPreceptor),
			Name:          preceptor.Name,
			Email:         preceptor.Email,
			Phone:         preceptor.Phone,
			CPF:           preceptor.CPF,
			LicenseState:  preceptor.LicenseState,
			LicenseNumber: preceptor.LicenseNumber,
		}
		s.fillReferenceNames(ctx, profile, preceptor.UniversityID, preceptor.HospitalID, preceptor.SpecialtyID)
		return profile, nil

	default:
		return nil, apperrors.ErrUnauthenticated
	}
}

func (s *authServiceImpl) fillReferenceNames(ctx context.Context, profile *dto.ProfileResponse, universityID, hospitalID, specialtyID int64) {
	if university, err := s.references.GetUniversityByID(ctx, universityID); err == nil {
		profile.UniversityName = university.Name
	}
	if hospital, err := s.references.GetHospitalByID(ctx, hospitalID); err == nil {
		profile.HospitalName = hospital.Name
	}
	if specialty, err := s.references.GetSpecialtyByID(ctx, specialtyID); err == nil {
		profile.SpecialtyName = specialty.Name
	}
}

func (s *authServiceImpl) validateAccountFields(ctx context.Context, name, email, cpf, password string) error {
	if nameLen := utf8.RuneCountInString(name); nameLen < 5 || nameLen > 200 {
		return apperrors.NewValidationError("name", "name must be between 5 and 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return apperrors.NewValidationError("email", "email format is invalid")
	}
	if !cpfRegex.MatchString(cpf) {
		return apperrors.NewValidationError("cpf", "CPF must be exactly 11 digits")
	}
	if utf8.RuneCountInString(password) < 8 {
		return apperrors.NewValidationError("password", "password must be at least 8 characters")
	}

	emailTaken, err := s.accounts.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if emailTaken {
		return &apperrors.CustomError{
			Err:     apperrors.ErrEmailAlreadyExists,
			Message: "email is already registered",
			Field:   "email",
		}
	}

	cpfTaken, err := s.accounts.CPFExists(ctx, cpf)
	if err != nil {
		return err
	}
	if cpfTaken {
		return &apperrors.CustomError{
			Err:     apperrors.ErrCPFAlreadyExists,
			Message: "CPF is already registered",
			Field:   "cpf",
		}
	}

	return nil
}

func (s *authServiceImpl) issueTokenPair(ctx context.Context, principal models.Principal) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(principal)
	if err != nil {
		return nil, err
	}

	err = s.tokens.CreateToken(ctx, refreshToken, principal.Kind, principal.ID, s.jwtService.GetRefreshTokenExpiry())
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresIn:        expiresIn,
		RefreshExpiresIn: refreshExpiresIn,
		Kind:             string(principal.Kind),
	}, nil
}

func (s *authServiceImpl) accountEmail(ctx context.Context, kind models.AccountKind, accountID int64) (string, error) {
	switch kind {
	case models.AccountKindResident:
		resident, err := s.residents.GetResidentByID(ctx, accountID)
		if err != nil {
			return "", err
		}
		return resident.Email, nil
	case models.AccountKindPreceptor:
		preceptor, err := s.preceptors.GetPreceptorByID(ctx, accountID)
		if err != nil {
			return "", err
		}
		return preceptor.Email, nil
	default:
		return "", apperrors.ErrTokenInvalid
	}
}

func licenseTokenError(err error) error {
	if errors.Is(err, auth.ErrExpiredToken) {
		return &apperrors.CustomError{
			Err:     apperrors.ErrTokenExpired,
			Message: "license verification expired, verify the license again",
			Field:   "licenseToken",
		}
	}
	return &apperrors.CustomError{
		Err:     apperrors.ErrTokenInvalid,
		Message: "a valid license verification token is required",
		Field:   "licenseToken",
	}
}
