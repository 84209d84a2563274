package services

import (
	"context"

	"github.com/medresidency/logbook/internal/app/models/dto"
	"github.com/medresidency/logbook/internal/app/repositories"
)

// ReferenceService exposes the pre-seeded reference data used by
// registration and submission forms
type ReferenceService interface {
	ListUniversities(ctx context.Context) ([]dto.UniversityResponse, error)
	ListHospitals(ctx context.Context) ([]dto.HospitalResponse, error)
	ListSpecialties(ctx context.Context) ([]dto.SpecialtyResponse, error)
	ListPreceptors(ctx context.Context) ([]dto.PreceptorSummaryResponse, error)
}

type referenceServiceImpl struct {
	references repositories.IReferenceRepository
	preceptors repositories.IPreceptorRepository
}

// NewReferenceService creates a new ReferenceService
func NewReferenceService(repos *repositories.Repositories) ReferenceService {
	return &referenceServiceImpl{
		references: repos.References,
		preceptors: repos.Preceptors,
	}
}

func (s *referenceServiceImpl) ListUniversities(ctx context.Context) ([]dto.UniversityResponse, error) {
	universities, err := s.references.ListUniversities(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UniversityResponse, 0, len(universities))
	for _, university := range universities {
		responses = append(responses, dto.UniversityResponse{
			ID:    university.ID,
			Name:  university.Name,
			State: university.State,
		})
	}
	return responses, nil
}

func (s *referenceServiceImpl) ListHospitals(ctx context.Context) ([]dto.HospitalResponse, error) {
	hospitals, err := s.references.ListHospitals(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.HospitalResponse, 0, len(hospitals))
	for _, hospital := range hospitals {
		responses = append(responses, dto.HospitalResponse{
			ID:           hospital.ID,
			Name:         hospital.Name,
			UniversityID: hospital.UniversityID,
		})
	}
	return responses, nil
}

func (s *referenceServiceImpl) ListSpecialties(ctx context.Context) ([]dto.SpecialtyResponse, error) {
	specialties, err := s.references.ListSpecialties(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.SpecialtyResponse, 0, len(specialties))
	for _, specialty := range specialties {
		responses = append(responses, dto.SpecialtyResponse{
			ID:   specialty.ID,
			Name: specialty.Name,
		})
	}
	return responses, nil
}

func (s *referenceServiceImpl) ListPreceptors(ctx context.Context) ([]dto.PreceptorSummaryResponse, error) {
	preceptors, err := s.preceptors.ListPreceptors(ctx)
	if err != nil {
		return nil, err
	}

	specialtyNames := map[int64]string{}
	if specialties, err := s.references.ListSpecialties(ctx); err == nil {
		for _, specialty := range specialties {
			specialtyNames[specialty.ID] = specialty.Name
		}
	}

	responses := make([]dto.PreceptorSummaryResponse, 0, len(preceptors))
	for _, preceptor := range preceptors {
		responses = append(responses, dto.PreceptorSummaryResponse{
			ID:            preceptor.ID,
			Name:          preceptor.Name,
			SpecialtyID:   preceptor.SpecialtyID,
			SpecialtyName: specialtyNames[preceptor.SpecialtyID],
			HospitalID:    preceptor.HospitalID,
		})
	}
	return responses, nil
}
