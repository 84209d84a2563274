package services

import (
	"context"

	"github.com/medresidency/logbook/internal/app/models"
	"github.com/medresidency/logbook/internal/app/models/dto"
	"github.com/medresidency/logbook/internal/app/repositories"
	"github.com/medresidency/logbook/internal/pkg/apperrors"
)

// ResidentService exposes the preceptor's view of their residents
type ResidentService interface {
	ListSupervised(ctx context.Context, principal models.Principal) (*dto.ResidentListResponse, error)
}

type residentServiceImpl struct {
	residents  repositories.IResidentRepository
	references repositories.IReferenceRepository
}

// NewResidentService creates a new ResidentService
func NewResidentService(repos *repositories.Repositories) ResidentService {
	return &residentServiceImpl{
		residents:  repos.Residents,
		references: repos.References,
	}
}

// ListSupervised returns the residents supervised by the calling
// preceptor, the entry point for procedure review and report access.
func (s *residentServiceImpl) ListSupervised(ctx context.Context, principal models.Principal) (*dto.ResidentListResponse, error) {
	if principal.Kind != models.AccountKindPreceptor {
		return nil, apperrors.NewForbiddenError("only preceptors can list supervised residents")
	}

	residents, err := s.residents.ListResidentsByPreceptor(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	specialtyNames := map[int64]string{}
	if specialties, err := s.references.ListSpecialties(ctx); err == nil {
		for _, specialty := range specialties {
			specialtyNames[specialty.ID] = specialty.Name
		}
	}

	responses := make([]dto.ResidentSummaryResponse, 0, len(residents))
	for _, resident := range residents {
		responses = append(responses, dto.ResidentSummaryResponse{
			ID:            resident.ID,
			Name:          resident.Name,
			Email:         resident.Email,
			Category:      string(resident.Category),
			EntryYear:     resident.EntryYear,
			SpecialtyID:   resident.SpecialtyID,
			SpecialtyName: specialtyNames[resident.SpecialtyID],
		})
	}

	return &dto.ResidentListResponse{
		Residents: responses,
		Total:     len(responses),
	}, nil
}
