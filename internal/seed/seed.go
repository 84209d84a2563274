package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/medresidency/logbook/internal/app/models"
	appRepos "github.com/medresidency/logbook/internal/app/repositories"
	"github.com/medresidency/logbook/internal/pkg/apperrors"
)

// CreateDefaultData seeds the reference tables (universities, hospitals,
// specialties) used by the registration forms. Existing entries are left
// untouched.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	referenceRepo := appRepos.NewReferenceRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default reference data...")
	var finalErr error

	universities := []*appModels.University{
		{Name: "Federal University of Uberlandia", State: "MG"},
		{Name: "University of Sao Paulo", State: "SP"},
		{Name: "Federal University of Rio de Janeiro", State: "RJ"},
	}

	universityIDs := map[string]int64{}
	for _, university := range universities {
		id, err := referenceRepo.CreateUniversity(ctx, university)
		if err != nil && !errors.Is(err, apperrors.ErrReferenceExists) {
			lgr.Error().Err(err).Str("university", university.Name).Msg("Error creating university")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if errors.Is(err, apperrors.ErrReferenceExists) {
			existing, errGet := referenceRepo.ListUniversities(ctx)
			if errGet != nil {
				lgr.Error().Err(errGet).Msg("Error listing universities to find existing ID")
				finalErr = errors.Join(finalErr, errGet)
				continue
			}
			for _, u := range existing {
				if u.Name == university.Name {
					id = u.ID
					break
				}
			}
		}
		universityIDs[university.Name] = id
	}

	hospitals := []struct {
		name       string
		university string
	}{
		{"Hospital de Clinicas - UFU", "Federal University of Uberlandia"},
		{"Hospital das Clinicas - USP", "University of Sao Paulo"},
		{"Hospital Universitario - UFRJ", "Federal University of Rio de Janeiro"},
	}

	for _, hospital := range hospitals {
		universityID, ok := universityIDs[hospital.university]
		if !ok || universityID == 0 {
			continue
		}
		_, err := referenceRepo.CreateHospital(ctx, &appModels.Hospital{
			Name:         hospital.name,
			UniversityID: universityID,
		})
		if err != nil && !errors.Is(err, apperrors.ErrReferenceExists) {
			lgr.Error().Err(err).Str("hospital", hospital.name).Msg("Error creating hospital")
			finalErr = errors.Join(finalErr, err)
		}
	}

	specialties := []string{
		"General Surgery",
		"Internal Medicine",
		"Pediatrics",
		"Gynecology and Obstetrics",
		"Anesthesiology",
		"Orthopedics",
	}

	for _, name := range specialties {
		_, err := referenceRepo.CreateSpecialty(ctx, &appModels.Specialty{Name: name})
		if err != nil && !errors.Is(err, apperrors.ErrReferenceExists) {
			lgr.Error().Err(err).Str("specialty", name).Msg("Error creating specialty")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr != nil {
		return finalErr
	}

	lgr.Info().Msg("Default reference data is in place")
	return nil
}
