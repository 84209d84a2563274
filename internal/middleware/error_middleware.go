package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/medresidency/logbook/internal/app/models/dto"
	"github.com/medresidency/logbook/internal/pkg/apperrors"
)

// HandleAPIError maps service errors to HTTP responses. Controllers call
// this instead of building status codes themselves.
func HandleAPIError(c *gin.Context, err error) {
	message := err.Error()
	field := apperrors.FieldOf(err)

	switch {
	case errors.Is(err, apperrors.ErrResidentNotFound),
		errors.Is(err, apperrors.ErrPreceptorNotFound),
		errors.Is(err, apperrors.ErrProcedureNotFound),
		errors.Is(err, apperrors.ErrUniversityNotFound),
		errors.Is(err, apperrors.ErrHospitalNotFound),
		errors.Is(err, apperrors.ErrSpecialtyNotFound),
		errors.Is(err, apperrors.ErrNotFound):
		c.JSON(404, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message)))

	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(403, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeForbidden, message)))

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(401, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid email or password")))

	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(401, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeExpiredToken, message)))

	case errors.Is(err, apperrors.ErrTokenNotFound):
		c.JSON(401, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, message)))

	case errors.Is(err, apperrors.ErrTokenInvalid),
		errors.Is(err, apperrors.ErrTokenRevoked):
		c.JSON(401, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInvalidToken, message)))

	case errors.Is(err, apperrors.ErrUnauthenticated):
		c.JSON(401, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))

	case errors.Is(err, apperrors.ErrLicenseNotEligible):
		c.JSON(422, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeLicenseNotEligible, message)))

	case errors.Is(err, apperrors.ErrValidationFailed):
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message)
		if field != "" {
			errorDetail = errorDetail.WithField(field)
		}
		c.JSON(400, dto.NewErrorResponse(errorDetail))

	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		c.JSON(409, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Email already registered").WithField("email")))

	case errors.Is(err, apperrors.ErrCPFAlreadyExists):
		c.JSON(409, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "CPF already registered").WithField("cpf")))

	case errors.Is(err, apperrors.ErrInvalidState):
		c.JSON(409, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeResourceConflict, "Procedure has already been evaluated")))

	case errors.Is(err, apperrors.ErrExternalService):
		c.JSON(502, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, "External service unavailable")))

	default:
		c.JSON(500, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	}
}
