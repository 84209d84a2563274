package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medresidency/logbook/internal/app/models/dto"
	"github.com/medresidency/logbook/internal/app/services"
	"github.com/medresidency/logbook/internal/middleware"
)

// ReferenceController serves reference data for registration and submission forms
type ReferenceController struct {
	referenceService services.ReferenceService
}

// NewReferenceController creates a new ReferenceController
func NewReferenceController(referenceService services.ReferenceService) *ReferenceController {
	return &ReferenceController{
		referenceService: referenceService,
	}
}

// GetAllUniversities retrieves all universities
// @Summary Get all universities
// @Description Retrieves the list of registered universities
// @Tags references
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.UniversityResponse} "Universities retrieved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /universities [get]
func (c *ReferenceController) GetAllUniversities(ctx *gin.Context) {
	universities, err := c.referenceService.ListUniversities(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(universities))
}

// GetAllHospitals retrieves all hospitals
// @Summary Get all hospitals
// @Description Retrieves the list of registered teaching hospitals
// @Tags references
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.HospitalResponse} "Hospitals retrieved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /hospitals [get]
func (c *ReferenceController) GetAllHospitals(ctx *gin.Context) {
	hospitals, err := c.referenceService.ListHospitals(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(hospitals))
}

// GetAllSpecialties retrieves all specialties
// @Summary Get all specialties
// @Description Retrieves the list of medical specialties
// @Tags references
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.SpecialtyResponse} "Specialties retrieved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /specialties [get]
func (c *ReferenceController) GetAllSpecialties(ctx *gin.Context) {
	specialties, err := c.referenceService.ListSpecialties(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(specialties))
}

// GetAllPreceptors retrieves all registered preceptors
// @Summary Get all preceptors
// @Description Retrieves the list of preceptors available for supervision, used by the resident registration form
// @Tags references
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.PreceptorSummaryResponse} "Preceptors retrieved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /preceptors [get]
func (c *ReferenceController) GetAllPreceptors(ctx *gin.Context) {
	preceptors, err := c.referenceService.ListPreceptors(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(preceptors))
}
