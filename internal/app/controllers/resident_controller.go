package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medresidency/logbook/internal/app/models/dto"
	"github.com/medresidency/logbook/internal/app/services"
	"github.com/medresidency/logbook/internal/middleware"
)

// ResidentController serves the preceptor's view of their residents
type ResidentController struct {
	residentService services.ResidentService
}

// NewResidentController creates a new ResidentController
func NewResidentController(residentService services.ResidentService) *ResidentController {
	return &ResidentController{
		residentService: residentService,
	}
}

// GetSupervisedResidents lists the residents supervised by the caller
// @Summary List supervised residents
// @Description Returns the residents assigned to the authenticated preceptor, used to review their logbooks and request reports
// @Tags residents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ResidentListResponse} "Residents retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Only preceptors can list residents"
// @Router /residents [get]
func (c *ResidentController) GetSupervisedResidents(ctx *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	residents, err := c.residentService.ListSupervised(ctx, principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(residents))
}
