package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/medresidency/logbook/internal/app/models/dto"
	"github.com/medresidency/logbook/internal/app/services"
	"github.com/medresidency/logbook/internal/middleware"
)

// ReportController serves resident logbook reports
type ReportController struct {
	reportService services.ReportService
}

// NewReportController creates a new ReportController
func NewReportController(reportService services.ReportService) *ReportController {
	return &ReportController{
		reportService: reportService,
	}
}

// GetResidentReport generates and downloads a resident's logbook report
// @Summary Download a logbook report
// @Description Generates the validated-procedures report for a resident. Residents can only request their own report; preceptors only reports of residents they supervise. PDF by default; falls back to HTML when printing is unavailable.
// @Tags reports
// @Produce application/pdf
// @Produce text/html
// @Security BearerAuth
// @Param id path int true "Resident ID" Format(int64) minimum(1)
// @Param format query string false "Output format" Enums(pdf, html) default(pdf)
// @Success 200 {file} binary "Report document"
// @Failure 400 {object} dto.ErrorResponse "Invalid resident ID or format"
// @Failure 403 {object} dto.ErrorResponse "Report belongs to another account"
// @Failure 404 {object} dto.ErrorResponse "Resident not found"
// @Router /residents/{id}/report [get]
func (c *ReportController) GetResidentReport(ctx *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	residentID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid resident ID")
		errorDetail = errorDetail.WithDetails("Resident ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	format := services.ReportFormat(ctx.DefaultQuery("format", string(services.FormatPDF)))
	if format != services.FormatPDF && format != services.FormatHTML {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid report format")
		errorDetail = errorDetail.WithDetails("Format must be 'pdf' or 'html'")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	document, err := c.reportService.Generate(ctx, principal, residentID, format)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", "attachment; filename=\""+document.Filename+"\"")
	ctx.Data(http.StatusOK, document.ContentType, document.Content)
}
