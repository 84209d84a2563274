package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/medresidency/logbook/internal/app/models/dto"
	"github.com/medresidency/logbook/internal/app/services"
	"github.com/medresidency/logbook/internal/middleware"
)

// ProcedureController handles procedure submission, listing and evaluation
type ProcedureController struct {
	procedureService services.ProcedureService
}

// NewProcedureController creates a new ProcedureController
func NewProcedureController(procedureService services.ProcedureService) *ProcedureController {
	return &ProcedureController{
		procedureService: procedureService,
	}
}

// SubmitProcedure records a new procedure
// @Summary Submit a procedure
// @Description Records a clinical procedure performed by the authenticated resident, addressed to a preceptor for evaluation
// @Tags procedures
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitProcedureRequest true "Procedure data"
// @Success 201 {object} dto.APIResponse{data=dto.ProcedureResponse} "Procedure recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Only residents can submit procedures"
// @Failure 404 {object} dto.ErrorResponse "Preceptor not found"
// @Router /procedures [post]
func (c *ProcedureController) SubmitProcedure(ctx *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.SubmitProcedureRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid procedure data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	procedure, err := c.procedureService.Submit(ctx, principal, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(procedure))
}

// ListProcedures lists the caller's procedures
// @Summary List procedures
// @Description Residents see their own submissions; preceptors see procedures addressed to them. Optional status filter.
// @Tags procedures
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(PENDING, VALIDATED, REJECTED)
// @Success 200 {object} dto.APIResponse{data=dto.ProcedureListResponse} "Procedures retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid status filter"
// @Router /procedures [get]
func (c *ProcedureController) ListProcedures(ctx *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	procedures, err := c.procedureService.List(ctx, principal, ctx.Query("status"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(procedures))
}

// GetProcedureByID retrieves a single procedure
// @Summary Get procedure details
// @Description Returns a procedure visible to the caller (its resident or its addressed preceptor)
// @Tags procedures
// @Produce json
// @Security BearerAuth
// @Param id path int true "Procedure ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.ProcedureResponse} "Procedure retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid procedure ID"
// @Failure 403 {object} dto.ErrorResponse "Procedure belongs to another account"
// @Failure 404 {object} dto.ErrorResponse "Procedure not found"
// @Router /procedures/{id} [get]
func (c *ProcedureController) GetProcedureByID(ctx *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid procedure ID")
		errorDetail = errorDetail.WithDetails("Procedure ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	procedure, err := c.procedureService.GetByID(ctx, principal, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(procedure))
}

// EvaluateProcedure records a preceptor's verdict
// @Summary Evaluate a procedure
// @Description Validates or rejects a pending procedure addressed to the authenticated preceptor; the resident is notified by email
// @Tags procedures
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Procedure ID" Format(int64) minimum(1)
// @Param request body dto.EvaluateProcedureRequest true "Decision and optional remarks"
// @Success 200 {object} dto.APIResponse{data=dto.ProcedureResponse} "Procedure evaluated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Procedure is addressed to another preceptor"
// @Failure 404 {object} dto.ErrorResponse "Procedure not found"
// @Failure 409 {object} dto.ErrorResponse "Procedure already evaluated"
// @Router /procedures/{id}/evaluation [post]
func (c *ProcedureController) EvaluateProcedure(ctx *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid procedure ID")
		errorDetail = errorDetail.WithDetails("Procedure ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.EvaluateProcedureRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid evaluation data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	procedure, err := c.procedureService.Evaluate(ctx, principal, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(procedure))
}
