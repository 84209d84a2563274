package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/medresidency/logbook/internal/app/controllers"
	"github.com/medresidency/logbook/internal/app/models"
	"github.com/medresidency/logbook/internal/app/models/dto"
	"github.com/medresidency/logbook/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	procedureController *controllers.ProcedureController,
	reportController *controllers.ReportController,
	referenceController *controllers.ReferenceController,
	residentController *controllers.ResidentController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public reference data routes ---
	v1.GET("/universities", referenceController.GetAllUniversities)
	v1.GET("/hospitals", referenceController.GetAllHospitals)
	v1.GET("/specialties", referenceController.GetAllSpecialties)
	v1.GET("/preceptors", referenceController.GetAllPreceptors)

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/verify-license", authController.VerifyLicense)
		auth.POST("/register/resident", authController.RegisterResident)
		auth.POST("/register/preceptor", authController.RegisterPreceptor)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/profile", authController.GetProfile)

		procedures := authenticated.Group("/procedures")
		{
			procedures.GET("", procedureController.ListProcedures)
			procedures.GET("/:id", procedureController.GetProcedureByID)

			// Submission is resident-only; evaluation is preceptor-only.
			proceduresResidentProtected := procedures.Group("")
			proceduresResidentProtected.Use(authMiddleware.KindRequired(models.AccountKindResident))
			{
				proceduresResidentProtected.POST("", procedureController.SubmitProcedure)
			}

			proceduresPreceptorProtected := procedures.Group("")
			proceduresPreceptorProtected.Use(authMiddleware.KindRequired(models.AccountKindPreceptor))
			{
				proceduresPreceptorProtected.POST("/:id/evaluation", procedureController.EvaluateProcedure)
			}
		}

		residents := authenticated.Group("/residents")
		{
			residents.GET("/:id/report", reportController.GetResidentReport)

			residentsPreceptorProtected := residents.Group("")
			residentsPreceptorProtected.Use(authMiddleware.KindRequired(models.AccountKindPreceptor))
			{
				residentsPreceptorProtected.GET("", residentController.GetSupervisedResidents)
			}
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.NewAPIResponse(gin.H{"status": "ok"}))
	})
}
