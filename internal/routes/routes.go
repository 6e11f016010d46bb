package routes

import (
	"github.com/gin-gonic/gin"

	"cipherhaven/internal/authz"
	"cipherhaven/internal/handlers"
	"cipherhaven/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	tokens *middleware.SessionTokens,
	signUpHandler *handlers.SignUpHandler,
	navigationHandler *handlers.NavigationHandler,
	generationHandler *handlers.GenerationHandler,
	reportHandler *handlers.ReportHandler,
	dashboardHandler *handlers.DashboardHandler,
	healthHandler *handlers.HealthHandler,
) *gin.Engine {

	// ---- public
	r.GET("/healthz", healthHandler.Health)

	signup := r.Group("/signup/flows")
	{
		signup.POST("", signUpHandler.StartFlow)
		signup.GET("/:id", signUpHandler.GetFlow)
		signup.POST("/:id/register", signUpHandler.Register)
		signup.POST("/:id/verify", signUpHandler.Verify)
		signup.POST("/:id/reconcile", signUpHandler.Reconcile)
	}

	api := r.Group("/api")
	{
		api.GET("/navigation", middleware.OptionalAuth(tokens), navigationHandler.Links)

		api.POST("/generate-text", generationHandler.GenerateText)
		api.POST("/generate-image", generationHandler.GenerateImage)
		api.POST("/decompose-text", generationHandler.Decompose)
		api.POST("/inspiration-poem", generationHandler.InspirationPoem)
		api.POST("/incident-report/pdf", reportHandler.ExportPDF)
	}

	// ---- protected
	dashboard := r.Group("/api/dashboard")
	dashboard.Use(middleware.AuthMiddleware(tokens))
	dashboard.Use(middleware.RequireRoles(authz.RoleAdmin))
	{
		dashboard.GET("/accounts", dashboardHandler.ListAccounts)
	}

	return r
}
