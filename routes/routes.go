package routes

import (
	"cep-tracker-api/controllers"
	"cep-tracker-api/middleware"
	"cep-tracker-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)

			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "CEP Tracker API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Dashboard (queues depend on the caller's role)
			protected.GET("/dashboard", controllers.GetDashboard)

			// Pesquisadores (administrative onboarding, gestor only)
			pesquisadores := protected.Group("/pesquisadores")
			pesquisadores.Use(middleware.RequireRole(models.RoleGestorID, models.RoleAdminID))
			{
				pesquisadores.GET("", controllers.GetPesquisadores)
				pesquisadores.GET("/:id", controllers.GetPesquisador)
				pesquisadores.POST("", controllers.CreatePesquisador)
				pesquisadores.PUT("/:id", controllers.UpdatePesquisador)
				pesquisadores.DELETE("/:id", controllers.DeletePesquisador)
			}

			// Projetos
			projetos := protected.Group("/projetos")
			{
				projetos.GET("", controllers.GetProjetos)
				projetos.GET("/:id", controllers.GetProjeto)

				// Gestores register submissions and designate relatores
				projetos.POST("", middleware.RequireRole(models.RoleGestorID, models.RoleAdminID), controllers.CreateProjeto)
				projetos.POST("/:id/designar", middleware.RequireRole(models.RoleGestorID, models.RoleAdminID), controllers.DesignarRelator)
				projetos.PATCH("/:id/relatorios", middleware.RequireRole(models.RoleGestorID, models.RoleAdminID), controllers.UpdateRelatorios)

				// Only the designated relator can file a parecer; the service
				// enforces ownership on top of the role gate.
				projetos.POST("/:id/parecer", middleware.RequireRole(models.RoleRelatorID), controllers.SubmitParecer)
			}

			// Relator directory for the designation form
			protected.GET("/relatores",
				middleware.RequireRole(models.RoleGestorID, models.RoleAdminID),
				controllers.GetRelatores)

			// Dispatch history of the daily routines
			protected.GET("/email-logs",
				middleware.RequireRole(models.RoleGestorID, models.RoleAdminID),
				controllers.GetEmailLogs)
		}
	}
}
