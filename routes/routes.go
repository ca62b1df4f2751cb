package routes

import (
	"research-achievement-api/controllers"
	"research-achievement-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)
			public.POST("/password-reset/request", controllers.ForgotPassword)
			public.POST("/password-reset/confirm", controllers.ResetPassword)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Research Achievement API is running",
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

			// Achievements
			achievements := protected.Group("/achievements")
			{
				achievements.GET("", controllers.ListAchievements)
				achievements.GET("/export", controllers.ExportAchievements)
				achievements.GET("/:id", controllers.GetAchievement)
				achievements.POST("", controllers.CreateAchievement)
				achievements.PUT("/:id", controllers.UpdateAchievement)
				achievements.DELETE("/:id", controllers.DeleteAchievement)
			}

			// Author names for filter dropdowns
			protected.GET("/authors", controllers.ListAuthors)

			// Statistics
			protected.GET("/statistics", controllers.GetStatistics)
			protected.GET("/statistics/me", controllers.GetUserStatistics)

			// User administration
			users := protected.Group("/users")
			users.Use(middleware.RequireAdmin())
			{
				users.GET("", controllers.ListUsers)
				users.POST("", controllers.CreateUser)
				users.PUT("/:id", controllers.UpdateUser)
				users.DELETE("/:id", controllers.DeleteUser)
			}
		}
	}
}
