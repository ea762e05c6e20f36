package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/idms/ems/internal/app/controllers"
	"github.com/idms/ems/internal/app/models/dto"
	"github.com/idms/ems/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	employeeController *controllers.EmployeeController,
	authMiddleware *middleware.AuthMiddleware,
) {
	api := router.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.HealthResponse{OK: true})
	})

	auth := api.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/logout", authController.Logout)
		auth.GET("/me", authMiddleware.JWTAuth(), authController.Me)
	}

	employees := api.Group("/employees")
	employees.Use(authMiddleware.JWTAuth())
	{
		employees.GET("", employeeController.List)
		employees.GET("/export", employeeController.Export)
		employees.POST("", employeeController.Create)
		employees.PUT("/:id", employeeController.Update)
		employees.DELETE("/:id", employeeController.Delete)
	}
}
