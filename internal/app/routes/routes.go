package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sigescol/backend/internal/app/controllers"
	"github.com/sigescol/backend/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	adminController *controllers.AdminController,
	authMiddleware *middleware.AuthMiddleware,
	securityMiddleware *middleware.SecurityMiddleware,
	dbPool *pgxpool.Pool,
) {
	router.Use(securityMiddleware.Headers())
	router.Use(securityMiddleware.ClientGate())

	api := router.Group("/api")

	// --- Public routes ---
	api.POST("/login", authController.Login)
	api.POST("/register", authController.Register)
	api.GET("/health", func(c *gin.Context) {
		if err := dbPool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error":   "Database connection error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "status": "healthy"})
	})

	// --- Authenticated routes ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/logout", authController.Logout)
		authenticated.GET("/protected", authController.Protected)
		authenticated.GET("/user", authController.GetUser)

		admin := authenticated.Group("/admin")
		{
			// Self-or-admin before the admin-only routes; a student may read
			// their own record.
			admin.GET("/student/:username", authMiddleware.SelfOrAdmin("username"), adminController.GetStudent)

			adminOnly := admin.Group("")
			adminOnly.Use(authMiddleware.AdminRequired())
			{
				adminOnly.POST("/upload-students", adminController.UploadStudents)
				adminOnly.GET("/students", adminController.GetStudents)
				adminOnly.GET("/students/count", adminController.CountStudents)
			}
		}
	}
}
