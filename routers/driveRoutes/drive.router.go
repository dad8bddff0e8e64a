package driveRoutes

import (
	controllers "github.com/adityadeoche/interview-iq-ai-sub000/controllers/drive"
	"github.com/adityadeoche/interview-iq-ai-sub000/middleware"
	"github.com/adityadeoche/interview-iq-ai-sub000/models"
	validators "github.com/adityadeoche/interview-iq-ai-sub000/validators/drive"

	"github.com/gofiber/fiber/v2"
)

// SetupDriveRoutes sets up drive, registration and funnel routes
func SetupDriveRoutes(app *fiber.App) {
	driveGroup := app.Group("/drive")

	// Recruiter drive management
	driveGroup.Post("/", middleware.JWTMiddleware, middleware.RequireRole(models.RoleRecruiter, models.RoleAdmin), validators.CreateDrive(), controllers.CreateDrive)
	driveGroup.Put("/:id/thresholds", middleware.JWTMiddleware, middleware.RequireRole(models.RoleRecruiter, models.RoleAdmin), validators.DriveID(), controllers.UpdateDriveThresholds)
	driveGroup.Put("/:id/publish", middleware.JWTMiddleware, middleware.RequireRole(models.RoleRecruiter, models.RoleAdmin), validators.DriveID(), controllers.PublishDrive)

	// Candidate-facing
	driveGroup.Get("/list", middleware.JWTMiddleware, controllers.ListDrives)
	driveGroup.Post("/register", middleware.JWTMiddleware, validators.RegisterForDrive(), controllers.RegisterForDrive)

	// Moderator funnel dashboard and registration moderation
	driveGroup.Get("/:id/funnel", middleware.JWTMiddleware, middleware.RequireRole(models.RoleModerator, models.RoleRecruiter, models.RoleAdmin), validators.DriveID(), controllers.GetDriveFunnel)
	driveGroup.Put("/registration/:id/status", middleware.JWTMiddleware, middleware.RequireRole(models.RoleModerator, models.RoleAdmin), validators.RegistrationID(), validators.RegistrationStatus(), controllers.UpdateRegistrationStatus)

	// Candidate dashboard
	userGroup := app.Group("/user")
	userGroup.Get("/registrations", middleware.JWTMiddleware, controllers.GetMyRegistrations)
}
