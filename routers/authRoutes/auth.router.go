package authRoutes

import (
	controllers "github.com/adityadeoche/interview-iq-ai-sub000/controllers/auth"
	"github.com/adityadeoche/interview-iq-ai-sub000/middleware"
	"github.com/adityadeoche/interview-iq-ai-sub000/models"
	validators "github.com/adityadeoche/interview-iq-ai-sub000/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes sets up authentication routes
func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", validators.Signup(), controllers.Signup)
	authGroup.Post("/login", validators.Login(), controllers.Login)

	// Admin provisioning of moderator/recruiter accounts
	adminGroup := app.Group("/admin")
	adminGroup.Post("/users", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), validators.StaffUser(), controllers.CreateStaffUser)
}
