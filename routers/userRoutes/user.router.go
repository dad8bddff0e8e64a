package userRoutes

import (
	controllers "github.com/adityadeoche/interview-iq-ai-sub000/controllers/user"
	"github.com/adityadeoche/interview-iq-ai-sub000/middleware"
	validators "github.com/adityadeoche/interview-iq-ai-sub000/validators/user"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes sets up profile and project routes
func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	userGroup.Get("/profile", middleware.JWTMiddleware, controllers.GetProfile)
	userGroup.Put("/profile", middleware.JWTMiddleware, validators.UpdateProfile(), controllers.UpdateProfile)

	userGroup.Post("/projects", middleware.JWTMiddleware, validators.AddProject(), controllers.AddProject)
	userGroup.Delete("/projects/:id", middleware.JWTMiddleware, validators.ProjectID(), controllers.DeleteProject)
}
