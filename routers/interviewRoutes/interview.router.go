package interviewRoutes

import (
	controllers "github.com/adityadeoche/interview-iq-ai-sub000/controllers/interview"
	"github.com/adityadeoche/interview-iq-ai-sub000/middleware"
	validators "github.com/adityadeoche/interview-iq-ai-sub000/validators/interview"

	"github.com/gofiber/fiber/v2"
)

// SetupInterviewRoutes sets up the interview session routes
func SetupInterviewRoutes(app *fiber.App) {
	group := app.Group("/interview")

	group.Post("/start", middleware.JWTMiddleware, validators.StartInterview(), controllers.StartInterview)
	group.Get("/session/:token/round", middleware.JWTMiddleware, validators.SessionToken(), controllers.GetRoundContent)
	group.Post("/session/:token/answer", middleware.JWTMiddleware, validators.SessionToken(), validators.ChatAnswer(), controllers.SubmitChatAnswer)
	group.Post("/session/:token/draft", middleware.JWTMiddleware, validators.SessionToken(), validators.Submission(), controllers.SaveDraft)
	group.Post("/session/:token/submit", middleware.JWTMiddleware, validators.SessionToken(), validators.Submission(), controllers.SubmitRound)
	group.Post("/session/:token/retry-save", middleware.JWTMiddleware, validators.SessionToken(), controllers.RetryResultSave)
	group.Post("/session/:token/abandon", middleware.JWTMiddleware, validators.SessionToken(), controllers.AbandonSession)
	group.Get("/history", middleware.JWTMiddleware, controllers.GetInterviewHistory)
}
