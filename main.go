package main

import (
	"context"
	"log"
	"time"

	"github.com/adityadeoche/interview-iq-ai-sub000/ai"
	"github.com/adityadeoche/interview-iq-ai-sub000/config"
	interviewController "github.com/adityadeoche/interview-iq-ai-sub000/controllers/interview"
	"github.com/adityadeoche/interview-iq-ai-sub000/database"
	"github.com/adityadeoche/interview-iq-ai-sub000/interview"
	authRoutes "github.com/adityadeoche/interview-iq-ai-sub000/routers/authRoutes"
	driveRoutes "github.com/adityadeoche/interview-iq-ai-sub000/routers/driveRoutes"
	interviewRoutes "github.com/adityadeoche/interview-iq-ai-sub000/routers/interviewRoutes"
	userRoutes "github.com/adityadeoche/interview-iq-ai-sub000/routers/userRoutes"
	"github.com/adityadeoche/interview-iq-ai-sub000/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	gemini, err := ai.NewGeminiService(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize Gemini service: %v", err)
	}
	defer gemini.Close()

	orch := interview.New(gemini, gemini, interviewController.GormRecorder{}, interview.Limits{
		Technical:         time.Duration(config.AppConfig.TechnicalRoundMins) * time.Minute,
		Resume:            time.Duration(config.AppConfig.ResumeRoundMins) * time.Minute,
		Coding:            time.Duration(config.AppConfig.CodingRoundMins) * time.Minute,
		Written:           time.Duration(config.AppConfig.WrittenRoundMins) * time.Minute,
		AptitudeQuestions: config.AppConfig.AptitudeQuestionLimit,
	})
	interviewController.Init(orch)

	// Background timer enforcement and stale-session cleanup
	sweeper := utils.StartSessionSweeper(orch)
	defer sweeper.Stop()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	userRoutes.SetupUserRoutes(app)
	driveRoutes.SetupDriveRoutes(app)
	interviewRoutes.SetupInterviewRoutes(app)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
