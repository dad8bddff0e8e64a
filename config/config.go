package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	GeminiApiKey string
	GeminiModel  string

	// Per-round wall-clock ceilings in minutes (rounds 2-5)
	TechnicalRoundMins int
	ResumeRoundMins    int
	CodingRoundMins    int
	WrittenRoundMins   int

	// Round 1 question budget
	AptitudeQuestionLimit int

	// Sessions idle past this many minutes are abandoned by the sweeper
	SessionIdleLimitMins int

	ResultWebhookURL string
	SendgridApiKey   string
	EmailSender      string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		GeminiApiKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-pro-latest"),

		TechnicalRoundMins: getEnvInt("TECHNICAL_ROUND_MINS", 30),
		ResumeRoundMins:    getEnvInt("RESUME_ROUND_MINS", 20),
		CodingRoundMins:    getEnvInt("CODING_ROUND_MINS", 45),
		WrittenRoundMins:   getEnvInt("WRITTEN_ROUND_MINS", 25),

		AptitudeQuestionLimit: getEnvInt("APTITUDE_QUESTION_LIMIT", 8),

		SessionIdleLimitMins: getEnvInt("SESSION_IDLE_LIMIT_MINS", 120),

		ResultWebhookURL: getEnv("RESULT_WEBHOOK_URL", ""),
		SendgridApiKey:   getEnv("SENDGRID_API_KEY", ""),
		EmailSender:      getEnv("EMAIL_SENDER", "noreply@interviewiq.in"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.GeminiApiKey == "" {
		log.Println("Warning: GEMINI_API_KEY is not set. Interview rounds will fail until it is configured.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
