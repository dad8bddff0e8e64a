package interviewValidator

import (
	"strings"

	"github.com/adityadeoche/interview-iq-ai-sub000/middleware"

	"github.com/gofiber/fiber/v2"
)

// StartInterview validates a session start request
func StartInterview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Role    string `json:"role"`
			DriveID *uint  `json:"drive_id"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		// Free practice needs a role; drive sessions take the drive's role
		if reqData.DriveID == nil && len(strings.TrimSpace(reqData.Role)) < 2 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Target role is required for practice interviews!", nil)
		}

		return c.Next()
	}
}

// SessionToken validates the :token route param
func SessionToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if strings.TrimSpace(c.Params("token")) == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Session token is required!", nil)
		}
		return c.Next()
	}
}

// ChatAnswer validates a round 1 chat exchange
func ChatAnswer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Question string `json:"question"`
			Answer   string `json:"answer"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Question) == "" {
			errors["question"] = "Question is required!"
		}
		if strings.TrimSpace(reqData.Answer) == "" {
			errors["answer"] = "Answer is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}

// Submission validates a timed-round submission. Empty answers are allowed:
// an expired timer submits whatever exists, even nothing.
func Submission() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Answers []string `json:"answers"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		return c.Next()
	}
}
