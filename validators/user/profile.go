package userValidator

import (
	"strconv"
	"strings"

	"github.com/adityadeoche/interview-iq-ai-sub000/middleware"

	"github.com/gofiber/fiber/v2"
)

// UpdateProfile validates the academic fields of a profile edit
func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			TenthPercent   *float64 `json:"tenth_percent"`
			TwelfthPercent *float64 `json:"twelfth_percent"`
			CGPA           *float64 `json:"cgpa"`
			ActiveBacklogs *int     `json:"active_backlogs"`
			PassingYear    *int     `json:"passing_year"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.TenthPercent != nil && (*reqData.TenthPercent < 0 || *reqData.TenthPercent > 100) {
			errors["tenth_percent"] = "10th percentage must be between 0 and 100!"
		}
		if reqData.TwelfthPercent != nil && (*reqData.TwelfthPercent < 0 || *reqData.TwelfthPercent > 100) {
			errors["twelfth_percent"] = "12th percentage must be between 0 and 100!"
		}
		if reqData.CGPA != nil && (*reqData.CGPA < 0 || *reqData.CGPA > 10) {
			errors["cgpa"] = "CGPA must be between 0 and 10!"
		}
		if reqData.ActiveBacklogs != nil && *reqData.ActiveBacklogs < 0 {
			errors["active_backlogs"] = "Backlog count cannot be negative!"
		}
		if reqData.PassingYear != nil && (*reqData.PassingYear < 1990 || *reqData.PassingYear > 2100) {
			errors["passing_year"] = "Invalid passing year!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}

// AddProject validates a declared project
func AddProject() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Project title must be at least 3 characters long!"
		}
		if len(strings.TrimSpace(reqData.Description)) < 10 {
			errors["description"] = "Project description must be at least 10 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}

// ProjectID validates the :id route param
func ProjectID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		if idStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Project ID is required!", nil)
		}

		projectID, err := strconv.Atoi(idStr)
		if err != nil || projectID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Project ID!", nil)
		}

		c.Locals("projectID", projectID)
		return c.Next()
	}
}
