package driveValidator

import (
	"strconv"
	"strings"

	"github.com/adityadeoche/interview-iq-ai-sub000/middleware"
	"github.com/adityadeoche/interview-iq-ai-sub000/models"

	"github.com/gofiber/fiber/v2"
)

// CreateDrive validates a new drive and its eligibility config
func CreateDrive() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Company           string  `json:"company"`
			Role              string  `json:"role"`
			MinCGPA           float64 `json:"min_cgpa"`
			MinTenthPercent   float64 `json:"min_tenth_percent"`
			MinTwelfthPercent float64 `json:"min_twelfth_percent"`
			MaxBacklogs       int     `json:"max_backlogs"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(strings.TrimSpace(reqData.Company)) < 2 {
			errors["company"] = "Company name is required!"
		}
		if len(strings.TrimSpace(reqData.Role)) < 2 {
			errors["role"] = "Target role is required!"
		}
		if reqData.MinCGPA < 0 || reqData.MinCGPA > 10 {
			errors["min_cgpa"] = "Minimum CGPA must be between 0 and 10!"
		}
		if reqData.MinTenthPercent < 0 || reqData.MinTenthPercent > 100 {
			errors["min_tenth_percent"] = "Minimum 10th percentage must be between 0 and 100!"
		}
		if reqData.MinTwelfthPercent < 0 || reqData.MinTwelfthPercent > 100 {
			errors["min_twelfth_percent"] = "Minimum 12th percentage must be between 0 and 100!"
		}
		if reqData.MaxBacklogs < 0 {
			errors["max_backlogs"] = "Maximum backlogs cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}

// DriveID validates the :id route param
func DriveID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		if idStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Drive ID is required!", nil)
		}

		driveID, err := strconv.Atoi(idStr)
		if err != nil || driveID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Drive ID!", nil)
		}

		c.Locals("driveID", driveID)
		return c.Next()
	}
}

// RegisterForDrive validates the access-code registration request
func RegisterForDrive() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			AccessCode string `json:"access_code"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if strings.TrimSpace(reqData.AccessCode) == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Access code is required!", nil)
		}

		return c.Next()
	}
}

// RegistrationID validates the :id route param
func RegistrationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		if idStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Registration ID is required!", nil)
		}

		registrationID, err := strconv.Atoi(idStr)
		if err != nil || registrationID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Registration ID!", nil)
		}

		c.Locals("registrationID", registrationID)
		return c.Next()
	}
}

// RegistrationStatus validates a moderator status update
func RegistrationStatus() fiber.Handler {
	allowed := map[string]bool{
		models.RegistrationPending:     true,
		models.RegistrationApproved:    true,
		models.RegistrationRejected:    true,
		models.RegistrationSelected:    true,
		models.RegistrationNotSelected: true,
	}

	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Status string `json:"status"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		// COMPLETED and SCREENED_OUT are written only by the interview flow,
		// never set by hand
		if !allowed[reqData.Status] {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid registration status!", nil)
		}

		return c.Next()
	}
}
