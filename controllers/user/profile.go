package userController

import (
	"log"

	"github.com/adityadeoche/interview-iq-ai-sub000/database"
	"github.com/adityadeoche/interview-iq-ai-sub000/middleware"
	"github.com/adityadeoche/interview-iq-ai-sub000/models"

	"github.com/gofiber/fiber/v2"
)

// GetProfile returns the candidate's live profile with declared projects.
func GetProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var profile models.CandidateProfile
	if err := db.Where("user_id = ? AND is_deleted = ?", userID, false).First(&profile).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Profile not found!", nil)
	}

	var projects []models.CandidateProject
	db.Where("user_id = ? AND is_deleted = ?", userID, false).Order("created_at asc").Find(&projects)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", fiber.Map{
		"profile":  profile,
		"projects": projects,
	})
}

// UpdateProfile edits the live academic record. This never touches frozen
// drive snapshots: registrations made before the edit keep judging the
// candidate on the figures captured at registration time.
func UpdateProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		TenthPercent   *float64 `json:"tenth_percent"`
		TwelfthPercent *float64 `json:"twelfth_percent"`
		CGPA           *float64 `json:"cgpa"`
		ActiveBacklogs *int     `json:"active_backlogs"`
		Branch         *string  `json:"branch"`
		PassingYear    *int     `json:"passing_year"`
		TargetRole     *string  `json:"target_role"`
		Skills         *string  `json:"skills"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var profile models.CandidateProfile
	if err := db.Where("user_id = ? AND is_deleted = ?", userID, false).First(&profile).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Profile not found!", nil)
	}

	if reqData.TenthPercent != nil {
		profile.TenthPercent = reqData.TenthPercent
	}
	if reqData.TwelfthPercent != nil {
		profile.TwelfthPercent = reqData.TwelfthPercent
	}
	if reqData.CGPA != nil {
		profile.CGPA = reqData.CGPA
	}
	if reqData.ActiveBacklogs != nil {
		profile.ActiveBacklogs = reqData.ActiveBacklogs
	}
	if reqData.Branch != nil {
		profile.Branch = *reqData.Branch
	}
	if reqData.PassingYear != nil {
		profile.PassingYear = *reqData.PassingYear
	}
	if reqData.TargetRole != nil {
		profile.TargetRole = *reqData.TargetRole
	}
	if reqData.Skills != nil {
		profile.Skills = *reqData.Skills
	}

	if err := db.Save(&profile).Error; err != nil {
		log.Printf("Error updating profile: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", profile)
}

// AddProject declares a project on the candidate's profile.
func AddProject(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		TechStack   string `json:"tech_stack"`
		RepoURL     string `json:"repo_url"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if len(reqData.Title) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Project title is required!", nil)
	}

	project := models.CandidateProject{
		UserID:      userID,
		Title:       reqData.Title,
		Description: reqData.Description,
		TechStack:   reqData.TechStack,
		RepoURL:     reqData.RepoURL,
	}

	if err := database.Database.Db.Create(&project).Error; err != nil {
		log.Printf("Error saving project: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add project!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Project added successfully!", project)
}

// DeleteProject soft-deletes a declared project.
func DeleteProject(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	projectID := c.Locals("projectID").(int)

	db := database.Database.Db

	var project models.CandidateProject
	if err := db.Where("id = ? AND user_id = ? AND is_deleted = ?", projectID, userID, false).First(&project).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Project not found!", nil)
	}

	project.IsDeleted = true
	if err := db.Save(&project).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete project!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Project deleted successfully!", nil)
}
