package driveController

import (
	"log"
	"strings"
	"time"

	"github.com/adityadeoche/interview-iq-ai-sub000/database"
	"github.com/adityadeoche/interview-iq-ai-sub000/funnel"
	"github.com/adityadeoche/interview-iq-ai-sub000/middleware"
	"github.com/adityadeoche/interview-iq-ai-sub000/models"
	interviewModels "github.com/adityadeoche/interview-iq-ai-sub000/models/interview"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jinzhu/now"
)

// CreateDrive lets a recruiter publish a hiring event with its eligibility
// config. The drive stays unpublished (and editable) until PublishDrive.
func CreateDrive(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		Company              string     `json:"company"`
		Role                 string     `json:"role"`
		Description          string     `json:"description"`
		RegistrationDeadline *time.Time `json:"registration_deadline"`
		MinCGPA              float64    `json:"min_cgpa"`
		MinTenthPercent      float64    `json:"min_tenth_percent"`
		MinTwelfthPercent    float64    `json:"min_twelfth_percent"`
		MaxBacklogs          int        `json:"max_backlogs"`
		AllowedBranches      string     `json:"allowed_branches"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	drive := models.Drive{
		RecruiterID:          userID,
		Company:              reqData.Company,
		Role:                 reqData.Role,
		Description:          reqData.Description,
		AccessCode:           uuid.NewString(),
		RegistrationDeadline: reqData.RegistrationDeadline,
		MinCGPA:              reqData.MinCGPA,
		MinTenthPercent:      reqData.MinTenthPercent,
		MinTwelfthPercent:    reqData.MinTwelfthPercent,
		MaxBacklogs:          reqData.MaxBacklogs,
		AllowedBranches:      reqData.AllowedBranches,
	}

	if err := database.Database.Db.Create(&drive).Error; err != nil {
		log.Printf("Error creating drive: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create drive!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Drive created successfully!", drive)
}

// UpdateDriveThresholds edits the eligibility config of an unpublished drive.
// Published drives are locked so existing registrations are never
// retroactively reclassified.
func UpdateDriveThresholds(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	driveID := c.Locals("driveID").(int)

	reqData := new(struct {
		MinCGPA           *float64 `json:"min_cgpa"`
		MinTenthPercent   *float64 `json:"min_tenth_percent"`
		MinTwelfthPercent *float64 `json:"min_twelfth_percent"`
		MaxBacklogs       *int     `json:"max_backlogs"`
		AllowedBranches   *string  `json:"allowed_branches"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var drive models.Drive
	if err := db.Where("id = ? AND recruiter_id = ? AND is_deleted = ?", driveID, userID, false).First(&drive).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Drive not found!", nil)
	}

	if drive.IsPublished {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Published drives cannot change eligibility thresholds!", nil)
	}

	if reqData.MinCGPA != nil {
		drive.MinCGPA = *reqData.MinCGPA
	}
	if reqData.MinTenthPercent != nil {
		drive.MinTenthPercent = *reqData.MinTenthPercent
	}
	if reqData.MinTwelfthPercent != nil {
		drive.MinTwelfthPercent = *reqData.MinTwelfthPercent
	}
	if reqData.MaxBacklogs != nil {
		drive.MaxBacklogs = *reqData.MaxBacklogs
	}
	if reqData.AllowedBranches != nil {
		drive.AllowedBranches = *reqData.AllowedBranches
	}

	if err := db.Save(&drive).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update drive!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Drive updated successfully!", drive)
}

// PublishDrive opens a drive for registration and locks its thresholds.
func PublishDrive(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	driveID := c.Locals("driveID").(int)

	db := database.Database.Db

	var drive models.Drive
	if err := db.Where("id = ? AND recruiter_id = ? AND is_deleted = ?", driveID, userID, false).First(&drive).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Drive not found!", nil)
	}

	drive.IsPublished = true
	if err := db.Save(&drive).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish drive!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Drive published successfully!", drive)
}

// ListDrives returns published drives for candidates to browse.
func ListDrives(c *fiber.Ctx) error {
	var drives []models.Drive
	database.Database.Db.Where("is_published = ? AND is_deleted = ?", true, false).Order("created_at desc").Find(&drives)

	// Access codes are handed out by the institution, not listed
	for i := range drives {
		drives[i].AccessCode = ""
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Drives fetched successfully!", drives)
}

// RegisterForDrive registers the candidate using the drive access code and
// freezes their academic snapshot. Registration is allowed even when the
// snapshot fails the thresholds: eligibility is derived at read time and the
// dashboards report such candidates as Ineligible.
func RegisterForDrive(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		AccessCode string `json:"access_code"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var drive models.Drive
	if err := db.Where("access_code = ? AND is_published = ? AND is_deleted = ?", reqData.AccessCode, true, false).First(&drive).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Invalid access code!", nil)
	}

	// Registration stays open through the end of the deadline day
	if drive.RegistrationDeadline != nil && time.Now().After(now.With(*drive.RegistrationDeadline).EndOfDay()) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Registration for this drive has closed!", nil)
	}

	var existing models.DriveRegistration
	if err := db.Where("user_id = ? AND drive_id = ? AND is_deleted = ?", userID, drive.ID, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already registered for this drive!", nil)
	}

	var profile models.CandidateProfile
	if err := db.Where("user_id = ? AND is_deleted = ?", userID, false).First(&profile).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Complete your profile before registering!", nil)
	}

	if drive.AllowedBranches != "" && !branchAllowed(profile.Branch, drive.AllowedBranches) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Your branch is not eligible for this drive!", nil)
	}

	registration := models.DriveRegistration{
		UserID:  userID,
		DriveID: drive.ID,
		// Freeze the academic snapshot; later profile edits must not move it
		SnapTenthPercent:   profile.TenthPercent,
		SnapTwelfthPercent: profile.TwelfthPercent,
		SnapCGPA:           profile.CGPA,
		SnapBacklogs:       profile.ActiveBacklogs,
	}

	if err := db.Create(&registration).Error; err != nil {
		log.Printf("Error creating registration: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register for drive!", nil)
	}

	verdict := funnel.EvaluateEligibility(registrationSnapshot(registration, &profile), driveThresholds(drive))

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Registered for drive successfully!", fiber.Map{
		"registration": registration,
		"eligibility":  verdict,
	})
}

// UpdateRegistrationStatus is the moderator action on a registration:
// approve, reject, schedule, or record the recruiter's final call.
func UpdateRegistrationStatus(c *fiber.Ctx) error {
	registrationID := c.Locals("registrationID").(int)

	reqData := new(struct {
		Status        string     `json:"status"`
		ScheduledTime *time.Time `json:"scheduled_time"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var registration models.DriveRegistration
	if err := db.Where("id = ? AND is_deleted = ?", registrationID, false).First(&registration).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Registration not found!", nil)
	}

	registration.ApprovalStatus = reqData.Status
	if reqData.ScheduledTime != nil {
		registration.ScheduledTime = reqData.ScheduledTime
	}

	if err := db.Save(&registration).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update registration!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Registration updated successfully!", registration)
}

// GetDriveFunnel is the moderator dashboard: every registration of a drive
// with its derived funnel status and per-round scores. All derivation goes
// through the funnel package so every dashboard reports identical state.
func GetDriveFunnel(c *fiber.Ctx) error {
	driveID := c.Locals("driveID").(int)

	db := database.Database.Db

	var drive models.Drive
	if err := db.Where("id = ? AND is_deleted = ?", driveID, false).First(&drive).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Drive not found!", nil)
	}

	var registrations []models.DriveRegistration
	db.Where("drive_id = ? AND is_deleted = ?", driveID, false).Preload("User").Order("created_at asc").Find(&registrations)

	// Live profiles back the same fallback the candidate dashboard uses, so
	// a registration predating snapshot capture reads identically on both
	userIDs := make([]uint, 0, len(registrations))
	for _, reg := range registrations {
		userIDs = append(userIDs, reg.UserID)
	}
	profileByUser := make(map[uint]*models.CandidateProfile, len(userIDs))
	if len(userIDs) > 0 {
		var profiles []models.CandidateProfile
		db.Where("user_id IN ? AND is_deleted = ?", userIDs, false).Find(&profiles)
		for i := range profiles {
			profileByUser[profiles[i].UserID] = &profiles[i]
		}
	}

	thresholds := driveThresholds(drive)

	type funnelRow struct {
		RegistrationID  uint               `json:"registration_id"`
		CandidateID     uint               `json:"candidate_id"`
		CandidateName   string             `json:"candidate_name"`
		ApprovalStatus  string             `json:"approval_status"`
		FunnelStatus    funnel.Status      `json:"funnel_status"`
		Eligibility     funnel.Verdict     `json:"eligibility"`
		RoundScores     funnel.RoundScores `json:"round_scores"`
		RejectionReason string             `json:"rejection_reason,omitempty"`
	}

	rows := make([]funnelRow, 0, len(registrations))
	for _, reg := range registrations {
		verdict := funnel.EvaluateEligibility(registrationSnapshot(reg, profileByUser[reg.UserID]), thresholds)

		record := latestInterviewRecord(reg.UserID, reg.DriveID)

		var outcome *funnel.InterviewOutcome
		scores := funnel.RoundScores{}
		rejection := ""
		if record != nil {
			outcome = &funnel.InterviewOutcome{Status: record.Status}
			avg := record.AvgScore
			scores = funnel.ExtractRoundScores(funnel.ScoredRecord{AvgScore: &avg, RoundBreakdown: record.RoundBreakdown})
			rejection = record.RejectionReason
		}

		rows = append(rows, funnelRow{
			RegistrationID:  reg.ID,
			CandidateID:     reg.UserID,
			CandidateName:   reg.User.Name,
			ApprovalStatus:  reg.ApprovalStatus,
			FunnelStatus:    funnel.DeriveFunnelStatus(verdict, outcome),
			Eligibility:     verdict,
			RoundScores:     scores,
			RejectionReason: rejection,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Funnel fetched successfully!", fiber.Map{
		"drive":  drive,
		"funnel": rows,
	})
}

// GetMyRegistrations is the candidate dashboard: their registrations with the
// same derived funnel status the moderator sees.
func GetMyRegistrations(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var registrations []models.DriveRegistration
	db.Where("user_id = ? AND is_deleted = ?", userID, false).Preload("Drive").Order("created_at desc").Find(&registrations)

	var profile models.CandidateProfile
	profileLoaded := db.Where("user_id = ? AND is_deleted = ?", userID, false).First(&profile).Error == nil

	type registrationRow struct {
		Registration models.DriveRegistration `json:"registration"`
		FunnelStatus funnel.Status            `json:"funnel_status"`
		Eligibility  funnel.Verdict           `json:"eligibility"`
		RoundScores  funnel.RoundScores       `json:"round_scores"`
	}

	rows := make([]registrationRow, 0, len(registrations))
	for _, reg := range registrations {
		var fallback *models.CandidateProfile
		if profileLoaded {
			fallback = &profile
		}
		verdict := funnel.EvaluateEligibility(registrationSnapshot(reg, fallback), driveThresholds(reg.Drive))

		record := latestInterviewRecord(reg.UserID, reg.DriveID)

		var outcome *funnel.InterviewOutcome
		scores := funnel.RoundScores{}
		if record != nil {
			outcome = &funnel.InterviewOutcome{Status: record.Status}
			avg := record.AvgScore
			scores = funnel.ExtractRoundScores(funnel.ScoredRecord{AvgScore: &avg, RoundBreakdown: record.RoundBreakdown})
		}

		rows = append(rows, registrationRow{
			Registration: reg,
			FunnelStatus: funnel.DeriveFunnelStatus(verdict, outcome),
			Eligibility:  verdict,
			RoundScores:  scores,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Registrations fetched successfully!", rows)
}

// latestInterviewRecord returns the most recent record for the (user, drive)
// pair, nil when none exists. Recency decides when multiple records exist.
func latestInterviewRecord(userID, driveID uint) *interviewModels.InterviewRecord {
	var record interviewModels.InterviewRecord
	err := database.Database.Db.
		Where("user_id = ? AND drive_id = ? AND is_deleted = ?", userID, driveID, false).
		Order("created_at desc").
		First(&record).Error
	if err != nil {
		return nil
	}
	return &record
}

// registrationSnapshot builds the eligibility snapshot from the frozen
// columns. A registration with no snapshot at all (created before snapshot
// capture existed) falls back to the live profile when one is supplied.
func registrationSnapshot(reg models.DriveRegistration, profile *models.CandidateProfile) funnel.Snapshot {
	if reg.SnapTenthPercent == nil && reg.SnapTwelfthPercent == nil && reg.SnapCGPA == nil && reg.SnapBacklogs == nil && profile != nil {
		return funnel.Snapshot{
			TenthPercent:   profile.TenthPercent,
			TwelfthPercent: profile.TwelfthPercent,
			CGPA:           profile.CGPA,
			Backlogs:       profile.ActiveBacklogs,
		}
	}
	return funnel.Snapshot{
		TenthPercent:   reg.SnapTenthPercent,
		TwelfthPercent: reg.SnapTwelfthPercent,
		CGPA:           reg.SnapCGPA,
		Backlogs:       reg.SnapBacklogs,
	}
}

func driveThresholds(drive models.Drive) funnel.Thresholds {
	return funnel.Thresholds{
		MinCGPA:           drive.MinCGPA,
		MinTenthPercent:   drive.MinTenthPercent,
		MinTwelfthPercent: drive.MinTwelfthPercent,
		MaxBacklogs:       drive.MaxBacklogs,
	}
}

func branchAllowed(branch, allowed string) bool {
	if strings.TrimSpace(branch) == "" {
		return false
	}
	for _, b := range strings.Split(allowed, ",") {
		if strings.EqualFold(strings.TrimSpace(b), strings.TrimSpace(branch)) {
			return true
		}
	}
	return false
}
