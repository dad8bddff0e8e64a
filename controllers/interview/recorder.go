package interviewController

import (
	"context"
	"time"

	"github.com/adityadeoche/interview-iq-ai-sub000/database"
	"github.com/adityadeoche/interview-iq-ai-sub000/interview"
	"github.com/adityadeoche/interview-iq-ai-sub000/models"
	interviewModels "github.com/adityadeoche/interview-iq-ai-sub000/models/interview"
	"github.com/adityadeoche/interview-iq-ai-sub000/utils"
)

// GormRecorder persists terminal interview outcomes. Notifications fire only
// after the record insert succeeds.
type GormRecorder struct{}

func (GormRecorder) CreateInterviewRecord(ctx context.Context, rec interview.TerminalRecord) (uint, error) {
	record := interviewModels.InterviewRecord{
		UserID:          rec.UserID,
		Role:            rec.Role,
		AvgScore:        rec.AvgScore,
		Status:          rec.Status,
		RejectionReason: rec.RejectionReason,
		RoundBreakdown:  rec.RoundBreakdown,
		DriveID:         rec.DriveID,
	}

	if err := database.Database.Db.WithContext(ctx).Create(&record).Error; err != nil {
		return 0, err
	}

	go utils.NotifyTerminalOutcome(record.UserID, record.Role, record.Status, record.AvgScore, record.RejectionReason)

	return record.ID, nil
}

func (GormRecorder) UpdateRegistrationStatus(ctx context.Context, registrationID uint, status string, scheduledTime *time.Time) error {
	db := database.Database.Db.WithContext(ctx)

	var registration models.DriveRegistration
	if err := db.Where("id = ? AND is_deleted = ?", registrationID, false).First(&registration).Error; err != nil {
		return err
	}

	// Terminal outcomes map onto the registration approval set
	switch status {
	case interview.RecordStatusCompleted:
		registration.ApprovalStatus = models.RegistrationCompleted
	case interview.RecordStatusScreenedOut:
		registration.ApprovalStatus = models.RegistrationScreenedOut
	default:
		registration.ApprovalStatus = status
	}
	if scheduledTime != nil {
		registration.ScheduledTime = scheduledTime
	}
	return db.Save(&registration).Error
}
