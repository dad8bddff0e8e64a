package interview

import (
	"time"

	"gorm.io/gorm"
)

// Terminal statuses of an InterviewRecord. Records are written only when a
// session ends, so these two values are the whole set.
const (
	StatusCompleted   = "COMPLETED"
	StatusScreenedOut = "SCREENED_OUT"
)

// InterviewRecord is written exactly once per completed or screened-out
// interview session. When multiple records exist for one (user, drive) pair
// the most recently created one is authoritative for funnel purposes.
type InterviewRecord struct {
	gorm.Model
	UserID          uint    `json:"user_id" gorm:"index;not null"`
	Role            string  `json:"role"`
	AvgScore        float64 `json:"avg_score"` // 0-10 scale
	Status          string  `json:"status"`
	RejectionReason string  `json:"rejection_reason"`
	RoundBreakdown  string  `json:"round_breakdown"` // serialized per-round report JSON
	DriveID         *uint   `json:"drive_id" gorm:"index"`
	IsDeleted       bool    `gorm:"default:false"`
}

// InterviewSession is the server-side row backing one live interview attempt.
// State carries the serialized session state machine; RoundDeadline is the
// wall-clock ceiling of the round in progress, swept by the cron job for
// server-side auto-submission.
type InterviewSession struct {
	gorm.Model
	Token          string     `json:"token" gorm:"unique;not null"`
	UserID         uint       `json:"user_id" gorm:"index;not null"`
	DriveID        *uint      `json:"drive_id" gorm:"index"`
	RegistrationID *uint      `json:"registration_id"`
	Role           string     `json:"role"`
	State          string     `json:"state"` // serialized interview.Session JSON
	RoundDeadline  *time.Time `json:"round_deadline"`
	DraftQuestions string     `json:"draft_questions"` // JSON array, current round
	DraftAnswers   string     `json:"draft_answers"`   // JSON array, current round
	IsActive       bool       `json:"is_active" gorm:"default:true"`
	LastActivityAt time.Time  `json:"last_activity_at"`
	IsDeleted      bool       `gorm:"default:false"`
}
