package models

import (
	"time"

	"gorm.io/gorm"
)

// Approval statuses of a DriveRegistration. PENDING/APPROVED/REJECTED are
// moderator driven; COMPLETED and SCREENED_OUT are written by the interview
// orchestrator on terminal outcomes; SELECTED/NOT_SELECTED are the recruiter's
// final call after the drive closes.
const (
	RegistrationPending     = "PENDING"
	RegistrationApproved    = "APPROVED"
	RegistrationRejected    = "REJECTED"
	RegistrationCompleted   = "COMPLETED"
	RegistrationSelected    = "SELECTED"
	RegistrationNotSelected = "NOT_SELECTED"
	RegistrationScreenedOut = "SCREENED_OUT"
)

// DriveRegistration ties a candidate to a drive. The Snap* columns are the
// academic snapshot frozen at registration time; eligibility is always
// evaluated against them so later profile edits cannot change a candidate's
// standing in an already-open drive.
type DriveRegistration struct {
	gorm.Model
	UserID         uint       `json:"user_id" gorm:"index;not null;uniqueIndex:idx_reg_user_drive"`
	DriveID        uint       `json:"drive_id" gorm:"index;not null;uniqueIndex:idx_reg_user_drive"`
	ApprovalStatus string     `json:"approval_status" gorm:"default:'PENDING'"`
	ScheduledTime  *time.Time `json:"scheduled_time"`

	// Frozen academic snapshot
	SnapTenthPercent   *float64 `json:"snap_tenth_percent"`
	SnapTwelfthPercent *float64 `json:"snap_twelfth_percent"`
	SnapCGPA           *float64 `json:"snap_cgpa"`
	SnapBacklogs       *int     `json:"snap_backlogs"`

	IsDeleted bool  `gorm:"default:false"`
	User      User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Drive     Drive `gorm:"foreignKey:DriveID;constraint:OnDelete:CASCADE"`
}
