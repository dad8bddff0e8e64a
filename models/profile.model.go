package models

import (
	"gorm.io/gorm"
)

// CandidateProfile holds the candidate's live academic record. Only the
// candidate can edit it; eligibility for a drive is evaluated against the
// frozen snapshot on DriveRegistration, never against these live values.
// The profile is used as a fallback source only when a registration predates
// snapshot capture.
type CandidateProfile struct {
	gorm.Model
	UserID         uint     `json:"user_id" gorm:"uniqueIndex;not null"`
	TenthPercent   *float64 `json:"tenth_percent"`
	TwelfthPercent *float64 `json:"twelfth_percent"`
	CGPA           *float64 `json:"cgpa"`
	ActiveBacklogs *int     `json:"active_backlogs"`
	Branch         string   `json:"branch"`
	PassingYear    int      `json:"passing_year"`
	TargetRole     string   `json:"target_role"`
	Skills         string   `json:"skills"` // comma separated
	IsDeleted      bool     `gorm:"default:false"`
	User           User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// CandidateProject is a project the candidate declares on their profile.
// The set of non-deleted projects is what the project audit gate reviews.
type CandidateProject struct {
	gorm.Model
	UserID      uint   `json:"user_id" gorm:"index;not null"`
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description"`
	TechStack   string `json:"tech_stack"` // comma separated
	RepoURL     string `json:"repo_url"`
	IsDeleted   bool   `gorm:"default:false"`
}
