package models

import (
	"time"

	"gorm.io/gorm"
)

// Drive is a recruiter-published hiring event. The eligibility thresholds are
// embedded here and are locked once the drive is published: a registered
// candidate's verdict must not be reclassified by a later threshold edit.
type Drive struct {
	gorm.Model
	RecruiterID          uint       `json:"recruiter_id" gorm:"index;not null"`
	Company              string     `json:"company" gorm:"not null"`
	Role                 string     `json:"role" gorm:"not null"`
	Description          string     `json:"description"`
	AccessCode           string     `json:"access_code" gorm:"unique;not null"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`

	// Eligibility config
	MinCGPA           float64 `json:"min_cgpa" gorm:"default:0"`
	MinTenthPercent   float64 `json:"min_tenth_percent" gorm:"default:0"`
	MinTwelfthPercent float64 `json:"min_twelfth_percent" gorm:"default:0"`
	MaxBacklogs       int     `json:"max_backlogs" gorm:"default:0"`
	AllowedBranches   string  `json:"allowed_branches"` // comma separated, empty = all branches

	IsPublished bool `json:"is_published" gorm:"default:false"`
	IsDeleted   bool `gorm:"default:false"`
}
