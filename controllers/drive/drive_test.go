package driveController

import (
	"testing"

	"github.com/adityadeoche/interview-iq-ai-sub000/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func TestRegistrationSnapshotPrefersFrozenColumns(t *testing.T) {
	reg := models.DriveRegistration{
		SnapTenthPercent:   fptr(70),
		SnapTwelfthPercent: fptr(75),
		SnapCGPA:           fptr(8),
		SnapBacklogs:       iptr(0),
	}
	// Later profile edits must not move the verdict
	profile := &models.CandidateProfile{
		TenthPercent:   fptr(95),
		TwelfthPercent: fptr(95),
		CGPA:           fptr(9.9),
		ActiveBacklogs: iptr(0),
	}

	snap := registrationSnapshot(reg, profile)
	require.NotNil(t, snap.CGPA)
	assert.Equal(t, 8.0, *snap.CGPA)
	assert.Equal(t, 70.0, *snap.TenthPercent)
}

func TestRegistrationSnapshotFallsBackToProfile(t *testing.T) {
	// A registration predating snapshot capture has all-NULL columns; both
	// dashboards judge it against the live profile
	reg := models.DriveRegistration{}
	profile := &models.CandidateProfile{
		TenthPercent:   fptr(80),
		TwelfthPercent: fptr(82),
		CGPA:           fptr(7.5),
		ActiveBacklogs: iptr(1),
	}

	snap := registrationSnapshot(reg, profile)
	require.NotNil(t, snap.CGPA)
	assert.Equal(t, 7.5, *snap.CGPA)
	assert.Equal(t, 80.0, *snap.TenthPercent)
	assert.Equal(t, 82.0, *snap.TwelfthPercent)
	require.NotNil(t, snap.Backlogs)
	assert.Equal(t, 1, *snap.Backlogs)

	// Without a profile the empty snapshot stands as-is
	snap = registrationSnapshot(reg, nil)
	assert.Nil(t, snap.CGPA)
	assert.Nil(t, snap.TenthPercent)
}

func TestRegistrationSnapshotPartialIsAuthoritative(t *testing.T) {
	// Any frozen value at all means snapshot capture ran; missing fields read
	// as absent, not as profile values
	reg := models.DriveRegistration{SnapCGPA: fptr(6)}
	profile := &models.CandidateProfile{
		TenthPercent: fptr(90),
		CGPA:         fptr(9),
	}

	snap := registrationSnapshot(reg, profile)
	require.NotNil(t, snap.CGPA)
	assert.Equal(t, 6.0, *snap.CGPA)
	assert.Nil(t, snap.TenthPercent)
}

func TestBranchAllowed(t *testing.T) {
	assert.True(t, branchAllowed("CSE", "CSE,ECE,IT"))
	assert.True(t, branchAllowed("ece", " CSE , ECE "))
	assert.False(t, branchAllowed("MECH", "CSE,ECE"))
	assert.False(t, branchAllowed("", "CSE"))
}
