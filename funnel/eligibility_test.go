package funnel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func TestEvaluateEligibilityAllZeroThresholdsAlwaysPass(t *testing.T) {
	snapshots := []Snapshot{
		{},
		{CGPA: fptr(0), TenthPercent: fptr(0), TwelfthPercent: fptr(0), Backlogs: iptr(0)},
		{CGPA: fptr(9.1), TenthPercent: fptr(95), TwelfthPercent: fptr(88), Backlogs: iptr(0)},
		{CGPA: fptr(2), TenthPercent: fptr(33), TwelfthPercent: fptr(40), Backlogs: iptr(0)},
	}

	for _, snap := range snapshots {
		verdict := EvaluateEligibility(snap, Thresholds{})
		assert.True(t, verdict.Pass)
		assert.Empty(t, verdict.Reason)
	}
}

func TestEvaluateEligibilityReasonPrecedence(t *testing.T) {
	th := Thresholds{MinCGPA: 7, MinTenthPercent: 60, MinTwelfthPercent: 60, MaxBacklogs: 0}

	// Everything fails: CGPA must be the one reported
	verdict := EvaluateEligibility(Snapshot{
		CGPA:           fptr(5),
		TenthPercent:   fptr(40),
		TwelfthPercent: fptr(35),
		Backlogs:       iptr(3),
	}, th)
	assert.False(t, verdict.Pass)
	assert.Contains(t, verdict.Reason, "CGPA")
	assert.NotContains(t, verdict.Reason, "10th")

	// CGPA ok, rest fails: 10th reported
	verdict = EvaluateEligibility(Snapshot{
		CGPA:           fptr(8),
		TenthPercent:   fptr(40),
		TwelfthPercent: fptr(35),
		Backlogs:       iptr(3),
	}, th)
	assert.False(t, verdict.Pass)
	assert.Contains(t, verdict.Reason, "10th")

	// CGPA and 10th ok: 12th reported
	verdict = EvaluateEligibility(Snapshot{
		CGPA:           fptr(8),
		TenthPercent:   fptr(80),
		TwelfthPercent: fptr(35),
		Backlogs:       iptr(3),
	}, th)
	assert.False(t, verdict.Pass)
	assert.Contains(t, verdict.Reason, "12th")

	// Only backlogs fail
	verdict = EvaluateEligibility(Snapshot{
		CGPA:           fptr(8),
		TenthPercent:   fptr(80),
		TwelfthPercent: fptr(75),
		Backlogs:       iptr(3),
	}, th)
	assert.False(t, verdict.Pass)
	assert.Contains(t, verdict.Reason, "backlogs")
}

func TestEvaluateEligibilityLowCgpaScenario(t *testing.T) {
	verdict := EvaluateEligibility(Snapshot{
		CGPA:           fptr(6.5),
		TenthPercent:   fptr(70),
		TwelfthPercent: fptr(75),
		Backlogs:       iptr(0),
	}, Thresholds{MinCGPA: 7.0, MinTenthPercent: 60, MinTwelfthPercent: 60, MaxBacklogs: 0})

	assert.False(t, verdict.Pass)
	assert.Contains(t, verdict.Reason, "CGPA 6.50")
	assert.NotContains(t, verdict.Reason, "10th")
	assert.NotContains(t, verdict.Reason, "12th")
	assert.NotContains(t, verdict.Reason, "backlogs")
}

func TestEvaluateEligibilityMissingFields(t *testing.T) {
	// Missing CGPA reads as 0 and fails any non-zero threshold
	verdict := EvaluateEligibility(Snapshot{
		TenthPercent:   fptr(90),
		TwelfthPercent: fptr(90),
	}, Thresholds{MinCGPA: 6})
	assert.False(t, verdict.Pass)
	assert.Contains(t, verdict.Reason, "CGPA")

	// Missing backlog count reads as 0 and passes the ceiling
	verdict = EvaluateEligibility(Snapshot{
		CGPA:           fptr(8),
		TenthPercent:   fptr(90),
		TwelfthPercent: fptr(90),
	}, Thresholds{MinCGPA: 6, MinTenthPercent: 60, MinTwelfthPercent: 60, MaxBacklogs: 0})
	assert.True(t, verdict.Pass)
}

func TestEvaluateEligibilityBoundaryEquality(t *testing.T) {
	// Thresholds are inclusive: equal values pass
	verdict := EvaluateEligibility(Snapshot{
		CGPA:           fptr(7),
		TenthPercent:   fptr(60),
		TwelfthPercent: fptr(60),
		Backlogs:       iptr(2),
	}, Thresholds{MinCGPA: 7, MinTenthPercent: 60, MinTwelfthPercent: 60, MaxBacklogs: 2})
	assert.True(t, verdict.Pass)
}
