package funnel

import "fmt"

// Snapshot is the frozen academic record a candidate is judged on. Fields are
// pointers because old registrations may predate snapshot capture; a missing
// value reads as 0, which fails any non-zero percentage/CGPA threshold and
// trivially passes the backlog ceiling.
type Snapshot struct {
	TenthPercent   *float64
	TwelfthPercent *float64
	CGPA           *float64
	Backlogs       *int
}

// Thresholds is a drive's eligibility config.
type Thresholds struct {
	MinCGPA           float64
	MinTenthPercent   float64
	MinTwelfthPercent float64
	MaxBacklogs       int
}

// Verdict is the eligibility gate output. Reason is empty on a pass and holds
// exactly one human-readable failure on a fail.
type Verdict struct {
	Pass   bool   `json:"pass"`
	Reason string `json:"reason"`
}

// EvaluateEligibility checks a snapshot against a drive's thresholds. When
// several checks fail, only the first in the order CGPA, 10th, 12th, backlogs
// is reported; dashboards show a single actionable reason and rely on this
// exact precedence.
func EvaluateEligibility(snap Snapshot, th Thresholds) Verdict {
	cgpa := floatValue(snap.CGPA)
	tenth := floatValue(snap.TenthPercent)
	twelfth := floatValue(snap.TwelfthPercent)
	backlogs := intValue(snap.Backlogs)

	if cgpa < th.MinCGPA {
		return Verdict{Pass: false, Reason: fmt.Sprintf("CGPA %.2f is below the required %.2f", cgpa, th.MinCGPA)}
	}
	if tenth < th.MinTenthPercent {
		return Verdict{Pass: false, Reason: fmt.Sprintf("10th percentage %.2f is below the required %.2f", tenth, th.MinTenthPercent)}
	}
	if twelfth < th.MinTwelfthPercent {
		return Verdict{Pass: false, Reason: fmt.Sprintf("12th percentage %.2f is below the required %.2f", twelfth, th.MinTwelfthPercent)}
	}
	if backlogs > th.MaxBacklogs {
		return Verdict{Pass: false, Reason: fmt.Sprintf("%d active backlogs exceed the allowed %d", backlogs, th.MaxBacklogs)}
	}

	return Verdict{Pass: true}
}

func floatValue(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func intValue(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
