package funnel

// Status is the single derived label summarizing a candidate's outcome for a
// drive. Every dashboard derives it through DeriveFunnelStatus; no caller may
// reimplement the precedence.
type Status string

const (
	StatusIneligible  Status = "Ineligible"
	StatusScreenedOut Status = "Screened Out"
	StatusHired       Status = "Hired"
	StatusPending     Status = "Pending"
)

// Interview lifecycle status values understood by the reducer. They mirror the
// InterviewRecord status column; anything else falls through to Pending.
const (
	interviewCompleted   = "COMPLETED"
	interviewScreenedOut = "SCREENED_OUT"
)

// InterviewOutcome is the slice of the authoritative interview record the
// reducer reads. A nil *InterviewOutcome means no interview exists yet.
type InterviewOutcome struct {
	Status string
}

// DeriveFunnelStatus reduces an eligibility verdict and the latest interview
// outcome to one funnel status. Precedence, first match wins:
//  1. failed eligibility always wins, even over a completed interview
//  2. screened-out interview
//  3. completed interview
//  4. Pending (no interview, in progress, or an unrecognized status value)
//
// Unrecognized interview statuses map to Pending rather than an error so a
// dashboard never crashes on unexpected but non-corrupt rows.
func DeriveFunnelStatus(verdict Verdict, interview *InterviewOutcome) Status {
	if !verdict.Pass {
		return StatusIneligible
	}
	if interview != nil {
		switch interview.Status {
		case interviewScreenedOut:
			return StatusScreenedOut
		case interviewCompleted:
			return StatusHired
		}
	}
	return StatusPending
}
