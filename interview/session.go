package interview

import (
	"fmt"

	"github.com/adityadeoche/interview-iq-ai-sub000/funnel"
)

// Round identifies one of the five fixed interview stages. Rounds advance
// strictly in order; the only way back is a fresh session.
type Round int

const (
	RoundAptitude  Round = 1 // chat style, no pass gate, ends on question budget
	RoundTechnical Round = 2
	RoundResume    Round = 3 // resume deep-dive
	RoundCoding    Round = 4
	RoundWritten   Round = 5 // numeric score only, completes the interview
)

const totalRounds = 5

func (r Round) Name() string {
	switch r {
	case RoundAptitude:
		return "Aptitude"
	case RoundTechnical:
		return "Technical"
	case RoundResume:
		return "Resume Deep-Dive"
	case RoundCoding:
		return "Coding"
	case RoundWritten:
		return "Written"
	}
	return fmt.Sprintf("Round %d", int(r))
}

// HasPassGate reports whether the round's evaluator verdict gates advancement.
// Rounds 2-4 gate; round 1 ends on its question budget and round 5 always
// completes the interview.
func (r Round) HasPassGate() bool {
	return r == RoundTechnical || r == RoundResume || r == RoundCoding
}

// Mode is the probing hint sent to the question generator for round 1.
type Mode string

const (
	ModeStandard     Mode = "STANDARD"
	ModeExpert       Mode = "EXPERT"
	ModeFoundational Mode = "FOUNDATIONAL"
)

// Adaptive thresholds for the round 1 running mean (0-10 scale).
const (
	expertMeanFloor       = 8.0
	expertMinAnswers      = 3
	foundationalMeanCeil  = 4.0
	foundationalMinAnswer = 2
)

// ScreenedOutReason is the fixed rejection reason written when the project
// audit gate fails a drive candidate.
const ScreenedOutReason = "Project portfolio does not match the requirements of the target role"

// Session is the full state of one interview attempt. Transitions are pure:
// every method takes the session by value and returns the successor state, so
// the orchestrator can discard the new state when an effect fails and the
// candidate retries from exactly where they were.
type Session struct {
	Token          string `json:"token"`
	UserID         uint   `json:"user_id"`
	Role           string `json:"role"`
	DriveMode      bool   `json:"drive_mode"`
	DriveID        uint   `json:"drive_id,omitempty"`
	RegistrationID uint   `json:"registration_id,omitempty"`

	Current       Round `json:"current"`
	Completed     bool  `json:"completed"`
	ScreenedOut   bool  `json:"screened_out"`
	AwaitingAudit bool  `json:"awaiting_audit"`
	AuditDone     bool  `json:"audit_done"`

	RejectionReason string `json:"rejection_reason,omitempty"`

	// Round 1 chat state
	QuestionsAnswered int     `json:"questions_answered"`
	RunningAvg        float64 `json:"running_avg"` // 0-10

	// Accepted per-round scores on a 0-100 scale
	Scores    map[Round]float64 `json:"scores"`
	Submitted map[Round]bool    `json:"submitted"`
}

// NewSession starts a session at round 1. driveID and registrationID are zero
// for free practice.
func NewSession(token string, userID uint, role string, driveID, registrationID uint) Session {
	return Session{
		Token:          token,
		UserID:         userID,
		Role:           role,
		DriveMode:      driveID != 0,
		DriveID:        driveID,
		RegistrationID: registrationID,
		Current:        RoundAptitude,
		Scores:         map[Round]float64{},
		Submitted:      map[Round]bool{},
	}
}

// Terminal reports whether the session has reached a final outcome.
func (s Session) Terminal() bool {
	return s.Completed || s.ScreenedOut
}

// AlreadySubmitted reports whether the round has an accepted submission. The
// orchestrator checks this before evaluating so a timer expiry racing a manual
// submit cannot close one round twice.
func (s Session) AlreadySubmitted(r Round) bool {
	return s.Submitted[r]
}

// ApplyAnswerScore folds one round 1 answer score (0-10) into the running
// mean: avg' = (avg*n + score) / (n+1). No-op outside round 1.
func (s Session) ApplyAnswerScore(score float64) Session {
	if s.Current != RoundAptitude || s.Terminal() {
		return s
	}
	n := float64(s.QuestionsAnswered)
	s.RunningAvg = (s.RunningAvg*n + score) / (n + 1)
	s.QuestionsAnswered++
	return s
}

// ProbingMode derives the round 1 question-generation hint from the running
// mean and answer count. Presentation only; it never gates progression.
func (s Session) ProbingMode() Mode {
	if s.RunningAvg >= expertMeanFloor && s.QuestionsAnswered >= expertMinAnswers {
		return ModeExpert
	}
	if s.RunningAvg < foundationalMeanCeil && s.QuestionsAnswered >= foundationalMinAnswer {
		return ModeFoundational
	}
	return ModeStandard
}

// AptitudeDone reports whether round 1 has exhausted its question budget.
func (s Session) AptitudeDone(questionLimit int) bool {
	return s.QuestionsAnswered >= questionLimit
}

// CompleteAptitude closes round 1 with the running mean as its score and
// advances to the technical round.
func (s Session) CompleteAptitude() Session {
	if s.Current != RoundAptitude || s.Terminal() {
		return s
	}
	s.Scores = cloneScores(s.Scores)
	s.Submitted = cloneSubmitted(s.Submitted)
	s.Scores[RoundAptitude] = s.RunningAvg * 10
	s.Submitted[RoundAptitude] = true
	s.Current = RoundTechnical
	return s
}

// RecordRoundScore applies an evaluator verdict for the current round
// (rounds 2-5, score on 0-100). A failed pass gate records nothing so the
// candidate can retry the round from scratch. A passed technical round in
// drive mode parks the session awaiting the project audit instead of
// advancing.
func (s Session) RecordRoundScore(score float64, passed bool) Session {
	if s.Terminal() || s.Current == RoundAptitude || s.AwaitingAudit {
		return s
	}
	if s.Current.HasPassGate() && !passed {
		return s
	}

	s.Scores = cloneScores(s.Scores)
	s.Submitted = cloneSubmitted(s.Submitted)
	s.Scores[s.Current] = score
	s.Submitted[s.Current] = true

	switch {
	case s.Current == RoundTechnical && s.DriveMode:
		s.AwaitingAudit = true
	case s.Current == RoundWritten:
		s.Completed = true
	default:
		s.Current++
	}
	return s
}

// ApplyAudit settles the drive-mode project audit gate. A pass resumes the
// normal sequence at round 3; a fail is terminal and irreversible.
func (s Session) ApplyAudit(passed bool, reason string) Session {
	if !s.AwaitingAudit || s.Terminal() {
		return s
	}
	s.AwaitingAudit = false
	s.AuditDone = true
	if passed {
		s.Current = RoundResume
		return s
	}
	s.ScreenedOut = true
	if reason == "" {
		reason = ScreenedOutReason
	}
	s.RejectionReason = reason
	return s
}

// OverallScore is the mean of all accepted round scores (0-100).
func (s Session) OverallScore() float64 {
	if len(s.Scores) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s.Scores {
		sum += v
	}
	return sum / float64(len(s.Scores))
}

// FinalReport assembles the structured breakdown persisted on the interview
// record. Rounds without an accepted score are omitted, so a screened-out
// report carries only rounds 1-2.
func (s Session) FinalReport() funnel.FinalReport {
	report := funnel.FinalReport{
		Overall: s.OverallScore(),
		Verdict: verdictFor(s.OverallScore()),
	}
	for r := RoundAptitude; r <= totalRounds; r++ {
		score, ok := s.Scores[r]
		if !ok {
			continue
		}
		report.Rounds = append(report.Rounds, funnel.RoundResult{
			Round: int(r),
			Name:  r.Name(),
			Score: score,
		})
	}
	return report
}

func verdictFor(overall float64) string {
	switch {
	case overall >= 80:
		return "Strong Hire"
	case overall >= 65:
		return "Hire"
	case overall >= 50:
		return "Borderline"
	}
	return "Needs Improvement"
}

func cloneScores(in map[Round]float64) map[Round]float64 {
	out := make(map[Round]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneSubmitted(in map[Round]bool) map[Round]bool {
	out := make(map[Round]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
