package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/adityadeoche/interview-iq-ai-sub000/funnel"
)

// Record statuses the orchestrator persists. String values match the
// InterviewRecord and DriveRegistration status columns.
const (
	RecordStatusCompleted   = "COMPLETED"
	RecordStatusScreenedOut = "SCREENED_OUT"
)

var (
	// ErrSessionTerminal is returned when input arrives for a session that
	// already reached a final outcome.
	ErrSessionTerminal = errors.New("interview session already has a terminal outcome")
	// ErrWrongRound is returned when the request does not match the flow of
	// the current round (chat answers outside round 1, bulk submit in round 1).
	ErrWrongRound = errors.New("request does not match the current round")
)

// RoundContent is what the generator returns for one round: a question list
// for Q&A rounds or a single problem statement for the coding round.
type RoundContent struct {
	Round     Round    `json:"round"`
	Questions []string `json:"questions,omitempty"`
	Problem   string   `json:"problem,omitempty"`
}

// RoundEvaluation is the evaluator verdict for a bulk-submitted round.
// Passed is meaningful for rounds 2-4 only.
type RoundEvaluation struct {
	Score    float64 `json:"score"` // 0-100
	Passed   bool    `json:"passed"`
	Feedback string  `json:"feedback"`
}

// AuditResult is the project audit gate's verdict.
type AuditResult struct {
	Passed     bool    `json:"passed"`
	MatchScore float64 `json:"match_score"`
	Reason     string  `json:"reason,omitempty"`
}

// Project is a declared candidate project as the auditor sees it.
type Project struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TechStack   string `json:"tech_stack"`
}

// RoundService generates round content and evaluates answers. Implemented by
// the Gemini client; stubbed in tests.
type RoundService interface {
	GenerateRoundContent(ctx context.Context, role string, round Round, mode Mode) (*RoundContent, error)
	EvaluateAnswer(ctx context.Context, role, question, answer string) (float64, error)
	EvaluateRoundAnswers(ctx context.Context, role string, round Round, questions, answers []string) (*RoundEvaluation, error)
}

// ProjectAuditor runs the drive-mode project audit after the technical round.
type ProjectAuditor interface {
	AuditProjects(ctx context.Context, role string, projects []Project) (*AuditResult, error)
}

// TerminalRecord is the single write the orchestrator makes when a session
// ends.
type TerminalRecord struct {
	UserID          uint
	Role            string
	AvgScore        float64 // 0-10
	Status          string
	RejectionReason string
	RoundBreakdown  string
	DriveID         *uint
}

// Recorder persists terminal outcomes. Both calls belong to one logical
// transaction.
type Recorder interface {
	CreateInterviewRecord(ctx context.Context, rec TerminalRecord) (uint, error)
	UpdateRegistrationStatus(ctx context.Context, registrationID uint, status string, scheduledTime *time.Time) error
}

// Limits carries the wall-clock ceilings for rounds 2-5 and the round 1
// question budget.
type Limits struct {
	Technical         time.Duration
	Resume            time.Duration
	Coding            time.Duration
	Written           time.Duration
	AptitudeQuestions int
}

// For returns the ceiling for a timed round, zero for round 1.
func (l Limits) For(r Round) time.Duration {
	switch r {
	case RoundTechnical:
		return l.Technical
	case RoundResume:
		return l.Resume
	case RoundCoding:
		return l.Coding
	case RoundWritten:
		return l.Written
	}
	return 0
}

// SubmitResult reports what one round submission did to the session.
type SubmitResult struct {
	Duplicate       bool                `json:"duplicate"`
	Passed          bool                `json:"passed"`
	Score           float64             `json:"score"`
	Feedback        string              `json:"feedback,omitempty"`
	ScreenedOut     bool                `json:"screened_out"`
	RejectionReason string              `json:"rejection_reason,omitempty"`
	Completed       bool                `json:"completed"`
	Report          *funnel.FinalReport `json:"report,omitempty"`
	RecordID        uint                `json:"record_id,omitempty"`
	SavePending     bool                `json:"save_pending"`
}

// Orchestrator drives one session through the five rounds. It holds no
// session state itself; callers pass the Session value in and store the value
// that comes back, so a failed effect never leaves a half-applied transition.
type Orchestrator struct {
	rounds   RoundService
	auditor  ProjectAuditor
	recorder Recorder
	limits   Limits
	clock    func() time.Time
}

// New builds an orchestrator. limits must carry non-zero ceilings for rounds
// 2-5.
func New(rounds RoundService, auditor ProjectAuditor, recorder Recorder, limits Limits) *Orchestrator {
	return &Orchestrator{
		rounds:   rounds,
		auditor:  auditor,
		recorder: recorder,
		limits:   limits,
		clock:    time.Now,
	}
}

// Limits exposes the configured round ceilings.
func (o *Orchestrator) Limits() Limits { return o.limits }

// BeginRound fetches content for the session's current round and returns the
// wall-clock deadline for timed rounds (nil for round 1). A generator failure
// is retryable: the session is returned unchanged.
func (o *Orchestrator) BeginRound(ctx context.Context, s Session) (*RoundContent, *time.Time, error) {
	if s.Terminal() {
		return nil, nil, ErrSessionTerminal
	}
	if s.AwaitingAudit {
		return nil, nil, ErrWrongRound
	}

	content, err := o.rounds.GenerateRoundContent(ctx, s.Role, s.Current, s.ProbingMode())
	if err != nil {
		return nil, nil, fmt.Errorf("generating %s round content: %w", s.Current.Name(), err)
	}

	if ceiling := o.limits.For(s.Current); ceiling > 0 {
		deadline := o.clock().Add(ceiling)
		return content, &deadline, nil
	}
	return content, nil, nil
}

// SubmitChatAnswer scores one round 1 answer and folds it into the running
// mean. When the question budget is exhausted the aptitude round closes and
// the session advances to round 2. An evaluator failure is retryable with no
// state change.
func (o *Orchestrator) SubmitChatAnswer(ctx context.Context, s Session, question, answer string) (Session, float64, error) {
	if s.Terminal() {
		return s, 0, ErrSessionTerminal
	}
	if s.Current != RoundAptitude {
		return s, 0, ErrWrongRound
	}

	score, err := o.rounds.EvaluateAnswer(ctx, s.Role, question, answer)
	if err != nil {
		return s, 0, fmt.Errorf("evaluating answer: %w", err)
	}

	next := s.ApplyAnswerScore(score)
	if next.AptitudeDone(o.limits.AptitudeQuestions) {
		next = next.CompleteAptitude()
	}
	return next, score, nil
}

// SubmitRound submits answers for the current timed round (2-5). The same
// path serves manual submits and timer auto-submits; the submission latch in
// the session makes a double fire a no-op. projects is the candidate's
// declared project list, consulted only by the drive-mode audit gate after a
// passed technical round.
//
// When the returned SubmitResult is non-nil alongside a non-nil error, the
// round outcome is decided but the terminal write failed; the caller keeps
// the session and retries the save with RetryTerminalSave.
func (o *Orchestrator) SubmitRound(ctx context.Context, s Session, questions, answers []string, projects []Project) (Session, *SubmitResult, error) {
	if s.Terminal() {
		return s, nil, ErrSessionTerminal
	}
	if s.Current == RoundAptitude {
		return s, nil, ErrWrongRound
	}
	if s.AlreadySubmitted(s.Current) {
		return s, &SubmitResult{Duplicate: true}, nil
	}

	round := s.Current
	eval, err := o.rounds.EvaluateRoundAnswers(ctx, s.Role, round, questions, answers)
	if err != nil {
		return s, nil, fmt.Errorf("evaluating %s round: %w", round.Name(), err)
	}

	if round.HasPassGate() && !eval.Passed {
		return s, &SubmitResult{Passed: false, Score: eval.Score, Feedback: eval.Feedback}, nil
	}

	next := s.RecordRoundScore(eval.Score, eval.Passed || !round.HasPassGate())
	result := &SubmitResult{Passed: true, Score: eval.Score, Feedback: eval.Feedback}

	if next.AwaitingAudit {
		audit, err := o.auditor.AuditProjects(ctx, s.Role, projects)
		if err != nil {
			// Retryable: the resubmission re-runs evaluation and audit.
			return s, nil, fmt.Errorf("auditing projects: %w", err)
		}
		next = next.ApplyAudit(audit.Passed, audit.Reason)
		if next.ScreenedOut {
			result.ScreenedOut = true
			result.RejectionReason = next.RejectionReason
			recordID, saveErr := o.persistTerminal(ctx, next)
			result.RecordID = recordID
			if saveErr != nil {
				result.SavePending = true
				return next, result, saveErr
			}
			return next, result, nil
		}
	}

	if next.Completed {
		report := next.FinalReport()
		result.Completed = true
		result.Report = &report
		recordID, saveErr := o.persistTerminal(ctx, next)
		result.RecordID = recordID
		if saveErr != nil {
			result.SavePending = true
			return next, result, saveErr
		}
	}

	return next, result, nil
}

// RetryTerminalSave re-attempts the terminal write for a session whose
// outcome is decided but whose record failed to persist.
func (o *Orchestrator) RetryTerminalSave(ctx context.Context, s Session) (uint, error) {
	if !s.Terminal() {
		return 0, errors.New("session has no terminal outcome to save")
	}
	return o.persistTerminal(ctx, s)
}

// persistTerminal writes the interview record and, for drive sessions, the
// registration status. The in-memory session is never touched here, so a
// storage failure loses nothing.
func (o *Orchestrator) persistTerminal(ctx context.Context, s Session) (uint, error) {
	report := s.FinalReport()
	breakdown, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("serializing round breakdown: %w", err)
	}

	status := RecordStatusCompleted
	if s.ScreenedOut {
		status = RecordStatusScreenedOut
	}

	rec := TerminalRecord{
		UserID:          s.UserID,
		Role:            s.Role,
		AvgScore:        report.Overall / 10,
		Status:          status,
		RejectionReason: s.RejectionReason,
		RoundBreakdown:  string(breakdown),
	}
	if s.DriveMode {
		driveID := s.DriveID
		rec.DriveID = &driveID
	}

	recordID, err := o.recorder.CreateInterviewRecord(ctx, rec)
	if err != nil {
		return 0, fmt.Errorf("saving interview record: %w", err)
	}

	if s.DriveMode && s.RegistrationID != 0 {
		if err := o.recorder.UpdateRegistrationStatus(ctx, s.RegistrationID, status, nil); err != nil {
			return recordID, fmt.Errorf("updating registration status: %w", err)
		}
	}
	return recordID, nil
}
