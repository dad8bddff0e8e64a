package interview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRounds struct {
	content     *RoundContent
	contentErr  error
	generated   []Round
	answerScore float64
	answerErr   error
	eval        *RoundEvaluation
	evalErr     error
	evalCalls   int
}

func (s *stubRounds) GenerateRoundContent(ctx context.Context, role string, round Round, mode Mode) (*RoundContent, error) {
	s.generated = append(s.generated, round)
	if s.contentErr != nil {
		return nil, s.contentErr
	}
	if s.content != nil {
		return s.content, nil
	}
	return &RoundContent{Round: round, Questions: []string{"q1", "q2"}}, nil
}

func (s *stubRounds) EvaluateAnswer(ctx context.Context, role, question, answer string) (float64, error) {
	if s.answerErr != nil {
		return 0, s.answerErr
	}
	return s.answerScore, nil
}

func (s *stubRounds) EvaluateRoundAnswers(ctx context.Context, role string, round Round, questions, answers []string) (*RoundEvaluation, error) {
	s.evalCalls++
	if s.evalErr != nil {
		return nil, s.evalErr
	}
	return s.eval, nil
}

type stubAuditor struct {
	result *AuditResult
	err    error
	calls  int
}

func (s *stubAuditor) AuditProjects(ctx context.Context, role string, projects []Project) (*AuditResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type regUpdate struct {
	registrationID uint
	status         string
}

type stubRecorder struct {
	records    []TerminalRecord
	createErr  error
	regUpdates []regUpdate
}

func (s *stubRecorder) CreateInterviewRecord(ctx context.Context, rec TerminalRecord) (uint, error) {
	if s.createErr != nil {
		return 0, s.createErr
	}
	s.records = append(s.records, rec)
	return uint(len(s.records)), nil
}

func (s *stubRecorder) UpdateRegistrationStatus(ctx context.Context, registrationID uint, status string, scheduledTime *time.Time) error {
	s.regUpdates = append(s.regUpdates, regUpdate{registrationID, status})
	return nil
}

func testLimits() Limits {
	return Limits{
		Technical:         30 * time.Minute,
		Resume:            20 * time.Minute,
		Coding:            45 * time.Minute,
		Written:           25 * time.Minute,
		AptitudeQuestions: 3,
	}
}

func newTestOrchestrator(rounds *stubRounds, auditor *stubAuditor, recorder *stubRecorder) *Orchestrator {
	return New(rounds, auditor, recorder, testLimits())
}

func TestBeginRoundDeadlines(t *testing.T) {
	rounds := &stubRounds{}
	orch := newTestOrchestrator(rounds, &stubAuditor{}, &stubRecorder{})
	fixed := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	orch.clock = func() time.Time { return fixed }

	// Round 1 is untimed
	s := NewSession("tok", 1, "Backend Engineer", 0, 0)
	content, deadline, err := orch.BeginRound(context.Background(), s)
	require.NoError(t, err)
	require.NotNil(t, content)
	assert.Nil(t, deadline)

	// Timed rounds get clock + ceiling
	s.Current = RoundTechnical
	_, deadline, err = orch.BeginRound(context.Background(), s)
	require.NoError(t, err)
	require.NotNil(t, deadline)
	assert.Equal(t, fixed.Add(30*time.Minute), *deadline)
}

func TestBeginRoundGeneratorFailureIsRetryable(t *testing.T) {
	rounds := &stubRounds{contentErr: errors.New("upstream timeout")}
	orch := newTestOrchestrator(rounds, &stubAuditor{}, &stubRecorder{})

	s := NewSession("tok", 1, "Backend Engineer", 0, 0)
	content, _, err := orch.BeginRound(context.Background(), s)
	assert.Error(t, err)
	assert.Nil(t, content)
}

func TestSubmitChatAnswerCompletesAptitudeAtBudget(t *testing.T) {
	rounds := &stubRounds{answerScore: 7}
	orch := newTestOrchestrator(rounds, &stubAuditor{}, &stubRecorder{})
	s := NewSession("tok", 1, "Backend Engineer", 0, 0)

	var err error
	for i := 0; i < 3; i++ {
		s, _, err = orch.SubmitChatAnswer(context.Background(), s, "q", "a")
		require.NoError(t, err)
	}

	assert.Equal(t, RoundTechnical, s.Current)
	assert.True(t, s.AlreadySubmitted(RoundAptitude))
	assert.InDelta(t, 70.0, s.Scores[RoundAptitude], 1e-9)
}

func TestSubmitChatAnswerEvaluatorFailureKeepsState(t *testing.T) {
	rounds := &stubRounds{answerErr: errors.New("model unavailable")}
	orch := newTestOrchestrator(rounds, &stubAuditor{}, &stubRecorder{})
	s := NewSession("tok", 1, "Backend Engineer", 0, 0)

	next, _, err := orch.SubmitChatAnswer(context.Background(), s, "q", "a")
	assert.Error(t, err)
	assert.Equal(t, s, next)
	assert.Equal(t, 0, next.QuestionsAnswered)
}

func TestSubmitChatAnswerOutsideRoundOne(t *testing.T) {
	orch := newTestOrchestrator(&stubRounds{}, &stubAuditor{}, &stubRecorder{})
	s := NewSession("tok", 1, "Backend Engineer", 0, 0).CompleteAptitude()

	_, _, err := orch.SubmitChatAnswer(context.Background(), s, "q", "a")
	assert.ErrorIs(t, err, ErrWrongRound)
}

func TestSubmitRoundGateFailKeepsRoundOpen(t *testing.T) {
	rounds := &stubRounds{eval: &RoundEvaluation{Score: 35, Passed: false, Feedback: "weak fundamentals"}}
	recorder := &stubRecorder{}
	orch := newTestOrchestrator(rounds, &stubAuditor{}, recorder)
	s := NewSession("tok", 1, "Backend Engineer", 0, 0).CompleteAptitude()

	next, result, err := orch.SubmitRound(context.Background(), s, []string{"q"}, []string{"a"}, nil)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.Passed)
	assert.Equal(t, 35.0, result.Score)
	assert.Equal(t, "weak fundamentals", result.Feedback)

	// Round stays open for a retry
	assert.Equal(t, RoundTechnical, next.Current)
	assert.False(t, next.AlreadySubmitted(RoundTechnical))
	assert.Empty(t, recorder.records)
}

func TestSubmitRoundPassAdvances(t *testing.T) {
	rounds := &stubRounds{eval: &RoundEvaluation{Score: 78, Passed: true}}
	orch := newTestOrchestrator(rounds, &stubAuditor{}, &stubRecorder{})
	s := NewSession("tok", 1, "Backend Engineer", 0, 0).CompleteAptitude()

	next, result, err := orch.SubmitRound(context.Background(), s, []string{"q"}, []string{"a"}, nil)
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Equal(t, RoundResume, next.Current)
	assert.False(t, next.Terminal())
}

func TestSubmitRoundEvaluatorFailureKeepsState(t *testing.T) {
	rounds := &stubRounds{evalErr: errors.New("model unavailable")}
	recorder := &stubRecorder{}
	orch := newTestOrchestrator(rounds, &stubAuditor{}, recorder)
	s := NewSession("tok", 1, "Backend Engineer", 0, 0).CompleteAptitude()

	next, result, err := orch.SubmitRound(context.Background(), s, []string{"q"}, []string{"a"}, nil)
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, s, next)
	assert.Empty(t, recorder.records)
}

func TestSubmitRoundDuplicateIsNoop(t *testing.T) {
	rounds := &stubRounds{eval: &RoundEvaluation{Score: 78, Passed: true}}
	recorder := &stubRecorder{}
	orch := newTestOrchestrator(rounds, &stubAuditor{}, recorder)

	// A session whose current round already latched a submission, as a stale
	// timer fire would see it
	s := NewSession("tok", 1, "Backend Engineer", 7, 13).CompleteAptitude().RecordRoundScore(72, true)
	require.True(t, s.AlreadySubmitted(RoundTechnical))

	next, result, err := orch.SubmitRound(context.Background(), s, []string{"q"}, []string{"a"}, nil)
	require.NoError(t, err)
	assert.True(t, result.Duplicate)
	assert.Equal(t, s, next)
	assert.Equal(t, 0, rounds.evalCalls)
	assert.Empty(t, recorder.records)
}

func TestDriveAuditFailScreensOutWithOneRecord(t *testing.T) {
	rounds := &stubRounds{eval: &RoundEvaluation{Score: 80, Passed: true}}
	auditor := &stubAuditor{result: &AuditResult{Passed: false, MatchScore: 20}}
	recorder := &stubRecorder{}
	orch := newTestOrchestrator(rounds, auditor, recorder)

	s := NewSession("tok", 9, "Backend Engineer", 7, 13)
	s = s.ApplyAnswerScore(6).CompleteAptitude()

	next, result, err := orch.SubmitRound(context.Background(), s, []string{"q"}, []string{"a"}, []Project{{Title: "Todo app"}})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.ScreenedOut)
	assert.Equal(t, ScreenedOutReason, result.RejectionReason)
	assert.True(t, next.Terminal())

	// Exactly one terminal record, marked screened out
	require.Len(t, recorder.records, 1)
	rec := recorder.records[0]
	assert.Equal(t, RecordStatusScreenedOut, rec.Status)
	assert.Equal(t, uint(9), rec.UserID)
	assert.Equal(t, ScreenedOutReason, rec.RejectionReason)
	require.NotNil(t, rec.DriveID)
	assert.Equal(t, uint(7), *rec.DriveID)

	// Registration flipped in the same write
	require.Len(t, recorder.regUpdates, 1)
	assert.Equal(t, regUpdate{13, RecordStatusScreenedOut}, recorder.regUpdates[0])

	// Round 3 content is never generated for a screened-out session
	_, _, err = orch.BeginRound(context.Background(), next)
	assert.ErrorIs(t, err, ErrSessionTerminal)
	assert.Empty(t, rounds.generated)

	// A stale timer firing after the screen-out writes nothing more
	_, _, err = orch.SubmitRound(context.Background(), next, []string{"q"}, []string{"a"}, nil)
	assert.ErrorIs(t, err, ErrSessionTerminal)
	assert.Len(t, recorder.records, 1)
}

func TestDriveAuditPassResumesSequence(t *testing.T) {
	rounds := &stubRounds{eval: &RoundEvaluation{Score: 80, Passed: true}}
	auditor := &stubAuditor{result: &AuditResult{Passed: true, MatchScore: 85}}
	recorder := &stubRecorder{}
	orch := newTestOrchestrator(rounds, auditor, recorder)

	s := NewSession("tok", 9, "Backend Engineer", 7, 13).CompleteAptitude()
	next, result, err := orch.SubmitRound(context.Background(), s, []string{"q"}, []string{"a"}, []Project{{Title: "Order service", TechStack: "Go, Postgres"}})
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.False(t, result.ScreenedOut)
	assert.Equal(t, RoundResume, next.Current)
	assert.Empty(t, recorder.records)
	assert.Equal(t, 1, auditor.calls)
}

func TestDriveAuditFailureIsRetryable(t *testing.T) {
	rounds := &stubRounds{eval: &RoundEvaluation{Score: 80, Passed: true}}
	auditor := &stubAuditor{err: errors.New("model unavailable")}
	recorder := &stubRecorder{}
	orch := newTestOrchestrator(rounds, auditor, recorder)

	s := NewSession("tok", 9, "Backend Engineer", 7, 13).CompleteAptitude()
	next, result, err := orch.SubmitRound(context.Background(), s, []string{"q"}, []string{"a"}, nil)
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, s, next)
	assert.Empty(t, recorder.records)

	// The retry re-runs evaluation and the audit
	auditor.err = nil
	auditor.result = &AuditResult{Passed: true}
	next, result, err = orch.SubmitRound(context.Background(), next, []string{"q"}, []string{"a"}, nil)
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Equal(t, RoundResume, next.Current)
	assert.Equal(t, 2, rounds.evalCalls)
	assert.Equal(t, 2, auditor.calls)
}

func TestWrittenRoundCompletesInterview(t *testing.T) {
	rounds := &stubRounds{eval: &RoundEvaluation{Score: 75, Passed: true}}
	recorder := &stubRecorder{}
	orch := newTestOrchestrator(rounds, &stubAuditor{}, recorder)

	s := NewSession("tok", 9, "Backend Engineer", 0, 0)
	s = s.ApplyAnswerScore(7).CompleteAptitude() // 70
	s = s.RecordRoundScore(80, true)
	s = s.RecordRoundScore(60, true)
	s = s.RecordRoundScore(90, true)
	require.Equal(t, RoundWritten, s.Current)

	next, result, err := orch.SubmitRound(context.Background(), s, []string{"q"}, []string{"a"}, nil)
	require.NoError(t, err)
	assert.True(t, result.Completed)
	require.NotNil(t, result.Report)
	assert.InDelta(t, 75.0, result.Report.Overall, 1e-9)
	assert.True(t, next.Completed)

	require.Len(t, recorder.records, 1)
	rec := recorder.records[0]
	assert.Equal(t, RecordStatusCompleted, rec.Status)
	assert.InDelta(t, 7.5, rec.AvgScore, 1e-9)
	assert.Nil(t, rec.DriveID)
	assert.Contains(t, rec.RoundBreakdown, `"rounds"`)
	assert.Empty(t, recorder.regUpdates)
}

func TestTerminalSaveFailureKeepsOutcome(t *testing.T) {
	rounds := &stubRounds{eval: &RoundEvaluation{Score: 75, Passed: true}}
	recorder := &stubRecorder{createErr: errors.New("db down")}
	orch := newTestOrchestrator(rounds, &stubAuditor{}, recorder)

	s := NewSession("tok", 9, "Backend Engineer", 0, 0)
	s = s.ApplyAnswerScore(7).CompleteAptitude()
	s = s.RecordRoundScore(80, true).RecordRoundScore(60, true).RecordRoundScore(90, true)

	next, result, err := orch.SubmitRound(context.Background(), s, []string{"q"}, []string{"a"}, nil)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.True(t, result.SavePending)
	assert.True(t, result.Completed)
	require.NotNil(t, result.Report)
	assert.True(t, next.Completed)

	// Storage recovers; the retry persists exactly one record
	recorder.createErr = nil
	recordID, err := orch.RetryTerminalSave(context.Background(), next)
	require.NoError(t, err)
	assert.NotZero(t, recordID)
	assert.Len(t, recorder.records, 1)
}

func TestRetryTerminalSaveRejectsLiveSession(t *testing.T) {
	orch := newTestOrchestrator(&stubRounds{}, &stubAuditor{}, &stubRecorder{})
	s := NewSession("tok", 9, "Backend Engineer", 0, 0)

	_, err := orch.RetryTerminalSave(context.Background(), s)
	assert.Error(t, err)
}

func TestSerializedRacingSubmitsWriteOneRecord(t *testing.T) {
	rounds := &stubRounds{eval: &RoundEvaluation{Score: 75, Passed: true}}
	recorder := &stubRecorder{}
	orch := newTestOrchestrator(rounds, &stubAuditor{}, recorder)

	s := NewSession("tok", 9, "Backend Engineer", 0, 0)
	s = s.ApplyAnswerScore(7).CompleteAptitude()
	s = s.RecordRoundScore(80, true).RecordRoundScore(60, true).RecordRoundScore(90, true)
	require.Equal(t, RoundWritten, s.Current)

	// Timer expiry and a manual submit fire in the same tick. The session row
	// lock serializes them: the first writer evaluates and persists, the
	// second reads the committed state and finds the interview already over.
	first, result, err := orch.SubmitRound(context.Background(), s, []string{"q"}, []string{"a"}, nil)
	require.NoError(t, err)
	require.True(t, result.Completed)

	_, _, err = orch.SubmitRound(context.Background(), first, []string{"q"}, []string{"a"}, nil)
	assert.ErrorIs(t, err, ErrSessionTerminal)
	assert.Len(t, recorder.records, 1)
	assert.Equal(t, 1, rounds.evalCalls)
}

func TestSubmitRoundRejectsAptitude(t *testing.T) {
	orch := newTestOrchestrator(&stubRounds{}, &stubAuditor{}, &stubRecorder{})
	s := NewSession("tok", 9, "Backend Engineer", 0, 0)

	_, _, err := orch.SubmitRound(context.Background(), s, nil, nil, nil)
	assert.ErrorIs(t, err, ErrWrongRound)
}
