package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession("tok-1", 42, "Backend Engineer", 0, 0)

	assert.Equal(t, RoundAptitude, s.Current)
	assert.False(t, s.DriveMode)
	assert.False(t, s.Terminal())
	assert.Equal(t, ModeStandard, s.ProbingMode())
	assert.Empty(t, s.Scores)

	drive := NewSession("tok-2", 42, "Backend Engineer", 7, 13)
	assert.True(t, drive.DriveMode)
	assert.Equal(t, uint(7), drive.DriveID)
	assert.Equal(t, uint(13), drive.RegistrationID)
}

func TestApplyAnswerScoreRunningMean(t *testing.T) {
	s := NewSession("tok", 1, "Backend Engineer", 0, 0)

	s = s.ApplyAnswerScore(8)
	assert.Equal(t, 1, s.QuestionsAnswered)
	assert.InDelta(t, 8.0, s.RunningAvg, 1e-9)

	s = s.ApplyAnswerScore(6)
	assert.InDelta(t, 7.0, s.RunningAvg, 1e-9)

	s = s.ApplyAnswerScore(7)
	assert.Equal(t, 3, s.QuestionsAnswered)
	assert.InDelta(t, 7.0, s.RunningAvg, 1e-9)
}

func TestApplyAnswerScoreOutsideAptitudeIsNoop(t *testing.T) {
	s := NewSession("tok", 1, "Backend Engineer", 0, 0)
	s.Current = RoundTechnical

	next := s.ApplyAnswerScore(9)
	assert.Equal(t, s, next)
}

func TestProbingModeAdaptation(t *testing.T) {
	s := NewSession("tok", 1, "Backend Engineer", 0, 0)

	// High mean but too few answers stays standard
	s = s.ApplyAnswerScore(9).ApplyAnswerScore(9)
	assert.Equal(t, ModeStandard, s.ProbingMode())

	// Third strong answer crosses into expert probing
	s = s.ApplyAnswerScore(9)
	assert.Equal(t, ModeExpert, s.ProbingMode())

	// Struggling candidate drops to foundational after two answers
	weak := NewSession("tok", 1, "Backend Engineer", 0, 0)
	weak = weak.ApplyAnswerScore(2)
	assert.Equal(t, ModeStandard, weak.ProbingMode())
	weak = weak.ApplyAnswerScore(3)
	assert.Equal(t, ModeFoundational, weak.ProbingMode())
}

func TestCompleteAptitude(t *testing.T) {
	s := NewSession("tok", 1, "Backend Engineer", 0, 0)
	s = s.ApplyAnswerScore(8).ApplyAnswerScore(6)

	next := s.CompleteAptitude()
	assert.Equal(t, RoundTechnical, next.Current)
	assert.True(t, next.AlreadySubmitted(RoundAptitude))
	assert.InDelta(t, 70.0, next.Scores[RoundAptitude], 1e-9) // mean 7 on a 0-100 scale

	// The original value is untouched
	assert.Equal(t, RoundAptitude, s.Current)
	assert.False(t, s.AlreadySubmitted(RoundAptitude))
}

func TestRecordRoundScoreGateFailIsNoop(t *testing.T) {
	s := NewSession("tok", 1, "Backend Engineer", 0, 0).CompleteAptitude()

	next := s.RecordRoundScore(35, false)
	assert.Equal(t, s, next)
	assert.False(t, next.AlreadySubmitted(RoundTechnical))
}

func TestRecordRoundScoreAdvances(t *testing.T) {
	s := NewSession("tok", 1, "Backend Engineer", 0, 0).CompleteAptitude()

	s = s.RecordRoundScore(72, true)
	assert.Equal(t, RoundResume, s.Current)
	assert.True(t, s.AlreadySubmitted(RoundTechnical))

	s = s.RecordRoundScore(64, true)
	assert.Equal(t, RoundCoding, s.Current)

	s = s.RecordRoundScore(58, true)
	assert.Equal(t, RoundWritten, s.Current)

	// Written has no gate; a low score still completes the interview
	s = s.RecordRoundScore(40, false)
	assert.True(t, s.Completed)
	assert.True(t, s.Terminal())
}

func TestRecordRoundScoreDriveModeParksForAudit(t *testing.T) {
	s := NewSession("tok", 1, "Backend Engineer", 7, 13).CompleteAptitude()

	s = s.RecordRoundScore(72, true)
	assert.True(t, s.AwaitingAudit)
	assert.Equal(t, RoundTechnical, s.Current)
	assert.True(t, s.AlreadySubmitted(RoundTechnical))

	// Parked sessions accept no further round scores
	next := s.RecordRoundScore(90, true)
	assert.Equal(t, s, next)
}

func TestApplyAuditPassResumesAtResumeRound(t *testing.T) {
	s := NewSession("tok", 1, "Backend Engineer", 7, 13).CompleteAptitude().RecordRoundScore(72, true)

	s = s.ApplyAudit(true, "")
	assert.False(t, s.AwaitingAudit)
	assert.True(t, s.AuditDone)
	assert.Equal(t, RoundResume, s.Current)
	assert.False(t, s.Terminal())
}

func TestApplyAuditFailIsTerminal(t *testing.T) {
	s := NewSession("tok", 1, "Backend Engineer", 7, 13).CompleteAptitude().RecordRoundScore(72, true)

	s = s.ApplyAudit(false, "")
	assert.True(t, s.ScreenedOut)
	assert.True(t, s.Terminal())
	assert.Equal(t, ScreenedOutReason, s.RejectionReason)

	// Terminal is irreversible
	next := s.ApplyAudit(true, "")
	assert.Equal(t, s, next)
	next = s.RecordRoundScore(99, true)
	assert.Equal(t, s, next)
}

func TestApplyAuditCustomReasonKept(t *testing.T) {
	s := NewSession("tok", 1, "Backend Engineer", 7, 13).CompleteAptitude().RecordRoundScore(72, true)
	s = s.ApplyAudit(false, "No backend projects declared")
	assert.Equal(t, "No backend projects declared", s.RejectionReason)
}

func TestScoreMapsAreCopiedOnWrite(t *testing.T) {
	s := NewSession("tok", 1, "Backend Engineer", 0, 0).CompleteAptitude()
	next := s.RecordRoundScore(72, true)

	next.Scores[RoundWritten] = 99
	next.Submitted[RoundWritten] = true

	_, leaked := s.Scores[RoundWritten]
	assert.False(t, leaked)
	assert.False(t, s.AlreadySubmitted(RoundWritten))
}

func TestOverallScoreAndFinalReport(t *testing.T) {
	s := NewSession("tok", 1, "Backend Engineer", 0, 0)
	s = s.ApplyAnswerScore(8).CompleteAptitude() // round 1: 80
	s = s.RecordRoundScore(70, true)             // round 2
	s = s.RecordRoundScore(60, true)             // round 3
	s = s.RecordRoundScore(90, true)             // round 4
	s = s.RecordRoundScore(50, true)             // round 5

	require.True(t, s.Completed)
	assert.InDelta(t, 70.0, s.OverallScore(), 1e-9)

	report := s.FinalReport()
	require.Len(t, report.Rounds, 5)
	assert.Equal(t, 1, report.Rounds[0].Round)
	assert.Equal(t, "Aptitude", report.Rounds[0].Name)
	assert.InDelta(t, 80.0, report.Rounds[0].Score, 1e-9)
	assert.Equal(t, "Hire", report.Verdict)
}

func TestFinalReportOmitsUnscoredRounds(t *testing.T) {
	s := NewSession("tok", 1, "Backend Engineer", 7, 13)
	s = s.ApplyAnswerScore(6).CompleteAptitude()
	s = s.RecordRoundScore(70, true).ApplyAudit(false, "")

	report := s.FinalReport()
	require.Len(t, report.Rounds, 2)
	assert.Equal(t, 1, report.Rounds[0].Round)
	assert.Equal(t, 2, report.Rounds[1].Round)
}

func TestVerdictBands(t *testing.T) {
	assert.Equal(t, "Strong Hire", verdictFor(80))
	assert.Equal(t, "Strong Hire", verdictFor(92.5))
	assert.Equal(t, "Hire", verdictFor(65))
	assert.Equal(t, "Hire", verdictFor(79.9))
	assert.Equal(t, "Borderline", verdictFor(50))
	assert.Equal(t, "Needs Improvement", verdictFor(49.9))
	assert.Equal(t, "Needs Improvement", verdictFor(0))
}
