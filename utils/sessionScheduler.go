package utils

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/adityadeoche/interview-iq-ai-sub000/config"
	"github.com/adityadeoche/interview-iq-ai-sub000/database"
	"github.com/adityadeoche/interview-iq-ai-sub000/interview"
	"github.com/adityadeoche/interview-iq-ai-sub000/models"
	interviewModels "github.com/adityadeoche/interview-iq-ai-sub000/models/interview"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// logSweeper logs sweeper events with timestamp
func logSweeper(message string) {
	log.Printf("[SESSION-SWEEPER %s] %s", time.Now().Format(time.RFC3339), message)
}

// StartSessionSweeper runs the per-minute background job that enforces round
// timers and cleans up abandoned sessions:
//   - a session whose round deadline passed gets its drafted answers
//     auto-submitted exactly as if the candidate had clicked submit; each
//     session row is locked while handled, so a racing manual submit queues
//     behind the sweeper (or vice versa) and the loser sees the latched state
//   - a session idle past the configured limit with no armed timer is
//     abandoned without writing an interview record, unless its outcome is
//     already decided and only the record write is pending, in which case the
//     save is retried instead of discarded
func StartSessionSweeper(orch *interview.Orchestrator) *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc("* * * * *", func() {
		sweepExpiredRounds(orch)
		sweepIdleSessions(orch)
	}); err != nil {
		log.Fatalf("Failed to schedule session sweeper: %v", err)
	}

	c.Start()
	logSweeper("Session sweeper started")
	return c
}

// sweepExpiredRounds auto-submits every active session whose round timer hit
// zero, with whatever answers were drafted - partial or empty.
func sweepExpiredRounds(orch *interview.Orchestrator) {
	db := database.Database.Db

	var ids []uint
	if err := db.Model(&interviewModels.InterviewSession{}).
		Where("is_active = ? AND is_deleted = ? AND round_deadline IS NOT NULL AND round_deadline <= ?", true, false, time.Now()).
		Pluck("id", &ids).Error; err != nil {
		logSweeper("Error fetching expired sessions: " + err.Error())
		return
	}

	for _, id := range ids {
		if err := autoSubmitExpired(orch, id); err != nil {
			logSweeper("Error sweeping expired session: " + err.Error())
		}
	}
}

// autoSubmitExpired re-checks one expired session under a FOR UPDATE lock
// before submitting. A manual submit that got in first either closed the
// round (deadline cleared) or ended the session, and the re-check finds
// nothing to do.
func autoSubmitExpired(orch *interview.Orchestrator, sessionID uint) error {
	return database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var row interviewModels.InterviewSession
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND is_active = ? AND is_deleted = ? AND round_deadline IS NOT NULL AND round_deadline <= ?", sessionID, true, false, time.Now()).
			First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		var session interview.Session
		if err := json.Unmarshal([]byte(row.State), &session); err != nil {
			logSweeper("Corrupt session state, abandoning token " + row.Token)
			row.IsActive = false
			return tx.Save(&row).Error
		}

		var questions, answers []string
		if row.DraftQuestions != "" {
			_ = json.Unmarshal([]byte(row.DraftQuestions), &questions)
		}
		if row.DraftAnswers != "" {
			_ = json.Unmarshal([]byte(row.DraftAnswers), &answers)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		next, result, err := orch.SubmitRound(ctx, session, questions, answers, declaredProjects(session.UserID))
		cancel()

		if err != nil && result == nil {
			// Evaluator unavailable; leave the deadline armed and retry on
			// the next sweep
			logSweeper("Auto-submit failed for token " + row.Token + ": " + err.Error())
			return nil
		}

		if next.Terminal() && (result == nil || !result.SavePending) {
			row.IsActive = false
		}
		if result != nil && !result.Duplicate {
			// Round closed or held for retry; either way the expired timer
			// is spent
			row.RoundDeadline = nil
		}

		state, marshalErr := json.Marshal(next)
		if marshalErr != nil {
			return marshalErr
		}
		row.State = string(state)
		row.LastActivityAt = time.Now()
		if err := tx.Save(&row).Error; err != nil {
			return err
		}

		logSweeper("Auto-submitted expired round for token " + row.Token)
		return nil
	})
}

// sweepIdleSessions abandons sessions with no activity past the idle limit
// and no armed round timer.
func sweepIdleSessions(orch *interview.Orchestrator) {
	db := database.Database.Db
	cutoff := time.Now().Add(-time.Duration(config.AppConfig.SessionIdleLimitMins) * time.Minute)

	var ids []uint
	if err := db.Model(&interviewModels.InterviewSession{}).
		Where("is_active = ? AND is_deleted = ? AND round_deadline IS NULL AND last_activity_at < ?", true, false, cutoff).
		Pluck("id", &ids).Error; err != nil {
		logSweeper("Error fetching idle sessions: " + err.Error())
		return
	}

	for _, id := range ids {
		if err := reapIdleSession(orch, id, cutoff); err != nil {
			logSweeper("Error reaping idle session: " + err.Error())
		}
	}
}

// reapIdleSession deactivates one idle session under a row lock. A session
// still active with a terminal state is one whose record write failed; its
// decided outcome is re-saved here rather than discarded, and the session
// stays active for another attempt if the save fails again.
func reapIdleSession(orch *interview.Orchestrator, sessionID uint, cutoff time.Time) error {
	return database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var row interviewModels.InterviewSession
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND is_active = ? AND is_deleted = ? AND round_deadline IS NULL AND last_activity_at < ?", sessionID, true, false, cutoff).
			First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		var session interview.Session
		if json.Unmarshal([]byte(row.State), &session) == nil && session.Terminal() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			_, saveErr := orch.RetryTerminalSave(ctx, session)
			cancel()
			if saveErr != nil {
				logSweeper("Pending terminal save still failing for token " + row.Token + ": " + saveErr.Error())
				return nil
			}
			logSweeper("Recovered pending terminal save for token " + row.Token)
		}

		row.IsActive = false
		if err := tx.Save(&row).Error; err != nil {
			return err
		}

		logSweeper("Abandoned idle session token " + row.Token)
		return nil
	})
}

func declaredProjects(userID uint) []interview.Project {
	var rows []models.CandidateProject
	database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).Find(&rows)

	projects := make([]interview.Project, 0, len(rows))
	for _, p := range rows {
		projects = append(projects, interview.Project{
			Title:       p.Title,
			Description: p.Description,
			TechStack:   p.TechStack,
		})
	}
	return projects
}
