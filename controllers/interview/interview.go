package interviewController

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/adityadeoche/interview-iq-ai-sub000/database"
	"github.com/adityadeoche/interview-iq-ai-sub000/funnel"
	"github.com/adityadeoche/interview-iq-ai-sub000/interview"
	"github.com/adityadeoche/interview-iq-ai-sub000/middleware"
	"github.com/adityadeoche/interview-iq-ai-sub000/models"
	interviewModels "github.com/adityadeoche/interview-iq-ai-sub000/models/interview"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Orch is the shared orchestrator, wired in main after config and the Gemini
// client are up. The cron sweeper uses the same instance.
var Orch *interview.Orchestrator

// Init sets the shared orchestrator.
func Init(o *interview.Orchestrator) {
	Orch = o
}

// StartInterview opens a new session, in free-practice mode or against an
// approved drive registration. One active session per candidate: starting
// while another session is live is rejected rather than racing it.
func StartInterview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		Role    string `json:"role"`
		DriveID *uint  `json:"drive_id"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var active interviewModels.InterviewSession
	if err := db.Where("user_id = ? AND is_active = ? AND is_deleted = ?", userID, true, false).First(&active).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "An interview session is already in progress!", fiber.Map{
			"token": active.Token,
		})
	}

	role := reqData.Role
	var driveID, registrationID uint

	if reqData.DriveID != nil {
		var drive models.Drive
		if err := db.Where("id = ? AND is_published = ? AND is_deleted = ?", *reqData.DriveID, true, false).First(&drive).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Drive not found!", nil)
		}

		var registration models.DriveRegistration
		if err := db.Where("user_id = ? AND drive_id = ? AND is_deleted = ?", userID, drive.ID, false).First(&registration).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Register for the drive before interviewing!", nil)
		}
		if registration.ApprovalStatus != models.RegistrationApproved {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Your registration is not approved yet!", nil)
		}

		driveID = drive.ID
		registrationID = registration.ID
		role = drive.Role
	}

	session := interview.NewSession(uuid.NewString(), userID, role, driveID, registrationID)

	row := interviewModels.InterviewSession{
		Token:          session.Token,
		UserID:         userID,
		Role:           role,
		LastActivityAt: time.Now(),
	}
	if driveID != 0 {
		row.DriveID = &driveID
		row.RegistrationID = &registrationID
	}
	if err := storeSession(database.Database.Db, &row, session); err != nil {
		log.Printf("Error starting session: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start interview!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Interview started!", fiber.Map{
		"token": session.Token,
		"round": session.Current,
		"role":  role,
	})
}

// GetRoundContent generates content for the session's current round and arms
// the round timer for timed rounds. A round whose timer is already armed is
// returned as stored: re-fetching neither regenerates the questions nor
// extends the deadline.
func GetRoundContent(c *fiber.Ctx) error {
	row, session, errResp := loadSessionFromRequest(c)
	if errResp != nil {
		return errResp(c)
	}

	if row.RoundDeadline != nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Round already in progress!", fiber.Map{
			"round":    session.Current,
			"name":     session.Current.Name(),
			"content":  storedRoundContent(session.Current, draftQuestions(row)),
			"deadline": row.RoundDeadline,
			"mode":     session.ProbingMode(),
		})
	}

	content, deadline, err := Orch.BeginRound(c.Context(), session)
	if err != nil {
		if errors.Is(err, interview.ErrSessionTerminal) || errors.Is(err, interview.ErrWrongRound) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Round is not available for this session!", nil)
		}
		log.Printf("Error generating round content: %v", err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to generate round content. Please retry!", nil)
	}

	questions := content.Questions
	if content.Problem != "" {
		questions = []string{content.Problem}
	}
	draftQuestions, _ := json.Marshal(questions)
	row.DraftQuestions = string(draftQuestions)
	row.DraftAnswers = ""
	row.RoundDeadline = deadline

	if err := storeSession(database.Database.Db, row, session); err != nil {
		log.Printf("Error saving session: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save session!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Round content generated!", fiber.Map{
		"round":    session.Current,
		"name":     session.Current.Name(),
		"content":  content,
		"deadline": deadline,
		"mode":     session.ProbingMode(),
	})
}

// SubmitChatAnswer handles one round 1 question/answer exchange.
func SubmitChatAnswer(c *fiber.Ctx) error {
	row, session, errResp := loadSessionFromRequest(c)
	if errResp != nil {
		return errResp(c)
	}

	reqData := new(struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	next, score, err := Orch.SubmitChatAnswer(c.Context(), session, reqData.Question, reqData.Answer)
	if err != nil {
		if errors.Is(err, interview.ErrSessionTerminal) || errors.Is(err, interview.ErrWrongRound) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Chat answers are only accepted in round 1!", nil)
		}
		log.Printf("Error evaluating chat answer: %v", err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to evaluate answer. Please retry!", nil)
	}

	if err := storeSession(database.Database.Db, row, next); err != nil {
		log.Printf("Error saving session: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save session!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer evaluated!", fiber.Map{
		"score":              score,
		"running_avg":        next.RunningAvg,
		"questions_answered": next.QuestionsAnswered,
		"mode":               next.ProbingMode(),
		"round":              next.Current,
		"aptitude_complete":  next.Current != interview.RoundAptitude,
	})
}

// SaveDraft stores the answers typed so far for the current timed round so
// the timer sweeper can auto-submit them server-side.
func SaveDraft(c *fiber.Ctx) error {
	row, session, errResp := loadSessionFromRequest(c)
	if errResp != nil {
		return errResp(c)
	}

	reqData := new(struct {
		Answers []string `json:"answers"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	draftAnswers, _ := json.Marshal(reqData.Answers)
	row.DraftAnswers = string(draftAnswers)

	if err := storeSession(database.Database.Db, row, session); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save draft!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Draft saved!", nil)
}

// SubmitRound submits the current timed round. The session row is locked for
// the whole evaluate-and-save, so a timer auto-submission racing this call
// blocks until the first writer commits and then sees the latched state; the
// loser becomes a duplicate no-op instead of a second terminal record.
func SubmitRound(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		Answers []string `json:"answers"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	var handlerErr error
	txErr := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		row, session, errResp := lockSession(tx, userID, c.Params("token"))
		if errResp != nil {
			handlerErr = errResp(c)
			return nil
		}
		handlerErr = runRoundSubmission(c, tx, row, session, reqData.Answers)
		return nil
	})
	if txErr != nil {
		log.Printf("Error in round submit transaction: %v", txErr)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit round!", nil)
	}
	return handlerErr
}

// RetryResultSave re-attempts persisting a decided terminal outcome whose
// first save failed. The computed report lives in the session state, so
// nothing is lost between attempts. The row lock serializes this against the
// sweeper's own recovery attempt.
func RetryResultSave(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var handlerErr error
	txErr := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		row, session, errResp := lockSession(tx, userID, c.Params("token"))
		if errResp != nil {
			handlerErr = errResp(c)
			return nil
		}

		recordID, err := Orch.RetryTerminalSave(c.Context(), session)
		if err != nil {
			log.Printf("Error retrying terminal save: %v", err)
			handlerErr = middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Results pending save. Please retry!", nil)
			return nil
		}

		row.IsActive = false
		if err := storeSession(tx, row, session); err != nil {
			log.Printf("Error closing session: %v", err)
		}

		handlerErr = middleware.JsonResponse(c, fiber.StatusOK, true, "Results saved!", fiber.Map{"record_id": recordID})
		return nil
	})
	if txErr != nil {
		log.Printf("Error in retry-save transaction: %v", txErr)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Results pending save. Please retry!", nil)
	}
	return handlerErr
}

// AbandonSession cancels a live session. No partial record is written.
func AbandonSession(c *fiber.Ctx) error {
	row, session, errResp := loadSessionFromRequest(c)
	if errResp != nil {
		return errResp(c)
	}

	row.IsActive = false
	if err := storeSession(database.Database.Db, row, session); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to abandon session!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Session abandoned!", nil)
}

// GetInterviewHistory lists the candidate's past interview records with
// per-round scores extracted through the shared funnel package.
func GetInterviewHistory(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var records []interviewModels.InterviewRecord
	database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).Order("created_at desc").Find(&records)

	type historyRow struct {
		Record interviewModels.InterviewRecord `json:"record"`
		Scores funnel.RoundScores              `json:"scores"`
	}

	rows := make([]historyRow, 0, len(records))
	for _, record := range records {
		avg := record.AvgScore
		rows = append(rows, historyRow{
			Record: record,
			Scores: funnel.ExtractRoundScores(funnel.ScoredRecord{AvgScore: &avg, RoundBreakdown: record.RoundBreakdown}),
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Interview history fetched!", rows)
}

// runRoundSubmission is the shared submit path behind the locked transaction.
func runRoundSubmission(c *fiber.Ctx, db *gorm.DB, row *interviewModels.InterviewSession, session interview.Session, answers []string) error {
	questions := draftQuestions(row)
	projects := loadProjects(session.UserID)

	next, result, err := Orch.SubmitRound(c.Context(), session, questions, answers, projects)
	if err != nil && result == nil {
		if errors.Is(err, interview.ErrSessionTerminal) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "This interview already ended!", nil)
		}
		if errors.Is(err, interview.ErrWrongRound) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Round 1 is submitted through the chat flow!", nil)
		}
		log.Printf("Error submitting round: %v", err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to evaluate round. Your answers are kept, please retry!", nil)
	}

	if next.Terminal() && !result.SavePending {
		row.IsActive = false
	}
	if result != nil && !result.Duplicate && result.Passed {
		row.RoundDeadline = nil
		row.DraftQuestions = ""
		row.DraftAnswers = ""
	}

	if saveErr := storeSession(db, row, next); saveErr != nil {
		log.Printf("Error saving session: %v", saveErr)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save session!", nil)
	}

	if result.SavePending {
		return middleware.JsonResponse(c, fiber.StatusAccepted, false, "Round decided but results are pending save. Please retry the save!", result)
	}
	if result.Duplicate {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Round was already submitted!", result)
	}
	if result.ScreenedOut {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Interview ended at the project audit gate.", result)
	}
	if result.Completed {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Interview completed!", result)
	}
	if !result.Passed {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Round not cleared. You may retry this round.", result)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Round submitted!", result)
}

// loadSessionFromRequest resolves the session row + deserialized state for
// the authenticated user, or an error responder.
func loadSessionFromRequest(c *fiber.Ctx) (*interviewModels.InterviewSession, interview.Session, func(*fiber.Ctx) error) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return nil, interview.Session{}, func(c *fiber.Ctx) error {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}
	}

	token := c.Params("token")

	var row interviewModels.InterviewSession
	if err := database.Database.Db.Where("token = ? AND user_id = ? AND is_deleted = ?", token, userID, false).First(&row).Error; err != nil {
		return nil, interview.Session{}, func(c *fiber.Ctx) error {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Session not found!", nil)
		}
	}
	if !row.IsActive {
		return nil, interview.Session{}, func(c *fiber.Ctx) error {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Session is no longer active!", nil)
		}
	}

	var session interview.Session
	if err := json.Unmarshal([]byte(row.State), &session); err != nil {
		log.Printf("Error decoding session state for token %s: %v", token, err)
		return nil, interview.Session{}, func(c *fiber.Ctx) error {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Corrupt session state!", nil)
		}
	}

	return &row, session, nil
}

// storeSession serializes the state machine back onto the row.
func storeSession(db *gorm.DB, row *interviewModels.InterviewSession, session interview.Session) error {
	state, err := json.Marshal(session)
	if err != nil {
		return err
	}
	row.State = string(state)
	row.LastActivityAt = time.Now()
	return db.Save(row).Error
}

// lockSession loads the session row under a FOR UPDATE lock inside tx. Only
// one submitter at a time holds the row; concurrent arrivals queue and read
// the committed state.
func lockSession(tx *gorm.DB, userID uint, token string) (*interviewModels.InterviewSession, interview.Session, func(*fiber.Ctx) error) {
	var row interviewModels.InterviewSession
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("token = ? AND user_id = ? AND is_deleted = ?", token, userID, false).
		First(&row).Error
	if err != nil {
		return nil, interview.Session{}, func(c *fiber.Ctx) error {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Session not found!", nil)
		}
	}
	if !row.IsActive {
		return nil, interview.Session{}, func(c *fiber.Ctx) error {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Session is no longer active!", nil)
		}
	}

	var session interview.Session
	if err := json.Unmarshal([]byte(row.State), &session); err != nil {
		log.Printf("Error decoding session state for token %s: %v", token, err)
		return nil, interview.Session{}, func(c *fiber.Ctx) error {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Corrupt session state!", nil)
		}
	}

	return &row, session, nil
}

// storedRoundContent rebuilds served round content from the drafted question
// set. The coding round stores its problem statement as a single-element list.
func storedRoundContent(round interview.Round, questions []string) *interview.RoundContent {
	content := &interview.RoundContent{Round: round, Questions: questions}
	if round == interview.RoundCoding && len(questions) == 1 {
		content.Problem = questions[0]
		content.Questions = nil
	}
	return content
}

func draftQuestions(row *interviewModels.InterviewSession) []string {
	var questions []string
	if row.DraftQuestions != "" {
		if err := json.Unmarshal([]byte(row.DraftQuestions), &questions); err != nil {
			log.Printf("Error decoding draft questions: %v", err)
		}
	}
	return questions
}

func loadProjects(userID uint) []interview.Project {
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
