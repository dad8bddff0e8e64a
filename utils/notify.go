package utils

import (
	"fmt"
	"log"

	"github.com/adityadeoche/interview-iq-ai-sub000/config"
	"github.com/adityadeoche/interview-iq-ai-sub000/database"
	"github.com/adityadeoche/interview-iq-ai-sub000/models"
	interviewModels "github.com/adityadeoche/interview-iq-ai-sub000/models/interview"

	"github.com/go-resty/resty/v2"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// NotifyTerminalOutcome fans a terminal interview outcome out to the
// institution webhook and the candidate's email. Both are best-effort; a
// delivery failure is logged and never blocks the interview flow.
func NotifyTerminalOutcome(userID uint, role, status string, avgScore float64, rejectionReason string) {
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		log.Printf("Notify: user %d not found: %v", userID, err)
		return
	}

	sendResultWebhook(user, role, status, avgScore, rejectionReason)
	sendResultEmail(user, role, status, avgScore, rejectionReason)
}

func sendResultWebhook(user models.User, role, status string, avgScore float64, rejectionReason string) {
	if config.AppConfig.ResultWebhookURL == "" {
		return
	}

	client := resty.New()
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"candidate_id":     user.ID,
			"candidate_email":  user.Email,
			"role":             role,
			"status":           status,
			"avg_score":        avgScore,
			"rejection_reason": rejectionReason,
		}).
		Post(config.AppConfig.ResultWebhookURL)
	if err != nil {
		log.Printf("Failed to deliver result webhook: %v", err)
		return
	}
	if resp.StatusCode() >= 300 {
		log.Printf("Result webhook rejected with status %d: %s", resp.StatusCode(), resp.String())
	}
}

func sendResultEmail(user models.User, role, status string, avgScore float64, rejectionReason string) {
	if config.AppConfig.SendgridApiKey == "" {
		return
	}

	subject := fmt.Sprintf("Your %s interview result", role)
	var body string
	if status == interviewModels.StatusScreenedOut {
		body = fmt.Sprintf(
			"<p>Hi %s,</p><p>Your interview for the <b>%s</b> role ended at the project audit stage.</p><p>Reason: %s</p>",
			user.Name, role, rejectionReason,
		)
	} else {
		body = fmt.Sprintf(
			"<p>Hi %s,</p><p>You completed the interview for the <b>%s</b> role with an overall score of <b>%.1f/10</b>.</p>",
			user.Name, role, avgScore,
		)
	}

	from := mail.NewEmail("InterviewIQ", config.AppConfig.EmailSender)
	to := mail.NewEmail(user.Name, user.Email)
	message := mail.NewSingleEmail(from, subject, to, "", body)

	client := sendgrid.NewSendClient(config.AppConfig.SendgridApiKey)
	response, err := client.Send(message)
	if err != nil {
		log.Printf("Failed to send result email: %v", err)
		return
	}
	if response.StatusCode >= 300 {
		log.Printf("Result email rejected with status %d: %s", response.StatusCode, response.Body)
	}
}
