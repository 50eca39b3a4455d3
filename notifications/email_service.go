package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/skillswap/skillswap/errs"
)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// Sender dispatches one transactional email. The Reminder Sweep depends on
// the error result: a failed send must leave the session's reminder flag
// unset so the next sweep retries it.
type Sender interface {
	Send(toName, toEmail, subject, htmlContent string) error
}

// BrevoService wraps the Brevo transactional-email HTTP API. Downstream
// provider details never reach callers; every failure surfaces as an
// internal error.
type BrevoService struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	client      *http.Client
}

// NewBrevoService returns a configured client, or nil when the environment
// carries no email configuration. Callers treat a nil service as "skip
// sends" via NopSender.
func NewBrevoService(apiKey, senderEmail, senderName string) *BrevoService {
	if apiKey == "" || senderEmail == "" || senderName == "" {
		log.Println("⚠️ Email service not configured. Missing API Key, Sender Email, or Sender Name.")
		return nil
	}
	return &BrevoService{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func (s *BrevoService) Send(toName, toEmail, subject, htmlContent string) error {
	if toEmail == "" || !strings.Contains(toEmail, "@") {
		return errs.Ef(errs.Invalid, "invalid recipient email: %s", toEmail)
	}

	recipientName := toName
	if recipientName == "" {
		recipientName = toEmail[:strings.Index(toEmail, "@")]
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": s.SenderName, "email": s.SenderEmail},
		To:          []map[string]string{{"email": toEmail, "name": recipientName}},
		Subject:     subject,
		HTMLContent: htmlContent,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errs.E(errs.Internal, "failed to marshal email payload", err)
	}

	req, err := http.NewRequest(http.MethodPost, brevoEndpoint, bytes.NewBuffer(body))
	if err != nil {
		return errs.E(errs.Internal, "failed to build email request", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.APIKey)
	req.Header.Set("content-type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return errs.E(errs.Internal, "failed to send email", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		log.Printf("🔥 Brevo API error: Status %d, Body: %s", resp.StatusCode, string(respBody))
		return errs.Ef(errs.Internal, "email provider rejected send (status %d)", resp.StatusCode)
	}
	return nil
}

// SendAsync fires a best-effort notification where the caller does not care
// about the outcome (welcome mail, reset links). Failures are logged only.
func SendAsync(sender Sender, toName, toEmail, subject, htmlContent string) {
	go func() {
		if err := sender.Send(toName, toEmail, subject, htmlContent); err != nil {
			log.Printf("🔥 Failed to send email to %s: %v", toEmail, err)
		}
	}()
}

// NopSender drops every email. Used when no provider is configured and in
// tests that don't inspect sends.
type NopSender struct{}

func (NopSender) Send(toName, toEmail, subject, htmlContent string) error {
	log.Printf("Email client not initialized, skipping email send to %s (%q)", toEmail, subject)
	return nil
}

// ReminderEmail renders the session-reminder body sent to one participant.
func ReminderEmail(userName, skill, partnerName string, startTime time.Time, durationMinutes int, meetingLink string) (subject, html string) {
	subject = fmt.Sprintf("SkillSwap Session Reminder: %s", skill)
	html = fmt.Sprintf(`
      <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
        <h2 style="color: #4F46E5;">SkillSwap Session Reminder</h2>
        <p>Hello %s,</p>
        <p>This is a reminder for your upcoming SkillSwap session:</p>
        <div style="background: #f8fafc; padding: 15px; border-radius: 8px; margin: 15px 0;">
          <h3 style="margin: 0 0 10px 0;">Session Details</h3>
          <p><strong>Skill:</strong> %s</p>
          <p><strong>With:</strong> %s</p>
          <p><strong>Time:</strong> %s</p>
          <p><strong>Duration:</strong> %d minutes</p>
        </div>
        <p>Join your session using this link: <a href="%s">%s</a></p>
        <p>Happy learning!</p>
        <p><em>The SkillSwap Team</em></p>
      </div>
    `, userName, skill, partnerName, startTime.Local().Format("Jan 2, 2006 3:04 PM"), durationMinutes, meetingLink, meetingLink)
	return subject, html
}
