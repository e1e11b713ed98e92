// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"
	"os"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendFeedbackReport(toEmail, participantName, sessionId string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	frontendURL string // Added to construct links
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	// Get Frontend URL from ENV or default to a safe placeholder
	frontendURL := os.Getenv("FRONTEND_URL")

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		frontendURL: frontendURL,
	}
}

func (s *emailService) SendFeedbackReport(toEmail, participantName, sessionId string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your Interview Feedback Report is Ready")

	reportLink := fmt.Sprintf("%s/sessions/%s/feedback", s.frontendURL, sessionId)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Great work, %s!</h2>
			<p>Your interview practice session is complete and your detailed feedback report is ready.</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">View Feedback Report</a>
			<p>Or copy this link:</p>
			<p>%s</p>
			<p>Keep practicing - every session makes the next interview easier.</p>
		</div>
	`, participantName, reportLink, reportLink)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send feedback report to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Feedback report sent to %s\n", toEmail)
	return nil
}
