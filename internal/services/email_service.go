package services

import (
	"fmt"
	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendWelcomeEmail(email, username string) error
	SendShareNotification(email, ownerUsername string) error
	SendReminderEmail(email, username string, taskTitles []string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return s.dialer.DialAndSend(m)
}

func (s *emailService) SendWelcomeEmail(email, username string) error {
	body := fmt.Sprintf(`
		<h2>Welcome to Habitboard, %s!</h2>
		<p>Your account has been created. Add your first habit and invite a partner to keep each other honest.</p>
		<p>Best regards,<br>The Habitboard Team</p>
	`, username)

	if err := s.send(email, "Welcome to Habitboard!", body); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

func (s *emailService) SendShareNotification(email, ownerUsername string) error {
	body := fmt.Sprintf(`
		<h3>%s shared their task list with you</h3>
		<p>You can now see their habits, check their progress and submit proof of completion on their behalf.</p>
	`, ownerUsername)

	if err := s.send(email, fmt.Sprintf("%s shared their tasks with you", ownerUsername), body); err != nil {
		return fmt.Errorf("failed to send share notification: %w", err)
	}
	return nil
}

func (s *emailService) SendReminderEmail(email, username string, taskTitles []string) error {
	list := ""
	for _, t := range taskTitles {
		list += fmt.Sprintf("<li>%s</li>", t)
	}
	body := fmt.Sprintf(`
		<h3>Hi %s, a few habits still need proof today:</h3>
		<ul>%s</ul>
		<p>Submit before midnight to keep your streak.</p>
	`, username, list)

	if err := s.send(email, "Habitboard: tasks waiting for your submission", body); err != nil {
		return fmt.Errorf("failed to send reminder email: %w", err)
	}
	return nil
}
