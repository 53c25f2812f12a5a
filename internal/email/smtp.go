package email

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"

	"aquaops_backend/platform/config"
)

// SMTPSender implements the Sender interface over a direct SMTP connection
// via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender from the email configuration.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

// SendAssignmentEmail notifies a technician of a new assignment.
func (s *SMTPSender) SendAssignmentEmail(ctx context.Context, toEmail, technicianName, jobKind, jobID string) error {
	content, err := renderEmailTemplate("assignment.html", assignmentEmailData{
		TechnicianName: technicianName,
		JobKind:        jobKind,
		JobID:          jobID,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectAssignment, content)
}

// SendReleaseEmail notifies a technician they are back in the free pool.
func (s *SMTPSender) SendReleaseEmail(ctx context.Context, toEmail, technicianName, reason string) error {
	content, err := renderEmailTemplate("release.html", releaseEmailData{
		TechnicianName: technicianName,
		Reason:         reason,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectRelease, content)
}
