package automation

import (
	"context"
	"fmt"
	"net"
	"time"

	"admissions_crm_backend/internal/admissions/repository"
	"admissions_crm_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// EmailAlertSender delivers overdue follow-up alerts to school managers over
// SMTP via go-mail.
type EmailAlertSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewEmailAlertSender builds a sender from the email configuration. It
// returns nil when email is disabled; the sweeper treats a nil sender as
// "no alerts".
func NewEmailAlertSender(cfg config.EmailConfig) *EmailAlertSender {
	if !cfg.GetEmailEnabled() || cfg.GetSMTPHost() == "" {
		return nil
	}

	return &EmailAlertSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

func (s *EmailAlertSender) SendOverdueAlert(ctx context.Context, to, schoolName string, task repository.OverdueFollowUp) error {
	subject := fmt.Sprintf("Overdue follow-up: %s for %s", task.Type, task.GuardianName)
	body := fmt.Sprintf(
		"<p>A scheduled follow-up at %s is overdue.</p>"+
			"<ul><li>Guardian: %s</li><li>Child: %s</li><li>Task: %s</li><li>Scheduled: %s</li><li>Notes: %s</li></ul>"+
			"<p>Please reach out to the family as soon as possible.</p>",
		schoolName, task.GuardianName, task.ChildName, task.Type,
		task.ScheduledAt.Format("Mon, 02 Jan 2006 15:04 MST"), task.Notes,
	)

	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, body)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}
