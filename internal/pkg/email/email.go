package email

import (
	"crypto/tls"
	"fmt"
	"html"
	"net/smtp"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// EvaluationNotice carries everything needed to notify a resident
// about an evaluated procedure.
type EvaluationNotice struct {
	ResidentName  string
	ResidentEmail string
	ProcedureName string
	PerformedAt   time.Time
	PreceptorName string
	Approved      bool
	Remarks       string
}

// EmailService defines the interface for email operations
type EmailService interface {
	SendEvaluationResultEmail(notice EvaluationNotice) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{
		config: config,
		logger: logger,
	}
}

// SendEvaluationResultEmail notifies the resident of an approval or rejection.
func (s *EmailServiceImpl) SendEvaluationResultEmail(notice EvaluationNotice) error {
	// If username or password is empty, log the email instead (for development only)
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", notice.ResidentEmail).
			Str("procedure", notice.ProcedureName).
			Bool("approved", notice.Approved).
			Msg("SMTP credentials not configured - evaluation email not sent.")

		return nil
	}

	subject, body := buildEvaluationEmail(notice)
	return s.sendHTMLEmail(notice.ResidentEmail, subject, body)
}

// buildEvaluationEmail renders the subject and HTML body for an
// evaluation notice. User-entered fields are HTML-escaped.
func buildEvaluationEmail(notice EvaluationNotice) (subject, body string) {
	var verdictLine string
	var closingLine string
	var color string
	if notice.Approved {
		subject = fmt.Sprintf("Procedure Approved - %s", notice.ProcedureName)
		verdictLine = "Your procedure has been <strong style=\"color: #28a745;\">APPROVED</strong>!"
		closingLine = "<p style=\"color: #28a745;\"><strong>Congratulations on your progress!</strong></p>"
		color = "#28a745"
	} else {
		subject = fmt.Sprintf("Procedure Rejected - %s", notice.ProcedureName)
		verdictLine = "Your procedure has been <strong style=\"color: #dc3545;\">REJECTED</strong> and needs review."
		closingLine = "<p style=\"color: #ffc107;\">Please review the record and resubmit the procedure if necessary.</p>"
		color = "#dc3545"
	}

	remarksBlock := ""
	if notice.Remarks != "" {
		remarksBlock = fmt.Sprintf("<p><strong>Preceptor remarks:</strong><br>%s</p>", html.EscapeString(notice.Remarks))
	}

	body = fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: %s;">%s</h2>
				<p>Hello <strong>%s</strong>,</p>
				<p>%s</p>

				<div style="border: 1px solid #ddd; padding: 15px; margin: 15px 0; border-radius: 5px;">
					<h3>Procedure details:</h3>
					<ul>
						<li><strong>Name:</strong> %s</li>
						<li><strong>Performed on:</strong> %s</li>
						<li><strong>Preceptor:</strong> %s</li>
					</ul>
					%s
				</div>

				%s

				<hr>
				<p><em>Residency Procedure Logbook</em></p>
			</div>
		</body>
		</html>
	`, color, html.EscapeString(subject), html.EscapeString(notice.ResidentName), verdictLine,
		html.EscapeString(notice.ProcedureName), notice.PerformedAt.Format("02/01/2006"),
		html.EscapeString(notice.PreceptorName), remarksBlock, closingLine)

	return subject, body
}

// sendHTMLEmail sends an HTML email
func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth(
		"",
		s.config.Username,
		s.config.Password,
		s.config.Host,
	)

	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	headers["To"] = toEmail
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + htmlBody

	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if s.config.UseTLS {
		tlsConfig := &tls.Config{
			InsecureSkipVerify: true,
			ServerName:         s.config.Host,
		}

		conn, err := tls.Dial("tcp", serverAddress, tlsConfig)
		if err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
			return fmt.Errorf("failed to connect to SMTP server: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, s.config.Host)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to create SMTP client")
			return fmt.Errorf("failed to create SMTP client: %w", err)
		}
		defer client.Quit()

		if err = client.Auth(auth); err != nil {
			s.logger.Error().Err(err).Msg("SMTP authentication failed")
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}

		if err = client.Mail(s.config.FromEmail); err != nil {
			return fmt.Errorf("failed to set sender: %w", err)
		}
		if err = client.Rcpt(toEmail); err != nil {
			return fmt.Errorf("failed to set recipient: %w", err)
		}

		w, err := client.Data()
		if err != nil {
			return fmt.Errorf("failed to get data writer: %w", err)
		}
		_, err = w.Write([]byte(message))
		if err != nil {
			return fmt.Errorf("failed to write email message: %w", err)
		}
		err = w.Close()
		if err != nil {
			return fmt.Errorf("failed to close data writer: %w", err)
		}

		return nil
	}

	err := smtp.SendMail(
		serverAddress,
		auth,
		s.config.FromEmail,
		[]string{toEmail},
		[]byte(message),
	)
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
