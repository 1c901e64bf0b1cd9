// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/config"
	"github.com/olivia-zdy/sentoriseRV-NEW-sub000/internal/models"
)

// Mailer delivers a rendered HTML email.
type Mailer interface {
	Send(to []string, subject, htmlBody string) error
}

type SMTPMailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

// NewMailer returns an SMTP mailer, or a mailer that only logs when no SMTP
// host is configured.
func NewMailer(cfg config.EmailConfig) Mailer {
	if cfg.SMTPHost == "" {
		logrus.Warn("SMTP_HOST not set, emails will only be logged")
		return LogMailer{}
	}
	return &SMTPMailer{
		dialer:   gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:     cfg.FromEmail,
		fromName: cfg.FromName,
	}
}

func (m *SMTPMailer) Send(to []string, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.fromName)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

type LogMailer struct{}

func (LogMailer) Send(to []string, subject, htmlBody string) error {
	logrus.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
		"bytes":   len(htmlBody),
	}).Info("Email not sent, no SMTP configured")
	return nil
}

type NotificationService struct {
	mailer    Mailer
	config    *config.Config
	templates map[string]*template.Template
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(mailer Mailer, config *config.Config) *NotificationService {
	s := &NotificationService{
		mailer:    mailer,
		config:    config,
		templates: make(map[string]*template.Template),
	}
	for name, tmpl := range emailTemplates {
		s.templates[name] = template.Must(template.New(name).Parse(tmpl.Body))
	}
	return s
}

func (s *NotificationService) SendWarrantyConfirmation(reg *models.WarrantyRegistration) error {
	data := map[string]interface{}{
		"CustomerName": reg.CustomerName,
		"ProductName":  reg.ProductName,
		"SerialNumber": reg.SerialNumber,
		"PurchaseDate": reg.PurchaseDate.Format("2006-01-02"),
		"ExpiresAt":    reg.ExpiresAt.Format("2006-01-02"),
		"SupportURL":   s.config.Frontend.BaseURL + "/support",
		"BrandName":    s.config.Email.FromName,
	}
	return s.send("warranty_confirmation", []string{reg.Email}, data)
}

func (s *NotificationService) SendLeadAcknowledgement(lead *models.Lead) error {
	data := map[string]interface{}{
		"Name":        lead.Name,
		"Newsletter":  lead.Source == models.LeadSourceNewsletter,
		"FrontendURL": s.config.Frontend.BaseURL,
		"BrandName":   s.config.Email.FromName,
	}
	return s.send("lead_acknowledgement", []string{lead.Email}, data)
}

func (s *NotificationService) SendAdminDigest(recipients []string, digest *DailyDigest) error {
	if len(recipients) == 0 {
		return nil
	}
	data := map[string]interface{}{
		"Since":      digest.Since.Format("2006-01-02 15:04"),
		"Until":      digest.Until.Format("2006-01-02 15:04"),
		"Leads":      digest.NewLeads,
		"Feedback":   digest.NewFeedback,
		"Warranties": digest.NewWarranties,
		"BySource":   digest.LeadsBySource,
		"AdminURL":   s.config.Frontend.BaseURL + "/admin",
	}
	return s.send("admin_digest", recipients, data)
}

func (s *NotificationService) send(templateName string, to []string, data interface{}) error {
	body, err := s.renderTemplate(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}
	return s.mailer.Send(to, emailTemplates[templateName].Subject, body)
}

func (s *NotificationService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, ok := s.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown email template %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

var emailTemplates = map[string]EmailTemplate{
	"warranty_confirmation": {
		Subject: "Your battery warranty is registered",
		Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Thanks {{.CustomerName}}!</h2>
	<p>Your {{.ProductName}} (serial {{.SerialNumber}}) is registered.</p>
	<p>Purchased on {{.PurchaseDate}}, covered until {{.ExpiresAt}}.</p>
	<p>Need help? Visit <a href="{{.SupportURL}}">our support page</a>.</p>
	<p>Best regards,<br>{{.BrandName}} Team</p>
</body>
</html>`,
	},
	"lead_acknowledgement": {
		Subject: "We received your message",
		Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello{{if .Name}} {{.Name}}{{end}},</h2>
	{{if .Newsletter}}<p>You are now subscribed to our newsletter.</p>{{else}}<p>Thanks for reaching out. Our team will get back to you shortly.</p>{{end}}
	<p><a href="{{.FrontendURL}}">Back to the shop</a></p>
	<p>Best regards,<br>{{.BrandName}} Team</p>
</body>
</html>`,
	},
	"admin_digest": {
		Subject: "Daily storefront digest",
		Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Storefront activity</h2>
	<p>{{.Since}} to {{.Until}}</p>
	<ul>
		<li>New leads: {{.Leads}}</li>
		<li>New feedback: {{.Feedback}}</li>
		<li>Warranty registrations: {{.Warranties}}</li>
	</ul>
	{{if .BySource}}<h3>Leads by source</h3>
	<ul>{{range $source, $count := .BySource}}<li>{{$source}}: {{$count}}</li>{{end}}</ul>{{end}}
	<p><a href="{{.AdminURL}}">Open the admin dashboard</a></p>
</body>
</html>`,
	},
}
