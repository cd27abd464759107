package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

var notificationTemplate = template.Must(template.New("notification").Parse(`<html>
<body>
  <h2{{if .Destructive}} style="color:#b91c1c"{{end}}>{{.Title}}</h2>
  <p>{{.Description}}</p>
  <p style="color:#6b7280">Sent by Lead Console</p>
</body>
</html>`))

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from, to string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		To:       to,
	}
}

// SendNotification mails a console notification to the configured inbox.
func (s *EmailSender) SendNotification(title, description, variant string) error {
	m, err := s.BuildMessage(title, description, variant)
	if err != nil {
		return err
	}

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	return s.send(d, m)
}

func (s *EmailSender) send(d Dialer, m *gomail.Message) error {
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed sending SMTP email: %w", err)
	}
	return nil
}

func (s *EmailSender) BuildMessage(title, description, variant string) (*gomail.Message, error) {
	body, err := RenderNotification(NotificationEmailData{
		Title:       title,
		Description: description,
		Destructive: variant == "destructive",
	})
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", fmt.Sprintf("[Lead Console] %s", title))
	m.SetBody("text/html", body)
	return m, nil
}

func RenderNotification(data NotificationEmailData) (string, error) {
	var body bytes.Buffer
	if err := notificationTemplate.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed rendering email template: %w", err)
	}
	return body.String(), nil
}
