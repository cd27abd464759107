package mail

type NotificationEmailData struct {
	Title       string
	Description string
	Destructive bool
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
}
