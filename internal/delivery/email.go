package delivery

import (
	"context"
	"fmt"

	"field_crm/config"

	"gopkg.in/gomail.v2"
)

// EmailChannel gửi thông báo qua SMTP bằng gomail
type EmailChannel struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewEmailChannel tạo mới EmailChannel từ cấu hình server
func NewEmailChannel(c *config.Configuration) *EmailChannel {
	return &EmailChannel{
		host:     c.SMTPHost,
		port:     c.SMTPPort,
		username: c.SMTPUser,
		password: c.SMTPPassword,
		from:     c.SMTPFrom,
	}
}

// Send gửi email thông báo đến địa chỉ của người dùng
func (ch *EmailChannel) Send(ctx context.Context, userEmail string, subject string, message string) error {
	if userEmail == "" {
		return fmt.Errorf("missing recipient email")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", ch.from)
	msg.SetHeader("To", userEmail)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", message)

	dialer := gomail.NewDialer(ch.host, ch.port, ch.username, ch.password)
	return dialer.DialAndSend(msg)
}
