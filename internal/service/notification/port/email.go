package port

import "context"

// EmailMessage 是一封待发送的邮件
type EmailMessage struct {
	To      string
	Subject string
	HTML    string
}

// EmailSender 定义了邮件发送的出站端口
type EmailSender interface {
	Send(ctx context.Context, msg *EmailMessage) error
}
