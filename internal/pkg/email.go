package pkg

import (
	"crypto/tls"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // 为空时使用 Username
}

// Enabled 未配置 Host 时不发送邮件
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// Send 发送一封 HTML 邮件
func (c SMTPConfig) Send(to, subject, htmlBody string) error {
	from := c.From
	if from == "" {
		from = c.Username
	}
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(c.Host, c.Port, c.Username, c.Password)
	d.TLSConfig = &tls.Config{ServerName: c.Host}
	return d.DialAndSend(m)
}

// CommentNoticeHTML 新评论通知正文，所有用户输入都做转义
func CommentNoticeHTML(recipient, commenter, postTitle, excerpt string) string {
	return fmt.Sprintf(`<p>Hi %s,</p><p><b>%s</b> commented on your post <b>%s</b>:</p><blockquote>%s</blockquote>`,
		html.EscapeString(recipient), html.EscapeString(commenter), html.EscapeString(postTitle), html.EscapeString(excerpt))
}
