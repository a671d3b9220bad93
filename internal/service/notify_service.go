package service

import (
	"log"
	"unicode/utf8"

	"Office_Hub/internal/model"
	"Office_Hub/internal/pkg"
)

const excerptLen = 200

// MailNotifier 通过 SMTP 通知帖子作者有新评论，异步发送，失败只记录日志
type MailNotifier struct {
	cfg  pkg.SMTPConfig
	send func(cfg pkg.SMTPConfig, to, subject, htmlBody string) error
}

func NewMailNotifier(cfg pkg.SMTPConfig) *MailNotifier {
	return &MailNotifier{cfg: cfg, send: pkg.SMTPConfig.Send}
}

func (n *MailNotifier) CommentCreated(post *model.Post, commenter pkg.Identity, cm *model.Comment) {
	if !n.cfg.Enabled() || post.Author == nil || post.Author.Email == "" {
		return
	}
	recipient := post.Author.Name
	if recipient == "" {
		recipient = post.Author.Username
	}
	to := post.Author.Email
	subject := "New comment on \"" + post.Title + "\""
	body := pkg.CommentNoticeHTML(recipient, commenter.Username, post.Title, excerpt(cm.Content))

	go func() {
		if err := n.send(n.cfg, to, subject, body); err != nil {
			log.Printf("send comment notice to %s: %v", to, err)
		}
	}()
}

func excerpt(s string) string {
	if utf8.RuneCountInString(s) <= excerptLen {
		return s
	}
	return string([]rune(s)[:excerptLen]) + "..."
}
