package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-gomail/gomail"
	"github.com/sirupsen/logrus"
)

const (
	NotifierDriverLog   = "log"
	NotifierDriverEmail = "email"
)

var ErrNoRecipient = errors.New("notification has no email address")

// Notification is a message for one patient. Phone is informational; only
// the email channel is delivered for real.
type Notification struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Body    string
}

// Notifier delivers booking confirmations and reminders.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the application log instead of
// sending them.
type LogNotifier struct {
	log *logrus.Logger
}

func NewLogNotifier(log *logrus.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, msg Notification) error {
	n.log.WithFields(logrus.Fields{
		"to":      msg.Email,
		"phone":   msg.Phone,
		"subject": msg.Subject,
	}).Info(msg.Body)
	return nil
}

// mailDialer is the part of *gomail.Dialer the email notifier uses.
type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailNotifier struct {
	dialer mailDialer
	from   string
	log    *logrus.Logger
}

func NewEmailNotifier(host string, port int, username, password, from string, log *logrus.Logger) *EmailNotifier {
	return &EmailNotifier{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		log:    log,
	}
}

func (n *EmailNotifier) Notify(ctx context.Context, msg Notification) error {
	if msg.Email == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetAddressHeader("To", msg.Email, msg.Name)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	if err := n.dialer.DialAndSend(m); err != nil {
		n.log.Warnf("Failed to send email to %s: %+v", msg.Email, err)
		return fmt.Errorf("send email to %s: %w", msg.Email, err)
	}

	n.log.Infof("Email %q sent to %s", msg.Subject, msg.Email)
	return nil
}
