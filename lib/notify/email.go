package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/codes"
)

type SmtpConfig struct {
	Server       string
	Port         int
	EmailAddress string
	Password     string
}

// EmailDispatcher delivers notifications whose channel is "mailto:<address>".
type EmailDispatcher struct {
	config SmtpConfig
}

func NewEmailDispatcher(config SmtpConfig) EmailDispatcher {
	return EmailDispatcher{config: config}
}

func (d EmailDispatcher) Dispatch(ctx context.Context, n Notification) error {
	_, span := tracer.Start(ctx, "email:Dispatch")
	defer span.End()

	if !IsEmailChannel(n.ChannelID) {
		return fmt.Errorf("channel %q is not an e-mail address", n.ChannelID)
	}
	recipient := strings.TrimPrefix(n.ChannelID, mailtoPrefix)

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Seat Watch <%s>", d.config.EmailAddress)
	mail.To = []string{recipient}
	mail.Subject = fmt.Sprintf("%s is now %s", n.CourseName, n.Current)
	mail.Text = []byte(fmt.Sprintf(`%s

You are receiving this because you are tracking class %s.`, n.Summary(), n.CourseNumber))

	addr := fmt.Sprintf("%s:%d", d.config.Server, d.config.Port)
	err := mail.Send(
		addr,
		smtp.PlainAuth("", d.config.EmailAddress, d.config.Password, d.config.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return err
	}
	return nil
}
