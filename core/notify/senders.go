package notify

import (
	"context"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/trezcool/bibleschool/core"
)

// EventAnnouncementTemplate is the email template used for event announcements.
const EventAnnouncementTemplate = "event_announcement"

var (
	ErrUnknownChannel     = errors.New("unknown notification channel")
	ErrChannelUnavailable = errors.New("notification channel not configured")
)

// TemplateData is what email templates receive as `.Data`.
type TemplateData struct {
	Recipient Recipient
	Content   Content
	Text      string
}

// EmailSender sends one email per recipient. Without a template, the plain-text body is used.
func EmailSender(svc core.EmailService, templateName string) Sender {
	return SenderFunc(func(ctx context.Context, r Recipient, c Content) error {
		msg := &core.EmailMessage{
			To:      []mail.Address{{Name: r.Name, Address: r.Identifier}},
			Subject: c.SubjectLine(),
		}
		if templateName != "" {
			msg.TemplateName = templateName
			msg.TemplateData = TemplateData{Recipient: r, Content: c, Text: c.Text(r)}
		} else {
			msg.BodyStr = c.Text(r)
		}
		return svc.Send(ctx, msg)
	})
}

func SMSSender(svc core.SMSService) Sender {
	return SenderFunc(func(ctx context.Context, r Recipient, c Content) error {
		return svc.Send(ctx, core.SMSMessage{To: r.Identifier, Body: c.Text(r)})
	})
}

func PushSender(svc core.PushService) Sender {
	return SenderFunc(func(ctx context.Context, r Recipient, c Content) error {
		return svc.Send(ctx, core.PushMessage{Recipient: r.Identifier, Title: c.SubjectLine(), Message: c.Text(r)})
	})
}

// Transports maps each channel to its transport. Unset transports are unavailable.
type Transports struct {
	Email         core.EmailService
	EmailTemplate string
	SMS           core.SMSService
	Push          core.PushService
}

func (t Transports) Sender(channel string) (Sender, error) {
	switch channel {
	case ChannelEmail:
		if t.Email != nil {
			return EmailSender(t.Email, t.EmailTemplate), nil
		}
	case ChannelSMS:
		if t.SMS != nil {
			return SMSSender(t.SMS), nil
		}
	case ChannelPush:
		if t.Push != nil {
			return PushSender(t.Push), nil
		}
	default:
		return nil, errors.Wrapf(ErrUnknownChannel, "%q", channel)
	}
	return nil, errors.Wrapf(ErrChannelUnavailable, "%q", channel)
}
