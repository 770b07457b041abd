package pushsvc

import (
	"context"

	"github.com/gregdel/pushover"
	"github.com/pkg/errors"

	"github.com/trezcool/bibleschool/core"
)

// app is the part of *pushover.Pushover the service relies on.
type app interface {
	SendMessage(msg *pushover.Message, rcpt *pushover.Recipient) (*pushover.Response, error)
}

type Option func(*PushoverService)

// WithApp replaces the Pushover client (useful for tests).
func WithApp(a app) Option {
	return func(svc *PushoverService) {
		if a != nil {
			svc.app = a
		}
	}
}

// PushoverService sends push notifications to Pushover user keys.
type PushoverService struct {
	app    app
	logger core.Logger
}

var _ core.PushService = (*PushoverService)(nil)

func NewPushoverService(conf core.PushConfig, logger core.Logger, opts ...Option) (*PushoverService, error) {
	if conf.AppToken == "" {
		return nil, errors.New("pushover: app token is required")
	}
	svc := &PushoverService{app: pushover.New(conf.AppToken), logger: logger}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc, nil
}

// Send has no per-request deadline: the Pushover client applies its own timeout.
func (svc *PushoverService) Send(ctx context.Context, msg core.PushMessage) error {
	if msg.Recipient == "" {
		return errors.New("pushover: recipient is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	res, err := svc.app.SendMessage(
		pushover.NewMessageWithTitle(msg.Message, msg.Title),
		pushover.NewRecipient(msg.Recipient),
	)
	if err != nil {
		return errors.Wrap(err, "pushover")
	}
	svc.logger.Debug("pushover message sent: " + res.String())
	return nil
}
