package core

import "context"

type (
	SMSMessage struct {
		To   string // E.164 phone number
		Body string
	}

	// SMSService is any service that can deliver a text message
	SMSService interface {
		Send(ctx context.Context, msg SMSMessage) error
	}

	PushMessage struct {
		Recipient string // Pushover user or group key
		Title     string
		Message   string
	}

	// PushService is any service that can deliver a push notification
	PushService interface {
		Send(ctx context.Context, msg PushMessage) error
	}
)
