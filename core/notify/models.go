package notify

import (
	"strings"
)

// Channels
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelPush  = "push"
)

var AllChannels = []string{ChannelEmail, ChannelSMS, ChannelPush}

// Recipient is opaque to the Dispatcher and passed through to the Sender unchanged.
type Recipient struct {
	Identifier string `json:"identifier" validate:"notblank"` // email address, phone number or push key
	Name       string `json:"name"`
}

// Content is shared by every recipient of a batch.
type Content struct {
	Subject  string `json:"subject"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Location string `json:"location"`
	Message  string `json:"message"`
}

func (c Content) IsEmpty() bool {
	return strings.TrimSpace(c.Title) == "" && strings.TrimSpace(c.Message) == ""
}

// Result is accumulated once per recipient.
type Result struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

func (r Result) Total() int {
	return r.Sent + r.Failed
}
