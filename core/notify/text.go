package notify

import (
	"strings"
)

// Text renders the plain-text body sent to `r`, used for SMS and push messages.
func (c Content) Text(r Recipient) string {
	var b strings.Builder
	if name := strings.TrimSpace(r.Name); name != "" {
		b.WriteString("Hi " + name + "! ")
	}
	if c.Title != "" {
		b.WriteString(c.Title)
		if c.Date != "" {
			b.WriteString(" on " + c.Date)
		}
		if c.Location != "" {
			b.WriteString(" at " + c.Location)
		}
		b.WriteString(".")
	}
	if c.Message != "" {
		if c.Title != "" {
			b.WriteString(" ")
		}
		b.WriteString(c.Message)
	}
	return strings.TrimSpace(b.String())
}

// SubjectLine falls back to the event title when no subject is given.
func (c Content) SubjectLine() string {
	if c.Subject != "" {
		return c.Subject
	}
	return c.Title
}
