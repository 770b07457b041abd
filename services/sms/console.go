package smssvc

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/trezcool/bibleschool/core"
)

// ConsoleService prints text messages instead of sending them.
type ConsoleService struct {
	out io.Writer

	mu   sync.Mutex
	sent []core.SMSMessage
}

var _ core.SMSService = (*ConsoleService)(nil)

func NewConsoleService(out io.Writer) *ConsoleService {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleService{out: out}
}

func (svc *ConsoleService) Send(_ context.Context, msg core.SMSMessage) error {
	if msg.To == "" {
		return errNoRecipient
	}
	_, _ = fmt.Fprintf(svc.out, "SMS to %s:\n%s\n\n", msg.To, msg.Body)

	svc.mu.Lock()
	svc.sent = append(svc.sent, msg)
	svc.mu.Unlock()
	return nil
}

func (svc *ConsoleService) SentMessages() []core.SMSMessage {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return append([]core.SMSMessage(nil), svc.sent...)
}
