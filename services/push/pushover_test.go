package pushsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/gregdel/pushover"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/bibleschool/core"
	"github.com/trezcool/bibleschool/tests"
)

type fakeApp struct {
	msgs  []*pushover.Message
	rcpts []*pushover.Recipient
	err   error
}

func (a *fakeApp) SendMessage(msg *pushover.Message, rcpt *pushover.Recipient) (*pushover.Response, error) {
	if a.err != nil {
		return nil, a.err
	}
	a.msgs = append(a.msgs, msg)
	a.rcpts = append(a.rcpts, rcpt)
	return &pushover.Response{Status: 1, ID: "req-1"}, nil
}

func TestNewPushoverService(t *testing.T) {
	_, err := NewPushoverService(core.PushConfig{}, testutil.NewLogger(t))
	assert.EqualError(t, err, "pushover: app token is required")
}

func TestPushoverService_Send(t *testing.T) {
	fake := new(fakeApp)
	svc, err := NewPushoverService(core.PushConfig{AppToken: "azGDORePK8gMaC0QOYAMyEEuzJnyUi"}, testutil.NewLogger(t), WithApp(fake))
	require.NoError(t, err)

	err = svc.Send(context.Background(), core.PushMessage{Recipient: "uQiRzpo4DXghDmr9QzzfQu27cmVRsG", Title: "Retreat", Message: "Retreat on May 3."})
	require.NoError(t, err)
	require.Len(t, fake.msgs, 1)
	assert.Equal(t, "Retreat", fake.msgs[0].Title)
	assert.Equal(t, "Retreat on May 3.", fake.msgs[0].Message)
	assert.Equal(t, pushover.NewRecipient("uQiRzpo4DXghDmr9QzzfQu27cmVRsG"), fake.rcpts[0])

	assert.Error(t, svc.Send(context.Background(), core.PushMessage{Message: "x"}))

	fake.err = errors.New("invalid recipient")
	assert.ErrorIs(t, svc.Send(context.Background(), core.PushMessage{Recipient: "bad", Message: "x"}), fake.err)
}
