package notify_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/bibleschool/core/notify"
	"github.com/trezcool/bibleschool/tests"
)

func recipients(ids ...string) []notify.Recipient {
	rs := make([]notify.Recipient, 0, len(ids))
	for _, id := range ids {
		rs = append(rs, notify.Recipient{Identifier: id})
	}
	return rs
}

// scriptedSender succeeds or fails according to `outcomes`, in call order.
type scriptedSender struct {
	mu       sync.Mutex
	outcomes []bool
	calls    []string
}

func (s *scriptedSender) Send(_ context.Context, r notify.Recipient, _ notify.Content) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := len(s.calls)
	s.calls = append(s.calls, r.Identifier)
	if i < len(s.outcomes) && s.outcomes[i] {
		return nil
	}
	return errors.New("transport rejected the message")
}

func TestDispatcher_Dispatch(t *testing.T) {
	content := notify.Content{Title: "Bible study", Date: "Sunday", Location: "Main hall"}

	t.Run("counts and real delay", func(t *testing.T) {
		dp := notify.NewDispatcher(testutil.NewLogger(t))
		sender := &scriptedSender{outcomes: []bool{true, false, true}}

		start := time.Now()
		res := dp.Dispatch(context.Background(), recipients("a", "b", "c"), content, sender)
		elapsed := time.Since(start)

		assert.Equal(t, notify.Result{Sent: 2, Failed: 1}, res)
		assert.GreaterOrEqual(t, int64(elapsed), int64(2*notify.DefaultDelay))
		assert.Equal(t, []string{"a", "b", "c"}, sender.calls)
	})

	t.Run("empty list", func(t *testing.T) {
		var slept int32
		dp := notify.NewDispatcher(testutil.NewLogger(t), notify.WithSleep(func(time.Duration) { atomic.AddInt32(&slept, 1) }))

		start := time.Now()
		res := dp.Dispatch(context.Background(), nil, content, &scriptedSender{})

		assert.Equal(t, notify.Result{}, res)
		assert.Less(t, int64(time.Since(start)), int64(notify.DefaultDelay))
		assert.Zero(t, atomic.LoadInt32(&slept))
	})

	t.Run("one delay between two sends", func(t *testing.T) {
		var delays []time.Duration
		dp := notify.NewDispatcher(
			testutil.NewLogger(t),
			notify.WithDelay(250*time.Millisecond),
			notify.WithSleep(func(d time.Duration) { delays = append(delays, d) }),
		)
		res := dp.Dispatch(context.Background(), recipients("a", "b", "c", "d"), content, &scriptedSender{outcomes: []bool{true, true, true, true}})

		assert.Equal(t, notify.Result{Sent: 4}, res)
		assert.Equal(t, []time.Duration{250 * time.Millisecond, 250 * time.Millisecond, 250 * time.Millisecond}, delays)
	})

	t.Run("panicking sender counts as failed", func(t *testing.T) {
		logger := testutil.NewLogger(t)
		dp := notify.NewDispatcher(logger, notify.WithSleep(func(time.Duration) {}))
		sender := notify.SenderFunc(func(_ context.Context, r notify.Recipient, _ notify.Content) error {
			if r.Identifier == "boom" {
				panic("nil transport")
			}
			return nil
		})

		res := dp.Dispatch(context.Background(), recipients("a", "boom", "c"), content, sender)

		assert.Equal(t, notify.Result{Sent: 2, Failed: 1}, res)
		assert.Equal(t, 1, logger.Count("ERROR"))
	})

	t.Run("cancelled context does not stop the batch", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		dp := notify.NewDispatcher(testutil.NewLogger(t), notify.WithSleep(func(time.Duration) {}))
		sender := &scriptedSender{outcomes: []bool{true, true}}

		res := dp.Dispatch(ctx, recipients("a", "b"), content, sender)

		assert.Equal(t, notify.Result{Sent: 2}, res)
		assert.Len(t, sender.calls, 2)
	})

	t.Run("bounded workers", func(t *testing.T) {
		var inFlight, maxInFlight int32
		sender := notify.SenderFunc(func(_ context.Context, r notify.Recipient, _ notify.Content) error {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				m := atomic.LoadInt32(&maxInFlight)
				if n <= m || atomic.CompareAndSwapInt32(&maxInFlight, m, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			if r.Identifier == "bad" {
				return errors.New("invalid number")
			}
			return nil
		})
		dp := notify.NewDispatcher(testutil.NewLogger(t), notify.WithWorkers(2), notify.WithDelay(time.Millisecond))

		res := dp.Dispatch(context.Background(), recipients("a", "b", "bad", "d", "e"), content, sender)

		assert.Equal(t, notify.Result{Sent: 4, Failed: 1}, res)
		assert.LessOrEqual(t, atomic.LoadInt32(&maxInFlight), int32(2))
	})
}
