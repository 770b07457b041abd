package notify

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/trezcool/bibleschool/core"
)

// DefaultDelay keeps bulk sends under the transports' rate limits.
const DefaultDelay = 100 * time.Millisecond

type (
	// Sender delivers one notification. Any error, whatever its cause, counts as a failed send.
	Sender interface {
		Send(ctx context.Context, r Recipient, c Content) error
	}

	SenderFunc func(ctx context.Context, r Recipient, c Content) error

	Option func(*Dispatcher)

	// Dispatcher sends the same Content to a list of recipients, one at a time,
	// waiting a fixed delay between two sends. There is no retry and no batch
	// cancellation: once started, a batch runs to completion. `ctx` is only handed
	// to the Sender, which applies its own transport timeout.
	Dispatcher struct {
		delay   time.Duration
		workers int
		sleep   func(time.Duration)
		logger  core.Logger
	}
)

func (f SenderFunc) Send(ctx context.Context, r Recipient, c Content) error {
	return f(ctx, r, c)
}

func WithDelay(d time.Duration) Option {
	return func(dp *Dispatcher) {
		if d < 0 {
			d = 0
		}
		dp.delay = d
	}
}

// WithWorkers allows up to n concurrent sends; each worker still waits the delay after its send.
// n <= 1 keeps the sequential, in-order behavior.
func WithWorkers(n int) Option {
	return func(dp *Dispatcher) {
		if n < 1 {
			n = 1
		}
		dp.workers = n
	}
}

// WithSleep overrides the wait between sends (useful for tests).
func WithSleep(sleep func(time.Duration)) Option {
	return func(dp *Dispatcher) {
		if sleep != nil {
			dp.sleep = sleep
		}
	}
}

func NewDispatcher(logger core.Logger, opts ...Option) *Dispatcher {
	dp := &Dispatcher{
		delay:   DefaultDelay,
		workers: 1,
		sleep:   time.Sleep,
		logger:  logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(dp)
		}
	}
	return dp
}

// Dispatch blocks until every recipient has been tried and returns the counts.
// An empty list returns immediately.
func (dp *Dispatcher) Dispatch(ctx context.Context, recipients []Recipient, content Content, sender Sender) Result {
	if len(recipients) == 0 {
		return Result{}
	}

	var res Result
	if dp.workers > 1 {
		res = dp.dispatchConcurrently(ctx, recipients, content, sender)
	} else {
		for i, r := range recipients {
			if i > 0 {
				dp.sleep(dp.delay)
			}
			if dp.send(ctx, sender, r, content) {
				res.Sent++
			} else {
				res.Failed++
			}
		}
	}

	dp.logger.Info(fmt.Sprintf("dispatched %q: %d sent, %d failed", content.SubjectLine(), res.Sent, res.Failed))
	return res
}

func (dp *Dispatcher) dispatchConcurrently(ctx context.Context, recipients []Recipient, content Content, sender Sender) Result {
	var sent, failed int64
	var grp errgroup.Group
	grp.SetLimit(dp.workers)

	for _, r := range recipients {
		r := r
		grp.Go(func() error {
			if dp.send(ctx, sender, r, content) {
				atomic.AddInt64(&sent, 1)
			} else {
				atomic.AddInt64(&failed, 1)
			}
			dp.sleep(dp.delay)
			return nil
		})
	}
	_ = grp.Wait()

	return Result{Sent: int(sent), Failed: int(failed)}
}

// send reduces the outcome to a boolean. A panicking Sender counts as a failure.
func (dp *Dispatcher) send(ctx context.Context, sender Sender, r Recipient, c Content) (ok bool) {
	defer func() {
		if p := recover(); p != nil {
			dp.logger.Error(fmt.Sprintf("sending to %q panicked", r.Identifier), fmt.Errorf("%v", p))
			ok = false
		}
	}()

	if err := sender.Send(ctx, r, c); err != nil {
		dp.logger.Warn(fmt.Sprintf("sending to %q failed", r.Identifier), err)
		return false
	}
	return true
}
