package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/RinkiBai/portfolio-backend/internal/contact/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Options tune the dispatcher's pool, retry and throttling behaviour.
type Options struct {
	Workers       int
	QueueSize     int
	MaxAttempts   int
	RetryDelay    time.Duration
	RatePerMinute int
	SendTimeout   time.Duration
}

// Outcome reports how delivery of one submission ended.
type Outcome struct {
	SubmissionID string
	Attempts     int
	Err          error
}

// Dispatcher delivers notifications on a fixed pool of workers, so at most
// Workers transport connections are open at once. Enqueue never blocks and
// delivery failures only reach the log.
type Dispatcher struct {
	sender  Sender
	env     Envelope
	logger  *zap.Logger
	opts    Options
	limiter *rate.Limiter

	mu     sync.RWMutex
	closed bool
	jobs   chan *domain.Submission

	outcomes chan Outcome
	observe  func(Outcome)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	sinkWG sync.WaitGroup
}

func NewDispatcher(sender Sender, env Envelope, opts Options, logger *zap.Logger) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 3
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 100
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 30 * time.Second
	}

	limit := rate.Inf
	if opts.RatePerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(opts.RatePerMinute))
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		sender:   sender,
		env:      env,
		logger:   logger,
		opts:     opts,
		limiter:  rate.NewLimiter(limit, opts.Workers),
		jobs:     make(chan *domain.Submission, opts.QueueSize),
		outcomes: make(chan Outcome, opts.Workers),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// OnOutcome registers a callback invoked from the log sink after every
// delivery. It must be set before Start.
func (d *Dispatcher) OnOutcome(fn func(Outcome)) {
	d.observe = fn
}

// Start launches the workers and the outcome log sink.
func (d *Dispatcher) Start() {
	d.sinkWG.Add(1)
	go d.sink()

	for i := 0; i < d.opts.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

// Enqueue schedules a notification for s. It returns domain.ErrNotification
// when the dispatcher is closed or its queue is full.
func (d *Dispatcher) Enqueue(s *domain.Submission) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return fmt.Errorf("%w: dispatcher closed", domain.ErrNotification)
	}

	select {
	case d.jobs <- s:
		return nil
	default:
		return fmt.Errorf("%w: queue full", domain.ErrNotification)
	}
}

// Close stops accepting work and waits for queued notifications. When ctx
// expires first, pending retries are abandoned.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		d.cancel()
		<-done
		err = ctx.Err()
	}
	d.cancel()

	close(d.outcomes)
	d.sinkWG.Wait()
	return err
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for s := range d.jobs {
		d.outcomes <- d.deliver(s)
	}
}

func (d *Dispatcher) deliver(s *domain.Submission) Outcome {
	out := Outcome{SubmissionID: s.ID}

	msg, err := Compose(d.env, s)
	if err != nil {
		out.Err = err
		return out
	}

	for attempt := 1; attempt <= d.opts.MaxAttempts; attempt++ {
		out.Attempts = attempt

		if err := d.limiter.Wait(d.ctx); err != nil {
			out.Err = err
			return out
		}

		sendCtx, cancel := context.WithTimeout(d.ctx, d.opts.SendTimeout)
		err = d.sender.Send(sendCtx, msg)
		cancel()
		if err == nil {
			out.Err = nil
			return out
		}
		out.Err = err

		if attempt == d.opts.MaxAttempts {
			break
		}
		d.logger.Warn("notification attempt failed",
			zap.String("submission_id", s.ID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		// backoff grows with the attempt number
		if !sleep(d.ctx, time.Duration(attempt)*d.opts.RetryDelay) {
			return out
		}
	}
	return out
}

func (d *Dispatcher) sink() {
	defer d.sinkWG.Done()
	for o := range d.outcomes {
		if o.Err != nil {
			d.logger.Error("notification failed",
				zap.String("submission_id", o.SubmissionID),
				zap.Int("attempts", o.Attempts),
				zap.Error(errors.Join(domain.ErrNotification, o.Err)),
			)
		} else {
			d.logger.Info("notification sent",
				zap.String("submission_id", o.SubmissionID),
				zap.Int("attempts", o.Attempts),
			)
		}
		if d.observe != nil {
			d.observe(o)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
