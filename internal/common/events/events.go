// Package events fans successful roster changes out to optional sinks.
// Sink failures are logged and counted; they never fail the request that
// produced the event.
package events

import (
	"context"
	"sync"
	"time"

	"activity-signup/internal/common/logger"
	"activity-signup/internal/common/metrics"

	"github.com/google/uuid"
)

type Type string

const (
	TypeSignup     Type = "signup"
	TypeUnregister Type = "unregister"
)

// Event describes one roster change.
type Event struct {
	ID           string    `json:"id"`
	Type         Type      `json:"type"`
	Activity     string    `json:"activity"`
	Email        string    `json:"email"`
	Participants int       `json:"participants"`
	OccurredAt   time.Time `json:"occurredAt"`
}

func New(t Type, activity, email string, participants int) Event {
	return Event{
		ID:           uuid.New().String(),
		Type:         t,
		Activity:     activity,
		Email:        email,
		Participants: participants,
		OccurredAt:   time.Now().UTC(),
	}
}

// Sink receives roster events.
type Sink interface {
	Name() string
	Publish(ctx context.Context, ev Event) error
}

// Dispatcher delivers each event to every configured sink in turn.
type Dispatcher struct {
	sinks   []Sink
	timeout time.Duration
	logger  logger.Logger
	wg      sync.WaitGroup
}

func NewDispatcher(log logger.Logger, timeout time.Duration, sinks ...Sink) *Dispatcher {
	return &Dispatcher{
		sinks:   sinks,
		timeout: timeout,
		logger:  log.WithFields(map[string]interface{}{"component": "events"}),
	}
}

// DispatchAsync delivers ev in the background so the caller's response is
// not held up by slow sinks. Wait drains outstanding deliveries.
func (d *Dispatcher) DispatchAsync(ctx context.Context, ev Event) {
	if d == nil || len(d.sinks) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.Dispatch(ctx, ev)
	}()
}

// Wait blocks until background deliveries finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	if d == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dispatch publishes ev to all sinks, bounded by the dispatcher timeout.
// It returns the number of sinks that accepted the event.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) int {
	if d == nil || len(d.sinks) == 0 {
		return 0
	}

	// Delivery must not be cut short by the client going away.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	delivered := 0
	for _, sink := range d.sinks {
		if err := sink.Publish(ctx, ev); err != nil {
			metrics.EventDeliveryFailures.WithLabelValues(sink.Name()).Inc()
			d.logger.Warn("event delivery failed", map[string]interface{}{
				"sink":     sink.Name(),
				"eventId":  ev.ID,
				"type":     string(ev.Type),
				"activity": ev.Activity,
				"error":    err,
			})
			continue
		}
		delivered++
	}

	d.logger.Debug("event dispatched", map[string]interface{}{
		"eventId":   ev.ID,
		"type":      string(ev.Type),
		"delivered": delivered,
	})
	return delivered
}
