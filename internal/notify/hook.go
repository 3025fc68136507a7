// Package notify delivers reservation events after they are committed. The
// reservation core only sees Hook; delivery runs on background workers so a
// slow or failing broker never blocks a request.
package notify

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"
	"time"

	"stopshot/pkg/logger"
	"stopshot/pkg/model"
)

var ErrDispatcherClosed = errors.New("notification dispatcher closed")

type Hook interface {
	Notify(ctx context.Context, event model.ReservationEvent)
}

// HookFunc adapts a function to Hook.
type HookFunc func(ctx context.Context, event model.ReservationEvent)

func (f HookFunc) Notify(ctx context.Context, event model.ReservationEvent) {
	f(ctx, event)
}

// Sender delivers one event to a transport.
type Sender interface {
	Send(ctx context.Context, event model.ReservationEvent) error
	Close() error
}

type DispatcherConfig struct {
	QueueSize   int
	Workers     int
	SendTimeout time.Duration
}

// Dispatcher is the asynchronous Hook. Events go into a bounded queue drained
// by a fixed set of workers; a full queue drops the event.
type Dispatcher struct {
	sender  Sender
	log     *logger.Logger
	timeout time.Duration
	queue   chan model.ReservationEvent

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(sender Sender, cfg DispatcherConfig, log *logger.Logger) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	d := &Dispatcher{
		sender:  sender,
		log:     log.Component("notify"),
		timeout: cfg.SendTimeout,
		queue:   make(chan model.ReservationEvent, cfg.QueueSize),
	}
	d.wg.Add(cfg.Workers)
	for range cfg.Workers {
		go d.work()
	}
	return d
}

// Notify never blocks. The request context is not carried into delivery,
// which outlives the request.
func (d *Dispatcher) Notify(_ context.Context, event model.ReservationEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn("Dropping reservation event", "reason", ErrDispatcherClosed, "type", event.Type, "reservation_id", event.Reservation.ID)
		return
	}

	select {
	case d.queue <- event:
	default:
		d.log.Warn("Notification queue full, dropping reservation event",
			"type", event.Type,
			"reservation_id", event.Reservation.ID,
			"queue_size", cap(d.queue),
		)
	}
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for event := range d.queue {
		d.deliver(event)
	}
}

func (d *Dispatcher) deliver(event model.ReservationEvent) {
	// A panicking sender loses this event, not the worker or the process.
	defer func() {
		if p := recover(); p != nil {
			d.log.Error("Panic recovered while delivering reservation event",
				"type", event.Type,
				"reservation_id", event.Reservation.ID,
				"error", p,
				"stack", string(debug.Stack()),
			)
		}
	}()

	ctx := context.Background()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	if err := d.sender.Send(ctx, event); err != nil {
		d.log.Error("Failed to deliver reservation event",
			"type", event.Type,
			"reservation_id", event.Reservation.ID,
			"new_status", event.NewStatus,
			"error", err,
		)
		return
	}
	d.log.Debug("Reservation event delivered", "type", event.Type, "reservation_id", event.Reservation.ID)
}

// Close stops accepting events, waits for queued ones to be delivered or for
// ctx to end, then closes the sender.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
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
		err = ctx.Err()
		d.log.Warn("Notification queue not drained before shutdown", "pending", len(d.queue))
	}

	return errors.Join(err, d.sender.Close())
}
