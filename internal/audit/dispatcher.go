package audit

import (
	"log/slog"
	"sync"
)

type Event struct {
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

type Dispatcher struct {
	logger *Logger
	queue  chan Event
	done   chan struct{}
	once   sync.Once
}

func NewDispatcher(logger *Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		queue:  make(chan Event, 100),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.logger.Log(ev); err != nil {
			slog.Error("audit write failed", "action", ev.Action, "error", err)
		}
	}
}

// Dispatch never blocks the request path: a full queue drops the event.
// A nil dispatcher is a no-op.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	select {
	case d.queue <- ev:
	default:
		slog.Warn("audit queue full, dropping event", "action", ev.Action)
	}
}

// Close drains queued events and stops the worker.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.once.Do(func() {
		close(d.queue)
		<-d.done
	})
}
