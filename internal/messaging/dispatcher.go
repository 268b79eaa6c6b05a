package messaging

import (
	"sync"
	"sync/atomic"

	"github.com/luxfi/log"
)

// Sink is where a Dispatcher delivers events.
type Sink interface {
	Publish(routingKey string, payload interface{}) error
}

var _ Sink = (*Publisher)(nil)

// Dispatcher decouples event delivery from matching. Engine callbacks run
// under a book lock, so they only enqueue; a single worker delivers events to
// the sink in enqueue order. When the buffer is full events are dropped and
// counted rather than stalling the book.
type Dispatcher struct {
	sink   Sink
	events chan DomainEvent
	logger log.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	dropped atomic.Uint64
	failed  atomic.Uint64
}

func NewDispatcher(sink Sink, buffer int, logger log.Logger) *Dispatcher {
	return &Dispatcher{
		sink:   sink,
		events: make(chan DomainEvent, buffer),
		logger: logger,
	}
}

// Start launches the delivery worker.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.run()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for ev := range d.events {
		if err := d.sink.Publish(ev.RoutingKey(), ev); err != nil {
			d.failed.Add(1)
			d.logger.Warn("failed to publish event", "routing_key", ev.RoutingKey(), "error", err)
		}
	}
}

// Enqueue queues ev for delivery without blocking. It returns false when the
// event was dropped.
func (d *Dispatcher) Enqueue(ev DomainEvent) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.dropped.Add(1)
		return false
	}
	select {
	case d.events <- ev:
		return true
	default:
		d.dropped.Add(1)
		return false
	}
}

// Stop stops accepting events, delivers what is queued and waits for the
// worker to exit.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.events)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) Dropped() uint64 { return d.dropped.Load() }

func (d *Dispatcher) Failed() uint64 { return d.failed.Load() }
