package core

import (
	"sync"
	"time"

	"PayLedger/internal/event"
	"PayLedger/internal/observability"

	"github.com/rs/zerolog"
)

// DefaultLaneCapacity is the bounded queue size per client lane.
const DefaultLaneCapacity = 1000

// Dispatcher fans events out to per-client lanes. Each lane is a bounded
// channel drained by a dedicated worker goroutine, so same-client events
// apply strictly in arrival order while different clients proceed in
// parallel. Route blocks when a lane is full — backpressure propagates to
// the event source.
type Dispatcher struct {
	mu     sync.Mutex
	lanes  map[event.ClientID]chan event.Event
	closed bool

	wg      sync.WaitGroup
	apply   func(event.Event) error
	laneCap int

	log     zerolog.Logger
	metrics *observability.Metrics
}

func NewDispatcher(apply func(event.Event) error, laneCap int, log zerolog.Logger, metrics *observability.Metrics) *Dispatcher {
	if laneCap <= 0 {
		laneCap = DefaultLaneCapacity
	}
	return &Dispatcher{
		lanes:   make(map[event.ClientID]chan event.Event),
		apply:   apply,
		laneCap: laneCap,
		log:     log,
		metrics: metrics,
	}
}

// Route enqueues ev on its client's lane, creating the lane and spawning
// its worker on first sight of the client. Routing after Shutdown is an
// internal sequencing bug, not a user-facing error, and panics.
func (d *Dispatcher) Route(ev event.Event) {
	d.lane(ev.Client) <- ev
	if d.metrics != nil {
		d.metrics.EventsRouted.Inc()
	}
}

func (d *Dispatcher) lane(client event.ClientID) chan<- event.Event {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		panic("dispatcher: route after shutdown")
	}

	lane, ok := d.lanes[client]
	if !ok {
		lane = make(chan event.Event, d.laneCap)
		d.lanes[client] = lane
		d.wg.Add(1)
		go d.drain(client, lane)

		if d.metrics != nil {
			d.metrics.LanesOpened.Inc()
			d.metrics.LanesActive.Inc()
		}
	}
	return lane
}

// drain is the worker loop for one lane. A failing event is reported and
// skipped; it never stops this lane or any other.
func (d *Dispatcher) drain(client event.ClientID, lane <-chan event.Event) {
	defer d.wg.Done()
	if d.metrics != nil {
		defer d.metrics.LanesActive.Dec()
	}

	for ev := range lane {
		start := time.Now()
		if err := d.apply(ev); err != nil {
			d.log.Error().
				Err(err).
				Uint16("client", uint16(client)).
				Uint32("tx", uint32(ev.Tx)).
				Str("kind", ev.Kind.String()).
				Msg("event rejected")
			if d.metrics != nil {
				d.metrics.EventErrors.WithLabelValues(ev.Kind.String()).Inc()
			}
			continue
		}
		if d.metrics != nil {
			d.metrics.EventsApplied.WithLabelValues(ev.Kind.String()).Inc()
			d.metrics.ApplyDuration.WithLabelValues(ev.Kind.String()).Observe(time.Since(start).Seconds())
		}
	}
}

// Shutdown closes every lane and blocks until all workers have drained.
// After Shutdown returns, the stores are quiescent and safe to read.
func (d *Dispatcher) Shutdown() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	lanes := d.lanes
	d.mu.Unlock()

	for _, lane := range lanes {
		close(lane)
	}
	d.wg.Wait()
}

// Lanes returns the number of lanes created so far.
func (d *Dispatcher) Lanes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.lanes)
}
