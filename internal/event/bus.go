package event

import (
	"context"
	"sync"
	"sync/atomic"
)

// Handler receives published events for one topic.
type Handler func(event any)

// Subscription represents an active handler registration.
type Subscription struct {
	id    uint64
	topic Topic
	bus   *Bus
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s.bus != nil {
		s.bus.unsubscribe(s.topic, s.id)
	}
}

// Stats reports bus counters.
type Stats struct {
	// Published is the number of events accepted for delivery.
	Published uint64

	// Delivered is the number of handler invocations that completed.
	Delivered uint64

	// Dropped is the number of events rejected because the queue was full.
	Dropped uint64

	// Panics is the number of recovered handler panics.
	Panics uint64
}

// Config configures the bus.
type Config struct {
	// QueueSize is the async queue capacity.
	QueueSize int

	// Workers is the number of delivery goroutines.
	Workers int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		QueueSize: 256,
		Workers:   2,
	}
}

type envelope struct {
	topic Topic
	event any
}

// Bus is an asynchronous topic-based publish/subscribe bus.
type Bus struct {
	mu     sync.RWMutex
	subs   map[Topic]map[uint64]Handler
	nextID uint64

	config Config
	queue  chan envelope
	done   chan struct{}
	wg     sync.WaitGroup

	running atomic.Bool

	published atomic.Uint64
	delivered atomic.Uint64
	dropped   atomic.Uint64
	panics    atomic.Uint64
}

// NewBus creates a bus with the given configuration.
func NewBus(config Config) *Bus {
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultConfig().QueueSize
	}
	if config.Workers <= 0 {
		config.Workers = DefaultConfig().Workers
	}
	return &Bus{
		subs:   make(map[Topic]map[uint64]Handler),
		config: config,
		queue:  make(chan envelope, config.QueueSize),
		done:   make(chan struct{}),
	}
}

// Start launches the delivery workers.
func (b *Bus) Start() error {
	if b.running.Swap(true) {
		return ErrBusAlreadyRunning
	}

	for i := 0; i < b.config.Workers; i++ {
		b.wg.Add(1)
		go b.worker()
	}
	return nil
}

// Stop shuts the bus down, draining queued events. It returns the
// context error if the drain does not finish in time.
func (b *Bus) Stop(ctx context.Context) error {
	if !b.running.Swap(false) {
		return ErrBusNotRunning
	}

	close(b.done)

	finished := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning reports whether the bus is accepting events.
func (b *Bus) IsRunning() bool {
	return b.running.Load()
}

// Subscribe registers a handler for a topic.
func (b *Bus) Subscribe(topic Topic, h Handler) (*Subscription, error) {
	if h == nil {
		return nil, ErrNilHandler
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[uint64]Handler)
	}
	b.subs[topic][id] = h
	return &Subscription{id: id, topic: topic, bus: b}, nil
}

// Publish enqueues an event for asynchronous delivery. Events are
// dropped with ErrQueueFull rather than blocking the caller: the
// keyboard hook path must never stall on a slow subscriber.
func (b *Bus) Publish(topic Topic, ev any) error {
	if !b.running.Load() {
		return ErrBusNotRunning
	}

	select {
	case b.queue <- envelope{topic: topic, event: ev}:
		b.published.Add(1)
		return nil
	default:
		b.dropped.Add(1)
		return ErrQueueFull
	}
}

// Stats returns a snapshot of the bus counters.
func (b *Bus) Stats() Stats {
	return Stats{
		Published: b.published.Load(),
		Delivered: b.delivered.Load(),
		Dropped:   b.dropped.Load(),
		Panics:    b.panics.Load(),
	}
}

func (b *Bus) unsubscribe(topic Topic, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if handlers, ok := b.subs[topic]; ok {
		delete(handlers, id)
		if len(handlers) == 0 {
			delete(b.subs, topic)
		}
	}
}

func (b *Bus) worker() {
	defer b.wg.Done()

	for {
		select {
		case env := <-b.queue:
			b.deliver(env)
		case <-b.done:
			// Drain what is already queued, then exit.
			for {
				select {
				case env := <-b.queue:
					b.deliver(env)
				default:
					return
				}
			}
		}
	}
}

func (b *Bus) deliver(env envelope) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[env.topic]))
	for _, h := range b.subs[env.topic] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		b.invoke(h, env.event)
	}
}

// invoke runs one handler, recovering panics so a bad subscriber cannot
// take down the delivery workers.
func (b *Bus) invoke(h Handler, ev any) {
	defer func() {
		if r := recover(); r != nil {
			b.panics.Add(1)
		}
	}()
	h(ev)
	b.delivered.Add(1)
}
