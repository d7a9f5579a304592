package events

import (
	"sync"

	"go.uber.org/zap"
)

// DefaultQueueSize is the default capacity of the event queue.
const DefaultQueueSize = 256

// Bus is an asynchronous event bus for domain events. Publish enqueues
// without blocking; a background worker dispatches queued events to the
// registered handlers. When the queue is full the event is dropped with a
// warning: a lost event must never block or fail the operation that
// produced it.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	queue    chan Event
	logger   *zap.Logger
	wg       sync.WaitGroup
	started  bool
	stopped  bool
}

// NewBus creates a new event bus. queueSize <= 0 selects DefaultQueueSize.
func NewBus(logger *zap.Logger, queueSize int) *Bus {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Bus{
		handlers: make(map[string][]Handler),
		queue:    make(chan Event, queueSize),
		logger:   logger,
	}
}

// Register registers a handler for the events it handles.
func (b *Bus) Register(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, eventType := range handler.Handles() {
		b.handlers[eventType] = append(b.handlers[eventType], handler)
		b.logger.Debug("registered event handler",
			zap.String("event_type", eventType),
		)
	}
}

// Start launches the dispatch worker. It must be called before published
// events can make progress.
func (b *Bus) Start() {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return
	}
	b.started = true
	b.mu.Unlock()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for event := range b.queue {
			b.dispatch(event)
		}
	}()
}

// Stop closes the queue, drains remaining events and waits for the worker.
// The bus cannot be restarted.
func (b *Bus) Stop() {
	b.mu.Lock()
	if !b.started || b.stopped {
		b.mu.Unlock()
		return
	}
	b.started = false
	b.stopped = true
	b.mu.Unlock()

	close(b.queue)
	b.wg.Wait()
}

// Publish enqueues an event without blocking. If the queue is full, or the
// bus has already been stopped, the event is dropped and a warning is logged.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.stopped {
		b.logger.Warn("event bus stopped, dropping event",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
		)
		return
	}

	select {
	case b.queue <- event:
	default:
		b.logger.Warn("event queue full, dropping event",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
		)
	}
}

// PublishAll enqueues multiple events.
func (b *Bus) PublishAll(events []Event) {
	for _, event := range events {
		b.Publish(event)
	}
}

// dispatch delivers an event to all handlers registered for its type.
// If a handler fails or panics, the error is logged and other handlers
// continue processing.
func (b *Bus) dispatch(event Event) {
	b.mu.RLock()
	handlers := b.handlers[event.EventType()]
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.logger.Debug("no handlers registered for event",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
		)
		return
	}

	for _, handler := range handlers {
		b.handleOne(handler, event)
	}
}

func (b *Bus) handleOne(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
				zap.Any("panic", r),
			)
		}
	}()

	if err := handler.Handle(event); err != nil {
		b.logger.Error("event handler failed",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
			zap.Error(err),
		)
	}
}
