package events

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func collectingHandler(types []string, wg *sync.WaitGroup) (*HandlerFunc, *[]Event) {
	var mu sync.Mutex
	seen := make([]Event, 0)
	h := NewHandlerFunc(types, func(e Event) error {
		mu.Lock()
		seen = append(seen, e)
		mu.Unlock()
		wg.Done()
		return nil
	})
	return h, &seen
}

func TestBus_DeliversToRegisteredHandlers(t *testing.T) {
	bus := NewBus(zap.NewNop(), 8)

	var wg sync.WaitGroup
	wg.Add(2)
	first, firstSeen := collectingHandler([]string{"thing.created"}, &wg)
	second, secondSeen := collectingHandler([]string{"thing.created"}, &wg)
	bus.Register(first)
	bus.Register(second)

	bus.Start()
	defer bus.Stop()

	event := NewBaseEvent("thing.created", 42, "Thing")
	bus.Publish(event)

	waitOrFail(t, &wg)
	require.Len(t, *firstSeen, 1)
	require.Len(t, *secondSeen, 1)
	assert.Equal(t, int64(42), (*firstSeen)[0].AggregateID())
	assert.Equal(t, "thing.created", (*firstSeen)[0].EventType())
}

func TestBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := NewBus(zap.NewNop(), 8)

	failing := NewHandlerFunc([]string{"thing.created"}, func(Event) error {
		return errors.New("boom")
	})
	var wg sync.WaitGroup
	wg.Add(1)
	ok, okSeen := collectingHandler([]string{"thing.created"}, &wg)

	bus.Register(failing)
	bus.Register(ok)
	bus.Start()
	defer bus.Stop()

	bus.Publish(NewBaseEvent("thing.created", 1, "Thing"))

	waitOrFail(t, &wg)
	assert.Len(t, *okSeen, 1)
}

func TestBus_HandlerPanicIsRecovered(t *testing.T) {
	bus := NewBus(zap.NewNop(), 8)

	panicking := NewHandlerFunc([]string{"thing.created"}, func(Event) error {
		panic("handler bug")
	})
	var wg sync.WaitGroup
	wg.Add(1)
	ok, okSeen := collectingHandler([]string{"thing.created"}, &wg)

	bus.Register(panicking)
	bus.Register(ok)
	bus.Start()
	defer bus.Stop()

	bus.Publish(NewBaseEvent("thing.created", 1, "Thing"))

	waitOrFail(t, &wg)
	assert.Len(t, *okSeen, 1)
}

func TestBus_OverflowDropsInsteadOfBlocking(t *testing.T) {
	// Worker never started, so the queue fills and stays full.
	bus := NewBus(zap.NewNop(), 1)

	done := make(chan struct{})
	go func() {
		bus.Publish(NewBaseEvent("thing.created", 1, "Thing"))
		bus.Publish(NewBaseEvent("thing.created", 2, "Thing"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full queue")
	}
}

func TestBus_StopDrainsQueue(t *testing.T) {
	bus := NewBus(zap.NewNop(), 8)

	var wg sync.WaitGroup
	wg.Add(3)
	h, seen := collectingHandler([]string{"thing.created"}, &wg)
	bus.Register(h)

	for i := int64(1); i <= 3; i++ {
		bus.Publish(NewBaseEvent("thing.created", i, "Thing"))
	}

	bus.Start()
	bus.Stop()

	assert.Len(t, *seen, 3)
}

func TestBus_PublishAfterStopIsDropped(t *testing.T) {
	bus := NewBus(zap.NewNop(), 8)

	var wg sync.WaitGroup
	h, seen := collectingHandler([]string{"thing.created"}, &wg)
	bus.Register(h)

	bus.Start()
	bus.Stop()

	assert.NotPanics(t, func() {
		bus.Publish(NewBaseEvent("thing.created", 1, "Thing"))
	})
	assert.Empty(t, *seen)
}

func waitOrFail(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for handlers")
	}
}
