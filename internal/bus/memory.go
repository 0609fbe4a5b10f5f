package bus

import (
	"context"
	"sync"
)

// InProc is a process-local Bus. Publish dispatches synchronously in
// arrival order, which preserves the per-sensor ordering guarantee without
// a broker.
type InProc struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[string]map[int]Handler
}

func NewInProc() *InProc {
	return &InProc{handlers: make(map[string]map[int]Handler)}
}

func (b *InProc) Publish(_ context.Context, stream, _ string, payload []byte) error {
	b.mu.RLock()
	hs := make([]Handler, 0, len(b.handlers[stream]))
	for _, h := range b.handlers[stream] {
		hs = append(hs, h)
	}
	b.mu.RUnlock()

	// Invoke outside the lock so a handler may subscribe or unsubscribe.
	for _, h := range hs {
		h(payload)
	}
	return nil
}

func (b *InProc) Subscribe(stream string, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[stream] == nil {
		b.handlers[stream] = make(map[int]Handler)
	}
	id := b.nextID
	b.nextID++
	b.handlers[stream][id] = h

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers[stream], id)
	}
}
