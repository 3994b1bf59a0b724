package event

// Handler receives an event published on the bus.
type Handler func(Event)

type subscription struct {
	id      int
	handler Handler
}

// Bus dispatches events synchronously on the caller's goroutine.
//
// Events published from inside a handler are queued and delivered after the
// current event has reached all of its subscribers, so handlers never observe
// a half-finished dispatch. The bus is not safe for concurrent use; it belongs
// to the single simulation thread of one match.
type Bus struct {
	named       map[Name][]subscription
	all         []subscription
	nextID      int
	queue       []Event
	dispatching bool
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		named: make(map[Name][]subscription),
	}
}

// Subscribe registers h for events with the given name.
// The returned function removes the subscription.
func (b *Bus) Subscribe(name Name, h Handler) func() {
	b.nextID++
	id := b.nextID
	b.named[name] = append(b.named[name], subscription{id: id, handler: h})

	return func() {
		b.named[name] = remove(b.named[name], id)
	}
}

// SubscribeAll registers h for every event.
func (b *Bus) SubscribeAll(h Handler) func() {
	b.nextID++
	id := b.nextID
	b.all = append(b.all, subscription{id: id, handler: h})

	return func() {
		b.all = remove(b.all, id)
	}
}

// Publish delivers e to its subscribers, then to catch-all subscribers.
func (b *Bus) Publish(e Event) {
	b.queue = append(b.queue, e)
	if b.dispatching {
		return
	}

	b.dispatching = true
	defer func() {
		b.dispatching = false
		b.queue = b.queue[:0]
	}()

	for len(b.queue) > 0 {
		next := b.queue[0]
		b.queue = b.queue[1:]
		b.deliver(next)
	}
}

func (b *Bus) deliver(e Event) {
	// Copy so handlers may (un)subscribe while we iterate.
	subs := append([]subscription(nil), b.named[e.Name()]...)
	subs = append(subs, b.all...)
	for _, s := range subs {
		s.handler(e)
	}
}

// Subscribers returns the number of handlers that would receive an event with the given name.
func (b *Bus) Subscribers(name Name) int {
	return len(b.named[name]) + len(b.all)
}

func remove(subs []subscription, id int) []subscription {
	for i, s := range subs {
		if s.id == id {
			return append(subs[:i:i], subs[i+1:]...)
		}
	}
	return subs
}
