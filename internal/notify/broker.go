package notify

import (
	"context"
	"sync"
)

// subscriberBuffer bounds each subscriber's channel; a subscriber that falls
// further behind loses the oldest event rather than blocking publishers.
const subscriberBuffer = 16

// Broker is an in-process Publisher with per-channel subscriber lists.
// Subscriptions are scoped to a caller's active view: the cancel function
// returned by Subscribe must be called on teardown, there is no global
// listener registry.
type Broker struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan Event
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[int]chan Event),
	}
}

var _ Publisher = (*Broker)(nil)

// Subscribe registers a listener on one channel. The returned cancel function
// tears the subscription down and closes the event channel; it is safe to
// call more than once.
func (b *Broker) Subscribe(channel string) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	ch := make(chan Event, subscriberBuffer)

	if b.subs[channel] == nil {
		b.subs[channel] = make(map[int]chan Event)
	}
	b.subs[channel][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if subs, ok := b.subs[channel]; ok {
				delete(subs, id)
				if len(subs) == 0 {
					delete(b.subs, channel)
				}
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers the event to every current subscriber of the channel.
// Slow subscribers drop their oldest buffered event instead of blocking.
func (b *Broker) Publish(ctx context.Context, channel string, event Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs[channel] {
		select {
		case ch <- event:
		default:
			// Buffer full: evict the oldest event, then deliver
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- event:
			default:
			}
		}
	}
	return nil
}
