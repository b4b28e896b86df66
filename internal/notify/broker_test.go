package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerDeliversToSubscribers(t *testing.T) {
	ctx := context.Background()
	broker := NewBroker()

	ch1, cancel1 := broker.Subscribe(PostChannel("p1"))
	defer cancel1()
	ch2, cancel2 := broker.Subscribe(PostChannel("p1"))
	defer cancel2()
	other, cancelOther := broker.Subscribe(PostChannel("p2"))
	defer cancelOther()

	event := Event{Type: EventLike, Actor: "alice", Entity: "p1", Count: 1, At: time.Now()}
	require.NoError(t, broker.Publish(ctx, PostChannel("p1"), event))

	got := <-ch1
	assert.Equal(t, EventLike, got.Type)
	assert.Equal(t, "alice", got.Actor)

	got = <-ch2
	assert.Equal(t, "p1", got.Entity)

	select {
	case <-other:
		t.Fatal("event leaked to another channel")
	default:
	}
}

func TestBrokerCancelStopsDelivery(t *testing.T) {
	ctx := context.Background()
	broker := NewBroker()

	ch, cancel := broker.Subscribe(UserChannel("u1"))
	cancel()

	// Cancel closes the channel and later publishes go nowhere.
	_, open := <-ch
	assert.False(t, open)

	require.NoError(t, broker.Publish(ctx, UserChannel("u1"), Event{Type: EventFollow}))

	// Double cancel is a no-op.
	cancel()
}

func TestBrokerDropsOldestWhenSubscriberLags(t *testing.T) {
	ctx := context.Background()
	broker := NewBroker()

	ch, cancel := broker.Subscribe(PostChannel("p1"))
	defer cancel()

	// Overfill the buffer without draining.
	for i := 0; i < subscriberBuffer+5; i++ {
		require.NoError(t, broker.Publish(ctx, PostChannel("p1"), Event{Count: int64(i)}))
	}

	// The oldest events were evicted; the newest survives at the tail.
	var last Event
	drained := 0
	for {
		select {
		case e := <-ch:
			last = e
			drained++
			continue
		default:
		}
		break
	}

	assert.Equal(t, subscriberBuffer, drained)
	assert.Equal(t, int64(subscriberBuffer+4), last.Count)
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), "anywhere", Event{}))
}
