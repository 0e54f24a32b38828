package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFanOutDeliversAfterSubscribeInOrder(t *testing.T) {
	f := NewFanOut[int]()

	sub := f.Subscribe()

	for i := 0; i < 5; i++ {
		f.Publish(i)
	}

	for i := 0; i < 5; i++ {
		select {
		case v := <-sub.C:
			require.Equal(t, i, v)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for message %d", i)
		}
	}
}

func TestFanOutDoesNotReplayPriorMessages(t *testing.T) {
	f := NewFanOut[int]()
	f.Publish(1)
	f.Publish(2)

	sub := f.Subscribe()
	f.Publish(3)

	require.Equal(t, 3, <-sub.C)
}

func TestFanOutMultipleSubscribersAllReceive(t *testing.T) {
	f := NewFanOut[string]()

	sub1 := f.Subscribe()
	sub2 := f.Subscribe()

	f.Publish("hello")

	require.Equal(t, "hello", <-sub1.C)
	require.Equal(t, "hello", <-sub2.C)
}

func TestFanOutSlowSubscriberDoesNotBlockOthers(t *testing.T) {
	f := NewFanOut[int]()

	slow := f.Subscribe()
	fast := f.Subscribe()

	for i := 0; i < 100; i++ {
		f.Publish(i)
	}

	// Drain fast immediately without ever reading slow.
	for i := 0; i < 100; i++ {
		select {
		case v := <-fast.C:
			require.Equal(t, i, v)
		case <-time.After(time.Second):
			t.Fatalf("fast subscriber stalled behind slow one at %d", i)
		}
	}

	slow.Unsubscribe()
}

func TestFanOutUnsubscribeStopsDelivery(t *testing.T) {
	f := NewFanOut[int]()
	sub := f.Subscribe()
	sub.Unsubscribe()

	f.Publish(1)

	select {
	case <-sub.C:
		t.Fatal("unsubscribed channel should not receive further messages")
	case <-time.After(20 * time.Millisecond):
	}
}
