package notifier

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_SubscribeUnsubscribe(t *testing.T) {
	n := New()

	ch := n.Subscribe()
	require.NotNil(t, ch)
	assert.Equal(t, 1, n.Subscribers())

	n.Unsubscribe(ch)
	assert.Equal(t, 0, n.Subscribers())

	_, open := <-ch
	assert.False(t, open, "unsubscribed channel should be closed")
}

func TestNotifier_UnsubscribeTwice(t *testing.T) {
	n := New()
	ch := n.Subscribe()

	n.Unsubscribe(ch)
	assert.NotPanics(t, func() { n.Unsubscribe(ch) })
}

func TestNotifier_BroadcastReachesEverySubscriber(t *testing.T) {
	n := New()
	ch1 := n.Subscribe()
	ch2 := n.Subscribe()
	defer n.Unsubscribe(ch1)
	defer n.Unsubscribe(ch2)

	n.Broadcast()

	for i, ch := range []chan struct{}{ch1, ch2} {
		select {
		case <-ch:
		case <-time.After(100 * time.Millisecond):
			t.Errorf("subscriber %d did not receive broadcast", i+1)
		}
	}
	assert.Equal(t, uint64(1), n.Seq())
}

func TestNotifier_BroadcastDoesNotBlockOnFullChannel(t *testing.T) {
	n := New()
	ch := n.Subscribe()
	defer n.Unsubscribe(ch)

	ch <- struct{}{}

	done := make(chan struct{})
	go func() {
		n.Broadcast()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Broadcast blocked on full channel")
	}
	assert.Len(t, ch, 1, "pending ping should be coalesced")
}

func TestNotifier_Concurrent(t *testing.T) {
	n := New()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := n.Subscribe()
			n.Broadcast()
			n.Unsubscribe(ch)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, n.Subscribers())
	assert.Equal(t, uint64(10), n.Seq())
}
