package clipboard

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridge_HostPushReachesGuest(t *testing.T) {
	b := NewBridge(time.Second)

	var mu sync.Mutex
	var delivered []*Descriptor
	b.OnPushToGuest(func(d *Descriptor) {
		mu.Lock()
		delivered = append(delivered, d)
		mu.Unlock()
	})

	b.PushHostContent(FormatText, []byte("hello"))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, delivered, 1)
	assert.Equal(t, SideHost, delivered[0].Origin)
	assert.Equal(t, "hello", string(delivered[0].Data))
}

func TestBridge_RoundTripReturnsLatestPush(t *testing.T) {
	b := NewBridge(time.Second)

	b.PushHostContent(FormatText, []byte("X"))

	d, ok := b.RequestHostContent()
	require.True(t, ok)
	assert.Equal(t, "X", string(d.Data))

	// A second push before the guest reads supersedes, never queues
	b.PushHostContent(FormatText, []byte("X"))
	b.PushHostContent(FormatText, []byte("Y"))

	d, ok = b.RequestHostContent()
	require.True(t, ok)
	assert.Equal(t, "Y", string(d.Data))
}

func TestBridge_RequestBlocksUntilSupplied(t *testing.T) {
	b := NewBridge(2 * time.Second)

	supplied := make(chan struct{})
	b.OnHostRequest(func() {
		go func() {
			<-supplied
			b.PushHostContent(FormatText, []byte("late"))
		}()
	})

	done := make(chan *Descriptor, 1)
	go func() {
		d, _ := b.RequestHostContent()
		done <- d
	}()

	// The requester is parked on the signal
	select {
	case <-done:
		t.Fatal("request returned before supplier ran")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, StateAwaitingHostData, b.State())

	close(supplied)

	select {
	case d := <-done:
		require.NotNil(t, d)
		assert.Equal(t, "late", string(d.Data))
	case <-time.After(time.Second):
		t.Fatal("request never completed")
	}
	assert.Equal(t, StateIdle, b.State())
}

func TestBridge_RequestTimesOutAsNoData(t *testing.T) {
	b := NewBridge(50 * time.Millisecond)
	b.OnHostRequest(func() {}) // supplier never answers

	start := time.Now()
	d, ok := b.RequestHostContent()

	assert.False(t, ok, "timeout is no-data, not an error")
	assert.Nil(t, d)
	assert.Less(t, time.Since(start), time.Second, "wait must be bounded")
	assert.Equal(t, StateIdle, b.State())
}

func TestBridge_NewRequestSupersedesStaleOne(t *testing.T) {
	b := NewBridge(200 * time.Millisecond)
	b.OnHostRequest(func() {})

	first := make(chan bool, 1)
	go func() {
		_, ok := b.RequestHostContent()
		first <- ok
	}()

	// Let the first request park, then supersede it
	time.Sleep(20 * time.Millisecond)

	second := make(chan *Descriptor, 1)
	go func() {
		d, _ := b.RequestHostContent()
		second <- d
	}()
	time.Sleep(20 * time.Millisecond)

	// The supply lands on the newest request only
	b.PushHostContent(FormatText, []byte("fresh"))

	select {
	case d := <-second:
		require.NotNil(t, d)
		assert.Equal(t, "fresh", string(d.Data))
	case <-time.After(time.Second):
		t.Fatal("superseding request never completed")
	}

	select {
	case ok := <-first:
		// The stale request must not have been handed the descriptor
		// through its own abandoned channel; it either times out or (per
		// the supersede-then-push ordering) reads the stored content.
		_ = ok
	case <-time.After(time.Second):
		t.Fatal("stale request never returned")
	}
}

func TestBridge_GuestDirectionIsSymmetric(t *testing.T) {
	b := NewBridge(time.Second)

	var wrote []*Descriptor
	b.OnPushToHost(func(d *Descriptor) {
		wrote = append(wrote, d)
	})

	b.PushGuestContent(FormatText, []byte("from-guest"))

	require.Len(t, wrote, 1)
	assert.Equal(t, SideGuest, wrote[0].Origin)

	d, ok := b.RequestGuestContent()
	require.True(t, ok)
	assert.Equal(t, "from-guest", string(d.Data))
}

func TestBridge_SerialsIncreaseAcrossPushes(t *testing.T) {
	b := NewBridge(time.Second)

	b.PushHostContent(FormatText, []byte("a"))
	d1, _ := b.RequestHostContent()
	b.PushGuestContent(FormatText, []byte("b"))
	d2, _ := b.RequestGuestContent()

	assert.Greater(t, d2.Serial, d1.Serial)
}

func TestBridge_StateStringer(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "awaiting-host-data", StateAwaitingHostData.String())
	assert.Equal(t, "awaiting-guest-data", StateAwaitingGuestData.String())
}
