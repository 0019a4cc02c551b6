// Package clipboard synchronizes host and guest clipboard contents.
//
// Each direction carries at most one in-flight descriptor: a newer push or
// request supersedes a stale pending one, it never queues behind it. The only
// blocking paths are the two Request* calls, and both are bounded by the
// configured timeout.
package clipboard

import (
	"sync"
	"time"

	"github.com/bnema/vmview/internal/logger"
)

// Side identifies which end owns a descriptor.
type Side int

const (
	SideHost Side = iota
	SideGuest
)

func (s Side) String() string {
	if s == SideGuest {
		return "guest"
	}
	return "host"
}

// Well-known descriptor formats. The payload is opaque to the bridge.
const (
	FormatText  = "text/plain"
	FormatImage = "image/png"
)

// Descriptor is an opaque content handle for the current clipboard payload,
// owned by whichever side last produced it.
type Descriptor struct {
	Origin Side
	Format string
	Data   []byte
	Serial uint64
}

// State is the bridge protocol state.
type State int

const (
	StateIdle State = iota
	StateAwaitingHostData
	StateAwaitingGuestData
)

func (s State) String() string {
	switch s {
	case StateAwaitingHostData:
		return "awaiting-host-data"
	case StateAwaitingGuestData:
		return "awaiting-guest-data"
	default:
		return "idle"
	}
}

// pending is a single outstanding blocking request for one direction. A new
// request replaces the previous pending, whose channel is abandoned: a
// late-arriving stale descriptor has nowhere to be delivered.
type pending struct {
	ch chan *Descriptor
}

// Bridge implements the host/guest clipboard handshake.
//
// Push* calls are non-blocking and may come from any goroutine. Request*
// calls block their caller (bounded by the timeout) and must not run on the
// UI event loop.
type Bridge struct {
	mu      sync.Mutex
	timeout time.Duration
	serial  uint64

	hostContent  *Descriptor // latest host-owned descriptor
	guestContent *Descriptor // latest guest-owned descriptor

	awaitingHost  *pending
	awaitingGuest *pending

	// requestHost asks the host-side supplier to produce the pasteboard
	// contents; requestGuest asks the guest device. Both are fire-and-forget.
	requestHost  func()
	requestGuest func()

	// toGuest and toHost deliver pushed descriptors to the opposite side.
	toGuest func(*Descriptor)
	toHost  func(*Descriptor)
}

// NewBridge creates a bridge whose blocking requests give up after timeout.
func NewBridge(timeout time.Duration) *Bridge {
	return &Bridge{timeout: timeout}
}

// OnHostRequest registers the host-side supplier trigger.
func (b *Bridge) OnHostRequest(fn func()) { b.requestHost = fn }

// OnGuestRequest registers the guest-side supplier trigger.
func (b *Bridge) OnGuestRequest(fn func()) { b.requestGuest = fn }

// OnPushToGuest registers the delivery callback for host-owned content.
func (b *Bridge) OnPushToGuest(fn func(*Descriptor)) { b.toGuest = fn }

// OnPushToHost registers the delivery callback for guest-owned content.
func (b *Bridge) OnPushToHost(fn func(*Descriptor)) { b.toHost = fn }

// State returns the current protocol state.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case b.awaitingHost != nil:
		return StateAwaitingHostData
	case b.awaitingGuest != nil:
		return StateAwaitingGuestData
	default:
		return StateIdle
	}
}

// PushHostContent records fresh host-owned content and forwards it to the
// guest. It replaces, never queues behind, any prior host descriptor, and
// satisfies an outstanding host-data request if one is waiting.
func (b *Bridge) PushHostContent(format string, data []byte) {
	b.push(SideHost, format, data)
}

// PushGuestContent records fresh guest-owned content and forwards it to the
// host pasteboard.
func (b *Bridge) PushGuestContent(format string, data []byte) {
	b.push(SideGuest, format, data)
}

func (b *Bridge) push(origin Side, format string, data []byte) {
	b.mu.Lock()
	b.serial++
	d := &Descriptor{Origin: origin, Format: format, Data: data, Serial: b.serial}

	var deliver func(*Descriptor)
	var waiter *pending
	if origin == SideHost {
		b.hostContent = d
		deliver = b.toGuest
		waiter = b.awaitingHost
		b.awaitingHost = nil
	} else {
		b.guestContent = d
		deliver = b.toHost
		waiter = b.awaitingGuest
		b.awaitingGuest = nil
	}
	b.mu.Unlock()

	if waiter != nil {
		waiter.ch <- d
	}
	if deliver != nil {
		deliver(d)
	}
	logger.Debugf("Clipboard push from %s (%s, %d bytes, serial %d)",
		origin, format, len(data), d.Serial)
}

// RequestHostContent returns the current host clipboard content on behalf of
// the guest. If the host already owns a descriptor it is returned
// immediately; otherwise the host supplier is triggered and the call blocks
// until content arrives or the timeout elapses. A timeout means "no data
// available", not an error, and leaves the bridge idle.
func (b *Bridge) RequestHostContent() (*Descriptor, bool) {
	return b.request(SideHost)
}

// RequestGuestContent is the symmetric host-initiated request, used when a
// host paste needs the guest's clipboard.
func (b *Bridge) RequestGuestContent() (*Descriptor, bool) {
	return b.request(SideGuest)
}

func (b *Bridge) request(from Side) (*Descriptor, bool) {
	b.mu.Lock()
	var have *Descriptor
	if from == SideHost {
		have = b.hostContent
	} else {
		have = b.guestContent
	}
	if have != nil {
		b.mu.Unlock()
		return have, true
	}

	// Supersede any outstanding request for this direction; the abandoned
	// waiter times out on its own channel and its descriptor is never
	// delivered late.
	p := &pending{ch: make(chan *Descriptor, 1)}
	var trigger func()
	if from == SideHost {
		b.awaitingHost = p
		trigger = b.requestHost
	} else {
		b.awaitingGuest = p
		trigger = b.requestGuest
	}
	b.mu.Unlock()

	if trigger != nil {
		trigger()
	}

	timer := time.NewTimer(b.timeout)
	defer timer.Stop()

	select {
	case d := <-p.ch:
		return d, true
	case <-timer.C:
		b.mu.Lock()
		if from == SideHost && b.awaitingHost == p {
			b.awaitingHost = nil
		} else if from == SideGuest && b.awaitingGuest == p {
			b.awaitingGuest = nil
		}
		b.mu.Unlock()
		logger.Debugf("Clipboard request for %s data timed out", from)
		return nil, false
	}
}
