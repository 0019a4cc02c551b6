package clipboard

import (
	"context"
	"sync"
	"time"

	"github.com/atotto/clipboard"

	"github.com/bnema/vmview/internal/logger"
)

// HostBoard adapts the host system clipboard to the bridge. It polls for
// host-side changes (the host gives no change notification we can rely on
// everywhere) and writes guest-owned content back out.
type HostBoard struct {
	bridge   *Bridge
	interval time.Duration

	mu   sync.Mutex
	last string // last content seen or written, to suppress echo
}

// NewHostBoard wires a host pasteboard poller to the bridge. Guest pushes are
// written to the host clipboard; host changes are pushed to the guest; host
// supplier requests are answered with a fresh read.
func NewHostBoard(bridge *Bridge, interval time.Duration) *HostBoard {
	hb := &HostBoard{bridge: bridge, interval: interval}
	bridge.OnPushToHost(hb.write)
	bridge.OnHostRequest(hb.supply)
	return hb
}

// Run polls the host clipboard until the context is canceled. Runs on its own
// goroutine; all bridge interaction is non-blocking.
func (h *HostBoard) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.poll()
		}
	}
}

func (h *HostBoard) poll() {
	text, err := clipboard.ReadAll()
	if err != nil {
		logger.Debugf("Host clipboard read failed: %v", err)
		return
	}

	h.mu.Lock()
	changed := text != h.last && text != ""
	if changed {
		h.last = text
	}
	h.mu.Unlock()

	if changed {
		h.bridge.PushHostContent(FormatText, []byte(text))
	}
}

// supply answers a guest-initiated request with the current host content.
func (h *HostBoard) supply() {
	go func() {
		text, err := clipboard.ReadAll()
		if err != nil || text == "" {
			// Nothing to supply; the requester's bounded wait expires.
			return
		}
		h.mu.Lock()
		h.last = text
		h.mu.Unlock()
		h.bridge.PushHostContent(FormatText, []byte(text))
	}()
}

// write places guest-owned content on the host clipboard.
func (h *HostBoard) write(d *Descriptor) {
	if d.Format != FormatText {
		logger.Debugf("Host clipboard keeps text only, dropping %s payload", d.Format)
		return
	}
	text := string(d.Data)

	h.mu.Lock()
	h.last = text
	h.mu.Unlock()

	if err := clipboard.WriteAll(text); err != nil {
		logger.Warnf("Host clipboard write failed: %v", err)
	}
}
