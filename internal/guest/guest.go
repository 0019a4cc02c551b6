// Package guest declares the contracts the emulated guest devices expose to
// the bridge, plus demo sinks for running without a VM.
package guest

import (
	"github.com/bnema/vmview/internal/input"
	"github.com/bnema/vmview/internal/logger"
)

// InputSink is the guest input-device submission surface.
type InputSink interface {
	input.Sink

	// PointerAbsolute reports the guest's current pointing-device model.
	// Sampled at refresh boundaries only; see input.GrabController.
	PointerAbsolute() bool

	Close() error
}

// ClipboardDevice receives host-owned clipboard content pushed to the guest.
type ClipboardDevice interface {
	PushContent(format string, data []byte)
}

// LogClipboard is a ClipboardDevice that only logs received content.
type LogClipboard struct{}

func (LogClipboard) PushContent(format string, data []byte) {
	logger.Debugf("guest clipboard received %s (%d bytes)", format, len(data))
}

// LogSink is an InputSink that only logs, for hosts without an injection
// backend and for demos.
type LogSink struct {
	Absolute bool
}

func (s *LogSink) SubmitKeyEvent(code input.Scancode, pressed bool) error {
	logger.Debugf("guest key 0x%x pressed=%v", uint32(code), pressed)
	return nil
}

func (s *LogSink) SubmitPointerEvent(x, y int32, buttons input.Button, absolute bool) error {
	logger.Debugf("guest pointer (%d,%d) buttons=%b absolute=%v", x, y, buttons, absolute)
	return nil
}

func (s *LogSink) PointerAbsolute() bool { return s.Absolute }

func (s *LogSink) Close() error { return nil }
