package input

// HostHook is an installable host-level interception resource. While
// installed, system-reserved key combinations are delivered to the event
// stream instead of being handled by the host. Its lifetime is tied exactly
// to the grabbed state: acquired on entry, released on exit, on every path.
type HostHook interface {
	Install() error
	Uninstall()
}

// NopHook is a HostHook that does nothing, for hosts without a reserved-key
// interception mechanism and for tests.
type NopHook struct{}

func (NopHook) Install() error { return nil }
func (NopHook) Uninstall()     {}

// FuncHook adapts a pair of functions to the HostHook interface.
type FuncHook struct {
	InstallFunc   func() error
	UninstallFunc func()
}

func (h FuncHook) Install() error {
	if h.InstallFunc == nil {
		return nil
	}
	return h.InstallFunc()
}

func (h FuncHook) Uninstall() {
	if h.UninstallFunc != nil {
		h.UninstallFunc()
	}
}
