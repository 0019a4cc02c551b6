//go:build !linux

package guest

import "fmt"

// NewUinputSink is only available on Linux.
func NewUinputSink() (InputSink, error) {
	return nil, fmt.Errorf("uinput injection requires linux")
}
