package plant

import "fmt"

// Error kinds a subsystem handler can return. The dispatcher maps these to a
// protocol.ResponseCode; it never returns a bare Go error to the wire.
var (
	ErrBadParameters = fmt.Errorf("bad parameters")
	ErrBadState      = fmt.Errorf("bad state")
	ErrUnsupported   = fmt.Errorf("unsupported")
	ErrFaulted       = fmt.Errorf("subsystem is in error state, reset drives first")
)
