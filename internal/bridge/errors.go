package bridge

import "fmt"

// Sentinel errors every DomeBridge method wraps with fmt.Errorf("%w: ...")
// so callers can errors.Is against a stable set, mirroring dome.ErrNotConnected
// in the teacher repo.
var (
	ErrNotConnected        = fmt.Errorf("dome bridge: not connected")
	ErrAlreadyConnected    = fmt.Errorf("dome bridge: already connected")
	ErrBadParameters       = fmt.Errorf("dome bridge: bad parameters")
	ErrBadState            = fmt.Errorf("dome bridge: bad state")
	ErrUnsupported         = fmt.Errorf("dome bridge: unsupported")
	ErrRotatingNotReceived = fmt.Errorf("dome bridge: rotating part did not receive command")
	ErrRotatingNotReplied  = fmt.Errorf("dome bridge: rotating part did not reply")
	ErrTimeout             = fmt.Errorf("dome bridge: reply timeout")
)

// errForResponse maps a wire ResponseCode to one of the sentinels above.
func errForResponse(code int) error {
	switch code {
	case 0:
		return nil
	case 1:
		return ErrNotConnected
	case 2:
		return ErrUnsupported
	case 3:
		return ErrBadParameters
	case 4:
		return fmt.Errorf("%w: bad source", ErrBadParameters)
	case 5:
		return ErrBadState
	case 6:
		return ErrRotatingNotReceived
	case 7:
		return ErrRotatingNotReplied
	default:
		return fmt.Errorf("dome bridge: unknown response code %d", code)
	}
}
