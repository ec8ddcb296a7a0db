package bridge

// connState tracks the lifecycle of the underlying TCP link, carried over
// directly from pkg/drivers/zro/driver.go's connState pattern (there it
// guards an MQTT client handle; here it guards a net.Conn).
type connState int

const (
	connStateDisconnected connState = iota
	connStateConnecting
	connStateConnected
)

func (s connState) String() string {
	switch s {
	case connStateDisconnected:
		return "Disconnected"
	case connStateConnecting:
		return "Connecting"
	case connStateConnected:
		return "Connected"
	default:
		return "Unknown"
	}
}
