package bridge

import (
	"time"

	"domebridge/internal/protocol"
)

func (b *DomeBridge) replyTimeout() time.Duration {
	return time.Duration(protocol.CommandReplyTimeout * float64(time.Second))
}

// send is the common path for every public command method: build the
// Command, route power-drawing ones through the scheduler, everything else
// straight to the wire.
func (b *DomeBridge) send(name protocol.CommandName, params map[string]any, powerManaged bool) error {
	cmd := protocol.Command{Name: name, Params: params}
	if powerManaged {
		return b.scheduler.ScheduleCommand(cmd)
	}
	return b.sendImmediately(cmd)
}

// MoveAz commands azimuth to compassDeg at a settle crawl velocity of
// crawlDegPerSec.
func (b *DomeBridge) MoveAz(compassDeg, crawlDegPerSec float64) error {
	return b.send(protocol.CmdMoveAz, map[string]any{
		"position": azimuthToWire(compassDeg, protocol.DomeAzimuthOffsetDeg),
		"velocity": degToRad(crawlDegPerSec),
	}, false)
}

func (b *DomeBridge) CrawlAz(velocityDegPerSec float64) error {
	return b.send(protocol.CmdCrawlAz, map[string]any{"velocity": degToRad(velocityDegPerSec)}, false)
}

func (b *DomeBridge) StopAz() error { return b.send(protocol.CmdStopAz, nil, false) }

func (b *DomeBridge) GoStationaryAz() error { return b.send(protocol.CmdGoStationaryAz, nil, false) }

func (b *DomeBridge) Park() error { return b.send(protocol.CmdPark, nil, false) }

func (b *DomeBridge) SetZeroAz() error { return b.send(protocol.CmdSetZeroAz, nil, false) }

func (b *DomeBridge) Inflate(on bool) error {
	return b.send(protocol.CmdInflate, map[string]any{"action": on}, false)
}

// Fans is power-managed: it is the only AMCS command that contributes to
// rotating-rail draw (spec.md 4.4.3).
func (b *DomeBridge) Fans(speedPercent float64) error {
	return b.send(protocol.CmdFans, map[string]any{"speed": speedPercent}, true)
}

func (b *DomeBridge) ResetDrivesAz(reset [protocol.AMCSNumMotors]bool) error {
	arr := make([]any, len(reset))
	for i, v := range reset {
		arr[i] = v
	}
	return b.send(protocol.CmdResetDrivesAz, map[string]any{"reset": arr}, false)
}

func (b *DomeBridge) ExitFaultAz() error { return b.send(protocol.CmdExitFaultAz, nil, false) }

func (b *DomeBridge) MoveEl(elevationDeg float64) error {
	return b.send(protocol.CmdMoveEl, map[string]any{"position": degToRad(elevationDeg)}, true)
}

func (b *DomeBridge) CrawlEl(velocityDegPerSec float64) error {
	return b.send(protocol.CmdCrawlEl, map[string]any{"velocity": degToRad(velocityDegPerSec)}, true)
}

func (b *DomeBridge) StopEl() error { return b.send(protocol.CmdStopEl, nil, false) }

func (b *DomeBridge) GoStationaryEl() error { return b.send(protocol.CmdGoStationaryEl, nil, false) }

func (b *DomeBridge) ExitFaultEl() error { return b.send(protocol.CmdExitFaultEl, nil, false) }

func (b *DomeBridge) OpenShutter() error { return b.send(protocol.CmdOpenShutter, nil, true) }

func (b *DomeBridge) CloseShutter() error { return b.send(protocol.CmdCloseShutter, nil, true) }

func (b *DomeBridge) StopShutter() error { return b.send(protocol.CmdStopShutter, nil, false) }

func (b *DomeBridge) GoStationaryShutter() error {
	return b.send(protocol.CmdGoStationaryShutter, nil, false)
}

func (b *DomeBridge) ResetDrivesShutter(reset [protocol.APSCSNumShutters * protocol.APSCSNumMotorsPerShutter]bool) error {
	arr := make([]any, len(reset))
	for i, v := range reset {
		arr[i] = v
	}
	return b.send(protocol.CmdResetDrivesShutter, map[string]any{"reset": arr}, false)
}

func (b *DomeBridge) ExitFaultShutter() error { return b.send(protocol.CmdExitFaultShutter, nil, false) }

// SetLouvers moves each of the 34 louvers to its requested percent-open
// target.
func (b *DomeBridge) SetLouvers(targets [protocol.LCSNumLouvers]float64) error {
	arr := make([]any, len(targets))
	for i, v := range targets {
		arr[i] = v
	}
	return b.send(protocol.CmdSetLouvers, map[string]any{"position": arr}, true)
}

func (b *DomeBridge) CloseLouvers() error { return b.send(protocol.CmdCloseLouvers, nil, true) }

func (b *DomeBridge) StopLouvers() error { return b.send(protocol.CmdStopLouvers, nil, false) }

func (b *DomeBridge) GoStationaryLouvers() error {
	return b.send(protocol.CmdGoStationaryLouvers, nil, false)
}

func (b *DomeBridge) ExitFaultLouvers() error { return b.send(protocol.CmdExitFaultLouvers, nil, false) }

func (b *DomeBridge) SetTemperature(celsius float64) error {
	return b.send(protocol.CmdSetTemperature, map[string]any{"temperature": celsius}, false)
}

func (b *DomeBridge) ExitFaultThermal() error { return b.send(protocol.CmdExitFaultThermal, nil, false) }

// Restore is accepted as a no-op, per SPEC_FULL's Open Question resolution.
func (b *DomeBridge) Restore() error { return b.send(protocol.CmdRestore, nil, false) }
