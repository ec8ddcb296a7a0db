package plant

import (
	"errors"
	"fmt"
	"math"

	"domebridge/internal/protocol"
)

// Dispatch routes one decoded command to the owning subsystem and returns
// the timeout value the reply should carry. Status-request commands are
// handled by the caller directly against DetermineStatus, not through here.
func (p *MockPlant) Dispatch(cmd protocol.CommandName, params map[string]any, tai float64) (float64, error) {
	switch cmd {
	case protocol.CmdMoveAz:
		pos, err := paramFloat(params, "position")
		if err != nil {
			return 0, err
		}
		vel := paramFloatOr(params, "velocity", 0)
		return p.amcs.MoveAz(wrapAzDegrees(pos), vel, tai, false)

	case protocol.CmdPark:
		return p.amcs.MoveAz(protocol.AMCSParkPosition, 0, tai, true)

	case protocol.CmdCrawlAz:
		vel, err := paramFloat(params, "velocity")
		if err != nil {
			return 0, err
		}
		return p.amcs.CrawlAz(vel, tai)

	case protocol.CmdStopAz:
		return p.amcs.StopAz(tai)

	case protocol.CmdGoStationaryAz:
		return p.amcs.StopAz(tai)

	case protocol.CmdSetZeroAz:
		return p.amcs.SetZeroAz(tai)

	case protocol.CmdInflate:
		on := paramBoolOr(params, "action", false)
		return p.amcs.Inflate(on)

	case protocol.CmdFans:
		speed, err := paramFloat(params, "speed")
		if err != nil {
			return 0, err
		}
		return p.amcs.Fans(speed)

	case protocol.CmdResetDrivesAz:
		reset, err := paramBoolArray5(params, "reset")
		if err != nil {
			return 0, err
		}
		return p.amcs.ResetDrivesAz(reset)

	case protocol.CmdExitFaultAz:
		return p.amcs.ExitFaultAz(tai)

	case protocol.CmdSetNormalAz:
		p.amcs.SetOperationalMode(protocol.ModeNormal)
		return 0, nil
	case protocol.CmdSetDegradedAz:
		p.amcs.SetOperationalMode(protocol.ModeDegraded)
		return 0, nil

	case protocol.CmdMoveEl:
		pos, err := paramFloat(params, "position")
		if err != nil {
			return 0, err
		}
		return p.lwscs.MoveEl(pos, tai)

	case protocol.CmdCrawlEl:
		vel, err := paramFloat(params, "velocity")
		if err != nil {
			return 0, err
		}
		return p.lwscs.CrawlEl(vel, tai)

	case protocol.CmdStopEl, protocol.CmdGoStationaryEl:
		return p.lwscs.StopEl(tai)

	case protocol.CmdExitFaultEl:
		return p.lwscs.ExitFaultEl(tai)

	case protocol.CmdSetNormalEl:
		p.lwscs.SetOperationalMode(protocol.ModeNormal)
		return 0, nil
	case protocol.CmdSetDegradedEl:
		p.lwscs.SetOperationalMode(protocol.ModeDegraded)
		return 0, nil

	case protocol.CmdOpenShutter:
		return p.apscs.OpenShutter(tai)
	case protocol.CmdCloseShutter:
		return p.apscs.CloseShutter(tai)
	case protocol.CmdStopShutter, protocol.CmdGoStationaryShutter:
		return p.apscs.StopShutter(tai)
	case protocol.CmdHome:
		return p.apscs.Home(tai)
	case protocol.CmdResetDrivesShutter:
		reset, err := paramBoolArray4(params, "reset")
		if err != nil {
			return 0, err
		}
		return p.apscs.ResetDrivesShutter(reset)
	case protocol.CmdExitFaultShutter:
		return p.apscs.ExitFaultShutter(tai)
	case protocol.CmdSetNormalShutter:
		p.apscs.SetOperationalMode(protocol.ModeNormal)
		return 0, nil
	case protocol.CmdSetDegradedShutter:
		p.apscs.SetOperationalMode(protocol.ModeDegraded)
		return 0, nil

	case protocol.CmdSetLouvers:
		targets, err := paramFloatSlice(params, "position")
		if err != nil {
			return 0, err
		}
		return p.lcs.SetLouvers(targets, tai)
	case protocol.CmdCloseLouvers:
		return p.lcs.CloseLouvers(tai)
	case protocol.CmdStopLouvers, protocol.CmdGoStationaryLouvers:
		return p.lcs.StopLouvers(tai)
	case protocol.CmdExitFaultLouvers:
		return p.lcs.ExitFaultLouvers(tai)
	case protocol.CmdSetNormalLouvers:
		p.lcs.SetOperationalMode(protocol.ModeNormal)
		return 0, nil
	case protocol.CmdSetDegradedLouvers:
		p.lcs.SetOperationalMode(protocol.ModeDegraded)
		return 0, nil

	case protocol.CmdSetTemperature:
		celsius, err := paramFloat(params, "temperature")
		if err != nil {
			return 0, err
		}
		return p.thcs.SetTemperature(celsius)
	case protocol.CmdExitFaultThermal:
		return p.thcs.ExitFaultThermal(tai)
	case protocol.CmdSetNormalThermal:
		p.thcs.SetOperationalMode(protocol.ModeNormal)
		return 0, nil
	case protocol.CmdSetDegradedThermal:
		p.thcs.SetOperationalMode(protocol.ModeDegraded)
		return 0, nil

	case protocol.CmdSetNormalMonitoring:
		p.moncs.SetOperationalMode(protocol.ModeNormal)
		return 0, nil
	case protocol.CmdSetDegradedMonitoring:
		p.moncs.SetOperationalMode(protocol.ModeDegraded)
		return 0, nil

	case protocol.CmdConfig:
		return 0, p.applyConfig(params)

	case protocol.CmdRestore:
		// Accepted as a no-op: see DESIGN.md Open Question resolution.
		return 0, nil

	default:
		return 0, ErrUnsupported
	}
}

// wrapAzDegrees normalizes a commanded azimuth already given in radians;
// kept as a named seam because the bridge, not the plant, owns the
// degrees<->radians and dome-azimuth-offset conversion (spec.md 4.4.4).
func wrapAzDegrees(radiansPos float64) float64 {
	wrapped := math.Mod(radiansPos, 2*math.Pi)
	if wrapped < 0 {
		wrapped += 2 * math.Pi
	}
	return wrapped
}

func (p *MockPlant) applyConfig(params map[string]any) error {
	system, _ := params["system"].(string)
	sub := protocol.Subsystem(system)
	settings, _ := params["settings"].([]any)
	for _, raw := range settings {
		entry, _ := raw.(map[string]any)
		target, _ := entry["target"].(string)
		value, ok := entry["setting"].(float64)
		if !ok {
			return fmt.Errorf("%w: config setting missing numeric value", ErrBadParameters)
		}
		if err := p.applyLimit(sub, target, value); err != nil {
			return err
		}
	}
	return nil
}

func (p *MockPlant) applyLimit(sub protocol.Subsystem, target string, value float64) error {
	switch sub {
	case protocol.AMCS:
		switch target {
		case "jmax":
			p.amcs.jmax = value
		case "amax":
			p.amcs.amax = value
		case "vmax":
			p.amcs.vmax = value
		default:
			return errors.New("config: unknown AMCS target " + target)
		}
	case protocol.LWSCS:
		switch target {
		case "jmax":
			p.lwscs.jmax = value
		case "amax":
			p.lwscs.amax = value
		case "vmax":
			p.lwscs.vmax = value
		default:
			return errors.New("config: unknown LWSCS target " + target)
		}
	default:
		return fmt.Errorf("%w: subsystem %q has no configurable limits", ErrUnsupported, sub)
	}
	return nil
}
