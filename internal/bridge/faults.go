package bridge

import (
	"fmt"

	"domebridge/internal/protocol"
)

// SubsystemMask is a bitmask over protocol.AllSubsystems's fixed order,
// used by ExitFault and SetOperationalMode to address more than one
// subsystem in a single bridge-level call.
type SubsystemMask uint16

// Includes reports whether sub's bit is set.
func (m SubsystemMask) Includes(sub protocol.Subsystem) bool {
	for i, s := range protocol.AllSubsystems {
		if s == sub {
			return m&(1<<uint(i)) != 0
		}
	}
	return false
}

// MaskFor builds a SubsystemMask from a list of subsystems.
func MaskFor(subs ...protocol.Subsystem) SubsystemMask {
	var m SubsystemMask
	for _, sub := range subs {
		for i, s := range protocol.AllSubsystems {
			if s == sub {
				m |= 1 << uint(i)
			}
		}
	}
	return m
}

// ExitFault clears Error on every subsystem named in mask. For AMCS and
// APSCS, resetDrives* is issued first so exitFault* does not immediately
// re-fail on a still-set drive error flag, per spec.md's fault-recovery
// sequencing.
func (b *DomeBridge) ExitFault(mask SubsystemMask) error {
	if mask.Includes(protocol.AMCS) {
		if err := b.ResetDrivesAz([protocol.AMCSNumMotors]bool{true, true, true, true, true}); err != nil {
			return fmt.Errorf("exit fault: reset AMCS drives: %w", err)
		}
		if err := b.ExitFaultAz(); err != nil {
			return fmt.Errorf("exit fault: AMCS: %w", err)
		}
	}
	if mask.Includes(protocol.APSCS) {
		if err := b.ResetDrivesShutter([protocol.APSCSNumShutters * protocol.APSCSNumMotorsPerShutter]bool{true, true, true, true}); err != nil {
			return fmt.Errorf("exit fault: reset shutter drives: %w", err)
		}
		if err := b.ExitFaultShutter(); err != nil {
			return fmt.Errorf("exit fault: APSCS: %w", err)
		}
	}
	if mask.Includes(protocol.LWSCS) {
		if err := b.ExitFaultEl(); err != nil {
			return fmt.Errorf("exit fault: LWSCS: %w", err)
		}
	}
	if mask.Includes(protocol.LCS) {
		if err := b.ExitFaultLouvers(); err != nil {
			return fmt.Errorf("exit fault: LCS: %w", err)
		}
	}
	if mask.Includes(protocol.ThCS) {
		if err := b.ExitFaultThermal(); err != nil {
			return fmt.Errorf("exit fault: ThCS: %w", err)
		}
	}
	return nil
}

// Home homes the aperture shutters; spec.md restricts `home` to APSCS, so
// this takes no mask.
func (b *DomeBridge) Home() error {
	return b.send(protocol.CmdHome, nil, false)
}

// SetOperationalMode dispatches setNormal*/setDegraded* to every subsystem
// named in mask.
func (b *DomeBridge) SetOperationalMode(mask SubsystemMask, mode protocol.OperationalMode) error {
	type target struct {
		sub    protocol.Subsystem
		normal protocol.CommandName
		degraded protocol.CommandName
	}
	targets := []target{
		{protocol.AMCS, protocol.CmdSetNormalAz, protocol.CmdSetDegradedAz},
		{protocol.LWSCS, protocol.CmdSetNormalEl, protocol.CmdSetDegradedEl},
		{protocol.APSCS, protocol.CmdSetNormalShutter, protocol.CmdSetDegradedShutter},
		{protocol.LCS, protocol.CmdSetNormalLouvers, protocol.CmdSetDegradedLouvers},
		{protocol.ThCS, protocol.CmdSetNormalThermal, protocol.CmdSetDegradedThermal},
		{protocol.MonCS, protocol.CmdSetNormalMonitoring, protocol.CmdSetDegradedMonitoring},
	}
	for _, t := range targets {
		if !mask.Includes(t.sub) {
			continue
		}
		name := t.normal
		if mode == protocol.ModeDegraded {
			name = t.degraded
		}
		if err := b.send(name, nil, false); err != nil {
			return fmt.Errorf("set operational mode: %s: %w", t.sub, err)
		}
	}
	return nil
}

// ConfigLlcs validates and sends motion limits for a configurable
// subsystem (AMCS, LWSCS), converting degrees to radians before transmit.
func (b *DomeBridge) ConfigLlcs(sub protocol.Subsystem, jmaxDeg, amaxDeg, vmaxDeg float64) error {
	if jmaxDeg <= 0 || amaxDeg <= 0 || vmaxDeg <= 0 {
		return fmt.Errorf("%w: motion limits must be positive", ErrBadParameters)
	}
	settings := []any{
		map[string]any{"target": "jmax", "setting": degToRad(jmaxDeg)},
		map[string]any{"target": "amax", "setting": degToRad(amaxDeg)},
		map[string]any{"target": "vmax", "setting": degToRad(vmaxDeg)},
	}
	return b.send(protocol.CmdConfig, map[string]any{"system": string(sub), "settings": settings}, false)
}
