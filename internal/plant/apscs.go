package plant

import (
	"domebridge/internal/kinematics"
	"domebridge/internal/protocol"
)

// shutterMotion is one aperture shutter's linear position profile, in
// percent open (0 closed, 100 open).
type shutterMotion struct {
	state   protocol.MotionState
	profile *kinematics.Linear
	tai     float64
	pos     float64
}

// APSCS is the aperture shutter subsystem: two independently driven
// shutters sharing one command (they always move together in this core).
type APSCS struct {
	shutters [protocol.APSCSNumShutters]shutterMotion
	mode     protocol.OperationalMode

	drivesInError [protocol.APSCSNumShutters * protocol.APSCSNumMotorsPerShutter]bool
	messages      []string
}

func newAPSCS(startTai float64) *APSCS {
	a := &APSCS{mode: protocol.ModeNormal}
	for i := range a.shutters {
		a.shutters[i] = shutterMotion{state: protocol.StateClosed, tai: startTai}
	}
	return a
}

func (a *APSCS) anyInError() bool {
	for _, s := range a.shutters {
		if s.state == protocol.StateError {
			return true
		}
	}
	return false
}

// OpenShutter commands both shutters fully open.
func (a *APSCS) OpenShutter(tai float64) (float64, error) {
	if a.anyInError() {
		return 0, ErrBadState
	}
	for i := range a.shutters {
		a.startMove(i, protocol.APSCSOpenPosition, protocol.StateOpening, tai)
	}
	return a.shutters[0].profile.Duration(), nil
}

// CloseShutter commands both shutters fully closed.
func (a *APSCS) CloseShutter(tai float64) (float64, error) {
	if a.anyInError() {
		return 0, ErrBadState
	}
	for i := range a.shutters {
		a.startMove(i, protocol.APSCSClosedPosition, protocol.StateClosing, tai)
	}
	return a.shutters[0].profile.Duration(), nil
}

func (a *APSCS) startMove(i int, target float64, transient protocol.MotionState, tai float64) {
	s := &a.shutters[i]
	s.profile = kinematics.NewLinear(s.pos, target, tai, protocol.APSCSShutterSpeed, protocol.APSCSClosedPosition, protocol.APSCSOpenPosition)
	s.tai = tai
	s.state = transient
}

// StopShutter halts both shutters in place.
func (a *APSCS) StopShutter(tai float64) (float64, error) {
	for i := range a.shutters {
		a.recompute(i, tai)
		a.shutters[i].profile = nil
		if a.shutters[i].pos <= protocol.APSCSClosedPosition {
			a.shutters[i].state = protocol.StateClosed
		} else if a.shutters[i].pos >= protocol.APSCSOpenPosition {
			a.shutters[i].state = protocol.StateOpen
		} else {
			a.shutters[i].state = protocol.StateStopped
		}
	}
	return 0, nil
}

// Home drives both shutters to fully closed, same motion as CloseShutter;
// the distinct command name lets the bridge use Home's reply semantics.
func (a *APSCS) Home(tai float64) (float64, error) {
	return a.CloseShutter(tai)
}

func (a *APSCS) recompute(i int, tai float64) {
	s := &a.shutters[i]
	if s.profile == nil {
		return
	}
	pos, done := s.profile.Evaluate(tai - s.tai)
	s.pos = pos
	if done {
		s.profile = nil
		if pos <= protocol.APSCSClosedPosition {
			s.state = protocol.StateClosed
		} else if pos >= protocol.APSCSOpenPosition {
			s.state = protocol.StateOpen
		} else {
			s.state = protocol.StateStopped
		}
	}
}

// SetFault forces every shutter into Error and marks the given motors.
func (a *APSCS) SetFault(motors [protocol.APSCSNumShutters * protocol.APSCSNumMotorsPerShutter]bool) {
	for i, v := range motors {
		if v {
			a.drivesInError[i] = true
		}
	}
	for i := range a.shutters {
		a.shutters[i].state = protocol.StateError
	}
	a.messages = append(a.messages, "shutter drive fault")
}

// ResetDrivesShutter clears the named motor error flags.
func (a *APSCS) ResetDrivesShutter(reset [protocol.APSCSNumShutters * protocol.APSCSNumMotorsPerShutter]bool) (float64, error) {
	for i, v := range reset {
		if v {
			a.drivesInError[i] = false
		}
	}
	return 0, nil
}

// ExitFaultShutter clears Error only once every motor's flag is reset.
func (a *APSCS) ExitFaultShutter(tai float64) (float64, error) {
	for _, errored := range a.drivesInError {
		if errored {
			return 0, ErrFaulted
		}
	}
	for i := range a.shutters {
		if a.shutters[i].pos <= protocol.APSCSClosedPosition {
			a.shutters[i].state = protocol.StateClosed
		} else {
			a.shutters[i].state = protocol.StateStopped
		}
	}
	a.messages = nil
	return 0, nil
}

func (a *APSCS) SetOperationalMode(mode protocol.OperationalMode) {
	a.mode = mode
}

func (a *APSCS) PowerDraw() float64 {
	for _, s := range a.shutters {
		if s.profile != nil {
			return protocol.APSPowerDraw
		}
	}
	return 0
}

func (a *APSCS) DetermineStatus(currentTai float64) map[string]any {
	positions := make([]float64, len(a.shutters))
	states := make([]string, len(a.shutters))
	for i := range a.shutters {
		a.recompute(i, currentTai)
		positions[i] = roundShutter(a.shutters[i].pos)
		states[i] = string(a.shutters[i].state)
	}
	return map[string]any{
		"status": map[string]any{
			"messages":        faultMessages(a.messages),
			"status":          states,
			"operationalMode": string(a.mode),
		},
		"positionActual": positions,
		"powerDraw":      a.PowerDraw(),
		"timestampUTC":   currentTai,
	}
}

// roundShutter suppresses signed-zero artifacts from the linear profile's
// clamping at the closed end (the reference controller rounds to 0 rather
// than reporting -0).
func roundShutter(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}
