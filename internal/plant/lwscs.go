package plant

import (
	"fmt"
	"math"

	"domebridge/internal/kinematics"
	"domebridge/internal/protocol"
)

// LWSCS is the light/wind screen elevation subsystem. Unlike AMCS it moves
// along a bounded linear range and never wraps.
type LWSCS struct {
	state protocol.MotionState

	startPosition  float64
	targetPosition float64
	actualPosition float64
	actualVelocity float64
	commandTimeTai float64
	profile        *kinematics.Trapezoidal

	jmax, amax, vmax float64

	drivesInError [protocol.LWSCSNumMotors]bool
	messages      []string
	mode          protocol.OperationalMode
}

func newLWSCS(startTai float64) *LWSCS {
	return &LWSCS{
		state:          protocol.StateStationary,
		jmax:           protocol.LWSCSJmax,
		amax:           protocol.LWSCSAmax,
		vmax:           protocol.LWSCSVmax,
		mode:           protocol.ModeNormal,
		commandTimeTai: startTai,
	}
}

// MoveEl drives the elevation screen to a bounded target position (radians).
func (l *LWSCS) MoveEl(position, tai float64) (float64, error) {
	if l.state == protocol.StateError {
		return 0, ErrBadState
	}
	if position < protocol.LWSCSMinPosition || position > protocol.LWSCSMaxPosition {
		return 0, fmt.Errorf("%w: target position out of range", ErrBadParameters)
	}
	l.startPosition = l.actualPosition
	l.targetPosition = position
	l.commandTimeTai = tai
	dir := 1.0
	distance := position - l.actualPosition
	if distance < 0 {
		dir = -1.0
		distance = -distance
	}
	l.profile = kinematics.NewTrapezoidal(l.startPosition, position, 0, tai, distance, dir, l.vmax, l.amax, l.jmax)
	l.state = protocol.StateMoving
	return l.profile.Duration(), nil
}

// CrawlEl moves indefinitely at a constant signed velocity, clamped at the
// travel limits.
func (l *LWSCS) CrawlEl(velocity, tai float64) (float64, error) {
	if l.state == protocol.StateError {
		return 0, ErrBadState
	}
	if velocity < -l.vmax || velocity > l.vmax {
		return 0, fmt.Errorf("%w: crawl velocity out of range", ErrBadParameters)
	}
	if velocity == 0 {
		return l.StopEl(tai)
	}
	l.startPosition = l.actualPosition
	if velocity >= 0 {
		l.targetPosition = protocol.LWSCSMaxPosition
	} else {
		l.targetPosition = protocol.LWSCSMinPosition
	}
	l.commandTimeTai = tai
	dir := 1.0
	if velocity < 0 {
		dir = -1.0
	}
	distance := (l.targetPosition - l.startPosition) * dir
	l.profile = kinematics.NewTrapezoidal(l.startPosition, l.targetPosition, velocity, tai, distance, dir, math.Abs(velocity), l.amax, l.jmax)
	l.state = protocol.StateCrawling
	return 0, nil
}

// StopEl halts immediately, holding the current position.
func (l *LWSCS) StopEl(tai float64) (float64, error) {
	l.recomputeMotion(tai)
	l.profile = nil
	l.actualVelocity = 0
	l.state = protocol.StateStationary
	return 0, nil
}

func (l *LWSCS) recomputeMotion(tai float64) {
	if l.profile == nil {
		return
	}
	elapsed := tai - l.commandTimeTai
	position, velocity, phase := l.profile.Evaluate(elapsed)
	if position < protocol.LWSCSMinPosition {
		position = protocol.LWSCSMinPosition
	}
	if position > protocol.LWSCSMaxPosition {
		position = protocol.LWSCSMaxPosition
	}
	l.actualPosition = position
	l.actualVelocity = velocity
	if phase == kinematics.PhaseDone {
		l.profile = nil
		l.actualVelocity = 0
		l.state = protocol.StateStationary
	} else {
		l.state = protocol.StateMoving
		if velocity == 0 {
			l.state = protocol.StateCrawling
		}
	}
}

// SetFault marks drives errored and forces Error.
func (l *LWSCS) SetFault(drives [protocol.LWSCSNumMotors]bool) {
	for i, v := range drives {
		if v {
			l.drivesInError[i] = true
		}
	}
	l.state = protocol.StateError
	l.messages = append(l.messages, "drive fault")
}

// ExitFaultEl clears Error; LWSCS has no independent resetDrives command, so
// exitFaultEl itself clears the flags (mirroring the reference controller's
// simpler recovery path for this subsystem).
func (l *LWSCS) ExitFaultEl(tai float64) (float64, error) {
	for i := range l.drivesInError {
		l.drivesInError[i] = false
	}
	l.state = protocol.StateStationary
	l.messages = nil
	l.commandTimeTai = tai
	return 0, nil
}

func (l *LWSCS) SetOperationalMode(mode protocol.OperationalMode) {
	l.mode = mode
}

func (l *LWSCS) PowerDraw() float64 {
	switch l.state {
	case protocol.StateMoving, protocol.StateCrawling:
		return protocol.LWSPowerDraw
	default:
		return 0
	}
}

func (l *LWSCS) DetermineStatus(currentTai float64) map[string]any {
	l.recomputeMotion(currentTai)
	return map[string]any{
		"status": map[string]any{
			"messages":        faultMessages(l.messages),
			"status":          string(l.state),
			"operationalMode": string(l.mode),
		},
		"positionActual":    l.actualPosition,
		"positionCommanded": l.targetPosition,
		"velocityActual":    l.actualVelocity,
		"powerDraw":         l.PowerDraw(),
		"timestampUTC":      currentTai,
	}
}
