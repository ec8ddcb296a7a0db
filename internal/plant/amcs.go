package plant

import (
	"fmt"

	"domebridge/internal/kinematics"
	"domebridge/internal/protocol"
)

// AMCS is the azimuth motion control subsystem state machine.
type AMCS struct {
	state protocol.MotionState

	startPosition  float64
	targetPosition float64
	actualPosition float64
	actualVelocity float64
	crawlVelocity  float64
	commandTimeTai float64
	profile        *kinematics.Trapezoidal
	parking        bool

	jmax, amax, vmax float64

	fansSpeed    float64 // percent
	inflated     bool
	inflateState protocol.MotionState

	drivesInError [protocol.AMCSNumMotors]bool
	messages      []string
	mode          protocol.OperationalMode

	// onCoolingStart/onCoolingStop bridge the AMCS->ThCS signal crossing
	// described in spec.md Design Notes: the dispatcher wires these, never
	// AMCS calling ThCS directly.
	onCoolingStart func(tai float64)
	onCoolingStop  func(tai float64)
}

func newAMCS(startTai float64) *AMCS {
	return &AMCS{
		state:        protocol.StateStationary,
		inflateState: protocol.StateDeflated,
		jmax:         protocol.AMCSJmax,
		amax:         protocol.AMCSAmax,
		vmax:         protocol.AMCSVmax,
		mode:         protocol.ModeNormal,
		commandTimeTai: startTai,
	}
}

// MoveAz accepts a moveAz/park command. position and crawlVelocity are in
// radians and radians/second respectively, already unwrapped to [0, 2pi).
func (a *AMCS) MoveAz(position, crawlVelocity, tai float64, parking bool) (float64, error) {
	if a.state == protocol.StateError {
		return 0, ErrBadState
	}
	if crawlVelocity < -a.vmax || crawlVelocity > a.vmax {
		return 0, fmt.Errorf("%w: crawl velocity out of range", ErrBadParameters)
	}

	delta := kinematics.ShortestDelta(a.actualPosition, position)
	dir := 1.0
	if delta < 0 {
		dir = -1.0
	}
	distance := delta * dir

	a.startPosition = a.actualPosition
	a.targetPosition = position
	a.crawlVelocity = crawlVelocity
	a.commandTimeTai = tai
	a.parking = parking
	a.profile = kinematics.NewTrapezoidal(a.startPosition, a.startPosition+dir*distance, crawlVelocity, tai, distance, dir, a.vmax, a.amax, a.jmax)
	if parking {
		a.state = protocol.StateParking
	} else {
		a.state = protocol.StateMoving
	}
	return a.profile.Duration(), nil
}

// CrawlAz starts an indefinite crawl at the given velocity from the current
// position.
func (a *AMCS) CrawlAz(velocity, tai float64) (float64, error) {
	if a.state == protocol.StateError {
		return 0, ErrBadState
	}
	if velocity < -a.vmax || velocity > a.vmax {
		return 0, fmt.Errorf("%w: crawl velocity out of range", ErrBadParameters)
	}
	a.startPosition = a.actualPosition
	a.targetPosition = a.actualPosition
	a.crawlVelocity = velocity
	a.commandTimeTai = tai
	a.parking = false
	a.profile = kinematics.NewTrapezoidal(a.startPosition, a.startPosition, velocity, tai, 0, 1, a.vmax, a.amax, a.jmax)
	a.state = protocol.StateCrawling
	return 0, nil
}

// StopAz halts motion immediately and settles into Stationary with brakes
// engaged and motor power off (those intermediate states are collapsed, see
// DESIGN.md).
func (a *AMCS) StopAz(tai float64) (float64, error) {
	a.settle(tai)
	return 0, nil
}

func (a *AMCS) settle(tai float64) {
	a.recomputeMotion(tai)
	a.crawlVelocity = 0
	a.actualVelocity = 0
	a.profile = nil
	if a.parking {
		a.state = protocol.StateParked
	} else {
		a.state = protocol.StateStationary
	}
	a.parking = false
}

// SetZeroAz rezeros the azimuth encoder. Only permitted when fully stopped.
func (a *AMCS) SetZeroAz(tai float64) (float64, error) {
	if a.state != protocol.StateStationary && a.state != protocol.StateParked {
		return 0, fmt.Errorf("%w: setZeroAz requires AMCS stopped with brakes engaged", ErrBadState)
	}
	a.startPosition = 0
	a.targetPosition = 0
	a.actualPosition = 0
	return 0, nil
}

// Inflate toggles the inflatable seal.
func (a *AMCS) Inflate(on bool) (float64, error) {
	if on {
		a.inflated = true
		a.inflateState = protocol.StateInflated
	} else {
		a.inflated = false
		a.inflateState = protocol.StateDeflated
	}
	return 0, nil
}

// Fans sets the fan speed percentage, which draws power whenever nonzero.
func (a *AMCS) Fans(speed float64) (float64, error) {
	if speed < 0 || speed > 100 {
		return 0, fmt.Errorf("%w: fan speed out of range", ErrBadParameters)
	}
	a.fansSpeed = speed
	return 0, nil
}

// SetFault marks the given drives (by index, 0..4) as errored and forces the
// subsystem into Error.
func (a *AMCS) SetFault(drives [protocol.AMCSNumMotors]bool) {
	for i, v := range drives {
		if v {
			a.drivesInError[i] = true
		}
	}
	a.state = protocol.StateError
	a.messages = append(a.messages, "drive fault")
}

// ResetDrivesAz clears the error flag on each drive where reset[i] is true.
func (a *AMCS) ResetDrivesAz(reset [protocol.AMCSNumMotors]bool) (float64, error) {
	for i, v := range reset {
		if v {
			a.drivesInError[i] = false
		}
	}
	return 0, nil
}

// ExitFaultAz clears Error only once every drive's error flag has been reset.
func (a *AMCS) ExitFaultAz(tai float64) (float64, error) {
	for _, errored := range a.drivesInError {
		if errored {
			return 0, fmt.Errorf("%w: drive(s) still in error", ErrBadState)
		}
	}
	a.state = protocol.StateStationary
	a.messages = nil
	a.commandTimeTai = tai
	return 0, nil
}

// SetOperationalMode switches Normal/Degraded.
func (a *AMCS) SetOperationalMode(mode protocol.OperationalMode) {
	a.mode = mode
}

func (a *AMCS) recomputeMotion(tai float64) {
	if a.profile == nil {
		return
	}
	elapsed := tai - a.commandTimeTai
	position, velocity, phase := a.profile.Evaluate(elapsed)
	a.actualPosition = kinematics.WrapTwoPi(position)
	a.actualVelocity = velocity

	if phase == kinematics.PhaseDone {
		if a.crawlVelocity == 0 {
			a.settleAt(tai)
		} else {
			a.state = protocol.StateCrawling
		}
	} else {
		if a.parking {
			a.state = protocol.StateParking
		} else {
			a.state = protocol.StateMoving
		}
	}
}

func (a *AMCS) settleAt(tai float64) {
	a.actualVelocity = 0
	a.profile = nil
	if a.parking {
		a.state = protocol.StateParked
	} else {
		a.state = protocol.StateStationary
	}
	a.parking = false
}

// DriveCurrent reports the per-motor current draw given the current motion
// state.
func (a *AMCS) driveCurrent() [protocol.AMCSNumMotors]float64 {
	var cur float64
	switch a.state {
	case protocol.StateMoving, protocol.StateParking:
		cur = protocol.AMCSCurrentPerMotorMoving
	case protocol.StateCrawling:
		cur = protocol.AMCSCurrentPerMotorCrawling
	}
	var out [protocol.AMCSNumMotors]float64
	for i := range out {
		out[i] = cur
	}
	return out
}

// PowerDraw reports the rotating-part power this subsystem currently pulls:
// FansPowerDraw while the fans run, otherwise 0. Drive current is not
// counted, per spec.md 4.4.3.
func (a *AMCS) PowerDraw() float64 {
	if a.fansSpeed > 0 {
		return protocol.FansPowerDraw
	}
	return 0
}

// DetermineStatus advances the state machine to currentTai and returns a
// telemetry snapshot. onCoolingStart/onCoolingStop are invoked when the state
// changes into StartingMotorCooling/StoppingMotorCooling, bridging to ThCS;
// no AMCS command or motion step enters those states, so the hooks do not
// fire from AMCS motion alone.
func (a *AMCS) DetermineStatus(currentTai float64) map[string]any {
	prevState := a.state
	a.recomputeMotion(currentTai)

	if prevState != a.state {
		if a.state == protocol.StateStartingMotorCooling && a.onCoolingStart != nil {
			a.onCoolingStart(currentTai)
		}
		if a.state == protocol.StateStoppingMotorCooling && a.onCoolingStop != nil {
			a.onCoolingStop(currentTai)
		}
	}

	current := a.driveCurrent()
	currents := make([]float64, len(current))
	for i, c := range current {
		currents[i] = c
	}

	return map[string]any{
		"status": map[string]any{
			"messages":        faultMessages(a.messages),
			"status":          string(a.state),
			"operationalMode": string(a.mode),
		},
		"positionActual":    a.actualPosition,
		"positionCommanded": a.targetPosition,
		"velocityActual":    a.actualVelocity,
		"velocityCommanded": a.crawlVelocity,
		"driveCurrent":      currents,
		"fans":              a.fansSpeed,
		"inflate":           string(a.inflateState),
		"powerDraw":         a.PowerDraw(),
		"timestampUTC":      currentTai,
	}
}

func faultMessages(msgs []string) []map[string]any {
	if len(msgs) == 0 {
		return []map[string]any{}
	}
	out := make([]map[string]any, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, map[string]any{"code": 1, "description": m})
	}
	return out
}
