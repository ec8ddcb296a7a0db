package plant

import (
	"fmt"
	"math"

	"domebridge/internal/kinematics"
	"domebridge/internal/protocol"
)

type louverMotion struct {
	pos     float64
	profile *kinematics.Linear
	tai     float64
}

// LCS is the louver subsystem: 34 independently positioned vents, each
// 0 (closed) to 100 (open) percent.
type LCS struct {
	louvers  [protocol.LCSNumLouvers]louverMotion
	state    protocol.MotionState
	mode     protocol.OperationalMode
	messages []string
}

func newLCS(startTai float64) *LCS {
	l := &LCS{state: protocol.StateClosed, mode: protocol.ModeNormal}
	for i := range l.louvers {
		l.louvers[i] = louverMotion{tai: startTai}
	}
	return l
}

// SetLouvers moves each louver to its requested target percentage; a target
// of -1 or NaN leaves that louver unchanged. Exactly LCSNumLouvers targets
// are required.
func (l *LCS) SetLouvers(targets []float64, tai float64) (float64, error) {
	if l.state == protocol.StateError {
		return 0, ErrBadState
	}
	if len(targets) != protocol.LCSNumLouvers {
		return 0, fmt.Errorf("%w: expected %d louver targets", ErrBadParameters, protocol.LCSNumLouvers)
	}
	maxDuration := 0.0
	for i, target := range targets {
		if target == -1 || math.IsNaN(target) {
			continue
		}
		if target < 0 || target > 100 {
			return 0, fmt.Errorf("%w: louver target out of range", ErrBadParameters)
		}
		lv := &l.louvers[i]
		lv.profile = kinematics.NewLinear(lv.pos, target, tai, protocol.LCSMotionVelocity, 0, 100)
		lv.tai = tai
		if d := lv.profile.Duration(); d > maxDuration {
			maxDuration = d
		}
	}
	l.state = protocol.StateMoving
	return maxDuration, nil
}

// CloseLouvers drives every louver fully closed.
func (l *LCS) CloseLouvers(tai float64) (float64, error) {
	targets := make([]float64, protocol.LCSNumLouvers)
	return l.SetLouvers(targets, tai)
}

// StopLouvers and GoStationaryLouvers both halt motion in place; this core
// does not distinguish a brake-engage delay for louvers.
func (l *LCS) StopLouvers(tai float64) (float64, error) {
	for i := range l.louvers {
		l.recompute(i, tai)
		l.louvers[i].profile = nil
	}
	l.settleState()
	return 0, nil
}

func (l *LCS) settleState() {
	allClosed := true
	for _, lv := range l.louvers {
		if lv.pos != 0 {
			allClosed = false
			break
		}
	}
	if allClosed {
		l.state = protocol.StateClosed
	} else {
		l.state = protocol.StateStationary
	}
}

func (l *LCS) recompute(i int, tai float64) {
	lv := &l.louvers[i]
	if lv.profile == nil {
		return
	}
	pos, done := lv.profile.Evaluate(tai - lv.tai)
	lv.pos = pos
	if done {
		lv.profile = nil
	}
}

func (l *LCS) anyMoving(tai float64) bool {
	moving := false
	for i := range l.louvers {
		l.recompute(i, tai)
		if l.louvers[i].profile != nil {
			moving = true
		}
	}
	return moving
}

// SetFault forces Error.
func (l *LCS) SetFault() {
	l.state = protocol.StateError
	l.messages = append(l.messages, "louver drive fault")
}

// ExitFaultLouvers clears Error directly; louvers have no per-motor reset
// command in this core's command set.
func (l *LCS) ExitFaultLouvers(tai float64) (float64, error) {
	l.state = protocol.StateStationary
	l.messages = nil
	return 0, nil
}

func (l *LCS) SetOperationalMode(mode protocol.OperationalMode) {
	l.mode = mode
}

func (l *LCS) PowerDraw() float64 {
	for _, lv := range l.louvers {
		if lv.profile != nil {
			return protocol.LouversPowerDraw
		}
	}
	return 0
}

func (l *LCS) DetermineStatus(currentTai float64) map[string]any {
	if l.anyMoving(currentTai) {
		if l.state != protocol.StateError {
			l.state = protocol.StateMoving
		}
	} else if l.state == protocol.StateMoving {
		l.settleState()
	}
	positions := make([]float64, len(l.louvers))
	for i, lv := range l.louvers {
		positions[i] = lv.pos
	}
	return map[string]any{
		"status": map[string]any{
			"messages":        faultMessages(l.messages),
			"status":          string(l.state),
			"operationalMode": string(l.mode),
		},
		"positionActual": positions,
		"powerDraw":      l.PowerDraw(),
		"timestampUTC":   currentTai,
	}
}
