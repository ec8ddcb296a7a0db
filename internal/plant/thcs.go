package plant

import (
	"fmt"

	"domebridge/internal/protocol"
)

// ThCS is the thermal control subsystem. It has no motion profile of its
// own; its cooling state machine is driven externally by the AMCS
// cooling-signal bridge (see MockPlant.wireCoolingBridge) rather than by any
// command ThCS accepts directly, matching the cross-subsystem wiring called
// out in spec.md's design notes.
type ThCS struct {
	setpoint float64
	cooling  protocol.MotionState
	mode     protocol.OperationalMode
	messages []string

	cabinetTemps []float64
	coilTemps    []float64
	driveTemps   []float64
}

func newThCS() *ThCS {
	t := &ThCS{
		setpoint:     20.0,
		cooling:      protocol.StateMotorCoolingOff,
		mode:         protocol.ModeNormal,
		cabinetTemps: make([]float64, protocol.ThCSNumCabinetTemperatures),
		coilTemps:    make([]float64, protocol.ThCSNumMotorCoilTemperatures),
		driveTemps:   make([]float64, protocol.ThCSNumMotorDriveTemperatures),
	}
	for i := range t.cabinetTemps {
		t.cabinetTemps[i] = t.setpoint
	}
	for i := range t.coilTemps {
		t.coilTemps[i] = t.setpoint
	}
	for i := range t.driveTemps {
		t.driveTemps[i] = t.setpoint
	}
	return t
}

// SetTemperature accepts a new cabinet setpoint in Celsius.
func (t *ThCS) SetTemperature(celsius float64) (float64, error) {
	if celsius < -20 || celsius > 40 {
		return 0, fmt.Errorf("%w: setpoint out of range", ErrBadParameters)
	}
	t.setpoint = celsius
	return 0, nil
}

// StartCooling is invoked by the AMCS bridge when AMCS enters
// StartingMotorCooling.
func (t *ThCS) StartCooling() {
	t.cooling = protocol.StateMotorCoolingOn
}

// StopCooling is invoked by the AMCS bridge when AMCS enters
// StoppingMotorCooling.
func (t *ThCS) StopCooling() {
	t.cooling = protocol.StateMotorCoolingOff
}

// ExitFaultThermal clears Error.
func (t *ThCS) ExitFaultThermal(tai float64) (float64, error) {
	t.messages = nil
	return 0, nil
}

func (t *ThCS) SetOperationalMode(mode protocol.OperationalMode) {
	t.mode = mode
}

func (t *ThCS) PowerDraw() float64 {
	if t.cooling == protocol.StateMotorCoolingOn {
		return protocol.FansPowerDraw
	}
	return 0
}

func (t *ThCS) DetermineStatus(currentTai float64) map[string]any {
	return map[string]any{
		"status": map[string]any{
			"messages":        faultMessages(t.messages),
			"status":          string(t.cooling),
			"operationalMode": string(t.mode),
		},
		"setpoint":              t.setpoint,
		"cabinetTemperature":    t.cabinetTemps,
		"coilTemperature":       t.coilTemps,
		"driveTemperature":      t.driveTemps,
		"powerDraw":             t.PowerDraw(),
		"timestampUTC":          currentTai,
	}
}
