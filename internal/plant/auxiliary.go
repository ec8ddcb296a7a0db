package plant

import "domebridge/internal/protocol"

// CBCS is the capacitor bank subsystem: read-only telemetry, no commands
// accepted beyond status requests.
type CBCS struct {
	charge []float64
	mode   protocol.OperationalMode
}

func newCBCS() *CBCS {
	c := &CBCS{charge: make([]float64, protocol.CBCSNumCapacitorBanks), mode: protocol.ModeNormal}
	for i := range c.charge {
		c.charge[i] = 100.0
	}
	return c
}

func (c *CBCS) SetOperationalMode(mode protocol.OperationalMode) { c.mode = mode }

func (c *CBCS) DetermineStatus(currentTai float64) map[string]any {
	return map[string]any{
		"status": map[string]any{
			"messages":        faultMessages(nil),
			"status":          string(protocol.StateStationary),
			"operationalMode": string(c.mode),
		},
		"chargePercent": c.charge,
		"timestampUTC":  currentTai,
	}
}

// MonCS is the monitoring subsystem: a bank of read-only sensors.
type MonCS struct {
	sensors []float64
	mode    protocol.OperationalMode
}

func newMonCS() *MonCS {
	m := &MonCS{sensors: make([]float64, protocol.MonNumSensors), mode: protocol.ModeNormal}
	return m
}

func (m *MonCS) SetOperationalMode(mode protocol.OperationalMode) { m.mode = mode }

func (m *MonCS) DetermineStatus(currentTai float64) map[string]any {
	return map[string]any{
		"status": map[string]any{
			"messages":        faultMessages(nil),
			"status":          string(protocol.StateStationary),
			"operationalMode": string(m.mode),
		},
		"data":         m.sensors,
		"timestampUTC": currentTai,
	}
}

// CSCS is the calibration screen subsystem: read-only in this core (spec's
// command set has no motion command addressed to it).
type CSCS struct {
	state protocol.MotionState
}

func newCSCS() *CSCS {
	return &CSCS{state: protocol.StateStationary}
}

func (c *CSCS) DetermineStatus(currentTai float64) map[string]any {
	return map[string]any{
		"status": map[string]any{
			"messages":        faultMessages(nil),
			"status":          string(c.state),
			"operationalMode": string(protocol.ModeNormal),
		},
		"timestampUTC": currentTai,
	}
}

// RAD is the rear access door subsystem: read-only proximity switches.
type RAD struct {
	doors []protocol.MotionState
}

func newRAD() *RAD {
	r := &RAD{doors: make([]protocol.MotionState, protocol.RADNumDoors)}
	for i := range r.doors {
		r.doors[i] = protocol.StateProximityClosedLSEngaged
	}
	return r
}

func (r *RAD) DetermineStatus(currentTai float64) map[string]any {
	states := make([]string, len(r.doors))
	for i, s := range r.doors {
		states[i] = string(s)
	}
	return map[string]any{
		"status": map[string]any{
			"messages":        faultMessages(nil),
			"status":          states,
			"operationalMode": string(protocol.ModeNormal),
		},
		"timestampUTC": currentTai,
	}
}
