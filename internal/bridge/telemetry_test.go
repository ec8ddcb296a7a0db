package bridge

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"domebridge/internal/protocol"
)

func TestTranslateTelemetryAMCSConvertsAndOffsetsPosition(t *testing.T) {
	payload := map[string]any{
		"positionActual":    degToRad(0),
		"positionCommanded": degToRad(10),
		"velocityActual":    degToRad(4),
		"velocityCommanded": degToRad(0.1),
	}
	out := translateTelemetry(protocol.AMCS, payload)
	assert.InDelta(t, 328.0, out["positionActual"].(float64), 1e-9)
	assert.InDelta(t, 338.0, out["positionCommanded"].(float64), 1e-9)
	assert.InDelta(t, 4.0, out["velocityActual"].(float64), 1e-9)
	assert.InDelta(t, 0.1, out["velocityCommanded"].(float64), 1e-9)
}

func TestTranslateTelemetryLWSCSConvertsWithoutOffset(t *testing.T) {
	payload := map[string]any{
		"positionActual":    degToRad(45),
		"positionCommanded": degToRad(90),
		"velocityActual":    degToRad(1.5),
	}
	out := translateTelemetry(protocol.LWSCS, payload)
	assert.InDelta(t, 45.0, out["positionActual"].(float64), 1e-9)
	assert.InDelta(t, 90.0, out["positionCommanded"].(float64), 1e-9)
	assert.InDelta(t, 1.5, out["velocityActual"].(float64), 1e-9)
}

func TestTranslateTelemetryAPSCSRoundsPositionActual(t *testing.T) {
	payload := map[string]any{
		"positionActual": []float64{100.001, 33.333333, -0.0},
	}
	out := translateTelemetry(protocol.APSCS, payload)
	rounded := out["positionActual"].([]float64)
	assert.InDelta(t, 100.0, rounded[0], 1e-9)
	assert.InDelta(t, 33.33, rounded[1], 1e-9)
	assert.Equal(t, 0.0, rounded[2])
	assert.False(t, math.Signbit(rounded[2]))
}

// Over the wire, json.Unmarshal into a map[string]any decodes JSON arrays as
// []any rather than []float64; the translator must handle both shapes.
func TestTranslateTelemetryAPSCSRoundsPositionActualFromWireDecodedArray(t *testing.T) {
	payload := map[string]any{
		"positionActual": []any{100.001, 33.333333, -0.0},
	}
	out := translateTelemetry(protocol.APSCS, payload)
	rounded := out["positionActual"].([]float64)
	assert.InDelta(t, 100.0, rounded[0], 1e-9)
	assert.InDelta(t, 33.33, rounded[1], 1e-9)
	assert.Equal(t, 0.0, rounded[2])
	assert.False(t, math.Signbit(rounded[2]))
}
