package bridge

import (
	"math"

	"domebridge/internal/protocol"
)

// translateTelemetry applies the bridge-owned egress translation to a status
// snapshot before it reaches a registered telemetry callback: radians to
// degrees, the AMCS azimuth offset, and APSCS's two-decimal position
// rounding. Non-status payloads (communication-error reports) pass through
// untouched since they carry no angle fields.
func translateTelemetry(sub protocol.Subsystem, payload map[string]any) map[string]any {
	switch sub {
	case protocol.AMCS:
		translateAngleField(payload, "positionActual", true)
		translateAngleField(payload, "positionCommanded", true)
		translateAngleField(payload, "velocityActual", false)
		translateAngleField(payload, "velocityCommanded", false)
	case protocol.LWSCS:
		translateAngleField(payload, "positionActual", false)
		translateAngleField(payload, "positionCommanded", false)
		translateAngleField(payload, "velocityActual", false)
		translateAngleField(payload, "velocityCommanded", false)
	case protocol.APSCS:
		roundPositionField(payload, "positionActual")
	}
	return payload
}

// translateAngleField converts an AMCS/LWSCS radian field to degrees
// in-place. When offset is true (AMCS's positionActual/positionCommanded
// only) the dome azimuth offset is subtracted before wrapping nonnegative.
func translateAngleField(payload map[string]any, key string, offset bool) {
	rad, ok := payload[key].(float64)
	if !ok {
		return
	}
	deg := radToDeg(rad)
	if offset {
		deg = wrapNonnegativeDeg(deg - protocol.DomeAzimuthOffsetDeg)
	}
	payload[key] = deg
}

// roundPositionField rounds an APSCS per-shutter position array to two
// decimals, matching the reference controller's _KEYS_TO_ROUND table. The
// array arrives as []float64 when the plant is called in-process (tests) and
// as []any when it arrives over the wire, since json.Unmarshal into a
// map[string]any decodes JSON arrays as []any.
func roundPositionField(payload map[string]any, key string) {
	var rounded []float64
	switch raw := payload[key].(type) {
	case []float64:
		rounded = make([]float64, len(raw))
		for i, v := range raw {
			rounded[i] = roundTo2(v)
		}
	case []any:
		rounded = make([]float64, len(raw))
		for i, v := range raw {
			f, ok := v.(float64)
			if !ok {
				return
			}
			rounded[i] = roundTo2(f)
		}
	default:
		return
	}
	payload[key] = rounded
}

func roundTo2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0
	}
	return r
}
