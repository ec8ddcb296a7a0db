package bridge

import "math"

// degToRad/radToDeg convert between the public degree-based API and the
// radians MockPlant and the real controller work in on the wire.
func degToRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }

// wrapNonnegativeDeg wraps deg into [0, 360), matching
// utils.angle_wrap_nonnegative.
func wrapNonnegativeDeg(deg float64) float64 {
	wrapped := math.Mod(deg, 360)
	if wrapped < 0 {
		wrapped += 360
	}
	return wrapped
}

// azimuthToWire applies the dome azimuth offset before converting a
// commanded azimuth (compass degrees) to the wire's radian frame: the AMCS
// internal angle is offset about 32 degrees east of 0 degrees azimuth, so
// the outgoing position is wrap_nonnegative(compassDeg + offsetDeg).
func azimuthToWire(compassDeg, offsetDeg float64) float64 {
	return degToRad(wrapNonnegativeDeg(compassDeg + offsetDeg))
}

// azimuthFromWire is azimuthToWire's inverse, used when reporting telemetry
// back out in compass degrees: subtract the offset, then wrap nonnegative.
func azimuthFromWire(rad, offsetDeg float64) float64 {
	return wrapNonnegativeDeg(radToDeg(rad) - offsetDeg)
}
