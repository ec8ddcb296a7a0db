package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAzimuthToWireAddsOffsetAndWraps(t *testing.T) {
	rad := azimuthToWire(0, 32)
	assert.InDelta(t, 32.0, radToDeg(rad), 1e-9)

	// Sky 340 + 32 offset wraps past 360.
	rad = azimuthToWire(340, 32)
	assert.InDelta(t, 12.0, radToDeg(rad), 1e-9)
}

func TestAzimuthFromWireSubtractsOffsetAndWraps(t *testing.T) {
	deg := azimuthFromWire(degToRad(32), 32)
	assert.InDelta(t, 0.0, deg, 1e-9)

	// Dome 10 - 32 offset wraps to a positive compass angle.
	deg = azimuthFromWire(degToRad(10), 32)
	assert.InDelta(t, 338.0, deg, 1e-9)
}

func TestAzimuthRoundTripIsIdentity(t *testing.T) {
	for _, sky := range []float64{0, 10, 90, 180, 270, 359.9} {
		wire := azimuthToWire(sky, 32)
		back := azimuthFromWire(wire, 32)
		assert.InDelta(t, sky, back, 1e-9)
	}
}

func TestWrapNonnegativeDeg(t *testing.T) {
	assert.InDelta(t, 0.0, wrapNonnegativeDeg(360), 1e-9)
	assert.InDelta(t, 10.0, wrapNonnegativeDeg(370), 1e-9)
	assert.InDelta(t, 350.0, wrapNonnegativeDeg(-10), 1e-9)
	assert.InDelta(t, 0.0, wrapNonnegativeDeg(0), 1e-9)
}
