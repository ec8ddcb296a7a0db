package plant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domebridge/internal/protocol"
)

func TestLWSCSMoveReachesTargetAtConstantVelocity(t *testing.T) {
	l := newLWSCS(0)
	target := protocol.LWSCSMaxPosition / 2

	duration, err := l.MoveEl(target, 0)
	require.NoError(t, err)
	assert.InDelta(t, target/l.vmax, duration, 1e-9)

	mid := l.DetermineStatus(duration / 2)
	assert.InDelta(t, target/2, mid["positionActual"].(float64), 1e-9)
	assert.InDelta(t, l.vmax, mid["velocityActual"].(float64), 1e-9)
	assert.Equal(t, string(protocol.StateMoving), mid["status"].(map[string]any)["status"])

	settled := l.DetermineStatus(duration + 1)
	assert.InDelta(t, target, settled["positionActual"].(float64), 1e-9)
	assert.Equal(t, string(protocol.StateStationary), settled["status"].(map[string]any)["status"])
}

func TestLWSCSFaultBlocksMotionUntilExit(t *testing.T) {
	l := newLWSCS(0)
	l.SetFault([protocol.LWSCSNumMotors]bool{true, false})

	_, err := l.MoveEl(0.1, 0)
	assert.ErrorIs(t, err, ErrBadState)

	_, err = l.ExitFaultEl(1)
	require.NoError(t, err)
	assert.Equal(t, protocol.StateStationary, l.state)
}
