package plant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domebridge/internal/protocol"
)

func TestLCSSetLouversMovesEachIndependently(t *testing.T) {
	l := newLCS(0)
	targets := make([]float64, protocol.LCSNumLouvers)
	targets[0] = 100
	targets[1] = 50

	duration, err := l.SetLouvers(targets, 0)
	require.NoError(t, err)
	require.Greater(t, duration, 0.0)

	status := l.DetermineStatus(duration + 1)
	positions := status["positionActual"].([]float64)
	assert.InDelta(t, 100, positions[0], 1e-6)
	assert.InDelta(t, 50, positions[1], 1e-6)
	assert.InDelta(t, 0, positions[2], 1e-6)
}

func TestLCSCloseLouversReturnsAllToZero(t *testing.T) {
	l := newLCS(0)
	targets := make([]float64, protocol.LCSNumLouvers)
	for i := range targets {
		targets[i] = 80
	}
	duration, err := l.SetLouvers(targets, 0)
	require.NoError(t, err)
	l.DetermineStatus(duration + 1)

	duration, err = l.CloseLouvers(duration + 1)
	require.NoError(t, err)
	status := l.DetermineStatus(duration + 100)
	assert.Equal(t, string(protocol.StateClosed), status["status"].(map[string]any)["status"])
}

func TestLCSRejectsWrongLengthTargets(t *testing.T) {
	l := newLCS(0)
	_, err := l.SetLouvers([]float64{1, 2, 3}, 0)
	assert.ErrorIs(t, err, ErrBadParameters)
}
