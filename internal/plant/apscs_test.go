package plant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domebridge/internal/protocol"
)

func TestAPSCSOpenThenCloseCycle(t *testing.T) {
	a := newAPSCS(0)
	duration, err := a.OpenShutter(0)
	require.NoError(t, err)
	require.Greater(t, duration, 0.0)

	status := a.DetermineStatus(duration + 1)
	for _, s := range status["status"].(map[string]any)["status"].([]string) {
		assert.Equal(t, string(protocol.StateOpen), s)
	}

	duration, err = a.CloseShutter(duration + 1)
	require.NoError(t, err)
	status = a.DetermineStatus(duration + 100)
	for _, s := range status["status"].(map[string]any)["status"].([]string) {
		assert.Equal(t, string(protocol.StateClosed), s)
	}
}

func TestAPSCSFaultBlocksMotionUntilReset(t *testing.T) {
	a := newAPSCS(0)
	a.SetFault([protocol.APSCSNumShutters * protocol.APSCSNumMotorsPerShutter]bool{true, false, false, false})

	_, err := a.OpenShutter(1)
	assert.ErrorIs(t, err, ErrBadState)

	_, err = a.ExitFaultShutter(1)
	assert.ErrorIs(t, err, ErrFaulted)

	_, err = a.ResetDrivesShutter([protocol.APSCSNumShutters * protocol.APSCSNumMotorsPerShutter]bool{true, false, false, false})
	require.NoError(t, err)

	_, err = a.ExitFaultShutter(1)
	require.NoError(t, err)
}
