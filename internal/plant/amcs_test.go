package plant

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domebridge/internal/protocol"
)

func TestAMCSMoveReachesTargetThenCrawls(t *testing.T) {
	a := newAMCS(0)
	duration, err := a.MoveAz(math.Pi/2, 0.01, 0, false)
	require.NoError(t, err)
	require.Greater(t, duration, 0.0)

	mid := a.DetermineStatus(duration / 2)
	assert.Equal(t, string(protocol.StateMoving), mid["status"].(map[string]any)["status"])

	settled := a.DetermineStatus(duration + 5)
	assert.Equal(t, string(protocol.StateCrawling), settled["status"].(map[string]any)["status"])
}

func TestAMCSMoveZeroToTenDegreesMatchesScenarioS1(t *testing.T) {
	deg := math.Pi / 180
	a := newAMCS(10001)
	a.vmax = 4 * deg
	crawl := 0.1 * deg

	duration, err := a.MoveAz(10*deg, crawl, 10001, false)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, duration, 1e-9)

	status := a.DetermineStatus(10002)
	assert.InDelta(t, 4*deg, status["positionActual"].(float64), 1e-9)
	assert.Equal(t, string(protocol.StateMoving), status["status"].(map[string]any)["status"])

	status = a.DetermineStatus(10003)
	assert.InDelta(t, 8*deg, status["positionActual"].(float64), 1e-9)
	assert.Equal(t, string(protocol.StateMoving), status["status"].(map[string]any)["status"])

	status = a.DetermineStatus(10003.5)
	assert.InDelta(t, 10*deg, status["positionActual"].(float64), 1e-9)
	assert.Equal(t, string(protocol.StateCrawling), status["status"].(map[string]any)["status"])

	status = a.DetermineStatus(10005)
	assert.InDelta(t, 10.15*deg, status["positionActual"].(float64), 1e-9)
	assert.Equal(t, string(protocol.StateCrawling), status["status"].(map[string]any)["status"])
}

func TestAMCSParkSettlesToParked(t *testing.T) {
	a := newAMCS(0)
	a.actualPosition = 0.2
	duration, err := a.MoveAz(protocol.AMCSParkPosition, 0, 0, true)
	require.NoError(t, err)

	final := a.DetermineStatus(duration + 1)
	assert.Equal(t, string(protocol.StateParked), final["status"].(map[string]any)["status"])
}

func TestAMCSFaultRequiresResetBeforeExit(t *testing.T) {
	a := newAMCS(0)
	a.SetFault([protocol.AMCSNumMotors]bool{true, false, false, false, false})

	_, err := a.ExitFaultAz(1)
	assert.ErrorIs(t, err, ErrBadState)

	_, err = a.ResetDrivesAz([protocol.AMCSNumMotors]bool{true, false, false, false, false})
	require.NoError(t, err)

	_, err = a.ExitFaultAz(1)
	require.NoError(t, err)
	assert.Equal(t, protocol.StateStationary, a.state)
}

func TestAMCSSetZeroRequiresStopped(t *testing.T) {
	a := newAMCS(0)
	_, err := a.MoveAz(1.0, 0, 0, false)
	require.NoError(t, err)

	_, err = a.SetZeroAz(0.01)
	assert.ErrorIs(t, err, ErrBadState)
}

func TestAMCSCrawlVelocityOutOfRangeRejected(t *testing.T) {
	a := newAMCS(0)
	_, err := a.CrawlAz(a.vmax*2, 0)
	assert.ErrorIs(t, err, ErrBadParameters)
}
