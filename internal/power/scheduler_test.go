package power

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domebridge/internal/protocol"
)

func discardLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(nilWriter{})
	return logrus.NewEntry(l)
}

type nilWriter struct{}

func (nilWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestNoPowerManagementSendsImmediately(t *testing.T) {
	var sent []protocol.Command
	s := NewScheduler(func(c protocol.Command) error {
		sent = append(sent, c)
		return nil
	}, discardLogger())

	require.NoError(t, s.ScheduleCommand(protocol.Command{ID: 1, Name: protocol.CmdFans}))
	assert.Len(t, sent, 1)
	assert.Equal(t, 0, s.QueueDepth())
}

func TestOperationsAdmitsWhenBudgetAllowsThenBlocks(t *testing.T) {
	var sent []protocol.Command
	s := NewScheduler(func(c protocol.Command) error {
		sent = append(sent, c)
		return nil
	}, discardLogger())
	s.SetPowerManagementMode(Operations)

	require.NoError(t, s.ScheduleCommand(protocol.Command{ID: 1, Name: protocol.CmdFans, Params: map[string]any{"speed": 50.0}}))
	require.NoError(t, s.ProcessQueue(map[protocol.Subsystem]float64{protocol.LWSCS: protocol.LWSPowerDraw}))
	assert.Len(t, sent, 1)

	require.NoError(t, s.ScheduleCommand(protocol.Command{ID: 2, Name: protocol.CmdFans, Params: map[string]any{"speed": 50.0}}))
	require.NoError(t, s.ProcessQueue(map[protocol.Subsystem]float64{
		protocol.LWSCS: protocol.LWSPowerDraw,
		protocol.LCS:   protocol.LouversPowerDraw,
	}))
	assert.Len(t, sent, 1, "draw should exceed budget and the command should stay queued")
	assert.Equal(t, 1, s.QueueDepth())
}

func TestEmergencyNeverAdmitsOpenShutter(t *testing.T) {
	var sent []protocol.Command
	s := NewScheduler(func(c protocol.Command) error {
		sent = append(sent, c)
		return nil
	}, discardLogger())
	s.SetPowerManagementMode(Emergency)

	require.NoError(t, s.ScheduleCommand(protocol.Command{ID: 1, Name: protocol.CmdOpenShutter}))
	for i := 0; i < 5; i++ {
		require.NoError(t, s.ProcessQueue(map[protocol.Subsystem]float64{}))
	}
	assert.Empty(t, sent)
	assert.Equal(t, 1, s.QueueDepth())
}

func TestEmergencyCloseShutterPrependsStopElCompanion(t *testing.T) {
	var sent []protocol.Command
	s := NewScheduler(func(c protocol.Command) error {
		sent = append(sent, c)
		return nil
	}, discardLogger())
	s.SetPowerManagementMode(Emergency)

	require.NoError(t, s.ScheduleCommand(protocol.Command{ID: 1, Name: protocol.CmdCloseShutter}))
	require.NoError(t, s.ProcessQueue(map[protocol.Subsystem]float64{protocol.LWSCS: protocol.LWSPowerDraw}))

	require.Len(t, sent, 2)
	assert.Equal(t, protocol.CmdStopEl, sent[0].Name)
	assert.Equal(t, protocol.CmdCloseShutter, sent[1].Name)
}

func TestSetModeDrainsQueue(t *testing.T) {
	s := NewScheduler(func(protocol.Command) error { return nil }, discardLogger())
	s.SetPowerManagementMode(Operations)
	require.NoError(t, s.ScheduleCommand(protocol.Command{ID: 1, Name: protocol.CmdFans}))
	assert.Equal(t, 1, s.QueueDepth())

	s.SetPowerManagementMode(Maintenance)
	assert.Equal(t, 0, s.QueueDepth())
}
