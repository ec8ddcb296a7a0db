package bridge

import (
	"context"
	"time"

	"domebridge/internal/protocol"
)

// StartTelemetryPump launches the periodic status-poll loop and the
// PowerScheduler drain loop. Both stop when ctx is canceled.
func (b *DomeBridge) StartTelemetryPump(ctx context.Context) {
	b.wg.Add(2)
	go b.statusPollLoop(ctx)
	go b.schedulerLoop(ctx)
}

func (b *DomeBridge) statusPollLoop(ctx context.Context) {
	defer b.wg.Done()
	ticker := time.NewTicker(time.Duration(protocol.StatusPokePeriod * float64(time.Second)))
	defer ticker.Stop()
	var tick int
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.stopCh:
			return
		case <-ticker.C:
			tick++
			b.pollDue(tick)
		}
	}
}

func (b *DomeBridge) pollDue(tick int) {
	b.nonStatusMu.Lock()
	yield := b.hasNonStatusCommand
	b.nonStatusMu.Unlock()
	if yield {
		return
	}
	for _, sub := range protocol.AllSubsystems {
		if !b.hasCallback(sub) {
			continue
		}
		multiplier := protocol.StatusPollMultiplier[sub]
		if multiplier <= 0 {
			multiplier = 5
		}
		if tick%multiplier == 0 {
			go b.pollStatus(sub)
		}
	}
}

func (b *DomeBridge) pollStatus(sub protocol.Subsystem) {
	name, ok := protocol.StatusCommandFor(sub)
	if !ok {
		return
	}
	reply, err := b.sendCommandWithTimeout(protocol.Command{Name: name}, b.replyTimeout())
	if err != nil {
		b.dispatchCallback(sub, map[string]any{
			"command_name":  string(name),
			"exception":     err.Error(),
			"response_code": reply.Response,
		})
		return
	}
	b.recordDraw(sub, reply.Payload)
	b.dispatchCallback(sub, translateTelemetry(sub, reply.Payload))
}

func (b *DomeBridge) schedulerLoop(ctx context.Context) {
	defer b.wg.Done()
	ticker := time.NewTicker(time.Duration(protocol.CommandQueuePeriod * float64(time.Second)))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.stopCh:
			return
		case <-ticker.C:
			if err := b.scheduler.ProcessQueue(b.currentDraws()); err != nil {
				b.log.WithError(err).Warn("power scheduler queue processing failed")
			}
			if b.metrics != nil {
				b.metrics.SchedulerQueueDepth.Set(float64(b.scheduler.QueueDepth()))
			}
		}
	}
}
