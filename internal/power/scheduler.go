package power

import (
	"container/heap"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"domebridge/internal/protocol"
)

// Sender transmits a command to the plant. The scheduler never talks to the
// wire itself; DomeBridge supplies this hook so the scheduler stays
// testable without a live connection.
type Sender func(cmd protocol.Command) error

// Scheduler is the power-aware command queue described in spec.md 4.4. It
// is safe for concurrent use: ScheduleCommand is typically called from the
// command-handling path while ProcessQueue runs off a ticker.
type Scheduler struct {
	mu   sync.Mutex
	log  *logrus.Entry
	mode Mode
	heap entryHeap
	seq  uint64
	send Sender
}

// NewScheduler builds a scheduler in NoPowerManagement mode.
func NewScheduler(send Sender, log *logrus.Entry) *Scheduler {
	return &Scheduler{mode: NoPowerManagement, send: send, log: log}
}

func (s *Scheduler) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetPowerManagementMode switches mode, discarding any queued commands:
// priorities and stop-companions are meaningless across a mode change
// (spec.md 4.4.2).
func (s *Scheduler) SetPowerManagementMode(mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.heap) > 0 {
		s.log.WithFields(logrus.Fields{"from": s.mode, "to": mode, "discarded": len(s.heap)}).
			Warn("power management mode changed, discarding queued commands")
	}
	s.mode = mode
	s.heap = nil
}

// ScheduleCommand enqueues cmd, or sends it immediately when
// NoPowerManagement is in effect.
func (s *Scheduler) ScheduleCommand(cmd protocol.Command) error {
	s.mu.Lock()
	if s.mode == NoPowerManagement {
		s.mu.Unlock()
		return s.send(cmd)
	}
	priority := priorityFor(s.mode, cmd.Name)
	s.seq++
	heap.Push(&s.heap, &entry{priority: priority, sequence: s.seq, command: cmd})
	s.mu.Unlock()
	return nil
}

// QueueDepth reports the number of commands currently queued, for metrics.
func (s *Scheduler) QueueDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.heap)
}

// ProcessQueue is invoked every COMMAND_QUEUE_PERIOD (spec.md 4.4.3). draws
// is the most recent per-subsystem power draw derived from telemetry. It
// pops the highest-priority entry; if the estimated draw fits the
// remaining rotating-rail budget, it prepends any stop companions whose
// subsystem is currently drawing and then sends the head. Otherwise the
// entry is re-queued and nothing is sent.
func (s *Scheduler) ProcessQueue(draws map[protocol.Subsystem]float64) error {
	s.mu.Lock()
	if len(s.heap) == 0 {
		s.mu.Unlock()
		return nil
	}
	head := heap.Pop(&s.heap).(*entry)
	mode := s.mode
	s.mu.Unlock()

	if head.priority >= neverAdmit {
		s.requeue(head)
		return nil
	}

	var total float64
	for _, v := range draws {
		total += v
	}
	available := protocol.ContinuousSlipRingPowerCapacity - protocol.ContinuousElectronicsPowerDraw - total
	estimated := estimateDraw(head.command)

	if estimated > available {
		s.requeue(head)
		return nil
	}

	for _, companionName := range companionsFor(mode, head.command.Name) {
		if draws[subsystemFor(companionName)] > 0 {
			if err := s.send(protocol.Command{ID: head.command.ID, Name: companionName}); err != nil {
				return fmt.Errorf("send stop companion %s: %w", companionName, err)
			}
		}
	}
	return s.send(head.command)
}

func (s *Scheduler) requeue(e *entry) {
	s.mu.Lock()
	heap.Push(&s.heap, e)
	s.mu.Unlock()
}

// estimateDraw returns the power a command is expected to pull once
// issued, per the mapping in spec.md 4.4.3.
func estimateDraw(cmd protocol.Command) float64 {
	switch cmd.Name {
	case protocol.CmdFans:
		if speed, ok := cmd.Params["speed"].(float64); ok && speed > 0 {
			return protocol.FansPowerDraw
		}
		return 0
	case protocol.CmdOpenShutter, protocol.CmdCloseShutter, protocol.CmdHome:
		return protocol.APSPowerDraw
	case protocol.CmdMoveEl, protocol.CmdCrawlEl:
		return protocol.LWSPowerDraw
	case protocol.CmdSetLouvers, protocol.CmdCloseLouvers:
		return protocol.LouversPowerDraw
	default:
		return 0
	}
}

// subsystemFor reports which subsystem a command targets, used to decide
// whether a stop companion is currently drawing power.
func subsystemFor(cmd protocol.CommandName) protocol.Subsystem {
	switch cmd {
	case protocol.CmdMoveAz, protocol.CmdCrawlAz, protocol.CmdStopAz, protocol.CmdGoStationaryAz, protocol.CmdPark:
		return protocol.AMCS
	case protocol.CmdMoveEl, protocol.CmdCrawlEl, protocol.CmdStopEl, protocol.CmdGoStationaryEl:
		return protocol.LWSCS
	case protocol.CmdOpenShutter, protocol.CmdCloseShutter, protocol.CmdStopShutter, protocol.CmdGoStationaryShutter, protocol.CmdHome:
		return protocol.APSCS
	case protocol.CmdSetLouvers, protocol.CmdCloseLouvers, protocol.CmdStopLouvers, protocol.CmdGoStationaryLouvers:
		return protocol.LCS
	default:
		return ""
	}
}
