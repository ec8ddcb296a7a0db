// Package power implements the power-aware command scheduler that sits
// between DomeBridge and the rotating-part power rail: a mode-dependent
// priority queue that only releases a power-drawing command once the
// estimated draw fits the remaining budget.
package power

import "domebridge/internal/protocol"

// Mode selects which priority table and stop-companion set govern
// scheduling.
type Mode string

const (
	NoPowerManagement Mode = "NoPowerManagement"
	Operations        Mode = "Operations"
	Maintenance       Mode = "Maintenance"
	Emergency         Mode = "Emergency"
)

// neverAdmit is the priority assigned to a command that must never be
// dequeued under a given mode (Emergency's openShutter).
const neverAdmit = 1 << 30

// defaultPriority is used for any command a mode's table does not mention
// explicitly, so adding a new command name never requires touching every
// mode's table.
const defaultPriority = 50

// commandPriorities mirrors spec.md 4.4.1's per-mode priority assignment.
// Lower wins. Only entries that diverge from defaultPriority need listing.
var commandPriorities = map[Mode]map[protocol.CommandName]int{
	Operations: {
		protocol.CmdCloseShutter: 5,
		protocol.CmdStopAz:       0,
		protocol.CmdStopEl:       0,
		protocol.CmdStopShutter:  0,
		protocol.CmdStopLouvers:  0,
	},
	Maintenance: {
		protocol.CmdStopAz:      0,
		protocol.CmdStopEl:      0,
		protocol.CmdStopShutter: 0,
		protocol.CmdStopLouvers: 0,
	},
	Emergency: {
		protocol.CmdCloseShutter: 0,
		protocol.CmdOpenShutter:  neverAdmit,
		protocol.CmdStopAz:       0,
		protocol.CmdStopEl:       0,
	},
}

// stopCompanions mirrors spec.md 4.4.1/4.4.4: preemptive stops injected
// ahead of a power-hungry command whenever the companion's subsystem is
// currently drawing power.
var stopCompanions = map[Mode]map[protocol.CommandName][]protocol.CommandName{
	Emergency: {
		protocol.CmdCloseShutter: {protocol.CmdStopEl},
	},
}

func priorityFor(mode Mode, name protocol.CommandName) int {
	if table, ok := commandPriorities[mode]; ok {
		if p, ok := table[name]; ok {
			return p
		}
	}
	return defaultPriority
}

func companionsFor(mode Mode, name protocol.CommandName) []protocol.CommandName {
	if table, ok := stopCompanions[mode]; ok {
		return table[name]
	}
	return nil
}
