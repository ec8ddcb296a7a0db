package bridge

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"domebridge/internal/protocol"
)

// outstandingEntry is one transmitted-but-unreplied command, per spec.md
// 4.3.3's "{commandId -> (commandName, sendTai)}" invariant.
type outstandingEntry struct {
	name   protocol.CommandName
	sendTai float64
	reply  chan Reply
}

// outstandingTable has its own mutex so readLoop and the watchdog can resolve
// and sweep entries without the send serialization mutex. Senders add and
// forget entries while holding the serialization mutex, so the order is
// always serialization mutex first, then this one.
type outstandingTable struct {
	mu      sync.Mutex
	entries map[uint64]*outstandingEntry
}

func newOutstandingTable() *outstandingTable {
	return &outstandingTable{entries: make(map[uint64]*outstandingEntry)}
}

func (t *outstandingTable) add(id uint64, name protocol.CommandName, sendTai float64) chan Reply {
	ch := make(chan Reply, 1)
	t.mu.Lock()
	t.entries[id] = &outstandingEntry{name: name, sendTai: sendTai, reply: ch}
	t.mu.Unlock()
	return ch
}

// resolve removes and returns the entry for id, delivering reply on its
// channel. It reports false for an unknown commandId, which the caller
// should log and drop per spec.md 4.3.3.
func (t *outstandingTable) resolve(reply Reply) bool {
	t.mu.Lock()
	entry, ok := t.entries[reply.CommandID]
	if ok {
		delete(t.entries, reply.CommandID)
	}
	t.mu.Unlock()
	if !ok {
		return false
	}
	entry.reply <- reply
	return true
}

func (t *outstandingTable) forget(id uint64) {
	t.mu.Lock()
	delete(t.entries, id)
	t.mu.Unlock()
}

func (t *outstandingTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// sweep implements the periodic watchdog: entries older than 1x period are
// logged as warnings, entries older than 2x period are evicted with an
// error log (spec.md 4.3.3).
func (t *outstandingTable) sweep(currentTai float64, log *logrus.Entry, onEvict func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, entry := range t.entries {
		age := currentTai - entry.sendTai
		switch {
		case age > 2*protocol.CommandsRepliedPeriod:
			log.WithFields(logrus.Fields{"commandId": id, "command": entry.name, "ageSeconds": age}).
				Error("outstanding command reply watchdog: evicting stale entry")
			delete(t.entries, id)
			if onEvict != nil {
				onEvict()
			}
		case age > protocol.CommandsRepliedPeriod:
			log.WithFields(logrus.Fields{"commandId": id, "command": entry.name, "ageSeconds": age}).
				Warn("outstanding command reply watchdog: entry aging")
		}
	}
}

func startWatchdog(stop <-chan struct{}, table *outstandingTable, now func() float64, log *logrus.Entry, onEvict func()) {
	ticker := time.NewTicker(time.Duration(protocol.CommandsRepliedPeriod) * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			table.sweep(now(), log, onEvict)
		}
	}
}
