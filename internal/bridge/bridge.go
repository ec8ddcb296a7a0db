// Package bridge implements DomeBridge: the command dispatcher, reply
// correlator and telemetry pump that sits between an external control
// system and either a real dome controller or an in-process MockPlant.
package bridge

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"domebridge/internal/config"
	"domebridge/internal/power"
	"domebridge/internal/protocol"
)

// Reply is the decoded wire reply, generalized to also carry a status
// snapshot payload when the originating command was a status request.
type Reply struct {
	CommandID uint64
	Response  int
	Subsystem protocol.Subsystem
	Payload   map[string]any
}

// TelemetryCallback receives either a status snapshot or, on communication
// error, a map with keys "command_name", "exception", "response_code" per
// spec.md 4.6's telemetry callback contract.
type TelemetryCallback func(snapshot map[string]any)

// DomeBridge owns one TCP connection to a dome controller (real or
// simulated) and exposes the high-level command API plus a telemetry pump.
type DomeBridge struct {
	log       *logrus.Entry
	cfg       config.Config
	scheduler *power.Scheduler

	connMu sync.Mutex
	state  connState
	conn   net.Conn
	reader *protocol.FrameReader

	// sendMu serializes all command sends and reply waits so only one
	// command is ever in flight, per spec.md 4.3.2. nonStatusMu guards
	// hasNonStatusCommand; it may be acquired while sendMu is held, never
	// the reverse.
	sendMu              sync.Mutex
	nonStatusMu         sync.Mutex
	hasNonStatusCommand bool

	nextID      uint64
	outstanding *outstandingTable

	callbackMu sync.Mutex
	callbacks  map[protocol.Subsystem]TelemetryCallback

	drawsMu sync.Mutex
	draws   map[protocol.Subsystem]float64

	stopCh chan struct{}
	wg     sync.WaitGroup

	metrics *Metrics
}

// SetMetrics attaches an optional Metrics set; pass nil to detach. Must be
// called before Connect to cover the connection's whole lifetime.
func (b *DomeBridge) SetMetrics(m *Metrics) { b.metrics = m }

// NewDomeBridge constructs a bridge in the disconnected state. It always
// builds its own PowerScheduler, which starts in power.NoPowerManagement, so
// power-drawing commands are sent immediately until the mode is changed.
func NewDomeBridge(cfg config.Config, log *logrus.Entry) *DomeBridge {
	b := &DomeBridge{
		log:         log,
		cfg:         cfg,
		state:       connStateDisconnected,
		outstanding: newOutstandingTable(),
		callbacks:   make(map[protocol.Subsystem]TelemetryCallback),
		draws:       make(map[protocol.Subsystem]float64),
		stopCh:      make(chan struct{}),
	}
	b.scheduler = power.NewScheduler(b.sendImmediately, log.WithField("component", "scheduler"))
	return b
}

// Scheduler exposes the bridge's PowerScheduler so callers can switch
// PowerManagementMode.
func (b *DomeBridge) Scheduler() *power.Scheduler { return b.scheduler }

// RegisterTelemetryCallback installs the sink invoked whenever a status
// snapshot or communication-error report is produced for sub.
func (b *DomeBridge) RegisterTelemetryCallback(sub protocol.Subsystem, cb TelemetryCallback) {
	b.callbackMu.Lock()
	defer b.callbackMu.Unlock()
	b.callbacks[sub] = cb
}

// hasCallback reports whether sub has a registered telemetry callback. Per
// spec.md 4.3.4, a subsystem with no registered callback is never polled.
func (b *DomeBridge) hasCallback(sub protocol.Subsystem) bool {
	b.callbackMu.Lock()
	defer b.callbackMu.Unlock()
	_, ok := b.callbacks[sub]
	return ok
}

func (b *DomeBridge) dispatchCallback(sub protocol.Subsystem, snapshot map[string]any) {
	b.callbackMu.Lock()
	cb := b.callbacks[sub]
	b.callbackMu.Unlock()
	if cb != nil {
		cb(snapshot)
	}
}

// Connect dials the configured host:port with exponential backoff,
// following nasa-jpl-golaborate/comm.RemoteDevice.Open's retry shape, then
// starts the reader and watchdog goroutines.
func (b *DomeBridge) Connect(ctx context.Context) error {
	b.connMu.Lock()
	if b.state != connStateDisconnected {
		b.connMu.Unlock()
		return fmt.Errorf("%w", ErrAlreadyConnected)
	}
	b.state = connStateConnecting
	b.connMu.Unlock()

	addr := fmt.Sprintf("%s:%d", b.cfg.Host, b.cfg.Port)
	var conn net.Conn
	dial := func() error {
		var err error
		conn, err = net.DialTimeout("tcp", addr, 5*time.Second)
		return err
	}
	policy := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	if err := backoff.Retry(dial, policy); err != nil {
		b.connMu.Lock()
		b.state = connStateDisconnected
		b.connMu.Unlock()
		return fmt.Errorf("dome bridge: dial %s: %w", addr, err)
	}

	b.connMu.Lock()
	b.conn = conn
	b.reader = protocol.NewFrameReader(conn)
	b.state = connStateConnected
	b.connMu.Unlock()

	b.wg.Add(2)
	go b.readLoop()
	go func() {
		defer b.wg.Done()
		startWatchdog(b.stopCh, b.outstanding, func() float64 { return nowTai() }, b.log.WithField("loop", "watchdog"), func() {
			if b.metrics != nil {
				b.metrics.WatchdogEvicted.Inc()
			}
		})
	}()
	b.log.WithField("addr", addr).Info("dome bridge connected")
	return nil
}

// Disconnect closes the link and stops the background loops. It is safe to
// call Connect again afterwards.
func (b *DomeBridge) Disconnect() error {
	b.connMu.Lock()
	if b.state == connStateDisconnected {
		b.connMu.Unlock()
		return fmt.Errorf("%w", ErrNotConnected)
	}
	conn := b.conn
	b.state = connStateDisconnected
	b.connMu.Unlock()

	close(b.stopCh)
	if conn != nil {
		conn.Close()
	}
	b.wg.Wait()
	b.stopCh = make(chan struct{})
	return nil
}

func (b *DomeBridge) isConnected() bool {
	b.connMu.Lock()
	defer b.connMu.Unlock()
	return b.state == connStateConnected
}

// readLoop is the single reader goroutine for the connection: it decodes
// every incoming frame and resolves it against the outstanding table.
func (b *DomeBridge) readLoop() {
	defer b.wg.Done()
	for {
		raw, _, err := b.reader.RawFrame()
		if err != nil {
			b.log.WithError(err).Warn("dome bridge read loop exiting")
			return
		}
		reply := decodeReply(raw)
		if !b.outstanding.resolve(reply) {
			b.log.WithField("commandId", reply.CommandID).Warn("reply for unknown commandId dropped")
			continue
		}
		if reply.Subsystem != "" {
			b.recordDraw(reply.Subsystem, reply.Payload)
			b.dispatchCallback(reply.Subsystem, translateTelemetry(reply.Subsystem, reply.Payload))
		}
	}
}

func decodeReply(raw map[string]any) Reply {
	idFloat, _ := raw["commandId"].(float64)
	respFloat, _ := raw["response"].(float64)
	reply := Reply{CommandID: uint64(idFloat), Response: int(respFloat)}
	for _, sub := range protocol.AllSubsystems {
		if payload, ok := raw[string(sub)].(map[string]any); ok {
			reply.Subsystem = sub
			reply.Payload = payload
			break
		}
	}
	return reply
}

func (b *DomeBridge) recordDraw(sub protocol.Subsystem, payload map[string]any) {
	draw, ok := payload["powerDraw"].(float64)
	if !ok {
		return
	}
	b.drawsMu.Lock()
	b.draws[sub] = draw
	b.drawsMu.Unlock()
}

// currentDraws snapshots the most recent per-subsystem power draw, fed to
// the PowerScheduler's ProcessQueue.
func (b *DomeBridge) currentDraws() map[protocol.Subsystem]float64 {
	b.drawsMu.Lock()
	defer b.drawsMu.Unlock()
	out := make(map[protocol.Subsystem]float64, len(b.draws))
	for k, v := range b.draws {
		out[k] = v
	}
	return out
}

// nextCommandID returns a commandId never reused within this connection's
// lifetime (spec.md 4.3.1 invariant).
func (b *DomeBridge) nextCommandID() uint64 {
	return atomic.AddUint64(&b.nextID, 1)
}

// sendImmediately transmits cmd and blocks for its reply under the single
// serialization mutex, bypassing PowerScheduler. This is the Sender hook
// wired into power.NewScheduler and is also used directly by commands that
// are never power-managed (fault recovery, mode changes). Status requests
// call sendCommandWithTimeout themselves (see pollStatus).
func (b *DomeBridge) sendImmediately(cmd protocol.Command) error {
	_, err := b.sendCommandWithTimeout(cmd, time.Duration(protocol.CommandReplyTimeout*float64(time.Second)))
	return err
}

// sendCommandWithTimeout writes cmd to the wire and waits up to timeout for
// its correlated reply, generalizing pkg/dome.Dome.sendCommandWithTimeout
// from an MQTT response channel to a commandId-correlated map guarded by
// the outstanding table.
func (b *DomeBridge) sendCommandWithTimeout(cmd protocol.Command, timeout time.Duration) (Reply, error) {
	if !b.isConnected() {
		return Reply{}, fmt.Errorf("%w", ErrNotConnected)
	}

	cmd.ID = b.nextCommandID()
	sendTai := nowTai()

	b.nonStatusMu.Lock()
	if !cmd.Name.IsStatusRequest() {
		b.hasNonStatusCommand = true
	}
	b.nonStatusMu.Unlock()

	b.sendMu.Lock()
	defer b.sendMu.Unlock()
	replyCh := b.outstanding.add(cmd.ID, cmd.Name, sendTai)
	err := protocol.WriteFrame(b.conn, cmd)

	if err == nil && b.metrics != nil {
		b.metrics.CommandsSent.Inc()
	}

	if !cmd.Name.IsStatusRequest() {
		b.nonStatusMu.Lock()
		b.hasNonStatusCommand = false
		b.nonStatusMu.Unlock()
	}

	if err != nil {
		b.outstanding.forget(cmd.ID)
		return Reply{}, fmt.Errorf("dome bridge: write command %s: %w", cmd.Name, err)
	}

	select {
	case reply := <-replyCh:
		if reply.Response != 0 {
			return reply, errForResponse(reply.Response)
		}
		return reply, nil
	case <-time.After(timeout):
		b.outstanding.forget(cmd.ID)
		if b.metrics != nil {
			b.metrics.RepliesTimedOut.Inc()
		}
		return Reply{}, fmt.Errorf("%w: command %s (id %d)", ErrTimeout, cmd.Name, cmd.ID)
	}
}

// nowTai is a package-level seam so tests could substitute a fake clock;
// production code uses wall time directly since the bridge, unlike the
// plant, has no deterministic-scenario test requirement of its own.
func nowTai() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}
