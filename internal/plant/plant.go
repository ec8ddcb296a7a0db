package plant

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"domebridge/internal/protocol"
)

// MockPlant is the in-process dome simulator: a single-connection JSON-line
// TCP server fronting the nine subsystem state machines. It plays the role
// the reference controller's mock_controller module plays in the original
// system, reworked from an asyncio server into one goroutine per
// connection plus a single state mutex, following the connection-lifecycle
// idiom this core's ambient stack already uses for the bridge side.
type MockPlant struct {
	log   *logrus.Entry
	clock Clock

	mu    sync.Mutex
	amcs  *AMCS
	lwscs *LWSCS
	apscs *APSCS
	lcs   *LCS
	thcs  *ThCS
	cbcs  *CBCS
	moncs *MonCS
	cscs  *CSCS
	rad   *RAD

	// Test/fault-injection hooks, mirroring the reference controller's
	// enable_slow_network / enable_network_interruption switches.
	EnableSlowNetwork         bool
	EnableNetworkInterruption bool
	CommunicationError        bool
	SlowNetworkDelay          time.Duration
}

// NewMockPlant builds a plant with every subsystem in its power-on default
// state, and wires the AMCS<->ThCS motor-cooling signal bridge.
func NewMockPlant(clock Clock, log *logrus.Entry) *MockPlant {
	startTai := clock.Now()
	p := &MockPlant{
		log:              log,
		clock:            clock,
		amcs:             newAMCS(startTai),
		lwscs:            newLWSCS(startTai),
		apscs:            newAPSCS(startTai),
		lcs:              newLCS(startTai),
		thcs:             newThCS(),
		cbcs:             newCBCS(),
		moncs:            newMonCS(),
		cscs:             newCSCS(),
		rad:              newRAD(),
		SlowNetworkDelay: 2 * time.Second,
	}
	p.wireCoolingBridge()
	return p
}

// wireCoolingBridge connects AMCS's cooling-transition callbacks to ThCS.
// This is the one place a subsystem handler reaches into another, kept out
// of amcs.go/thcs.go themselves so neither type needs to know about the
// other.
func (p *MockPlant) wireCoolingBridge() {
	p.amcs.onCoolingStart = func(tai float64) { p.thcs.StartCooling() }
	p.amcs.onCoolingStop = func(tai float64) { p.thcs.StopCooling() }
}

// Serve listens on addr and accepts TCP client connections until ctx is
// canceled, serving each on its own goroutine. A second concurrent client is
// not refused; all connections share the same subsystem state under one
// mutex.
func (p *MockPlant) Serve(ctx context.Context, addr string) (net.Listener, error) {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go p.handleConn(ctx, conn)
		}
	}()
	return ln, nil
}

func (p *MockPlant) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	reader := protocol.NewFrameReader(conn)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		raw, _, err := reader.RawFrame()
		if errors.Is(err, protocol.ErrMalformedFrame) {
			p.log.WithError(err).Warn("dropping malformed frame")
			continue
		}
		if err != nil {
			return
		}
		p.handleFrame(conn, raw)
	}
}

func (p *MockPlant) handleFrame(conn net.Conn, raw map[string]any) {
	idFloat, _ := raw["commandId"].(float64)
	id := uint64(idFloat)
	name, _ := raw["command"].(string)
	params, _ := raw["parameters"].(map[string]any)
	cmdName := protocol.CommandName(name)

	if name == "" {
		p.reply(conn, protocol.Reply{CommandID: id, Response: protocol.ResponseBadParameters, Timeout: -1})
		return
	}

	if p.EnableNetworkInterruption {
		p.log.WithField("command", name).Debug("dropping command: network interruption enabled")
		return
	}
	if p.EnableSlowNetwork {
		time.Sleep(p.SlowNetworkDelay)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if cmdName.IsStatusRequest() {
		p.handleStatusRequest(conn, id, cmdName)
		return
	}

	if p.CommunicationError && isRotatingPartCommand(cmdName) {
		p.reply(conn, protocol.Reply{CommandID: id, Response: protocol.ResponseRotatingNotReceived, Timeout: -1})
		return
	}

	tai := p.clock.Now()
	timeout, err := p.Dispatch(cmdName, params, tai)
	p.reply(conn, protocol.Reply{CommandID: id, Response: responseCodeFor(err), Timeout: float32(timeout)})
}

func (p *MockPlant) handleStatusRequest(conn net.Conn, id uint64, cmdName protocol.CommandName) {
	tai := p.clock.Now()
	var sub protocol.Subsystem
	var snapshot map[string]any
	switch cmdName {
	case protocol.CmdStatusAMCS:
		sub, snapshot = protocol.AMCS, p.amcs.DetermineStatus(tai)
	case protocol.CmdStatusApSCS:
		sub, snapshot = protocol.APSCS, p.apscs.DetermineStatus(tai)
	case protocol.CmdStatusLWSCS:
		sub, snapshot = protocol.LWSCS, p.lwscs.DetermineStatus(tai)
	case protocol.CmdStatusLCS:
		sub, snapshot = protocol.LCS, p.lcs.DetermineStatus(tai)
	case protocol.CmdStatusThCS:
		sub, snapshot = protocol.ThCS, p.thcs.DetermineStatus(tai)
	case protocol.CmdStatusCBCS:
		sub, snapshot = protocol.CBCS, p.cbcs.DetermineStatus(tai)
	case protocol.CmdStatusMonCS:
		sub, snapshot = protocol.MonCS, p.moncs.DetermineStatus(tai)
	case protocol.CmdStatusCSCS:
		sub, snapshot = protocol.CSCS, p.cscs.DetermineStatus(tai)
	case protocol.CmdStatusRAD:
		sub, snapshot = protocol.RAD, p.rad.DetermineStatus(tai)
	}
	payload := map[string]any{
		"commandId": id,
		"response":  protocol.ResponseOK,
		string(sub): snapshot,
	}
	p.reply(conn, payload)
}

func (p *MockPlant) reply(conn net.Conn, v any) {
	if err := protocol.WriteFrame(conn, v); err != nil {
		p.log.WithError(err).Warn("failed writing reply frame")
	}
}

func responseCodeFor(err error) protocol.ResponseCode {
	switch {
	case err == nil:
		return protocol.ResponseOK
	case err == ErrBadParameters:
		return protocol.ResponseBadParameters
	case err == ErrBadState, err == ErrFaulted:
		return protocol.ResponseBadState
	case err == ErrUnsupported:
		return protocol.ResponseUnsupported
	default:
		// Wrapped sentinel from a fmt.Errorf("%w: ...") site in a handler;
		// classifyWrapped walks the Unwrap chain to find it.
		return classifyWrapped(err)
	}
}

func classifyWrapped(err error) protocol.ResponseCode {
	switch {
	case isWrapped(err, ErrBadParameters):
		return protocol.ResponseBadParameters
	case isWrapped(err, ErrBadState), isWrapped(err, ErrFaulted):
		return protocol.ResponseBadState
	case isWrapped(err, ErrUnsupported):
		return protocol.ResponseUnsupported
	default:
		return protocol.ResponseUnsupported
	}
}

func isWrapped(err, target error) bool {
	for e := err; e != nil; {
		if e == target {
			return true
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		e = u.Unwrap()
	}
	return false
}

func isRotatingPartCommand(name protocol.CommandName) bool {
	switch name {
	case protocol.CmdMoveAz, protocol.CmdCrawlAz, protocol.CmdStopAz, protocol.CmdGoStationaryAz,
		protocol.CmdPark, protocol.CmdSetZeroAz, protocol.CmdResetDrivesAz, protocol.CmdExitFaultAz:
		return true
	default:
		return false
	}
}
