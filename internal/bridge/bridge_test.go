package bridge

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"domebridge/internal/config"
	"domebridge/internal/protocol"
)

// startEchoServer accepts one connection and replies OK to every command it
// receives, recording the names it saw in order.
func startEchoServer(t *testing.T) (addr string, seen chan protocol.CommandName) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	seen = make(chan protocol.CommandName, 32)

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		reader := protocol.NewFrameReader(conn)
		for {
			var cmd protocol.Command
			if err := reader.ReadFrame(&cmd); err != nil {
				return
			}
			seen <- cmd.Name
			_ = protocol.WriteFrame(conn, protocol.Reply{CommandID: cmd.ID, Response: protocol.ResponseOK, Timeout: 0})
		}
	}()
	t.Cleanup(func() { ln.Close() })
	return ln.Addr().String(), seen
}

func discardLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(discardWriter{})
	return logrus.NewEntry(l)
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func splitHostPort(t *testing.T, addr string) (string, int) {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port
}

func TestDomeBridgeConnectAndSendStopAz(t *testing.T) {
	addr, seen := startEchoServer(t)
	host, port := splitHostPort(t, addr)

	b := NewDomeBridge(config.Config{Host: host, Port: port}, discardLog())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, b.Connect(ctx))
	defer b.Disconnect()

	require.NoError(t, b.StopAz())
	select {
	case name := <-seen:
		require.Equal(t, protocol.CmdStopAz, name)
	case <-time.After(2 * time.Second):
		t.Fatal("server never saw stopAz")
	}
}

func TestDomeBridgeExitFaultResetsBeforeExit(t *testing.T) {
	addr, seen := startEchoServer(t)
	host, port := splitHostPort(t, addr)

	b := NewDomeBridge(config.Config{Host: host, Port: port}, discardLog())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, b.Connect(ctx))
	defer b.Disconnect()

	require.NoError(t, b.ExitFault(MaskFor(protocol.AMCS)))

	require.Equal(t, protocol.CmdResetDrivesAz, <-seen)
	require.Equal(t, protocol.CmdExitFaultAz, <-seen)
}

func TestCommandIDNeverReused(t *testing.T) {
	addr, seen := startEchoServer(t)
	host, port := splitHostPort(t, addr)

	b := NewDomeBridge(config.Config{Host: host, Port: port}, discardLog())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, b.Connect(ctx))
	defer b.Disconnect()

	require.NoError(t, b.StopAz())
	require.NoError(t, b.StopEl())
	<-seen
	<-seen

	first := b.nextCommandID()
	second := b.nextCommandID()
	require.NotEqual(t, first, second)
}
