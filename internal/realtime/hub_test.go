//go:build unit

package realtime_test

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"cuetab/internal/metrics"
	"cuetab/internal/pkg/config"
	"cuetab/internal/realtime"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn stands in for a websocket connection: frames pushed to in are what
// the terminal sends, frames on out are what the hub wrote back.
type fakeConn struct {
	in        chan []byte
	out       chan []byte
	closed    chan struct{}
	closeOnce sync.Once

	mu          sync.Mutex
	pongHandler func(string) error
	answerPings bool
	controlErr  error
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		in:     make(chan []byte, 16),
		out:    make(chan []byte, 64),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case raw := <-c.in:
		return websocket.TextMessage, raw, nil
	case <-c.closed:
		return 0, nil, net.ErrClosed
	}
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	select {
	case <-c.closed:
		return net.ErrClosed
	default:
	}
	if messageType == websocket.TextMessage {
		c.out <- data
	}
	return nil
}

func (c *fakeConn) WriteControl(messageType int, _ []byte, _ time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controlErr != nil {
		return c.controlErr
	}
	if messageType == websocket.PingMessage && c.answerPings && c.pongHandler != nil {
		_ = c.pongHandler("")
	}
	return nil
}

func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }
func (c *fakeConn) SetReadLimit(int64)               {}

func (c *fakeConn) SetPongHandler(h func(string) error) {
	c.mu.Lock()
	c.pongHandler = h
	c.mu.Unlock()
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

type fakeSnapshots struct {
	tablesErr error
}

func (f *fakeSnapshots) TablesSnapshot(context.Context) (any, error) {
	if f.tablesErr != nil {
		return nil, f.tablesErr
	}
	return map[string]any{"tables": []any{}}, nil
}

func (f *fakeSnapshots) SessionsSnapshot(context.Context) (any, error) {
	return map[string]any{"sessions": []any{}}, nil
}

func (f *fakeSnapshots) LayoutSnapshot(context.Context) (any, error) {
	return map[string]any{"layout": nil}, nil
}

func newTestHub(t *testing.T, snapshots realtime.SnapshotSource) *realtime.Hub {
	t.Helper()
	if snapshots == nil {
		snapshots = &fakeSnapshots{}
	}
	hub := realtime.NewHub(config.NewTestConfig().WS, metrics.NewForTest(), snapshots)
	t.Cleanup(hub.Stop)
	return hub
}

func connect(t *testing.T, hub *realtime.Hub) *fakeConn {
	t.Helper()
	conn := newFakeConn()
	hub.Register(conn)

	hello := recv(t, conn)
	require.Equal(t, realtime.MsgConnectionEstablished, hello.Type)
	require.NotEmpty(t, hello.ClientID)
	return conn
}

func send(t *testing.T, conn *fakeConn, msg realtime.ClientMessage) {
	t.Helper()
	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	conn.in <- raw
}

func recv(t *testing.T, conn *fakeConn) realtime.ServerMessage {
	t.Helper()
	select {
	case frame := <-conn.out:
		var msg realtime.ServerMessage
		require.NoError(t, json.Unmarshal(frame, &msg))
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
		return realtime.ServerMessage{}
	}
}

func assertSilent(t *testing.T, conn *fakeConn) {
	t.Helper()
	select {
	case frame := <-conn.out:
		t.Fatalf("expected no frame, got %s", frame)
	case <-time.After(100 * time.Millisecond):
	}
}

func subscribe(t *testing.T, conn *fakeConn, resource string) {
	t.Helper()
	send(t, conn, realtime.ClientMessage{Type: realtime.MsgSubscribe, Resource: resource})
	msg := recv(t, conn)
	require.Equal(t, realtime.MsgSubscriptionConfirmed, msg.Type)
	require.Equal(t, resource, msg.Resource)
}

func TestHub_BroadcastReachesSubscribersOnly(t *testing.T) {
	hub := newTestHub(t, nil)

	sub1 := connect(t, hub)
	sub2 := connect(t, hub)
	bystander := connect(t, hub)

	subscribe(t, sub1, realtime.ResourceTables)
	subscribe(t, sub2, realtime.ResourceTables)

	hub.Broadcast(realtime.ResourceTables, realtime.ServerMessage{
		Type:      realtime.MsgTableUpdated,
		Table:     map[string]any{"id": "t1", "status": "occupied"},
		Timestamp: time.Now().UTC(),
	})

	for _, conn := range []*fakeConn{sub1, sub2} {
		msg := recv(t, conn)
		assert.Equal(t, realtime.MsgTableUpdated, msg.Type)
	}
	assertSilent(t, bystander)

	clients, subs := hub.Stats()
	assert.Equal(t, 3, clients)
	assert.Equal(t, 2, subs[realtime.ResourceTables])
}

func TestHub_PingPong(t *testing.T) {
	hub := newTestHub(t, nil)
	conn := connect(t, hub)

	send(t, conn, realtime.ClientMessage{Type: realtime.MsgPing})
	msg := recv(t, conn)
	assert.Equal(t, realtime.MsgPong, msg.Type)
}

func TestHub_ProtocolErrors(t *testing.T) {
	hub := newTestHub(t, nil)

	t.Run("malformed json", func(t *testing.T) {
		conn := connect(t, hub)
		conn.in <- []byte("{not json")

		msg := recv(t, conn)
		assert.Equal(t, realtime.MsgError, msg.Type)
		assert.Equal(t, realtime.ErrCodeInvalidMessage, msg.Code)
	})

	t.Run("subscribe without resource", func(t *testing.T) {
		conn := connect(t, hub)
		send(t, conn, realtime.ClientMessage{Type: realtime.MsgSubscribe})

		msg := recv(t, conn)
		assert.Equal(t, realtime.MsgError, msg.Type)
		assert.Equal(t, realtime.ErrCodeMissingResource, msg.Code)
	})

	t.Run("request update for unknown resource", func(t *testing.T) {
		conn := connect(t, hub)
		send(t, conn, realtime.ClientMessage{Type: realtime.MsgRequestUpdate, Resource: "invoices"})

		msg := recv(t, conn)
		assert.Equal(t, realtime.MsgError, msg.Type)
		assert.Equal(t, realtime.ErrCodeInvalidResource, msg.Code)
	})

	t.Run("unknown message type gets an error reply", func(t *testing.T) {
		conn := connect(t, hub)
		send(t, conn, realtime.ClientMessage{Type: "teleport"})

		msg := recv(t, conn)
		assert.Equal(t, realtime.MsgError, msg.Type)
		assert.Equal(t, realtime.ErrCodeInvalidMessage, msg.Code)

		// The connection survives and keeps serving the protocol.
		send(t, conn, realtime.ClientMessage{Type: realtime.MsgPing})
		assert.Equal(t, realtime.MsgPong, recv(t, conn).Type)
	})
}

func TestHub_RequestUpdate(t *testing.T) {
	t.Run("returns a snapshot", func(t *testing.T) {
		hub := newTestHub(t, nil)
		conn := connect(t, hub)

		send(t, conn, realtime.ClientMessage{Type: realtime.MsgRequestUpdate, Resource: realtime.ResourceTables})

		msg := recv(t, conn)
		assert.Equal(t, realtime.MsgUpdate, msg.Type)
		assert.Equal(t, realtime.ResourceTables, msg.Resource)
		assert.NotNil(t, msg.Data)
	})

	t.Run("snapshot failure", func(t *testing.T) {
		hub := newTestHub(t, &fakeSnapshots{tablesErr: errors.New("db down")})
		conn := connect(t, hub)

		send(t, conn, realtime.ClientMessage{Type: realtime.MsgRequestUpdate, Resource: realtime.ResourceTables})

		msg := recv(t, conn)
		assert.Equal(t, realtime.MsgError, msg.Type)
		assert.Equal(t, realtime.ErrCodeUpdateFailed, msg.Code)
	})
}

func TestHub_Unsubscribe(t *testing.T) {
	t.Run("confirmed only when a subscription existed", func(t *testing.T) {
		hub := newTestHub(t, nil)
		conn := connect(t, hub)

		send(t, conn, realtime.ClientMessage{Type: realtime.MsgUnsubscribe, Resource: realtime.ResourceTables})
		assertSilent(t, conn)

		subscribe(t, conn, realtime.ResourceTables)
		send(t, conn, realtime.ClientMessage{Type: realtime.MsgUnsubscribe, Resource: realtime.ResourceTables})
		msg := recv(t, conn)
		assert.Equal(t, realtime.MsgUnsubscribeConfirmed, msg.Type)
	})

	t.Run("no more events after unsubscribing", func(t *testing.T) {
		hub := newTestHub(t, nil)
		conn := connect(t, hub)

		subscribe(t, conn, realtime.ResourceSessions)
		send(t, conn, realtime.ClientMessage{Type: realtime.MsgUnsubscribe, Resource: realtime.ResourceSessions})
		msg := recv(t, conn)
		require.Equal(t, realtime.MsgUnsubscribeConfirmed, msg.Type)

		hub.Broadcast(realtime.ResourceSessions, realtime.ServerMessage{Type: realtime.MsgSessionUpdated})
		assertSilent(t, conn)
	})
}

func TestHub_BroadcastLayoutUpdated(t *testing.T) {
	hub := newTestHub(t, nil)

	subscriber := connect(t, hub)
	bystander := connect(t, hub)
	subscribe(t, subscriber, realtime.ResourceLayout)

	hub.BroadcastLayoutUpdated(map[string]any{"id": "l1", "name": "Main Floor"})

	msg := recv(t, subscriber)
	assert.Equal(t, realtime.MsgLayoutUpdated, msg.Type)
	assert.NotNil(t, msg.Layout)
	assertSilent(t, bystander)
}

func TestHub_SweepDropsSilentClients(t *testing.T) {
	cfg := config.NewTestConfig().WS
	cfg.PingInterval = 50 * time.Millisecond

	hub := realtime.NewHub(cfg, metrics.NewForTest(), &fakeSnapshots{})
	t.Cleanup(hub.Stop)
	hub.Start()

	healthy := newFakeConn()
	healthy.answerPings = true
	hub.Register(healthy)
	require.Equal(t, realtime.MsgConnectionEstablished, recv(t, healthy).Type)
	subscribe(t, healthy, realtime.ResourceTables)

	silent := connect(t, hub)
	subscribe(t, silent, realtime.ResourceSessions)

	// The silent terminal misses the first sweep's ping and is dropped on
	// the second; the healthy one answers pings and stays.
	require.Eventually(t, func() bool {
		clients, _ := hub.Stats()
		return clients == 1
	}, 2*time.Second, 10*time.Millisecond, "silent client was not dropped")

	require.Eventually(t, func() bool {
		select {
		case <-silent.closed:
			return true
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond, "silent connection was not closed")

	clients, subs := hub.Stats()
	assert.Equal(t, 1, clients)
	assert.Equal(t, 1, subs[realtime.ResourceTables])
	assert.Zero(t, subs[realtime.ResourceSessions])
}

func TestHub_SweepDropsClientsWithBrokenPings(t *testing.T) {
	cfg := config.NewTestConfig().WS
	cfg.PingInterval = 20 * time.Millisecond

	hub := realtime.NewHub(cfg, metrics.NewForTest(), &fakeSnapshots{})
	t.Cleanup(hub.Stop)
	hub.Start()

	broken := newFakeConn()
	broken.controlErr = errors.New("broken pipe")
	hub.Register(broken)
	require.Equal(t, realtime.MsgConnectionEstablished, recv(t, broken).Type)

	// A failing ping write drops the client on the first sweep, without
	// waiting out the missed-pong grace period.
	require.Eventually(t, func() bool {
		clients, _ := hub.Stats()
		return clients == 0
	}, 2*time.Second, 10*time.Millisecond, "client with a dead socket was not dropped")
}

func TestHub_StopDisconnectsEverything(t *testing.T) {
	hub := newTestHub(t, nil)
	connect(t, hub)
	connect(t, hub)

	hub.Stop()

	clients, _ := hub.Stats()
	assert.Equal(t, 0, clients)
}
