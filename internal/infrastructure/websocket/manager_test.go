package websocket

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const managerTick = 5 * time.Millisecond

func startManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	m.Start(ctx)
	return m
}

func testClient(userID string) *Client {
	return &Client{UserID: userID, Send: make(chan []byte, 4)}
}

func isClosed(ch chan []byte) bool {
	select {
	case _, ok := <-ch:
		return !ok
	default:
		return false
	}
}

func TestManagerSendToUser(t *testing.T) {
	m := startManager(t)

	client := testClient("bob")
	m.Register <- client
	require.Eventually(t, func() bool { return m.IsConnected("bob") }, time.Second, managerTick)

	m.SendToUser("bob", []byte("hello"))
	assert.Equal(t, []byte("hello"), <-client.Send)

	// A message for a user with no connection is dropped silently.
	m.SendToUser("nobody", []byte("void"))
}

func TestManagerReconnectReplacesClient(t *testing.T) {
	m := startManager(t)

	first := testClient("bob")
	m.Register <- first
	require.Eventually(t, func() bool { return m.IsConnected("bob") }, time.Second, managerTick)

	second := testClient("bob")
	m.Register <- second

	// The stale connection's send channel is closed so its write pump
	// exits; new messages land on the replacement.
	require.Eventually(t, func() bool { return isClosed(first.Send) }, time.Second, managerTick)

	m.SendToUser("bob", []byte("after reconnect"))
	assert.Equal(t, []byte("after reconnect"), <-second.Send)
}

func TestManagerStaleUnregisterDoesNotDisconnectReplacement(t *testing.T) {
	m := startManager(t)

	var mu sync.Mutex
	var disconnects []string
	m.OnDisconnect(func(userID string) {
		mu.Lock()
		disconnects = append(disconnects, userID)
		mu.Unlock()
	})

	first := testClient("bob")
	m.Register <- first
	require.Eventually(t, func() bool { return m.IsConnected("bob") }, time.Second, managerTick)

	second := testClient("bob")
	m.Register <- second
	require.Eventually(t, func() bool { return isClosed(first.Send) }, time.Second, managerTick)

	// The old connection's read pump unregistering must not tear down
	// the replacement's session.
	m.Unregister <- first
	time.Sleep(20 * time.Millisecond)
	assert.True(t, m.IsConnected("bob"))
	mu.Lock()
	assert.Empty(t, disconnects)
	mu.Unlock()

	m.Unregister <- second
	require.Eventually(t, func() bool { return !m.IsConnected("bob") }, time.Second, managerTick)
	mu.Lock()
	assert.Equal(t, []string{"bob"}, disconnects)
	mu.Unlock()
}
