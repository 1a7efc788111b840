package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Client represents a WebSocket connection client
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
}

// MessageHandler processes an inbound frame from a connected client.
type MessageHandler func(client *Client, payload []byte)

// DisconnectHandler runs after a client's connection is torn down, so
// per-user session state (chat watches, inbox feeds) can be released.
type DisconnectHandler func(userID string)

// Manager manages all active WebSocket connections
type Manager struct {
	clients      map[string]*Client
	Register     chan *Client
	Unregister   chan *Client
	onDisconnect DisconnectHandler
	mutex        sync.RWMutex
}

// NewManager creates a new WebSocket connection manager
func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// OnDisconnect registers the teardown hook invoked when a client leaves.
// Must be set before Start.
func (m *Manager) OnDisconnect(h DisconnectHandler) {
	m.onDisconnect = h
}

// Start runs the manager's main loop in a goroutine
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				// A reconnect replaces the previous connection for the
				// same user; the old send channel is closed so its
				// write pump exits.
				if old, ok := m.clients[client.UserID]; ok {
					close(old.Send)
				}
				m.clients[client.UserID] = client
				m.mutex.Unlock()
				log.Printf("Client registered: %s", client.UserID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				current, ok := m.clients[client.UserID]
				if ok && current == client {
					delete(m.clients, client.UserID)
					close(client.Send)
				}
				m.mutex.Unlock()
				if ok && current == client {
					log.Printf("Client unregistered: %s", client.UserID)
					if m.onDisconnect != nil {
						m.onDisconnect(client.UserID)
					}
				}

			case <-ctx.Done():
				return
			}
		}
	}()
}

// SendToUser sends a message to a specific user
func (m *Manager) SendToUser(userID string, message []byte) {
	m.mutex.RLock()
	client, ok := m.clients[userID]
	m.mutex.RUnlock()

	if !ok {
		return
	}

	select {
	case client.Send <- message:
	default:
		log.Printf("SendToUser: dropping frame for slow client %s", userID)
	}
}

// SendJSONToUser marshals the payload and sends it to a specific user.
func (m *Manager) SendJSONToUser(userID string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("SendJSONToUser Error: %v", err)
		return
	}
	m.SendToUser(userID, data)
}

// IsConnected reports whether the user currently has an open connection.
func (m *Manager) IsConnected(userID string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	_, ok := m.clients[userID]
	return ok
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump(m *Manager, handle MessageHandler) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}

		if handle != nil {
			handle(c, message)
		}
	}
}

// WritePump sends messages to the WebSocket connection
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		err := c.Conn.WriteMessage(websocket.TextMessage, message)
		if err != nil {
			log.Printf("error: %v", err)
			return
		}
	}
}
