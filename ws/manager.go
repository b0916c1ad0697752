package ws

import (
	"sync"

	"workhub_backend/internal/logger"
)

// Manager keeps the set of connected clients and fans events out to
// them. It satisfies services.ChatBroadcaster, so the chat service can
// push new messages without knowing about websockets.
type Manager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			// A reconnect replaces the previous socket for the user.
			if old, ok := m.clients[client.userID]; ok {
				close(old.send)
			}
			m.clients[client.userID] = client
			total := len(m.clients)
			m.mu.Unlock()
			logger.Debug("websocket client registered", "user_id", client.userID, "total", total)

		case client := <-m.unregister:
			m.mu.Lock()
			if current, ok := m.clients[client.userID]; ok && current == client {
				close(client.send)
				delete(m.clients, client.userID)
			}
			total := len(m.clients)
			m.mu.Unlock()
			logger.Debug("websocket client unregistered", "user_id", client.userID, "total", total)
		}
	}
}

// BroadcastToUser delivers the event to the user's open socket, if any.
// A slow client is dropped rather than blocking the sender.
func (m *Manager) BroadcastToUser(userID string, event interface{}) {
	m.mu.RLock()
	client, ok := m.clients[userID]
	m.mu.RUnlock()
	if !ok {
		return
	}

	select {
	case client.send <- event:
	default:
		logger.Warn("dropping websocket client with full send buffer", "user_id", userID)
		go func() { m.unregister <- client }()
	}
}

func (m *Manager) IsConnected(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.clients[userID]
	return ok
}

func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}
