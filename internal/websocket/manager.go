// Package websocket implements the change feed: a hub that pushes item
// mutation events to every connected client. Single-user deployment, so
// there is no per-user routing; every client sees every event.
package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"driftnote-server/internal/domain"

	"go.uber.org/zap"
)

type Manager struct {
	clients      map[string]*Client
	clientsMutex sync.RWMutex
	Register     chan *Client
	Unregister   chan *Client
	writeWait    time.Duration
	pongWait     time.Duration
	pingPeriod   time.Duration
	logger       *zap.Logger
}

func NewManager(writeWait, pongWait, pingPeriod time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		writeWait:  writeWait,
		pongWait:   pongWait,
		pingPeriod: pingPeriod,
		logger:     logger,
	}
}

func (m *Manager) Run() {
	for {
		select {
		case client := <-m.Register:
			m.registerClient(client)

		case client := <-m.Unregister:
			m.unregisterClient(client)
		}
	}
}

func (m *Manager) registerClient(client *Client) {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	m.clients[client.ID] = client
	m.logger.Info("change feed client connected", zap.String("client", client.ID))
}

func (m *Manager) unregisterClient(client *Client) {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	if _, ok := m.clients[client.ID]; ok {
		delete(m.clients, client.ID)
		close(client.Send)
		m.logger.Info("change feed client disconnected", zap.String("client", client.ID))
	}
}

// Broadcast fans an item event out to every connected client. Implements
// the orchestrator's event sink.
func (m *Manager) Broadcast(event *domain.ItemEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		m.logger.Error("failed to marshal item event", zap.Error(err))
		return
	}

	message := &Message{
		Type:      messageType(event.Action),
		Timestamp: time.Now(),
		Payload:   payload,
	}
	frame, err := json.Marshal(message)
	if err != nil {
		m.logger.Error("failed to marshal change feed frame", zap.Error(err))
		return
	}

	m.clientsMutex.RLock()
	defer m.clientsMutex.RUnlock()

	for id, client := range m.clients {
		select {
		case client.Send <- frame:
		default:
			m.logger.Warn("client send buffer full, dropping connection", zap.String("client", id))
			go func(c *Client) { m.Unregister <- c }(client)
		}
	}
}

func messageType(action domain.EventAction) MessageType {
	switch action {
	case domain.EventUpdated:
		return TypeItemUpdated
	case domain.EventDeleted:
		return TypeItemDeleted
	default:
		return TypeItemCreated
	}
}

func (m *Manager) ClientCount() int {
	m.clientsMutex.RLock()
	defer m.clientsMutex.RUnlock()
	return len(m.clients)
}
