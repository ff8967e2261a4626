package websocket

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"ikam/pkg/subscription"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// Client represents a WebSocket connection client. Every listener the
// connection opens is tracked under a key and cancelled on disconnect.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	mu      sync.Mutex
	subs    map[string]*subscription.Subscription
	closing bool
}

func NewClient(userID string, conn *websocket.Conn, sendBuffer int) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
		subs:   make(map[string]*subscription.Subscription),
	}
}

// Manager manages all active WebSocket connections
type Manager struct {
	clients    map[string]map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex

	services Services
	ctx      context.Context
	stopped  chan struct{}
}

// NewManager creates a new WebSocket connection manager
func NewManager(services Services) *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		services:   services,
		ctx:        context.Background(),
		stopped:    make(chan struct{}),
	}
}

// Start runs the manager's main loop in a goroutine. When ctx is done every
// connected client is closed.
func (m *Manager) Start(ctx context.Context) {
	m.ctx = ctx
	go func() {
		defer close(m.stopped)
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				if m.clients[client.UserID] == nil {
					m.clients[client.UserID] = make(map[*Client]bool)
				}
				m.clients[client.UserID][client] = true
				m.mutex.Unlock()
				log.Printf("Client registered: %s", client.UserID)
				m.handleSubscribeProfile(client)

			case client := <-m.Unregister:
				m.remove(client)
				log.Printf("Client unregistered: %s", client.UserID)

			case <-ctx.Done():
				m.mutex.Lock()
				all := m.clients
				m.clients = make(map[string]map[*Client]bool)
				m.mutex.Unlock()
				for _, set := range all {
					for client := range set {
						client.closeAll()
					}
				}
				return
			}
		}
	}()
}

func (m *Manager) remove(client *Client) {
	m.mutex.Lock()
	if set, ok := m.clients[client.UserID]; ok {
		delete(set, client)
		if len(set) == 0 {
			delete(m.clients, client.UserID)
		}
	}
	m.mutex.Unlock()
	client.closeAll()
}

// SendToUser sends a message to every connection of a user
func (m *Manager) SendToUser(userID string, message []byte) {
	m.mutex.RLock()
	targets := make([]*Client, 0, len(m.clients[userID]))
	for client := range m.clients[userID] {
		targets = append(targets, client)
	}
	m.mutex.RUnlock()

	for _, client := range targets {
		client.trySend(message)
	}
}

// ConnectionCount reports how many connections userID has open.
func (m *Manager) ConnectionCount(userID string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients[userID])
}

func (c *Client) trySend(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closing {
		return false
	}
	select {
	case c.Send <- message:
		return true
	default:
		log.Printf("WebSocket: send buffer full for %s, dropping connection", c.UserID)
		if c.Conn != nil {
			c.Conn.Close()
		}
		return false
	}
}

// track stores sub under key, cancelling whatever was subscribed there before.
func (c *Client) track(key string, sub *subscription.Subscription) {
	c.mu.Lock()
	if c.closing {
		c.mu.Unlock()
		sub.Cancel()
		return
	}
	previous := c.subs[key]
	c.subs[key] = sub
	c.mu.Unlock()

	if previous != nil {
		previous.Cancel()
	}
}

func (c *Client) untrack(key string) bool {
	c.mu.Lock()
	sub, ok := c.subs[key]
	delete(c.subs, key)
	c.mu.Unlock()

	if ok {
		sub.Cancel()
	}
	return ok
}

// subscriptionCount reports how many listeners the connection holds.
func (c *Client) subscriptionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// closeAll cancels every listener and then closes Send. Listener callbacks
// never run after their Cancel returns, so nothing writes to Send afterwards.
func (c *Client) closeAll() {
	c.mu.Lock()
	if c.closing {
		c.mu.Unlock()
		return
	}
	c.closing = true
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}
	close(c.Send)
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		select {
		case m.Unregister <- c:
		case <-m.stopped:
			c.closeAll()
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}
		m.HandleClientMessage(c, message)
	}
}

// WritePump sends messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("error: %v", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
