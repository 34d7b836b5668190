package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"quiz-platform/pkg/logger"
)

// Message represents the standard message format exchanged over WebSocket.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

const (
	StatusMessageType      = "status"
	UsersOnlineMessageType = "usersOnline"

	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 256
)

// Authenticator resolves the token query parameter to a user id.
type Authenticator func(token string) (string, error)

// Hub tracks live connections per user and the set of users marked online.
type Hub struct {
	clients       map[*Client]bool
	clientsByUser map[string]map[*Client]bool
	online        map[string]bool
	register      chan *Client
	unregister    chan *Client
	stopped       chan struct{}
	mu            sync.RWMutex
	authenticate  Authenticator
	upgrader      websocket.Upgrader
}

// NewHub builds a hub. An empty allowedOrigins accepts any origin.
func NewHub(authenticate Authenticator, allowedOrigins []string) *Hub {
	h := &Hub{
		clients:       make(map[*Client]bool),
		clientsByUser: make(map[string]map[*Client]bool),
		online:        make(map[string]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		stopped:       make(chan struct{}),
		authenticate:  authenticate,
	}

	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return len(origins) == 0 || origin == "" || origins[origin]
		},
	}
	return h
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		userID: userID,
	}
}

// Run listens on the register and unregister channels until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)
	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			if h.removeClient(client) {
				h.broadcastPresence()
			}

		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				h.dropLocked(client)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	if h.clientsByUser[client.userID] == nil {
		h.clientsByUser[client.userID] = make(map[*Client]bool)
	}
	h.clientsByUser[client.userID][client] = true
	logger.Log.Debug("WebSocket client registered", zap.String("user_id", client.userID))
}

// removeClient reports whether the user's presence changed.
func (h *Hub) removeClient(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropLocked(client)
}

func (h *Hub) dropLocked(client *Client) bool {
	if !h.clients[client] {
		return false
	}
	delete(h.clients, client)
	close(client.send)

	conns := h.clientsByUser[client.userID]
	delete(conns, client)
	if len(conns) > 0 {
		return false
	}
	delete(h.clientsByUser, client.userID)

	if h.online[client.userID] {
		delete(h.online, client.userID)
		return true
	}
	return false
}

// SendMessageToUser delivers to every connection of userID. Clients whose buffer
// is full are dropped.
func (h *Hub) SendMessageToUser(userID string, messageType string, data interface{}) {
	payload, err := json.Marshal(Message{Type: messageType, Data: data})
	if err != nil {
		logger.Log.Error("Error marshaling message", zap.String("user_id", userID), zap.Error(err))
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clientsByUser[userID]))
	for client := range h.clientsByUser[userID] {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		logger.Log.Debug("No active client found for user", zap.String("user_id", userID))
		return
	}
	h.deliver(targets, payload)
}

func (h *Hub) BroadcastMessage(messageType string, data interface{}) {
	payload, err := json.Marshal(Message{Type: messageType, Data: data})
	if err != nil {
		logger.Log.Error("Error marshaling broadcast", zap.String("type", messageType), zap.Error(err))
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	h.deliver(targets, payload)
}

func (h *Hub) deliver(targets []*Client, payload []byte) {
	presenceChanged := false

	h.mu.Lock()
	for _, client := range targets {
		if !h.clients[client] {
			continue
		}
		select {
		case client.send <- payload:
		default:
			logger.Log.Warn("Send channel full; dropping client", zap.String("user_id", client.userID))
			if h.dropLocked(client) {
				presenceChanged = true
			}
		}
	}
	h.mu.Unlock()

	if presenceChanged {
		h.broadcastPresence()
	}
}

// OnlineUsers returns the ids marked online, sorted.
func (h *Hub) OnlineUsers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users := make([]string, 0, len(h.online))
	for id := range h.online {
		users = append(users, id)
	}
	sort.Strings(users)
	return users
}

// ConnectionCount returns the number of live connections of userID.
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clientsByUser[userID])
}

func (h *Hub) setPresence(userID string, online bool) {
	h.mu.Lock()
	if online {
		if len(h.clientsByUser[userID]) == 0 {
			h.mu.Unlock()
			return
		}
		h.online[userID] = true
	} else {
		delete(h.online, userID)
	}
	h.mu.Unlock()

	h.broadcastPresence()
}

func (h *Hub) broadcastPresence() {
	h.BroadcastMessage(UsersOnlineMessageType, h.OnlineUsers())
}

// HandleWebSocket authenticates the token query parameter, upgrades the connection
// and registers the client.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	userID, err := h.authenticate(token)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warn("WebSocket upgrade error", zap.Error(err))
		return
	}

	client := NewClient(h, conn, userID)
	select {
	case h.register <- client:
	case <-h.stopped:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.stopped:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Debug("Unexpected close", zap.String("user_id", c.userID), zap.Error(err))
			}
			break
		}
		c.handleMessage(message)
	}
}

type statusData struct {
	Status string `json:"status"`
}

func (c *Client) handleMessage(message []byte) {
	var msg struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Log.Debug("Error unmarshaling message", zap.String("user_id", c.userID), zap.Error(err))
		return
	}

	switch msg.Type {
	case StatusMessageType:
		var data statusData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return
		}
		switch data.Status {
		case "online":
			c.hub.setPresence(c.userID, true)
		case "offline":
			c.hub.setPresence(c.userID, false)
		}
	default:
		logger.Log.Debug("Ignoring message", zap.String("type", msg.Type))
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Log.Debug("Error writing message", zap.String("user_id", c.userID), zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
