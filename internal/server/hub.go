package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"territory-arena/internal/protocol"
)

// Hub maintains the set of connected clients and the sessions they joined.
type Hub struct {
	server   *Server
	handlers *Handlers

	clients map[*Client]bool

	// Clients in each session
	sessionClients map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once

	mu sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub(server *Server) *Hub {
	h := &Hub{
		server:         server,
		clients:        make(map[*Client]bool),
		sessionClients: make(map[string]map[*Client]bool),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		done:           make(chan struct{}),
	}
	h.handlers = NewHandlers(h)
	return h
}

// Run is the hub's main loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			client.log.Debug().Msg("client connected")
			h.sendWelcome(client)
			// One worker per client: a client's requests run in the order
			// they arrived, different clients run in parallel.
			go client.serve(h.handlers)

		case client := <-h.unregister:
			h.handleDisconnect(client)

		case <-h.done:
			return
		}
	}
}

// Stop ends Run.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Dispatch queues a message on the client's worker. It blocks while the
// client's queue is full.
func (h *Hub) Dispatch(client *Client, msg *protocol.Message) {
	select {
	case client.inbox <- msg:
	case <-client.done:
	case <-h.done:
	}
}

func (h *Hub) sendWelcome(client *Client) {
	msg, err := protocol.NewMessage(protocol.TypeWelcome, protocol.WelcomePayload{
		ServerVersion: Version,
		Rows:          h.server.cfg.Game.Rows,
		Cols:          h.server.cfg.Game.Cols,
	})
	if err != nil {
		return
	}
	client.Send(msg)
}

func (h *Hub) handleDisconnect(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)

	sessionID, _, _ := client.Binding()
	if clients, ok := h.sessionClients[sessionID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.sessionClients, sessionID)
			// Nobody is left to play it; the journal stays in the database.
			if err := h.server.sessions.Remove(sessionID); err == nil {
				log.Info().Str("session", sessionID).Msg("session closed")
			}
		}
	}

	client.log.Debug().Str("session", sessionID).Msg("client disconnected")
	client.close()
}

// JoinSession binds the client to a player slot in a session. A client
// controls at most one slot; handlers reject a second join.
func (h *Hub) JoinSession(client *Client, sessionID string, playerIndex int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sessionClients[sessionID] == nil {
		h.sessionClients[sessionID] = make(map[*Client]bool)
	}
	h.sessionClients[sessionID][client] = true
	client.bind(sessionID, playerIndex)
}

// SessionClientCount returns the number of clients bound to a session.
func (h *Hub) SessionClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessionClients[sessionID])
}

// notifySession sends a message to every client in a session.
func (h *Hub) notifySession(sessionID string, msgType protocol.MessageType, payload interface{}) {
	msg, err := protocol.NewMessage(msgType, payload)
	if err != nil {
		log.Error().Err(err).Str("type", string(msgType)).Msg("encode broadcast")
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.sessionClients[sessionID]))
	for c := range h.sessionClients[sessionID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

// Client is one WebSocket connection, bound to at most one player slot.
type Client struct {
	ID  string
	hub *Hub

	conn  *websocket.Conn
	send  chan *protocol.Message
	inbox chan *protocol.Message
	done  chan struct{}
	log   zerolog.Logger

	mu          sync.Mutex
	closed      bool
	sessionID   string
	playerIndex int
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 65536
	sendBuffer     = 256
)

// NewClient creates a client for conn. conn may be nil for a client that is
// driven directly through the hub.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	id := uuid.New().String()
	return &Client{
		ID:          id,
		hub:         hub,
		conn:        conn,
		send:        make(chan *protocol.Message, sendBuffer),
		inbox:       make(chan *protocol.Message, sendBuffer),
		done:        make(chan struct{}),
		log:         log.With().Str("client", id[:8]).Logger(),
		playerIndex: -1,
	}
}

// Binding returns the session and player index the client controls.
func (c *Client) Binding() (sessionID string, playerIndex int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID, c.playerIndex, c.sessionID != ""
}

func (c *Client) bind(sessionID string, playerIndex int) {
	c.mu.Lock()
	c.sessionID = sessionID
	c.playerIndex = playerIndex
	c.mu.Unlock()
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
		close(c.done)
	}
}

// serve handles the client's queued requests one at a time until the client
// or the hub goes away.
func (c *Client) serve(h *Handlers) {
	for {
		select {
		case msg := <-c.inbox:
			h.Handle(c, msg)
		case <-c.done:
			return
		case <-c.hub.done:
			return
		}
	}
}

// Send queues a message. A client whose buffer is full is dropped.
func (c *Client) Send(msg *protocol.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- msg:
	default:
		c.log.Warn().Msg("send buffer full, dropping client")
		go c.hub.Unregister(c)
	}
}

// ReadPump pumps messages from the WebSocket to the hub.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn().Err(err).Msg("websocket read")
			}
			return
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.log.Warn().Err(err).Msg("invalid message")
			continue
		}
		c.hub.Dispatch(c, &msg)
	}
}

// WritePump pumps messages from the hub to the WebSocket.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.log.Debug().Err(err).Msg("websocket write")
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
