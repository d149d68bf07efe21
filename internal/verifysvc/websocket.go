package verifysvc

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mjpearson/pagedfile/internal/logging"
)

// ProgressMessage is one frame of a verification job's progress stream.
type ProgressMessage struct {
	Type      string `json:"type"` // "progress", "complete", "error"
	Progress  int    `json:"progress"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Client is a single WebSocket connection subscribed to one job's
// progress.
type Client struct {
	hub   *Hub
	jobID string
	conn  *websocket.Conn
	send  chan []byte
}

// Hub fans out verification-job progress to the WebSocket clients
// subscribed to each job.
type Hub struct {
	allowedOrigins []string

	mu      sync.RWMutex
	clients map[string]map[*Client]bool // jobID -> subscribed clients
}

// NewHub creates a Hub that only accepts WebSocket upgrades from the given
// origins ("*" allows any origin, intended for local/CLI use only).
func NewHub(allowedOrigins []string) *Hub {
	return &Hub{
		allowedOrigins: allowedOrigins,
		clients:        make(map[string]map[*Client]bool),
	}
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// Serve upgrades r into a WebSocket connection subscribed to jobID's
// progress stream.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, jobID string) error {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{hub: h, jobID: jobID, conn: conn, send: make(chan []byte, 32)}
	h.register(client)

	go client.writePump()
	go client.readPump()
	return nil
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.jobID] == nil {
		h.clients[c.jobID] = make(map[*Client]bool)
	}
	h.clients[c.jobID][c] = true
	logging.Info("verifysvc_client_connected", "job_id", c.jobID, "clients", len(h.clients[c.jobID]))
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.clients[c.jobID]; ok {
		if _, ok := clients[c]; ok {
			delete(clients, c)
			close(c.send)
		}
		if len(clients) == 0 {
			delete(h.clients, c.jobID)
		}
	}
}

// Broadcast sends msg to every client subscribed to jobID.
func (h *Hub) Broadcast(jobID string, msg ProgressMessage) {
	if msg.Timestamp == "" {
		msg.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	data, err := json.Marshal(msg)
	if err != nil {
		logging.Error("verifysvc_marshal_failed", "error", err.Error())
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[jobID] {
		select {
		case client.send <- data:
		default:
			logging.Warn("verifysvc_broadcast_channel_full", "job_id", jobID)
		}
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
