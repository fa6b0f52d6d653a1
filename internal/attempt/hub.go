package attempt

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"edulearn-server/internal/models"
)

// Message is the frame format on the attempt channel.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type answerPayload struct {
	QuestionID string `json:"questionId"`
	Option     int    `json:"option"`
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Same-origin is not meaningful behind the CORS proxy; tighten per
	// deployment.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub streams the live state of an attempt: a countdown tick every second
// and a final "submitted" event. It also accepts answer selections and a
// submit command over the same socket, so a client can run the whole
// attempt on one connection.
type Hub struct {
	engine *Engine
	log    *zap.Logger
	mu     sync.RWMutex
	conns  map[string]map[*client]bool
}

type client struct {
	conn *websocket.Conn
	send chan Message
}

func NewHub(engine *Engine, log *zap.Logger) *Hub {
	h := &Hub{
		engine: engine,
		log:    log,
		conns:  make(map[string]map[*client]bool),
	}
	engine.SetNotifier(h.notifySubmitted)
	return h
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	attemptID := mux.Vars(r)["attemptId"]
	state, remaining, result, err := h.engine.Get(attemptID)
	if err != nil {
		http.Error(w, "Attempt not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan Message, 8)}
	h.register(attemptID, c)

	// initial snapshot so a late join sees the current state immediately
	c.send <- tickMessage(state, remaining)
	if state == StateSubmitted && result != nil {
		c.send <- Message{Type: "submitted", Data: result}
	}

	go h.writePump(attemptID, c)
	go h.readPump(attemptID, c)
}

func (h *Hub) register(attemptID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[attemptID] == nil {
		h.conns[attemptID] = make(map[*client]bool)
	}
	h.conns[attemptID][c] = true
}

func (h *Hub) unregister(attemptID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.conns[attemptID]; ok {
		if clients[c] {
			delete(clients, c)
			close(c.send)
		}
		if len(clients) == 0 {
			delete(h.conns, attemptID)
		}
	}
}

func (h *Hub) broadcast(attemptID string, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns[attemptID] {
		select {
		case c.send <- msg:
		default:
			// slow consumer, drop the frame
		}
	}
}

func (h *Hub) notifySubmitted(attemptID string, result *models.QuizResult) {
	h.broadcast(attemptID, Message{Type: "submitted", Data: result})
}

func tickMessage(state State, remaining int) Message {
	return Message{Type: "tick", Data: map[string]interface{}{
		"state":     state,
		"remaining": remaining,
	}}
}

func (h *Hub) writePump(attemptID string, c *client) {
	ticker := time.NewTicker(time.Second)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
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
				return
			}
		case <-ticker.C:
			state, remaining, _, err := h.engine.Get(attemptID)
			if err != nil {
				return
			}
			if state != StateInProgress {
				continue // final event arrives via notifySubmitted
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(tickMessage(state, remaining)); err != nil {
				return
			}
		case <-ping.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) readPump(attemptID string, c *client) {
	defer func() {
		h.unregister(attemptID, c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Type {
		case "answer":
			raw, err := json.Marshal(msg.Data)
			if err != nil {
				continue
			}
			var payload answerPayload
			if err := json.Unmarshal(raw, &payload); err != nil {
				continue
			}
			if err := h.engine.SelectAnswer(attemptID, payload.QuestionID, payload.Option); err != nil {
				h.log.Debug("answer rejected",
					zap.String("attempt_id", attemptID), zap.Error(err))
			}
		case "submit":
			if _, err := h.engine.Submit(attemptID); err != nil {
				h.log.Debug("submit rejected",
					zap.String("attempt_id", attemptID), zap.Error(err))
			}
		}
	}
}
