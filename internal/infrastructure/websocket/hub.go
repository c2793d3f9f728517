// Package websocket pushes appointment events to connected clients.
// Clients subscribe to topics and receive every message broadcast to them.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"hospital-appointment-service/pkg/response"

	"github.com/google/uuid"
	gorillawebsocket "github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	sendBufferSize = 256
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// ClientMessage is an inbound subscription request:
//
//	{"action":"subscribe","topics":["appointments","doctor:<id>"]}
type ClientMessage struct {
	Action string   `json:"action"`
	Topics []string `json:"topics"`
}

// Client is one websocket connection
type Client struct {
	ID     string
	Topics []string
	Send   chan []byte
}

func newClient(topics []string) *Client {
	return &Client{
		ID:     uuid.New().String(),
		Topics: topics,
		Send:   make(chan []byte, sendBufferSize),
	}
}

// Hub tracks clients and their topic subscriptions
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{} // topic -> set of clients
	all     map[*Client]struct{}
	log     *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		all:     make(map[*Client]struct{}),
		log:     log,
	}
}

// Register adds a client and subscribes it to its initial topics
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.all[client] = struct{}{}
	for _, topic := range client.Topics {
		h.subscribeLocked(client, topic)
	}
}

// Unregister removes the client from every topic and closes its Send channel
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.all[client]; !ok {
		return
	}

	for _, topic := range client.Topics {
		h.unsubscribeLocked(client, topic)
	}

	delete(h.all, client)
	close(client.Send)
}

func (h *Hub) Subscribe(client *Client, topics []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, topic := range topics {
		if _, ok := h.clients[topic][client]; ok {
			continue
		}
		h.subscribeLocked(client, topic)
		client.Topics = append(client.Topics, topic)
	}
}

func (h *Hub) Unsubscribe(client *Client, topics []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	remove := make(map[string]struct{}, len(topics))
	for _, topic := range topics {
		remove[topic] = struct{}{}
		h.unsubscribeLocked(client, topic)
	}

	remaining := make([]string, 0, len(client.Topics))
	for _, topic := range client.Topics {
		if _, ok := remove[topic]; !ok {
			remaining = append(remaining, topic)
		}
	}
	client.Topics = remaining
}

func (h *Hub) subscribeLocked(client *Client, topic string) {
	if h.clients[topic] == nil {
		h.clients[topic] = make(map[*Client]struct{})
	}
	h.clients[topic][client] = struct{}{}
}

func (h *Hub) unsubscribeLocked(client *Client, topic string) {
	if subscribers, ok := h.clients[topic]; ok {
		delete(subscribers, client)
		if len(subscribers) == 0 {
			delete(h.clients, topic)
		}
	}
}

// ProcessMessage dispatches a subscribe or unsubscribe request
func (h *Hub) ProcessMessage(client *Client, msg ClientMessage) {
	switch msg.Action {
	case "subscribe":
		h.Subscribe(client, msg.Topics)
	case "unsubscribe":
		h.Unsubscribe(client, msg.Topics)
	}
}

// Broadcast queues message for every subscriber of topic and returns how many
// clients received it. Clients with a full buffer are skipped.
func (h *Hub) Broadcast(topic string, message []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for client := range h.clients[topic] {
		select {
		case client.Send <- message:
			delivered++
		default:
			h.log.Warnf("websocket: client %s buffer full, dropping message on %s", client.ID, topic)
		}
	}
	return delivered
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.all)
}

func (h *Hub) topicCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}

var upgrader = gorillawebsocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// TopicAuthorizer reports whether the caller identified by ctx may follow topic
type TopicAuthorizer func(ctx context.Context, topic string) bool

// Handler upgrades HTTP requests to websocket connections bound to a Hub
type Handler struct {
	hub       *Hub
	log       *logrus.Logger
	authorize TopicAuthorizer
}

func NewHandler(hub *Hub, log *logrus.Logger, authorize TopicAuthorizer) *Handler {
	return &Handler{hub: hub, log: log, authorize: authorize}
}

// ServeHTTP upgrades the connection. Initial topics may be given as a
// comma-separated ?topics= query parameter; any topic the caller may not
// follow rejects the handshake with 403.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	topics := parseTopics(r.URL.Query().Get("topics"))
	for _, topic := range topics {
		if !h.authorize(r.Context(), topic) {
			h.log.Warnf("websocket: subscription to %s denied", topic)
			response.Forbidden(w, "Not allowed to subscribe to "+topic)
			return
		}
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("websocket: upgrade failed: %+v", err)
		return
	}

	client := newClient(topics)
	h.hub.Register(client)
	h.log.Infof("websocket: client %s connected, topics=%v, clients=%d", client.ID, client.Topics, h.hub.clientCount())

	go h.writePump(client, ws)
	go h.readPump(r.Context(), client, ws)
}

// permitted drops the topics the caller may not follow
func (h *Handler) permitted(ctx context.Context, client *Client, topics []string) []string {
	allowed := make([]string, 0, len(topics))
	for _, topic := range topics {
		if h.authorize(ctx, topic) {
			allowed = append(allowed, topic)
			continue
		}
		h.log.Warnf("websocket: client %s denied subscription to %s", client.ID, topic)
	}
	return allowed
}

func (h *Handler) readPump(ctx context.Context, client *Client, ws *gorillawebsocket.Conn) {
	defer func() {
		h.hub.Unregister(client)
		ws.Close()
		h.log.Infof("websocket: client %s disconnected", client.ID)
	}()

	ws.SetReadLimit(maxMessageSize)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := ws.ReadMessage()
		if err != nil {
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		if msg.Action == "subscribe" {
			msg.Topics = h.permitted(ctx, client, msg.Topics)
		}
		h.hub.ProcessMessage(client, msg)
	}
}

func (h *Handler) writePump(client *Client, ws *gorillawebsocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ws.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				ws.WriteMessage(gorillawebsocket.CloseMessage, []byte{})
				return
			}
			if err := ws.WriteMessage(gorillawebsocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(gorillawebsocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func parseTopics(raw string) []string {
	topics := []string{}
	for _, topic := range strings.Split(raw, ",") {
		if topic = strings.TrimSpace(topic); topic != "" {
			topics = append(topics, topic)
		}
	}
	return topics
}
