// Package live fans match updates out to WebSocket subscribers of a sport.
package live

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	EventScore   = "score"
	EventStatus  = "status"
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"

	sendBufferSize = 16
)

// Event is the JSON message pushed to subscribers.
type Event struct {
	Type    string `json:"type"`
	SportID int64  `json:"sportId"`
	MatchID int64  `json:"matchId,omitempty"`
	Match   any    `json:"match,omitempty"`
}

type message struct {
	sportID int64
	payload []byte
}

// Hub tracks clients per sport. Client membership is only changed by Run.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan message

	upgrader websocket.Upgrader
	done     chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 256),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		done: make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for sportID, clients := range h.clients {
				for client := range clients {
					close(client.send)
				}
				delete(h.clients, sportID)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			clients, ok := h.clients[client.sportID]
			if !ok {
				clients = make(map[*Client]struct{})
				h.clients[client.sportID] = clients
			}
			clients[client] = struct{}{}
			total := len(clients)
			h.mu.Unlock()
			log.Debug().Int64("sport_id", client.sportID).Int("subscribers", total).Msg("Live client connected")

		case client := <-h.unregister:
			h.removeClient(client)

		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients[msg.sportID] {
				select {
				case client.send <- msg.payload:
				default:
					// Slow consumer; drop it rather than block everyone else.
					close(client.send)
					delete(h.clients[msg.sportID], client)
					log.Warn().Int64("sport_id", msg.sportID).Msg("Dropped slow live client")
				}
			}
			if len(h.clients[msg.sportID]) == 0 {
				delete(h.clients, msg.sportID)
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.clients[client.sportID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.sportID)
	}
	log.Debug().Int64("sport_id", client.sportID).Msg("Live client disconnected")
}

// Publish queues event for every subscriber of sportID. It never blocks the
// caller; events are dropped when the hub is saturated or stopped.
func (h *Hub) Publish(sportID int64, event Event) {
	if h == nil {
		return
	}
	event.SportID = sportID
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Int64("sport_id", sportID).Msg("Failed to marshal live event")
		return
	}
	select {
	case <-h.done:
	case h.broadcast <- message{sportID: sportID, payload: payload}:
	default:
		log.Warn().Int64("sport_id", sportID).Str("type", event.Type).Msg("Live broadcast queue full")
	}
}

// Subscribers returns the number of clients following sportID.
func (h *Hub) Subscribers(sportID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sportID])
}

// Serve upgrades the request and subscribes the connection to sportID.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, sportID int64) {
	logger := log.Ctx(r.Context())
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn().Err(err).Int64("sport_id", sportID).Msg("Failed to upgrade live connection")
		return
	}

	client := &Client{
		hub:     h,
		conn:    conn,
		sportID: sportID,
		send:    make(chan []byte, sendBufferSize),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	case <-time.After(5 * time.Second):
		logger.Warn().Int64("sport_id", sportID).Msg("Timed out registering live client")
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
