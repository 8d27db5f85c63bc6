package websocket

import (
	"sync"

	"github.com/isdelr/planner-be/internal/monitoring"
	"github.com/rs/zerolog/log"
)

// outboundBuffer bounds the notifications waiting for the hub loop.
const outboundBuffer = 256

// envelope is a message addressed to a single client, to one account, or
// to everyone when both are zero.
type envelope struct {
	client    *Client
	accountID int64
	message   []byte
}

// Hub maintains the set of active clients, grouped by account, and fans
// change notifications out to them.
type Hub struct {
	// Registered clients keyed by the account they authenticated as.
	clients map[int64]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	outbound   chan envelope

	done     chan struct{}
	stopOnce sync.Once
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		outbound:   make(chan envelope, outboundBuffer),
		done:       make(chan struct{}),
	}
}

// Run starts the Hub's message processing loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			for _, set := range h.clients {
				for client := range set {
					close(client.Send)
				}
			}
			h.clients = make(map[int64]map[*Client]bool)
			monitoring.SetConnectedClients(0)
			return
		case client := <-h.register:
			if h.clients[client.AccountID] == nil {
				h.clients[client.AccountID] = make(map[*Client]bool)
			}
			h.clients[client.AccountID][client] = true
			log.Info().Int64("account_id", client.AccountID).Int("total_clients", h.count()).Msg("Client connected")
			monitoring.SetConnectedClients(h.count())
		case client := <-h.unregister:
			if h.remove(client) {
				log.Info().Int64("account_id", client.AccountID).Int("total_clients", h.count()).Msg("Client disconnected")
			}
		case env := <-h.outbound:
			if env.client != nil {
				if h.clients[env.client.AccountID][env.client] {
					h.send(env.client, env.message)
				}
			} else if env.accountID == 0 {
				for accountID := range h.clients {
					h.deliver(accountID, env.message)
				}
			} else {
				h.deliver(env.accountID, env.message)
			}
		}
	}
}

// Stop ends the loop and closes every client's send channel. It is safe to
// call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Register adds a client. It returns false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// NotifyAccount queues a message for every connection of one account.
// Notifications are dropped, never waited on, when the queue is full.
func (h *Hub) NotifyAccount(accountID int64, action string, payload any) {
	h.enqueue(envelope{accountID: accountID, message: NewMessage(action, payload)})
}

// NotifyAll queues a message for every connected client.
func (h *Hub) NotifyAll(action string, payload any) {
	h.enqueue(envelope{message: NewMessage(action, payload)})
}

func (h *Hub) enqueue(env envelope) {
	if env.message == nil {
		return
	}
	select {
	case h.outbound <- env:
	default:
		log.Warn().Int64("account_id", env.accountID).Msg("Notification queue full, dropping message")
	}
}

// deliver sends to each of the account's clients, disconnecting any whose
// buffer is full.
func (h *Hub) deliver(accountID int64, message []byte) {
	for client := range h.clients[accountID] {
		h.send(client, message)
	}
}

func (h *Hub) send(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		log.Warn().Int64("account_id", client.AccountID).Msg("Client too slow, disconnecting")
		h.remove(client)
	}
}

func (h *Hub) remove(client *Client) bool {
	set, ok := h.clients[client.AccountID]
	if !ok || !set[client] {
		return false
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, client.AccountID)
	}
	close(client.Send)
	monitoring.SetConnectedClients(h.count())
	return true
}

func (h *Hub) count() int {
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}
