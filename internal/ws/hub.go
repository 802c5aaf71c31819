// Package ws fans public blog events out to websocket subscribers.
package ws

import (
	"context"
	"sync/atomic"
)

// Hub tracks connected clients and relays every Broadcast message to
// each of them. Run owns the client set.
type Hub struct {
	Broadcast chan []byte

	register   chan *Client
	unregister chan *Client
	clients    map[*Client]struct{}
	count      atomic.Int64
	done       chan struct{}
}

// NewHub returns a Hub; call Run to start it.
func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]struct{}),
		done:       make(chan struct{}),
	}
}

// Run serves the hub until ctx is done, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for c := range h.clients {
				h.drop(c)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.count.Store(int64(len(h.clients)))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
			}
		case msg := <-h.Broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Slow consumer; it can reconnect.
					h.drop(c)
				}
			}
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	return int(h.count.Load())
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
	h.count.Store(int64(len(h.clients)))
}

// Publish queues msg for every client without blocking the caller. It
// reports false if the hub is stopped or backed up.
func (h *Hub) Publish(msg []byte) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.Broadcast <- msg:
		return true
	default:
		return false
	}
}
