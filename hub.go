package main

import (
	"context"
	"log"
)

type inboundMessage struct {
	handle string
	raw    []byte
}

// Hub is the single goroutine that owns the Coordinator. Connection
// workers hand it registrations, disconnects and inbound frames, so every
// queue and game mutation is applied one at a time.
type Hub struct {
	coord      *Coordinator
	register   chan *Client
	unregister chan *Client
	inbound    chan *inboundMessage
	done       chan struct{}
}

func newHub(coord *Coordinator) *Hub {
	return &Hub{
		coord:      coord,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan *inboundMessage),
		done:       make(chan struct{}),
	}
}

func (h *Hub) run(ctx context.Context) {
	log.Println("[HUB] Hub is running...")
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.coord.connect(client.ID, client.send)

		case client := <-h.unregister:
			if send, ok := h.coord.conns.Lookup(client.ID); ok && send == client.send {
				h.coord.disconnect(client.ID)
				close(client.send)
			}

		case msg := <-h.inbound:
			h.coord.handleMessage(ctx, msg.handle, msg.raw)

		case <-ctx.Done():
			log.Println("[HUB] Hub stopped.")
			return
		}
	}
}

// submit hands a request to the hub and reports false once the hub has
// stopped.
func submit[T any](h *Hub, ch chan<- T, v T) bool {
	select {
	case ch <- v:
		return true
	case <-h.done:
		return false
	}
}
