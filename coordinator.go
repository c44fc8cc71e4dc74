package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
)

var errGameUnavailable = errors.New("Game unavailable, try again")

// Coordinator owns the registry, the matchmaking queue and the game store
// and handles every inbound request. It is not safe for concurrent use;
// the hub goroutine serializes all calls into it.
type Coordinator struct {
	conns  *Registry
	queue  *Queue
	games  GameStore
	stats  Stats
	events Publisher
}

func newCoordinator(games GameStore, stats Stats, events Publisher) *Coordinator {
	if events == nil {
		events = nopPublisher{}
	}
	return &Coordinator{
		conns:  newRegistry(),
		queue:  newQueue(),
		games:  games,
		stats:  stats,
		events: events,
	}
}

func (c *Coordinator) connect(handle string, send chan<- []byte) {
	c.conns.Register(handle, send)
	log.Printf("[HUB] Client %s connected. Total connections: %d", handle, c.conns.Len())
}

// disconnect drops handle from the registry and the queue. Any game the
// player is in stays active.
func (c *Coordinator) disconnect(handle string) {
	c.conns.Unregister(handle)
	if c.queue.Remove(handle) {
		log.Printf("[HUB] Player %s removed from matchmaking queue due to disconnect.", handle)
	}
	log.Printf("[HUB] Client %s disconnected. Total connections: %d", handle, c.conns.Len())
}

// handleMessage decodes and dispatches one inbound frame from handle.
// Frames that fail to decode are logged and dropped without a reply.
func (c *Coordinator) handleMessage(ctx context.Context, handle string, raw []byte) {
	msg, err := decodeMessage(raw)
	if err != nil {
		log.Printf("[HUB] Dropping message from %s: %v", handle, err)
		return
	}

	switch msg.Type {
	case TypeFindGame:
		c.findGame(ctx, handle)
	case TypeMakeMove:
		c.makeMove(ctx, handle, msg.GameID, *msg.Position)
	case TypePing:
		c.send(handle, PongMessage{Type: TypePong})
	default:
		c.sendError(handle, fmt.Errorf("%w: %s", ErrUnknownMessageType, msg.Type))
	}
}

func decodeMessage(raw []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if msg.Type == TypeMakeMove && msg.Position == nil {
		return nil, fmt.Errorf("%w: makeMove without position", ErrMalformedMessage)
	}
	return &msg, nil
}

func (c *Coordinator) makeMove(ctx context.Context, handle, gameID string, position int) {
	game, err := c.games.Get(ctx, gameID)
	if err != nil {
		log.Printf("[GAME] Error getting game %s: %v", gameID, err)
		c.sendError(handle, errGameUnavailable)
		return
	}

	result, err := applyMove(game, handle, position)
	if err != nil {
		log.Printf("[GAME] Rejected move by %s in game %s at %d: %v", handle, gameID, position, err)
		c.sendError(handle, err)
		return
	}

	if err := c.games.Save(ctx, game); err != nil {
		log.Printf("[GAME] Error saving game %s: %v", gameID, err)
		c.sendError(handle, errGameUnavailable)
		return
	}
	log.Printf("[GAME] Move: %s at position %d in game %s", game.symbolOf(handle), position, gameID)

	c.broadcastState(ctx, game)
	if result != "" {
		if err := c.stats.Record(ctx, result); err != nil {
			log.Printf("[GAME] Error recording result of game %s: %v", gameID, err)
		}
		c.broadcastEnd(ctx, game, result)
	}
}

func (c *Coordinator) broadcastState(ctx context.Context, game *Game) {
	c.broadcast(ctx, game, gameStateMessage(game))
}

func (c *Coordinator) broadcastEnd(ctx context.Context, game *Game, result string) {
	c.broadcast(ctx, game, gameEndMessage(game, result))
	log.Printf("[GAME] Game %s ended: %s", game.ID, result)
}

// broadcast delivers msg to both players, skipping any that is gone, and
// publishes it to external observers.
func (c *Coordinator) broadcast(ctx context.Context, game *Game, msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[GAME] Error marshalling message for game %s: %v", game.ID, err)
		return
	}
	c.deliver(game.PlayerX, data)
	c.deliver(game.PlayerO, data)

	if err := c.events.Publish(ctx, game.ID, data); err != nil {
		log.Printf("[GAME] %v", err)
	}
}

func (c *Coordinator) sendError(handle string, err error) {
	c.send(handle, errorMessage(err))
}

func (c *Coordinator) send(handle string, msg interface{}) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[HUB] Error marshalling message for %s: %v", handle, err)
		return false
	}
	return c.deliver(handle, data)
}

// deliver never blocks. A missing connection or a full send buffer drops
// the message.
func (c *Coordinator) deliver(handle string, data []byte) bool {
	send, ok := c.conns.Lookup(handle)
	if !ok {
		log.Printf("[HUB] Could not find an active client for %s", handle)
		return false
	}
	select {
	case send <- data:
		return true
	default:
		log.Printf("[HUB] Send buffer full for %s. Dropping message.", handle)
		return false
	}
}
