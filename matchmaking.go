package main

import (
	"context"
	"log"
)

// Queue is the FIFO list of handles waiting for an opponent. A handle is
// present at most once.
type Queue struct {
	handles []string
}

func newQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Len() int {
	return len(q.handles)
}

// Push appends handle to the tail.
func (q *Queue) Push(handle string) {
	q.handles = append(q.handles, handle)
}

// Pop removes and returns the longest-waiting handle.
func (q *Queue) Pop() (string, bool) {
	if len(q.handles) == 0 {
		return "", false
	}
	head := q.handles[0]
	q.handles[0] = ""
	q.handles = q.handles[1:]
	return head, true
}

// Remove drops handle from the queue and reports whether it was queued.
func (q *Queue) Remove(handle string) bool {
	for i, h := range q.handles {
		if h == handle {
			q.handles = append(q.handles[:i], q.handles[i+1:]...)
			return true
		}
	}
	return false
}

func (q *Queue) Snapshot() []string {
	out := make([]string, len(q.handles))
	copy(out, q.handles)
	return out
}

// findGame pairs handle with the longest-waiting player, or queues it.
// A re-request while queued moves the handle to the tail. A stale head
// whose connection is gone is discarded once, and handle then waits.
func (c *Coordinator) findGame(ctx context.Context, handle string) {
	if c.queue.Remove(handle) {
		log.Printf("[MATCH] Removed %s from queue (was already waiting)", handle)
	}

	opponent, ok := c.queue.Pop()
	if !ok {
		c.enqueue(handle)
		return
	}
	if _, live := c.conns.Lookup(opponent); !live {
		log.Printf("[MATCH] Opponent %s disconnected, re-queued %s", opponent, handle)
		c.enqueue(handle)
		return
	}

	log.Printf("[MATCH] Match found: %s vs %s", opponent, handle)
	c.createGame(ctx, opponent, handle)
}

func (c *Coordinator) enqueue(handle string) {
	c.queue.Push(handle)
	log.Printf("[MATCH] Player %s added to queue. Queue length: %d", handle, c.queue.Len())
	c.send(handle, WaitingMessage{Type: TypeWaiting, Message: waitingText})
}

// createGame starts a session with playerX moving first. When either
// player's connection is gone the pairing is abandoned without
// re-queueing the other one.
func (c *Coordinator) createGame(ctx context.Context, playerX, playerO string) {
	id, err := c.games.NextID(ctx)
	if err != nil {
		log.Printf("[MATCH] Error allocating game id: %v", err)
		return
	}
	game := newGame(id, playerX, playerO)
	if err := c.games.Save(ctx, game); err != nil {
		log.Printf("[MATCH] Error saving new game %s: %v", id, err)
		return
	}
	log.Printf("[MATCH] Game %s created: %s (X) vs %s (O)", id, playerX, playerO)

	if _, ok := c.conns.Lookup(playerX); !ok {
		log.Printf("[MATCH] Player %s not found in connections, abandoning game %s", playerX, id)
		return
	}
	if _, ok := c.conns.Lookup(playerO); !ok {
		log.Printf("[MATCH] Player %s not found in connections, abandoning game %s", playerO, id)
		return
	}

	c.send(playerX, GameStartMessage{
		Type:     TypeGameStart,
		ID:       playerX,
		GameID:   id,
		Side:     SymbolX,
		Opponent: playerO,
		Message:  "You are X, you go first",
	})
	c.send(playerO, GameStartMessage{
		Type:     TypeGameStart,
		ID:       playerO,
		GameID:   id,
		Side:     SymbolO,
		Opponent: playerX,
		Message:  "You are O, wait for X to play",
	})

	c.broadcastState(ctx, game)
}
