package main

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPeer struct {
	send chan []byte
}

func (p *testPeer) next(t *testing.T) map[string]interface{} {
	t.Helper()
	select {
	case data := <-p.send:
		var msg map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	default:
		t.Fatal("expected a message, got none")
		return nil
	}
}

func (p *testPeer) assertEmpty(t *testing.T) {
	t.Helper()
	select {
	case data := <-p.send:
		t.Fatalf("expected no message, got %s", data)
	default:
	}
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages map[string][][]byte
}

func (p *recordingPublisher) Publish(ctx context.Context, gameID string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.messages == nil {
		p.messages = make(map[string][][]byte)
	}
	p.messages[gameID] = append(p.messages[gameID], payload)
	return nil
}

type testCoordinator struct {
	ctx    context.Context
	coord  *Coordinator
	games  *memoryGameStore
	stats  *memoryStats
	events *recordingPublisher
}

func newTestCoordinator(t *testing.T) *testCoordinator {
	t.Helper()
	h := &testCoordinator{
		ctx:    context.Background(),
		games:  newMemoryGameStore(),
		stats:  newMemoryStats(),
		events: &recordingPublisher{},
	}
	h.coord = newCoordinator(h.games, h.stats, h.events)
	return h
}

func (h *testCoordinator) connect(handle string) *testPeer {
	peer := &testPeer{send: make(chan []byte, 16)}
	h.coord.connect(handle, peer.send)
	return peer
}

func (h *testCoordinator) handle(handle, raw string) {
	h.coord.handleMessage(h.ctx, handle, []byte(raw))
}

// startGame pairs a (X) with b (O) and drains the start messages.
func (h *testCoordinator) startGame(t *testing.T) (a, b *testPeer) {
	t.Helper()
	a = h.connect("a")
	b = h.connect("b")
	h.handle("a", `{"type":"findGame"}`)
	h.handle("b", `{"type":"findGame"}`)
	for _, peer := range []*testPeer{a, b} {
		for len(peer.send) > 0 {
			<-peer.send
		}
	}
	return a, b
}

var emptyBoard = []interface{}{nil, nil, nil, nil, nil, nil, nil, nil, nil}

func TestCoordinator_MatchStartsGame(t *testing.T) {
	h := newTestCoordinator(t)
	a := h.connect("a")
	b := h.connect("b")

	h.handle("a", `{"type":"findGame"}`)
	assert.Equal(t, TypeWaiting, a.next(t)["type"])

	h.handle("b", `{"type":"findGame"}`)

	start := a.next(t)
	assert.Equal(t, TypeGameStart, start["type"])
	assert.Equal(t, "a", start["id"])
	assert.Equal(t, "game-1", start["gameId"])
	assert.Equal(t, SymbolX, start["side"])
	assert.Equal(t, "b", start["opponent"])
	assert.Equal(t, "You are X, you go first", start["message"])

	start = b.next(t)
	assert.Equal(t, TypeGameStart, start["type"])
	assert.Equal(t, SymbolO, start["side"])
	assert.Equal(t, "a", start["opponent"])
	assert.Equal(t, "You are O, wait for X to play", start["message"])

	for _, peer := range []*testPeer{a, b} {
		state := peer.next(t)
		assert.Equal(t, TypeGameState, state["type"])
		assert.Equal(t, "game-1", state["gameId"])
		assert.Equal(t, emptyBoard, state["board"])
		assert.Equal(t, "a", state["turn"])
		assert.Equal(t, StatusActive, state["status"])
		peer.assertEmpty(t)
	}
	assert.Zero(t, h.coord.queue.Len())
}

func TestCoordinator_MoveBroadcastsState(t *testing.T) {
	h := newTestCoordinator(t)
	a, b := h.startGame(t)

	h.handle("a", `{"type":"makeMove","gameId":"game-1","position":4}`)

	for _, peer := range []*testPeer{a, b} {
		state := peer.next(t)
		assert.Equal(t, TypeGameState, state["type"])
		board := state["board"].([]interface{})
		assert.Equal(t, SymbolX, board[4])
		assert.Equal(t, "b", state["turn"])
		assert.Equal(t, StatusActive, state["status"])
		peer.assertEmpty(t)
	}
}

func TestCoordinator_WinningMoveEndsGame(t *testing.T) {
	h := newTestCoordinator(t)
	a, b := h.startGame(t)

	game, err := h.games.Get(h.ctx, "game-1")
	require.NoError(t, err)
	game.Board = Board{"X", "X", "", "", "O", "", "O", "", ""}
	require.NoError(t, h.games.Save(h.ctx, game))

	h.handle("a", `{"type":"makeMove","gameId":"game-1","position":2}`)

	want := []interface{}{"X", "X", "X", nil, "O", nil, "O", nil, nil}
	for _, peer := range []*testPeer{a, b} {
		state := peer.next(t)
		assert.Equal(t, TypeGameState, state["type"])
		assert.Equal(t, StatusFinished, state["status"])
		assert.Equal(t, want, state["board"])

		end := peer.next(t)
		assert.Equal(t, TypeGameEnd, end["type"])
		assert.Equal(t, SymbolX, end["result"])
		assert.Equal(t, want, end["board"])
		peer.assertEmpty(t)
	}

	stats, err := h.stats.Snapshot(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, ResultStats{X: 1}, stats)

	// one state at creation, then the final state and the end
	assert.Len(t, h.events.messages["game-1"], 3)
}

func TestCoordinator_DrawEndsGame(t *testing.T) {
	h := newTestCoordinator(t)
	a, _ := h.startGame(t)

	game, _ := h.games.Get(h.ctx, "game-1")
	game.Board = Board{"X", "O", "X", "X", "O", "O", "O", "X", ""}
	require.NoError(t, h.games.Save(h.ctx, game))

	h.handle("a", `{"type":"makeMove","gameId":"game-1","position":8}`)

	a.next(t)
	end := a.next(t)
	assert.Equal(t, ResultDraw, end["result"])

	stats, _ := h.stats.Snapshot(h.ctx)
	assert.Equal(t, ResultStats{Draw: 1}, stats)
}

func TestCoordinator_NotYourTurn(t *testing.T) {
	h := newTestCoordinator(t)
	a, b := h.startGame(t)

	h.handle("b", `{"type":"makeMove","gameId":"game-1","position":0}`)

	msg := b.next(t)
	assert.Equal(t, TypeError, msg["type"])
	assert.Equal(t, "Not your turn", msg["message"])
	a.assertEmpty(t)

	game, _ := h.games.Get(h.ctx, "game-1")
	assert.Equal(t, Board{}, game.Board)
	assert.Equal(t, "a", game.Turn)
}

func TestCoordinator_MoveErrors(t *testing.T) {
	h := newTestCoordinator(t)
	a, b := h.startGame(t)

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"unknown game", `{"type":"makeMove","gameId":"game-99","position":0}`, "Game not found"},
		{"out of range", `{"type":"makeMove","gameId":"game-1","position":9}`, "Invalid position"},
		{"negative", `{"type":"makeMove","gameId":"game-1","position":-1}`, "Invalid position"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h.handle("a", tt.raw)
			msg := a.next(t)
			assert.Equal(t, TypeError, msg["type"])
			assert.Equal(t, tt.want, msg["message"])
			b.assertEmpty(t)
		})
	}

	h.handle("a", `{"type":"makeMove","gameId":"game-1","position":0}`)
	a.next(t)
	b.next(t)
	h.handle("b", `{"type":"makeMove","gameId":"game-1","position":0}`)
	assert.Equal(t, "Cell already occupied", b.next(t)["message"])
	a.assertEmpty(t)
}

func TestCoordinator_UnknownAndMalformed(t *testing.T) {
	h := newTestCoordinator(t)
	a := h.connect("a")

	h.handle("a", `{"type":"bogus"}`)
	msg := a.next(t)
	assert.Equal(t, TypeError, msg["type"])
	assert.Equal(t, "Unknown message type: bogus", msg["message"])

	h.handle("a", `{not json`)
	h.handle("a", `{"type":"makeMove","gameId":"game-1"}`)
	a.assertEmpty(t)
	assert.Zero(t, h.coord.queue.Len())
}

func TestCoordinator_Ping(t *testing.T) {
	h := newTestCoordinator(t)
	a := h.connect("a")

	h.handle("a", `{"type":"ping"}`)

	assert.Equal(t, TypePong, a.next(t)["type"])
}

func TestCoordinator_BroadcastSkipsDisconnectedPlayer(t *testing.T) {
	h := newTestCoordinator(t)
	a, b := h.startGame(t)

	h.coord.disconnect("b")
	h.handle("a", `{"type":"makeMove","gameId":"game-1","position":4}`)

	state := a.next(t)
	assert.Equal(t, "b", state["turn"])
	b.assertEmpty(t)

	game, _ := h.games.Get(h.ctx, "game-1")
	assert.Equal(t, StatusActive, game.Status)
}

func TestCoordinator_CreateGameWithMissingPlayerSendsNothing(t *testing.T) {
	h := newTestCoordinator(t)
	a := h.connect("a")

	h.coord.createGame(h.ctx, "a", "gone")

	a.assertEmpty(t)
	assert.Zero(t, h.coord.queue.Len())
}

func TestCoordinator_FullBufferDoesNotBlock(t *testing.T) {
	h := newTestCoordinator(t)
	send := make(chan []byte, 1)
	h.coord.connect("a", send)

	assert.True(t, h.coord.send("a", PongMessage{Type: TypePong}))
	assert.False(t, h.coord.send("a", PongMessage{Type: TypePong}))
	assert.Len(t, send, 1)
}
