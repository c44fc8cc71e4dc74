package main

import "errors"

// Inbound message kinds.
const (
	TypeFindGame = "findGame"
	TypeMakeMove = "makeMove"
	TypePing     = "ping"
)

// Outbound message kinds.
const (
	TypeWaiting   = "waiting"
	TypeGameStart = "gameStart"
	TypeGameState = "gameState"
	TypeGameEnd   = "gameEnd"
	TypeError     = "error"
	TypePong      = "pong"
)

const waitingText = "Waiting for match, looking for opponent"

var (
	ErrUnknownMessageType = errors.New("Unknown message type")
	ErrMalformedMessage   = errors.New("malformed message")
)

// Message is the inbound envelope. Position is a pointer so a makeMove
// without one can be told apart from a move to cell 0.
type Message struct {
	Type     string `json:"type"`
	GameID   string `json:"gameId,omitempty"`
	Position *int   `json:"position,omitempty"`
}

type WaitingMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type GameStartMessage struct {
	Type     string `json:"type"`
	ID       string `json:"id"`
	GameID   string `json:"gameId"`
	Side     string `json:"side"`
	Opponent string `json:"opponent"`
	Message  string `json:"message"`
}

type GameStateMessage struct {
	Type   string `json:"type"`
	GameID string `json:"gameId"`
	Board  Board  `json:"board"`
	Turn   string `json:"turn"`
	Status string `json:"status"`
}

type GameEndMessage struct {
	Type   string `json:"type"`
	Result string `json:"result"`
	Board  Board  `json:"board"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type PongMessage struct {
	Type string `json:"type"`
}

func gameStateMessage(g *Game) GameStateMessage {
	return GameStateMessage{
		Type:   TypeGameState,
		GameID: g.ID,
		Board:  g.Board,
		Turn:   g.Turn,
		Status: g.Status,
	}
}

func gameEndMessage(g *Game, result string) GameEndMessage {
	return GameEndMessage{
		Type:   TypeGameEnd,
		Result: result,
		Board:  g.Board,
	}
}

func errorMessage(err error) ErrorMessage {
	return ErrorMessage{Type: TypeError, Message: err.Error()}
}
