package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
)

const gameCounterKey = "games:counter"

// GameStore keeps the authoritative state of every session. Get returns
// nil, nil for an unknown id.
type GameStore interface {
	NextID(ctx context.Context) (string, error)
	Save(ctx context.Context, game *Game) error
	Get(ctx context.Context, gameID string) (*Game, error)
}

func gameID(n int64) string {
	return fmt.Sprintf("game-%d", n)
}

type memoryGameStore struct {
	mu      sync.Mutex
	counter int64
	games   map[string]Game
}

func newMemoryGameStore() *memoryGameStore {
	return &memoryGameStore{games: make(map[string]Game)}
}

func (s *memoryGameStore) NextID(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter++
	return gameID(s.counter), nil
}

func (s *memoryGameStore) Save(ctx context.Context, game *Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = *game
	return nil
}

func (s *memoryGameStore) Get(ctx context.Context, gameID string) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[gameID]
	if !ok {
		return nil, nil
	}
	return &game, nil
}

type redisGameStore struct {
	rdb *redis.Client
}

func newRedisGameStore(rdb *redis.Client) *redisGameStore {
	return &redisGameStore{rdb: rdb}
}

func (s *redisGameStore) NextID(ctx context.Context) (string, error) {
	n, err := s.rdb.Incr(ctx, gameCounterKey).Result()
	if err != nil {
		return "", fmt.Errorf("error incrementing game counter: %w", err)
	}
	return gameID(n), nil
}

func (s *redisGameStore) Save(ctx context.Context, game *Game) error {
	key := fmt.Sprintf("game:%s", game.ID)
	jsonData, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("error marshalling game state: %w", err)
	}
	err = s.rdb.Set(ctx, key, jsonData, 0).Err()
	if err != nil {
		return fmt.Errorf("error saving game state to redis: %w", err)
	}
	return nil
}

func (s *redisGameStore) Get(ctx context.Context, gameID string) (*Game, error) {
	key := fmt.Sprintf("game:%s", gameID)
	jsonData, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("error retrieving game state from redis: %w", err)
	}
	var game Game
	err = json.Unmarshal([]byte(jsonData), &game)
	if err != nil {
		return nil, fmt.Errorf("error unmarshalling game state: %w", err)
	}
	return &game, nil
}
