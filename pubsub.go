package main

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// Publisher fans game events out to observers outside this process.
type Publisher interface {
	Publish(ctx context.Context, gameID string, payload []byte) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, gameID string, payload []byte) error {
	return nil
}

// redisPublisher publishes every state and end message of a game on the
// game:<id> channel.
type redisPublisher struct {
	rdb *redis.Client
}

func newRedisPublisher(rdb *redis.Client) *redisPublisher {
	return &redisPublisher{rdb: rdb}
}

func gameChannel(gameID string) string {
	return "game:" + gameID
}

func (p *redisPublisher) Publish(ctx context.Context, gameID string, payload []byte) error {
	if err := p.rdb.Publish(ctx, gameChannel(gameID), payload).Err(); err != nil {
		return fmt.Errorf("error publishing game update: %w", err)
	}
	return nil
}
