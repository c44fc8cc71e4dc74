package main

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"

	"github.com/go-redis/redis/v8"
)

const resultsKey = "stats:results"

// ResultStats tallies finished games by outcome.
type ResultStats struct {
	X    int64 `json:"x"`
	O    int64 `json:"o"`
	Draw int64 `json:"draw"`
}

func (s *ResultStats) add(result string, n int64) {
	switch result {
	case SymbolX:
		s.X += n
	case SymbolO:
		s.O += n
	case ResultDraw:
		s.Draw += n
	}
}

// Stats records terminal outcomes. Player handles do not outlive their
// connection, so results are counted per outcome rather than per player.
type Stats interface {
	Record(ctx context.Context, result string) error
	Snapshot(ctx context.Context) (ResultStats, error)
}

type memoryStats struct {
	mu      sync.Mutex
	results ResultStats
}

func newMemoryStats() *memoryStats {
	return &memoryStats{}
}

func (s *memoryStats) Record(ctx context.Context, result string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results.add(result, 1)
	return nil
}

func (s *memoryStats) Snapshot(ctx context.Context) (ResultStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results, nil
}

type redisStats struct {
	rdb *redis.Client
}

func newRedisStats(rdb *redis.Client) *redisStats {
	return &redisStats{rdb: rdb}
}

func (s *redisStats) Record(ctx context.Context, result string) error {
	if err := s.rdb.HIncrBy(ctx, resultsKey, result, 1).Err(); err != nil {
		return fmt.Errorf("error updating results: %w", err)
	}
	return nil
}

func (s *redisStats) Snapshot(ctx context.Context) (ResultStats, error) {
	var stats ResultStats
	fields, err := s.rdb.HGetAll(ctx, resultsKey).Result()
	if err != nil {
		return stats, fmt.Errorf("error reading results: %w", err)
	}
	for result, raw := range fields {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Printf("[REDIS] Ignoring bad result count %q for %s", raw, result)
			continue
		}
		stats.add(result, n)
	}
	return stats, nil
}
