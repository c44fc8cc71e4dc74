package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-redis/redis/v8"
)

type redisPinger struct {
	rdb *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	var (
		games  GameStore = newMemoryGameStore()
		stats  Stats     = newMemoryStats()
		events Publisher = nopPublisher{}
		health pinger
	)
	if cfg.RedisURL != "" {
		log.Println("Connecting to Redis at", cfg.RedisURL)
		rdb, err := newRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal(err)
		}
		defer rdb.Close()
		games = newRedisGameStore(rdb)
		stats = newRedisStats(rdb)
		events = newRedisPublisher(rdb)
		health = redisPinger{rdb: rdb}
	}

	hub := newHub(newCoordinator(games, stats, events))
	go hub.run(ctx)

	serverAddr := ":" + cfg.Port
	log.Println("Server starting on", serverAddr)
	err = http.ListenAndServe(serverAddr, newServer(cfg, hub, stats, health))
	if err != nil {
		log.Fatal("ListenAndServe: ", err)
	}
}
