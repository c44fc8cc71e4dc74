package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	RedisURL       string
	AllowedOrigins []string
	SendBuffer     int
}

// loadConfig reads the environment, after loading a .env file when one
// exists.
func loadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	cfg := &Config{
		Port:       os.Getenv("PORT"),
		RedisURL:   os.Getenv("REDIS_URL"),
		SendBuffer: 256,
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Println("PORT not set, defaulting to 8080")
	}
	if cfg.RedisURL == "" {
		log.Println("REDIS_URL not set, keeping games in memory")
	}

	for _, origin := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	if raw := os.Getenv("SEND_BUFFER"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid SEND_BUFFER %q: must be a positive integer", raw)
		}
		cfg.SendBuffer = n
	}

	return cfg, nil
}
