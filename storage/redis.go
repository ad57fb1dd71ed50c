package storage

import (
	"log"
	"os"
	"strconv"

	"github.com/go-redis/redis/v8"
)

var Redis *redis.Client

// InitializeRedis sets up the client used for dashboard caching and
// refresh-token bookkeeping. Redis is optional; callers treat cache
// misses and connection errors the same way.
func InitializeRedis() {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "localhost:6379"
		log.Println("REDIS_URL not set, using localhost:6379 (development mode)")
	}

	dbIndex := 0
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			log.Panic("REDIS_DB must be an integer: " + raw)
		}
		dbIndex = parsed
	}

	Redis = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       dbIndex,
	})

	log.Println("Redis initialized with address:", addr)
}
