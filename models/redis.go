package models

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

// RedisClient backs the product read-through cache. Nil means the cache is
// disabled and reads go straight to Postgres.
var RedisClient *redis.Client

func InitRedis() {
	opt, err := redisOptions()
	if err != nil {
		log.Println("Invalid REDIS_URL, product cache disabled:", err)
		return
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Println("Redis unreachable, product cache disabled:", err)
		return
	}

	RedisClient = client
	log.Println("Redis cache ready")
}

func redisOptions() (*redis.Options, error) {
	if url := os.Getenv("REDIS_URL"); url != "" {
		return redis.ParseURL(url)
	}
	return &redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}, nil
}

func CloseRedis() {
	if RedisClient != nil {
		RedisClient.Close()
	}
}
