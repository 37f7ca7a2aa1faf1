package db

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

func InitRedis(addr, password string, db int) {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := RedisClient.Ping(context.Background()).Err(); err != nil {
		log.Printf("Warning: could not connect to Redis: %v", err)
	} else {
		log.Println("Successfully connected to Redis")
	}
}
