package helpers

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds the shared redis client used for sessions, rate
// limiting, reset tokens and the realtime pub/sub channel.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}
