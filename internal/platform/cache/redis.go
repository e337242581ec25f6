package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"studyhub/internal/platform/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client

func ConnectRedis() {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	ctx := context.Background()
	_, err := RDB.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	fmt.Println("Successfully connected to Redis!")
}

func CloseRedis() {
	if RDB != nil {
		RDB.Close()
		fmt.Println("Redis connection closed.")
	}
}

// Locker hands out short-lived mutual-exclusion locks. Services depend on
// this interface so tests can swap in an in-memory implementation.
type Locker interface {
	// Acquire returns ok=false if somebody else holds the key. On ok=true the
	// returned release func must be called when the critical section ends;
	// release is a no-op if the lock already expired.
	Acquire(ctx context.Context, key string, ttl time.Duration) (ok bool, release func(), err error)
}

type redisLocker struct {
	rdb *redis.Client
}

func NewRedisLocker(rdb *redis.Client) Locker {
	return &redisLocker{rdb: rdb}
}

// releaseScript deletes the key only if we still own it (CAS on the value),
// so an expired-and-reacquired lock is never released by the old holder.
var releaseScript = redis.NewScript(`
    if redis.call("get", KEYS[1]) == ARGV[1] then
        return redis.call("del", KEYS[1])
    else
        return 0
    end
`)

func (l *redisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, func(), error) {
	lockValue := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, key, lockValue, ttl).Result()
	if err != nil {
		return false, nil, fmt.Errorf("redisLocker.Acquire: %w", err)
	}
	if !ok {
		return false, nil, nil
	}

	release := func() {
		deleted, err := releaseScript.Run(context.Background(), l.rdb, []string{key}, lockValue).Result()
		if err != nil {
			log.Printf("ERROR: Failed to release lock %s: %v", key, err)
			return
		}
		if v, _ := deleted.(int64); v != 1 {
			log.Printf("WARN: Did not release lock %s; it expired or was taken over.", key)
		}
	}
	return true, release, nil
}
