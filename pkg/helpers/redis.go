package helpers

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// ConnectRedis builds a client and pings it. An empty addr or a failed ping
// returns an error and no client, so callers can run without Redis.
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, errors.New("redis address not configured")
	}
	rdb := NewRedisClient(addr, password, db)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// SessionKey is the hash holding a doctor's live session.
func SessionKey(doctorID string) string {
	return "doctor:session:" + doctorID
}

// SaveSession records the session hash and bounds it by ttl.
func SaveSession(ctx context.Context, rdb *redis.Client, doctorID string, fields map[string]any, ttl time.Duration) error {
	key := SessionKey(doctorID)
	pipe := rdb.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// LoadSession returns the session hash; an empty map means no live session.
func LoadSession(ctx context.Context, rdb *redis.Client, doctorID string) (map[string]string, error) {
	return rdb.HGetAll(ctx, SessionKey(doctorID)).Result()
}

func DropSession(ctx context.Context, rdb *redis.Client, doctorID string) error {
	return rdb.Del(ctx, SessionKey(doctorID)).Err()
}
