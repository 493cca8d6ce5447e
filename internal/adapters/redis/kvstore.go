package redisad

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// KVStore keeps opaque per-user string sets (dismissed/read broadcast
// IDs). Keys: user:{id}:{bucket}.
type KVStore struct{ c *redis.Client }

func NewKVStore(addr, pass string, db int) *KVStore {
	return &KVStore{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func key(userID, bucket string) string { return "user:" + userID + ":" + bucket }

func (s *KVStore) Members(ctx context.Context, userID, bucket string) ([]string, error) {
	return s.c.SMembers(ctx, key(userID, bucket)).Result()
}

func (s *KVStore) Add(ctx context.Context, userID, bucket, value string) error {
	return s.c.SAdd(ctx, key(userID, bucket), value).Err()
}

func (s *KVStore) Remove(ctx context.Context, userID, bucket, value string) error {
	return s.c.SRem(ctx, key(userID, bucket), value).Err()
}
