package notify

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

// ResponseCache keeps successful partner responses by sequence number.
type ResponseCache interface {
	Get(ctx context.Context, seqNum int64) (*Result, bool, error)
	Put(ctx context.Context, r *Result) error
	Len(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

type MemoryCache struct {
	mu      sync.RWMutex
	entries map[int64]*Result
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[int64]*Result)}
}

func (m *MemoryCache) Get(_ context.Context, seqNum int64) (*Result, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.entries[seqNum]
	return r, ok, nil
}

func (m *MemoryCache) Put(_ context.Context, r *Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[r.SeqNum] = r
	return nil
}

func (m *MemoryCache) Len(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

func (m *MemoryCache) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[int64]*Result)
	return nil
}

// RedisCache shares the response cache between bridge instances.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (r *RedisCache) Close() error { return r.client.Close() }

func responseKey(seqNum int64) string {
	return fmt.Sprintf("upsbridge:response:%d", seqNum)
}

const allResponsesKey = "upsbridge:responses"

func (r *RedisCache) Get(ctx context.Context, seqNum int64) (*Result, bool, error) {
	vals, err := r.client.HGetAll(ctx, responseKey(seqNum)).Result()
	if err != nil {
		return nil, false, err
	}
	if len(vals) == 0 {
		return nil, false, nil
	}
	code, _ := strconv.Atoi(vals["status"])
	return &Result{SeqNum: seqNum, StatusCode: code, Body: []byte(vals["body"])}, true, nil
}

func (r *RedisCache) Put(ctx context.Context, res *Result) error {
	pipe := r.client.Pipeline()
	pipe.HSet(ctx, responseKey(res.SeqNum), "status", res.StatusCode, "body", res.Body)
	pipe.SAdd(ctx, allResponsesKey, res.SeqNum)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisCache) Len(ctx context.Context) (int, error) {
	n, err := r.client.SCard(ctx, allResponsesKey).Result()
	return int(n), err
}

func (r *RedisCache) Clear(ctx context.Context) error {
	members, err := r.client.SMembers(ctx, allResponsesKey).Result()
	if err != nil {
		return err
	}
	pipe := r.client.Pipeline()
	for _, m := range members {
		seq, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		pipe.Del(ctx, responseKey(seq))
	}
	pipe.Del(ctx, allResponsesKey)
	_, err = pipe.Exec(ctx)
	return err
}
