// Package redisad carries the redis-backed collaborators: the per-table
// change feed (pub/sub) and the client-persisted key-value store.
package redisad

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"

	"tripmarket/internal/domain"
)

// Feed is the per-table change-notification channel. Writers publish a
// bare "changed" signal (no diff); subscribers get a coalescable tick.
type Feed struct {
	c *redis.Client

	mu   sync.Mutex
	subs []*redis.PubSub
}

func NewFeed(addr, pass string, db int) *Feed {
	return &Feed{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func channel(table domain.Table) string { return "changes:" + string(table) }

func (f *Feed) Publish(ctx context.Context, table domain.Table) error {
	return f.c.Publish(ctx, channel(table), "1").Err()
}

// Subscribe yields a tick per remote change. The channel has capacity 1
// and drops ticks while one is pending; the refresh controller debounces
// anyway, so one retained tick is enough.
func (f *Feed) Subscribe(ctx context.Context, table domain.Table) (<-chan struct{}, error) {
	ps := f.c.Subscribe(ctx, channel(table))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}
	f.mu.Lock()
	f.subs = append(f.subs, ps)
	f.mu.Unlock()

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for range ps.Channel() {
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}()
	return out, nil
}

func (f *Feed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ps := range f.subs {
		_ = ps.Close()
	}
	f.subs = nil
	return f.c.Close()
}
