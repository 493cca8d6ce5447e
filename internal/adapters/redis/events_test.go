package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "tripmarket/internal/adapters/redis"
	"tripmarket/internal/domain"
)

func TestFeed_PublishReachesSubscriber(t *testing.T) {
	mr := miniredis.RunT(t)
	feed := redisad.NewFeed(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = feed.Close() })
	ctx := context.Background()

	ch, err := feed.Subscribe(ctx, domain.TableTrips)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := feed.Publish(ctx, domain.TableTrips); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change tick")
	}
}

func TestFeed_TablesAreIsolated(t *testing.T) {
	mr := miniredis.RunT(t)
	feed := redisad.NewFeed(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = feed.Close() })
	ctx := context.Background()

	trips, err := feed.Subscribe(ctx, domain.TableTrips)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := feed.Publish(ctx, domain.TableReviews); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case <-trips:
		t.Fatal("trips subscriber must not hear review changes")
	case <-time.After(150 * time.Millisecond):
	}
}
