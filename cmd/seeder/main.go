package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"tripmarket/internal/adapters/observability"
	redisad "tripmarket/internal/adapters/redis"
	"tripmarket/internal/cache"
	"tripmarket/internal/domain"
	"tripmarket/internal/shared"
	mysqlgw "tripmarket/internal/storage/mysql"
)

// Seeds the demo dataset into MySQL so a fresh environment has content
// to browse. Reference rows (agencies, clients, settings) land first,
// then trips fan out over a bounded worker pool.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	if cfg.MySQLDSN == "" {
		log.Fatal().Msg("MYSQL_DSN is required for seeding")
	}
	log.Info().
		Int("workers", cfg.SeedWorkers).
		Int("rps", cfg.SeedRPS).
		Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	events := redisad.NewFeed(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	gw := mysqlgw.New(db, events, cfg.UploadBase)
	data := cache.FixtureData()

	for _, a := range data.Agencies {
		if err := gw.SeedAgency(ctx, a); err != nil {
			log.Fatal().Str("id", a.ID).Err(err).Msg("seed agency failed")
		}
	}
	for _, c := range data.Clients {
		if err := gw.SeedClient(ctx, c); err != nil {
			log.Fatal().Str("id", c.ID).Err(err).Msg("seed client failed")
		}
	}
	for _, m := range data.Broadcasts {
		if err := gw.SeedBroadcast(ctx, m); err != nil {
			log.Fatal().Str("id", m.ID).Err(err).Msg("seed broadcast failed")
		}
	}
	if err := gw.SeedSettings(ctx, data.Settings); err != nil {
		log.Fatal().Err(err).Msg("seed settings failed")
	}

	// Trips are the bulky table; bound concurrency and request rate the
	// same way any backfill against the shared database would.
	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	limiter := rate.NewLimiter(rate.Limit(cfg.SeedRPS), 1)
	var wg sync.WaitGroup

	for _, t := range data.Trips {
		t := t
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}
		wg.Add(1)
		go func(t domain.Trip) {
			defer wg.Done()
			defer sem.Release(1)

			if err := limiter.Wait(ctx); err != nil {
				log.Warn().Str("id", t.ID).Err(err).Msg("rate wait aborted")
				return
			}
			if err := gw.InsertTrip(ctx, t); err != nil {
				log.Warn().Str("id", t.ID).Err(err).Msg("seed trip failed")
				return
			}
			log.Info().Str("id", t.ID).Str("slug", t.Slug).Msg("trip seeded")
		}(t)
	}
	wg.Wait()

	for _, r := range data.Reviews {
		if err := gw.UpsertReview(ctx, r); err != nil {
			log.Warn().Str("id", r.ID).Err(err).Msg("seed review failed")
		}
	}
	log.Info().Msg("seeding completed")
}
