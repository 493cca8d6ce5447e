package main

import (
	"context"
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "tripmarket/internal/adapters/http_server"
	identityad "tripmarket/internal/adapters/identity"
	"tripmarket/internal/adapters/observability"
	redisad "tripmarket/internal/adapters/redis"
	"tripmarket/internal/app"
	"tripmarket/internal/cache"
	"tripmarket/internal/domain"
	"tripmarket/internal/shared"
	mysqlgw "tripmarket/internal/storage/mysql"
	"tripmarket/internal/storage/unconfigured"
	"tripmarket/internal/view"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// remote store; no DSN means fixture mode
	var (
		gw   domain.Gateway
		feed domain.ChangeFeed
		kv   domain.KVStore
	)
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")

		events := redisad.NewFeed(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		gw = mysqlgw.New(db, events, cfg.UploadBase)
		feed = events
		kv = redisad.NewKVStore(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	} else {
		gw = unconfigured.New()
		feed = unconfigured.Feed{}
	}

	// cache, loader, mutation engine
	store := cache.New()
	hub := server.NewHub()
	loader := app.NewLoader(gw, store, log.Logger)
	loader.OnReload = hub.NotifyReload
	mut := app.NewMutator(gw, store, hub, kv, cfg.WriteBudget, log.Logger)
	resolver := view.NewResolver(gw, store, log.Logger)

	if err := loader.LoadGlobal(ctx); err != nil {
		log.Fatal().Err(err).Msg("initial load failed")
	}

	// session-scoped data follows identity transitions
	ident := identityad.NewManual()
	fetcher := app.NewSessionFetcher(gw, store, log.Logger)
	go fetcher.Run(ctx, ident.Changes())

	// debounced refresh on remote change signals
	refresh := app.NewRefreshController(feed, loader, cfg.Debounce, log.Logger)
	if err := refresh.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("change feed subscribe failed")
	}
	defer refresh.Close()

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Store:    store,
		Loader:   loader,
		Mut:      mut,
		Resolver: resolver,
		Identity: ident,
		Session:  ident,
		KV:       kv,
		Hub:      hub,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
