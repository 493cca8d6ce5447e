// Package app wires the cache to the remote store: bulk loading, the
// optimistic mutation engine, the debounced refresh controller and the
// session-scoped fetcher.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"tripmarket/internal/adapters/observability"
	"tripmarket/internal/cache"
	"tripmarket/internal/domain"
)

const activityLoadLimit = 200

// Loader performs full reloads of the global collections. Each reload is
// assembled off to the side and applied as one atomic snapshot swap.
type Loader struct {
	gw    domain.Gateway
	store *cache.Store
	log   zerolog.Logger

	// OnReload, when set, runs after every successful snapshot swap
	// (e.g. to push a reload tick to connected UI clients).
	OnReload func()
}

func NewLoader(gw domain.Gateway, store *cache.Store, log zerolog.Logger) *Loader {
	return &Loader{gw: gw, store: store, log: log.With().Str("component", "loader").Logger()}
}

// LoadGlobal fetches every global table in parallel and swaps the cache.
// An unconfigured backend degrades to the built-in fixture dataset so
// the UI stays navigable.
func (l *Loader) LoadGlobal(ctx context.Context) error {
	start := time.Now()
	var data cache.GlobalData

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { data.Trips, err = l.gw.Trips(gctx); return })
	g.Go(func() (err error) { data.Agencies, err = l.gw.Agencies(gctx); return })
	g.Go(func() (err error) { data.Clients, err = l.gw.Clients(gctx); return })
	g.Go(func() (err error) { data.Reviews, err = l.gw.Reviews(gctx); return })
	g.Go(func() (err error) { data.Broadcasts, err = l.gw.Broadcasts(gctx); return })
	g.Go(func() (err error) { data.Activity, err = l.gw.Activity(gctx, activityLoadLimit); return })
	g.Go(func() (err error) { data.Settings, err = l.gw.Settings(gctx); return })

	if err := g.Wait(); err != nil {
		if errors.Is(err, domain.ErrUnconfigured) {
			l.log.Warn().Msg("remote store unconfigured, loading fixture dataset")
			l.store.ReplaceGlobal(cache.FixtureData())
			observability.ObserveReload("fixture", time.Since(start))
			if l.OnReload != nil {
				l.OnReload()
			}
			return nil
		}
		observability.ObserveReload("error", time.Since(start))
		return err
	}

	l.store.ReplaceGlobal(data)
	observability.ObserveReload("ok", time.Since(start))
	if l.OnReload != nil {
		l.OnReload()
	}
	l.log.Info().
		Int("trips", len(data.Trips)).
		Int("agencies", len(data.Agencies)).
		Int("clients", len(data.Clients)).
		Dur("took", time.Since(start)).
		Msg("global reload done")
	return nil
}

// LoadTripImages lazily fetches a trip's image list. ImagesLoaded is set
// even when the list comes back empty, so "no images" and "not fetched"
// stay distinguishable.
func (l *Loader) LoadTripImages(ctx context.Context, tripID string) error {
	if t, ok := l.store.Snapshot().TripByID(tripID); ok && t.ImagesLoaded {
		return nil
	}
	imgs, err := l.gw.TripImages(ctx, tripID)
	if err != nil {
		return err
	}
	l.store.PatchTrip(tripID, func(t domain.Trip) domain.Trip {
		t.Images = imgs
		t.ImagesLoaded = true
		return t
	})
	return nil
}
