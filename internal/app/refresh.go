package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tripmarket/internal/domain"
)

// RefreshController multiplexes every per-table change signal into one
// debounced full reload. State machine: Idle -> (event) -> Pending
// (timer armed, resets on further events) -> reload -> Idle. Events that
// land while a reload is running arm a fresh Pending cycle once it
// finishes, so no event is dropped and each cycle runs at most one
// reload.
type RefreshController struct {
	feed   domain.ChangeFeed
	loader *Loader
	log    zerolog.Logger

	deb *Debouncer

	mu        sync.Mutex
	reloading bool
	deferred  bool

	reloadTimeout time.Duration
	stop          chan struct{}
	wg            sync.WaitGroup
}

func NewRefreshController(feed domain.ChangeFeed, loader *Loader, window time.Duration, log zerolog.Logger) *RefreshController {
	c := &RefreshController{
		feed:          feed,
		loader:        loader,
		log:           log.With().Str("component", "refresh").Logger(),
		reloadTimeout: 30 * time.Second,
		stop:          make(chan struct{}),
	}
	c.deb = NewDebouncer(window, c.reload)
	return c
}

// Start subscribes to all tables and begins coalescing their events.
func (c *RefreshController) Start(ctx context.Context) error {
	for _, table := range domain.AllTables {
		ch, err := c.feed.Subscribe(ctx, table)
		if err != nil {
			return err
		}
		table := table
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			for {
				select {
				case _, ok := <-ch:
					if !ok {
						return
					}
					c.OnChange(table)
				case <-c.stop:
					return
				}
			}
		}()
	}
	return nil
}

// OnChange records one change signal for a table.
func (c *RefreshController) OnChange(table domain.Table) {
	c.mu.Lock()
	if c.reloading {
		// Reload in flight: remember the event and re-arm afterwards.
		c.deferred = true
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	c.log.Debug().Str("table", string(table)).Msg("change signal")
	c.deb.Trigger()
}

func (c *RefreshController) reload() {
	c.mu.Lock()
	if c.reloading {
		// A timer armed in the gap between the debouncer firing and
		// the previous reload taking this lock: fold it into the
		// deferred cycle instead of running two reloads at once.
		c.deferred = true
		c.mu.Unlock()
		return
	}
	c.reloading = true
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), c.reloadTimeout)
	if err := c.loader.LoadGlobal(ctx); err != nil {
		c.log.Error().Err(err).Msg("debounced reload failed")
	}
	cancel()

	c.mu.Lock()
	c.reloading = false
	again := c.deferred
	c.deferred = false
	c.mu.Unlock()
	if again {
		c.deb.Trigger()
	}
}

func (c *RefreshController) Close() {
	close(c.stop)
	c.deb.Stop()
	c.wg.Wait()
}
