// Package poller runs the recurring fetch -> evaluate -> fire check. Each
// execution context (watcher, agent) hosts its own Poller; they coordinate
// only through the remote store.
package poller

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/chronoflow/chronod/internal/due"
	"github.com/chronoflow/chronod/internal/models"
	"github.com/chronoflow/chronod/internal/trigger"
)

// DefaultInterval matches the original check cadence and the due window.
const DefaultInterval = 60 * time.Second

// initialDelay before the first check after startup, so delivery surfaces
// have a moment to come up.
const initialDelay = 5 * time.Second

// TickFunc runs one poll pass.
type TickFunc func(ctx context.Context)

// Fetcher is the read side of the event store.
type Fetcher interface {
	FetchEvents(ctx context.Context, email string) ([]models.Event, error)
}

// Poller invokes a TickFunc on a fixed interval. Overlapping ticks are
// skipped: if a fetch outlives the interval, the next tick is dropped
// rather than stacked.
type Poller struct {
	ctx      context.Context
	cron     *cron.Cron
	interval time.Duration
	tick     TickFunc
}

// New creates a Poller that runs tick every interval until ctx is
// cancelled. A non-positive interval falls back to DefaultInterval.
func New(ctx context.Context, interval time.Duration, tick TickFunc) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		ctx:      ctx,
		cron:     cron.New(),
		interval: interval,
		tick:     tick,
	}
}

// Start schedules the recurring check and kicks off a delayed initial one.
func (p *Poller) Start() error {
	job := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(func() {
		p.tick(p.ctx)
	}))

	if _, err := p.cron.AddJob(fmt.Sprintf("@every %s", p.interval), job); err != nil {
		return fmt.Errorf("schedule poll job: %w", err)
	}
	p.cron.Start()

	go func() {
		select {
		case <-time.After(initialDelay):
			p.tick(p.ctx)
		case <-p.ctx.Done():
		}
	}()

	return nil
}

// Stop clears the schedule and waits for an in-flight tick to finish.
func (p *Poller) Stop() {
	<-p.cron.Stop().Done()
}

// RunOnce runs a single poll pass synchronously.
func (p *Poller) RunOnce(ctx context.Context) {
	p.tick(ctx)
}

// Pipeline builds the standard tick: fetch the snapshot, compute the due
// subset, fire each. A fetch failure means no due events this tick; the
// next poll retries naturally.
func Pipeline(fetcher Fetcher, coordinator *trigger.Coordinator, email string) TickFunc {
	return func(ctx context.Context) {
		events, err := fetcher.FetchEvents(ctx, email)
		if err != nil {
			log.Printf("Event fetch failed, skipping tick: %v", err)
			return
		}

		for _, event := range due.Compute(events, time.Now()) {
			coordinator.Fire(ctx, event)
		}
	}
}
