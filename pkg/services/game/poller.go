package game

import (
	"context"
	"log"
	"time"

	"github.com/fadedpez/cryptoufos/pkg/clock"
)

// DefaultPollInterval is how often timers are re-evaluated.
const DefaultPollInterval = time.Second

// Poller ticks every connected session on a fixed interval, recomputing
// timer progress and firing auto-completions. Completion detection
// lives in Session.Poll and is idempotent, so overlapping or repeated
// ticks are harmless.
type Poller struct {
	svc      *Service
	clk      clock.Clock
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// NewPoller creates a poller over the service's sessions. A
// non-positive interval falls back to the default one second.
func NewPoller(svc *Service, clk clock.Clock, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		svc:      svc,
		clk:      clk,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the tick loop until Stop is called.
func (p *Poller) Start(ctx context.Context) {
	go p.run(ctx)
}

// Stop halts the tick loop and waits for it to exit.
func (p *Poller) Stop() {
	close(p.stop)
	<-p.done
}

// Tick polls every live session once at the given instant. Exposed so
// tests can drive completion without the ticker.
func (p *Poller) Tick(ctx context.Context, now time.Time) int {
	completed := 0
	for _, sess := range p.svc.Sessions() {
		completed += sess.Poll(ctx, now)
	}
	return completed
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	log.Printf("[POLLER] Started with interval %s", p.interval)
	for {
		select {
		case <-p.stop:
			log.Printf("[POLLER] Stopped")
			return
		case <-ctx.Done():
			log.Printf("[POLLER] Context cancelled: %v", ctx.Err())
			return
		case <-ticker.C:
			p.Tick(ctx, p.clk.Now())
		}
	}
}
