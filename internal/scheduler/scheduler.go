package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/jiwonseo/kma-dashboard/internal/forecast"
	"github.com/jiwonseo/kma-dashboard/internal/settings"
)

// cycleTimeout bounds each refresh cycle so a hung upstream call delays, but
// never permanently blocks, subsequent cycles.
const cycleTimeout = 30 * time.Second

// Scheduler runs the background refresh loop and, when retention is enabled,
// a daily prune job. The refresh interval is re-read from settings before
// every sleep, so runtime changes take effect after the current sleep
// completes. A failed cycle is logged and never terminates the loop.
type Scheduler struct {
	service       *forecast.Service
	settings      *settings.Settings
	retentionDays int

	cron   *gocron.Scheduler
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a Scheduler. retentionDays <= 0 disables pruning.
func New(service *forecast.Service, runtimeSettings *settings.Settings, retentionDays int) *Scheduler {
	return &Scheduler{
		service:       service,
		settings:      runtimeSettings,
		retentionDays: retentionDays,
		done:          make(chan struct{}),
	}
}

// Start launches the refresh loop and schedules the prune job.
func (s *Scheduler) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.loop(ctx)

	if s.retentionDays > 0 {
		s.cron = gocron.NewScheduler(time.UTC)
		_, err := s.cron.Every(1).Day().Do(func() {
			pruneCtx, pruneCancel := context.WithTimeout(context.Background(), cycleTimeout)
			defer pruneCancel()

			pruned, err := s.service.PruneOlderThan(pruneCtx, s.retentionDays)
			if err != nil {
				log.Printf("scheduler: prune failed: %v", err)
				return
			}
			if pruned > 0 {
				log.Printf("scheduler: pruned %d stale forecast rows", pruned)
			}
		})
		if err != nil {
			cancel()
			return err
		}
		s.cron.StartAsync()
	}

	return nil
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	for {
		s.runCycle(ctx)

		timer := time.NewTimer(s.settings.RefreshInterval())
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context) {
	log.Println("scheduler: running forecast refresh cycle")

	cycleCtx, cancel := context.WithTimeout(ctx, cycleTimeout)
	defer cancel()

	if err := s.service.RunRefreshCycle(cycleCtx); err != nil {
		log.Printf("scheduler: refresh cycle failed: %v", err)
		return
	}
	log.Println("scheduler: completed forecast refresh cycle")
}

// Stop cancels the refresh loop, waits for it to exit, and stops the prune
// job.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
	if s.cron != nil {
		s.cron.Stop()
	}
}
