package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Syncer is what the scheduler drives.
type Syncer interface {
	Synchronize(ctx context.Context, table string) (Result, error)
}

// Scheduler refreshes each table on its own interval.
type Scheduler struct {
	syncer    Syncer
	intervals map[string]time.Duration
	wg        sync.WaitGroup
}

// NewScheduler creates a scheduler. Tables with a non-positive interval are
// never refreshed by it.
func NewScheduler(syncer Syncer, intervals map[string]time.Duration) *Scheduler {
	return &Scheduler{syncer: syncer, intervals: intervals}
}

// Start launches one goroutine per table. Each synchronizes immediately and
// then on every tick until ctx is done. Failures are logged and retried on
// the next tick.
func (s *Scheduler) Start(ctx context.Context) {
	for table, every := range s.intervals {
		if every <= 0 {
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.loop(ctx, table, every)
		}()
	}
}

// Wait blocks until every table loop has returned.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, table string, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	log.Info().Str("table", table).Dur("interval", every).Msg("sync scheduled")
	for {
		if _, err := s.syncer.Synchronize(ctx, table); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Str("table", table).Msg("scheduled sync failed")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
