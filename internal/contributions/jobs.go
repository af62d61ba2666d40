package contributions

import (
	"context"
	"sync"
	"time"

	"dhukuti/internal/shared/config"
	"dhukuti/pkg/logger"
)

// Sweeper periodically moves late contributions to OVERDUE.
type Sweeper struct {
	service   Service
	interval  time.Duration
	batchSize int
	log       *logger.Logger

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewSweeper(service Service, cfg config.JobsConfig) *Sweeper {
	interval := cfg.OverdueSweepInterval
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	batch := cfg.OverdueBatchSize
	if batch <= 0 {
		batch = 500
	}
	return &Sweeper{
		service:   service,
		interval:  interval,
		batchSize: batch,
		log:       logger.GetDefault(),
		done:      make(chan struct{}),
	}
}

// Start runs one sweep immediately and then one per interval until Stop or ctx ends.
func (s *Sweeper) Start(ctx context.Context) {
	s.log.Info("Starting overdue contribution sweeper", "interval", s.interval.String(), "batch_size", s.batchSize)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.RunOnce(ctx)
		for {
			select {
			case <-ticker.C:
				s.RunOnce(ctx)
			case <-s.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// RunOnce sweeps batches until a batch comes back short.
func (s *Sweeper) RunOnce(ctx context.Context) int {
	total := 0
	for {
		n, err := s.service.SweepOverdue(ctx, s.batchSize)
		if err != nil {
			s.log.WithError(err).Error("Overdue sweep failed")
			return total
		}
		total += n
		if n < s.batchSize || ctx.Err() != nil {
			break
		}
	}
	if total > 0 {
		s.log.Info("Marked contributions overdue", "count", total)
	}
	return total
}

func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
	s.log.Info("Overdue contribution sweeper stopped")
}
