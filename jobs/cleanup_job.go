package jobs

import (
	"log/slog"
	"time"
)

// CleanupJob runs a purge function on a fixed interval
type CleanupJob struct {
	name     string
	interval time.Duration
	purge    func() int
	logger   *slog.Logger
	ticker   *time.Ticker
	done     chan struct{}
}

// NewCleanupJob creates a new cleanup job; purge returns how many entries it removed
func NewCleanupJob(name string, interval time.Duration, purge func() int, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{
		name:     name,
		interval: interval,
		purge:    purge,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start begins the cleanup job
func (j *CleanupJob) Start() {
	j.ticker = time.NewTicker(j.interval)
	j.logger.Info("cleanup job started", "job", j.name, "interval", j.interval)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				j.cleanup()
			case <-j.done:
				j.logger.Info("cleanup job stopped", "job", j.name)
				return
			}
		}
	}()
}

// Stop stops the cleanup job
func (j *CleanupJob) Stop() {
	j.ticker.Stop()
	close(j.done)
}

func (j *CleanupJob) cleanup() {
	if removed := j.purge(); removed > 0 {
		j.logger.Debug("cleanup completed", "job", j.name, "removed", removed)
	}
}
