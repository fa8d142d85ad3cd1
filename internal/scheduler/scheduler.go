package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/crop-advisor/internal/metrics"
)

// Reloader refreshes a cached resource.
type Reloader interface {
	Reload() error
}

// Scheduler periodically refreshes the crop rule cache.
type Scheduler struct {
	scheduler *gocron.Scheduler
	rules     Reloader
	interval  time.Duration
	metrics   *metrics.Metrics
}

// New creates a new Scheduler. An interval <= 0 disables reloading.
func New(interval time.Duration, rules Reloader, m *metrics.Metrics) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		rules:     rules,
		interval:  interval,
		metrics:   m,
	}
}

// Start schedules the reload job and starts the underlying scheduler.
// The first run happens one interval after Start.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Println("scheduler: rule reload disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.reload)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	log.Printf("scheduler: reloading crop rules every %s", s.interval)
	return nil
}

func (s *Scheduler) reload() {
	err := s.rules.Reload()
	s.metrics.RulesReload(err)
	if err != nil {
		log.Printf("ERROR: scheduler: crop rule reload failed: %v", err)
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
