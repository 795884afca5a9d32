package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	log "github.com/sirupsen/logrus"
)

// Sweeper drops expired cache entries.
type Sweeper interface {
	Sweep(now time.Time) int
}

// Refresher forgets cached content so the next read goes to the source.
type Refresher interface {
	InvalidateCatalog()
}

// Scheduler runs periodic maintenance: sweeping expired question sets and
// refreshing the quiz catalog.
type Scheduler struct {
	scheduler *gocron.Scheduler
	sweeper   Sweeper
	refresher Refresher
	onRefresh []func()
}

// New builds a scheduler. Either dependency may be nil to skip its job.
func New(sweeper Sweeper, refresher Refresher, onRefresh ...func()) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		sweeper:   sweeper,
		refresher: refresher,
		onRefresh: onRefresh,
	}
}

// Start registers the jobs and runs them in the background.
func (s *Scheduler) Start(sweepEvery, refreshEvery time.Duration) error {
	if s.sweeper != nil && sweepEvery > 0 {
		if _, err := s.scheduler.Every(sweepEvery).Tag("sweep").SingletonMode().Do(s.SweepQuestionSets); err != nil {
			return err
		}
	}
	if s.refresher != nil && refreshEvery > 0 {
		// the catalog is fresh at startup
		if _, err := s.scheduler.Every(refreshEvery).Tag("catalog").WaitForSchedule().SingletonMode().Do(s.RefreshCatalog); err != nil {
			return err
		}
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled jobs.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) SweepQuestionSets() {
	if removed := s.sweeper.Sweep(time.Now()); removed > 0 {
		log.WithField("removed", removed).Info("swept expired question sets")
	}
}

func (s *Scheduler) RefreshCatalog() {
	s.refresher.InvalidateCatalog()
	for _, fn := range s.onRefresh {
		fn()
	}
	log.Debug("catalog refreshed")
}
