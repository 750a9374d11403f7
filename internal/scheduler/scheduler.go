// Package scheduler owns the background jobs: the evening booking
// reminder, the monthly activity report and the periodic repair pass
// that frees occupied spots left behind by partial failures.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/maytri315/parking-app/internal/service"
)

// Scheduler wraps gocron with the three recurring jobs the service
// runs.  Shutdown stops all of them.
type Scheduler struct {
	inner gocron.Scheduler
}

// New builds the scheduler.  reconcileEvery controls how often the
// repair pass runs; zero disables it.
func New(reports *service.Reports, reconciler *service.Reconciler, reconcileEvery time.Duration) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	// Daily reminder at 18:00 server time for users without an active
	// reservation.
	_, err = s.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(18, 0, 0))),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := reports.DailyReminder(ctx); err != nil {
				log.Printf("scheduler: daily reminder failed: %v", err)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	// Monthly report on the 1st covering the previous calendar month.
	_, err = s.NewJob(
		gocron.MonthlyJob(1, gocron.NewDaysOfTheMonth(1), gocron.NewAtTimes(gocron.NewAtTime(0, 0, 0))),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if err := reports.MonthlyReport(ctx); err != nil {
				log.Printf("scheduler: monthly report failed: %v", err)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	if reconcileEvery > 0 {
		_, err = s.NewJob(
			gocron.DurationJob(reconcileEvery),
			gocron.NewTask(func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				defer cancel()
				n, err := reconciler.Run(ctx)
				if err != nil {
					log.Printf("scheduler: reconciliation failed: %v", err)
					return
				}
				if n > 0 {
					log.Printf("scheduler: reconciliation freed %d orphaned spot(s)", n)
				}
			}),
		)
		if err != nil {
			return nil, err
		}
	}

	return &Scheduler{inner: s}, nil
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() { s.inner.Start() }

// Shutdown stops the scheduler and waits for running jobs.
func (s *Scheduler) Shutdown() error { return s.inner.Shutdown() }
