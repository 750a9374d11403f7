package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/maytri315/parking-app/internal/model"
	"github.com/maytri315/parking-app/internal/queue"
)

// Reports produces the periodic read-only projections: the daily
// booking reminder and the monthly per-user spending report.  Both
// only read core data and publish notifications; they never touch the
// reservation state machine.
type Reports struct {
	users        UserStore
	reservations ReservationStore
	notifier     Notifier
	now          func() time.Time
}

// NewReports wires the report generator.
func NewReports(users UserStore, reservations ReservationStore, notifier Notifier) *Reports {
	return &Reports{users: users, reservations: reservations, notifier: notifier, now: time.Now}
}

// DailyReminder nudges every plain user who has no active reservation
// to book a spot.  Failures for one user are logged and skipped.
func (r *Reports) DailyReminder(ctx context.Context) error {
	users, err := r.users.ListByRole(ctx, model.RoleUser)
	if err != nil {
		return err
	}
	sent := 0
	for _, u := range users {
		active, err := r.reservations.HasActive(ctx, u.ID)
		if err != nil {
			log.Printf("reports: reminder check for user %d failed: %v", u.ID, err)
			continue
		}
		if active {
			continue
		}
		r.notify(ctx, queue.Notification{
			Kind:       queue.KindUserReminder,
			UserID:     u.ID,
			Email:      u.Email,
			Message:    fmt.Sprintf("Hi %s, book a parking spot today!", u.Email),
			OccurredAt: r.now().UTC().Format(time.RFC3339),
		})
		sent++
	}
	log.Printf("reports: daily reminder queued for %d users", sent)
	return nil
}

// MonthlyReport summarizes the previous calendar month for every plain
// user: bookings made and total spend, queued as one notification per
// user.
func (r *Reports) MonthlyReport(ctx context.Context) error {
	now := r.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	from := monthStart.AddDate(0, -1, 0)

	users, err := r.users.ListByRole(ctx, model.RoleUser)
	if err != nil {
		return err
	}
	for _, u := range users {
		count, total, err := r.reservations.SummaryForUser(ctx, u.ID, from, monthStart)
		if err != nil {
			log.Printf("reports: monthly summary for user %d failed: %v", u.ID, err)
			continue
		}
		r.notify(ctx, queue.Notification{
			Kind:       queue.KindMonthlyReport,
			UserID:     u.ID,
			Email:      u.Email,
			Message:    fmt.Sprintf("Monthly parking report %s: %d bookings, total spent %.2f", from.Format("2006-01"), count, Round2(total)),
			OccurredAt: now.Format(time.RFC3339),
		})
	}
	return nil
}

func (r *Reports) notify(ctx context.Context, n queue.Notification) {
	if r.notifier == nil {
		return
	}
	r.notifier.Notify(ctx, n)
}
