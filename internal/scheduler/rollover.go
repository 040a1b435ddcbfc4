// Package scheduler runs the cron-driven housekeeping jobs of the server.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	appLog "monthcal/internal/log"
)

// DefaultRollover fires at local midnight.
const DefaultRollover = "0 0 * * *"

// Invalidator is anything holding derived views that go stale when the
// date changes.
type Invalidator interface {
	Invalidate()
}

// Rollover invalidates cached views on a cron schedule so the "today"
// marker follows the wall clock.
type Rollover struct {
	c   *cron.Cron
	loc *time.Location
}

// NewRollover validates expr (standard 5-field cron) and registers the
// job in loc. It does not start the scheduler.
func NewRollover(expr string, loc *time.Location, target Invalidator) (*Rollover, error) {
	if expr == "" {
		expr = DefaultRollover
	}
	if loc == nil {
		loc = time.Local
	}
	c := cron.New(cron.WithLocation(loc))
	_, err := c.AddFunc(expr, func() {
		appLog.Info("day rollover; invalidating cached views", "at", time.Now().In(loc).Format(time.RFC3339))
		target.Invalidate()
	})
	if err != nil {
		return nil, fmt.Errorf("rollover schedule %q: %w", expr, err)
	}
	return &Rollover{c: c, loc: loc}, nil
}

// Run starts the scheduler and blocks until ctx is canceled, then waits
// for a running job to finish.
func (r *Rollover) Run(ctx context.Context) {
	r.c.Start()
	<-ctx.Done()
	<-r.c.Stop().Done()
}

// Next reports the next scheduled fire time.
func (r *Rollover) Next() time.Time {
	entries := r.c.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Schedule.Next(time.Now().In(r.loc))
}
