package notify

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/robfig/cron/v3"
	"github.com/zulandar/pitwall/internal/store"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ScheduleOpts configures RunSchedule.
type ScheduleOpts struct {
	Store    store.Store
	Schedule string // 5-field cron expression
	Event    string
	Mode     string
	Posters  []Poster
	Out      io.Writer
}

// RunSchedule sends a digest on every tick of the schedule. It blocks until
// ctx is cancelled and waits for an in-flight digest before returning.
// Failed digests are logged and do not stop the schedule.
func RunSchedule(ctx context.Context, opts ScheduleOpts) error {
	if opts.Store == nil {
		return fmt.Errorf("notify: store is required")
	}
	if len(opts.Posters) == 0 {
		return fmt.Errorf("notify: no chat platform configured")
	}
	sched, err := cronParser.Parse(opts.Schedule)
	if err != nil {
		return fmt.Errorf("notify: schedule %q: %w", opts.Schedule, err)
	}

	c := cron.New(cron.WithParser(cronParser))
	c.Schedule(sched, cron.FuncJob(func() {
		if err := SendDigest(ctx, opts.Store, opts.Event, opts.Mode, opts.Posters); err != nil {
			log.Printf("notify: digest for %s: %v", opts.Event, err)
			return
		}
		if opts.Out != nil {
			fmt.Fprintf(opts.Out, "Digest sent for %s\n", opts.Event)
		}
	}))
	c.Start()
	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Digest scheduled (%s) for %s\n", opts.Schedule, opts.Event)
	}

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
