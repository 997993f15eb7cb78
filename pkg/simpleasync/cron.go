package simpleasync

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

type cronJob struct {
	run func()
}

// ScheduleCron runs task at every time matched by expr, until CancelKey(key)
// or Close. expr is a standard five-field cron expression, optionally with a
// leading seconds field, or a descriptor such as "@hourly" or "@every 5m".
// A job already registered under key is replaced.
//
// Cron resolution is one second. An "@every" interval is truncated to whole
// seconds and anything shorter runs once a second, with each run lined up to
// a second boundary. Use ScheduleKeyed for sub-second recurrence.
func (a *Async) ScheduleCron(key, expr string, task func()) error {
	if task == nil {
		panic("simpleasync: nil task")
	}
	schedule, err := a.cronParser.Parse(expr)
	if err != nil {
		return fmt.Errorf("simpleasync: invalid cron expression %q: %w", expr, err)
	}

	job := &cronJob{}
	job.run = func() {
		task()

		a.mu.Lock()
		current := a.crons[key] == job
		a.mu.Unlock()
		if current {
			a.ScheduleKeyed(key, job.run, a.cronDelay(schedule))
		}
	}

	a.mu.Lock()
	a.crons[key] = job
	a.mu.Unlock()

	a.ScheduleKeyed(key, job.run, a.cronDelay(schedule))
	a.log.Debug().Str("key", key).Str("expr", expr).Msg("cron job registered")
	return nil
}

// cronDelay returns the wait from now until the schedule's next activation,
// evaluated in the configured location.
func (a *Async) cronDelay(schedule cron.Schedule) time.Duration {
	now := a.now()
	return schedule.Next(now.In(a.location)).Sub(now)
}
