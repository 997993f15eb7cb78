/*
Package simpleasync runs deadline-ordered tasks on a single dedicated thread.

	a := simpleasync.New()
	defer a.Close()

	a.Schedule(flush, 100*time.Millisecond)
	a.Schedule(flush, 500*time.Millisecond) // replaces the first entry
	a.Cancel(flush)                         // nothing runs

Identity:

At most one entry per task is pending. Scheduling a task that is already
pending moves its deadline; the latest call wins. Funcs are compared by code
pointer, so every closure created by the same func literal counts as the same
task regardless of what it captured. ScheduleKeyed and CancelKey take an
explicit key instead:

	for _, id := range sessions {
		a.ScheduleKeyed("expire:"+id, expire(id), ttl)
	}

Recurring work:

ScheduleCron re-arms a keyed task at each time matched by a cron expression:

	err := a.ScheduleCron("heartbeat", "@every 30s", beat)

Execution:

Tasks run one at a time, in deadline order, on the scheduler's thread. A task
may schedule or cancel tasks, itself included. Cancelling has no effect once a
task has started.

A task that panics ends the scheduler. The panic is logged, Done is closed,
and nothing scheduled afterwards runs. Recover inside the task if it must not
take the scheduler down.
*/
package simpleasync
