/*
Package weave runs many small workers on a few dedicated threads and lets them
talk to each other through thread-affine message buses.

Threading (pkg/threading):
  - Pool: fixed set of OS-thread-locked loops, workers assigned round-robin
  - Worker: Setup/Run contract with coalescing ScheduleWork
  - Local: a value visible only on its owning thread

Messaging (pkg/messenger):
  - Messenger: broadcast bus running as a worker, with deferred listener
    changes that callbacks may make safely

Deadline scheduling (pkg/simpleasync):
  - Async: one thread running deduplicated, cancellable, deadline-ordered
    tasks, plus cron-driven recurring tasks

Supporting packages:
  - config: YAML configuration for a process built on weave
  - bridge: Redis pub/sub ingress into a Messenger
  - metrics: Prometheus instrumentation shared by every component
  - logx: zerolog construction

Example usage:

	import (
		"github.com/vnykmshr/weave/pkg/messenger"
		"github.com/vnykmshr/weave/pkg/threading"
	)

	pool := threading.New("app", 0) // 0 selects min(8, 2 x CPUs)
	defer pool.Close()

	bus := messenger.New[Listener]()
	pool.Add("bus", bus)

	bus.AddListener(l)
	bus.MessageListeners(messenger.MessageFunc[Listener](func(l Listener) {
		l.OnUpdate(v)
	}))

Listener callbacks always run on the bus's thread, never on the sender's.

See examples/ for complete programs.
*/
package weave
