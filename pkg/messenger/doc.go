/*
Package messenger broadcasts messages to a set of listeners from a worker
thread.

A Messenger is a threading.Worker. Add it to a pool and it runs on one of the
pool's threads; every listener callback happens on that thread.

	type Listener interface{ OnPing(string) }

	pool := threading.New("app", 2)
	defer pool.Close()

	bus := messenger.New[Listener]()
	pool.Add("bus", bus)

	bus.AddListener(l)
	bus.MessageListeners(messenger.MessageFunc[Listener](func(l Listener) {
		l.OnPing("ping")
	}))

Listener changes:

AddListener, RemoveListener and RemoveAllListeners record a change that is
applied at the next synchronization point on the messenger's thread. The
latest request for a given listener wins. RemoveListener with wait set, and
RemoveAllListeners, block the caller until the change has been applied, so a
listener may be released safely once they return. Called from the messenger's
own thread (typically from inside a callback) they never block.

Delivery:

Each message is delivered once to every listener that was active when its
sweep started, plus any listener added before the sweep finished. Pending
changes are applied after every single delivery, so a callback can add or
remove listeners, itself included, and a listener removed before its turn
is skipped. Messages are swept strictly in submission order.
*/
package messenger
