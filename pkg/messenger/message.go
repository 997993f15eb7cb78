package messenger

// Message is a capsule delivered to every active listener. Arguments are
// captured when the message is built; Call applies them to one listener.
type Message[L any] interface {
	Call(listener L)
}

// MessageFunc adapts a closure to Message.
//
//	bus.MessageListeners(messenger.MessageFunc[Listener](func(l Listener) {
//		l.OnPing("ping")
//	}))
type MessageFunc[L any] func(listener L)

// Call invokes f with the listener.
func (f MessageFunc[L]) Call(listener L) { f(listener) }
