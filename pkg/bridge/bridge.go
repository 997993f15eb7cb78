// Package bridge forwards Redis pub/sub messages into a Messenger, so
// listeners receive external events on the messenger's worker thread.
package bridge

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	werrors "github.com/vnykmshr/weave/pkg/common/errors"
	"github.com/vnykmshr/weave/pkg/common/validation"
	"github.com/vnykmshr/weave/pkg/logx"
	"github.com/vnykmshr/weave/pkg/messenger"
)

const module = "bridge"

// Event is one pub/sub message.
type Event struct {
	Channel string
	Payload string
}

// Listener receives forwarded events.
type Listener interface {
	OnEvent(ev Event)
}

// Config holds bridge configuration.
type Config struct {
	// Redis is the client used to subscribe and publish.
	Redis redis.UniversalClient

	// Channels are subscribed to by Run. At least one is required.
	Channels []string

	// Logger receives subscription events. Nil disables logging.
	Logger *zerolog.Logger
}

// Bridge subscribes to Redis channels and broadcasts every message through
// a Messenger.
type Bridge struct {
	redis    redis.UniversalClient
	channels []string
	target   *messenger.Messenger[Listener]
	log      zerolog.Logger

	forwarded atomic.Uint64

	mu     sync.Mutex
	cancel context.CancelFunc
	closed bool
}

// New validates config and creates a bridge that forwards into target.
func New(config Config, target *messenger.Messenger[Listener]) (*Bridge, error) {
	if config.Redis == nil {
		return nil, werrors.NewValidationError(module, "redis", nil, "client is required")
	}
	if target == nil {
		return nil, werrors.NewValidationError(module, "target", nil, "messenger is required")
	}
	if len(config.Channels) == 0 {
		return nil, werrors.NewValidationError(module, "channels", config.Channels, "at least one channel is required")
	}
	for _, ch := range config.Channels {
		if err := validation.ValidateNotEmpty(module, "channel", ch); err != nil {
			return nil, err
		}
	}

	return &Bridge{
		redis:    config.Redis,
		channels: append([]string(nil), config.Channels...),
		target:   target,
		log:      logx.OrNop(config.Logger).With().Strs("channels", config.Channels).Logger(),
	}, nil
}

// Run subscribes and forwards messages until ctx is done or Close is called.
// It returns nil after Close, ctx.Err() when ctx ends, and an error if the
// subscription cannot be established.
func (b *Bridge) Run(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return werrors.ErrClosed
	}
	ctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.mu.Unlock()
	defer cancel()

	sub := b.redis.Subscribe(ctx, b.channels...)
	defer sub.Close()

	// Receive blocks until the subscription is confirmed.
	if _, err := sub.Receive(ctx); err != nil {
		return werrors.NewOperationError(module, "subscribe", err)
	}
	b.log.Info().Msg("bridge subscribed")

	err := b.Pump(ctx, sub.Channel())
	if b.isClosed() && errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Pump forwards messages from msgs until the channel closes or ctx is done.
// Run feeds it from a live subscription.
func (b *Bridge) Pump(ctx context.Context, msgs <-chan *redis.Message) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			b.forward(Event{Channel: msg.Channel, Payload: msg.Payload})
		}
	}
}

func (b *Bridge) forward(ev Event) {
	b.target.MessageListeners(messenger.MessageFunc[Listener](func(l Listener) {
		l.OnEvent(ev)
	}))
	b.forwarded.Add(1)
	b.log.Trace().Str("channel", ev.Channel).Int("bytes", len(ev.Payload)).Msg("event forwarded")
}

// Publish sends payload to channel through the bridge's client.
func (b *Bridge) Publish(ctx context.Context, channel, payload string) error {
	if err := b.redis.Publish(ctx, channel, payload).Err(); err != nil {
		return werrors.NewOperationError(module, "publish", err).WithContext("channel=" + channel)
	}
	return nil
}

// Forwarded returns the number of events handed to the messenger.
func (b *Bridge) Forwarded() uint64 {
	return b.forwarded.Load()
}

// Close stops a running Run. Later calls to Run return ErrClosed.
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	if b.cancel != nil {
		b.cancel()
	}
}

func (b *Bridge) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}
