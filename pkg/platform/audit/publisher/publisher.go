// Package publisher fans audit events out to a Store, either synchronously
// or through a buffered channel. Emission failures are the caller's to log;
// audit must never fail a request.
package publisher

import (
	"context"
	"sync"
	"time"

	audit "sppg/pkg/platform/audit"
	"sppg/pkg/requestcontext"
)

// Publisher writes audit events to its store.
type Publisher struct {
	store audit.Store

	inbox  chan audit.Event
	wg     sync.WaitGroup
	closed chan struct{}
	once   sync.Once
}

type Option func(*Publisher)

// WithAsyncBuffer makes Emit non-blocking through a buffered channel
// drained by a background goroutine. Events that arrive after Close or
// while the buffer is full are dropped rather than blocking a request.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.inbox = make(chan audit.Event, size)
	}
}

// NewPublisher creates a publisher over the given store.
func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:  store,
		closed: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for {
		select {
		case event := <-p.inbox:
			p.append(event)
		case <-p.closed:
			// Flush whatever is still buffered, then stop.
			for {
				select {
				case event := <-p.inbox:
					p.append(event)
				default:
					return
				}
			}
		}
	}
}

func (p *Publisher) append(event audit.Event) {
	// Detached context: the originating request may already be done.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	_ = p.store.Append(ctx, event)
	cancel()
}

// Emit records an audit event, stamping the timestamp and request ID from
// context when the caller left them empty.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	if event.UserAgent == "" {
		event.UserAgent = requestcontext.UserAgent(ctx)
	}

	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}

	select {
	case <-p.closed:
		return nil
	case p.inbox <- event:
		return nil
	default:
		// Buffer full: drop rather than stall the request path.
		return nil
	}
}

// Close stops the async drain goroutine and waits for buffered events.
// The inbox channel is never closed so a late Emit stays a silent no-op
// instead of a send on a closed channel.
func (p *Publisher) Close() {
	p.once.Do(func() {
		close(p.closed)
		if p.inbox != nil {
			p.wg.Wait()
		}
	})
}
