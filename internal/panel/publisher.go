package panel

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docoutline/internal/workspace"
)

// Publisher forwards panel views to the bridge from its own goroutine. Only
// the newest pending view is kept: if several arrive while a post is in
// flight, the panel receives the last one.
type Publisher struct {
	client  *Client
	log     *slog.Logger
	backoff func(attempt int) time.Duration

	mu      sync.Mutex
	pending *Message
	lastSeq uint64
	signal  chan struct{}
}

func NewPublisher(client *Client, log *slog.Logger) *Publisher {
	return &Publisher{
		client:  client,
		log:     log,
		backoff: Backoff,
		signal:  make(chan struct{}, 1),
	}
}

// Notify queues a view for delivery. It never blocks, so it can be passed to
// workspace.Tracker.Subscribe directly. Views with a Seq lower than one
// already seen are ignored; unnumbered views are always taken.
func (p *Publisher) Notify(v workspace.View) {
	p.mu.Lock()
	if v.Seq != 0 {
		if v.Seq < p.lastSeq {
			p.mu.Unlock()
			return
		}
		p.lastSeq = v.Seq
	}
	p.pending = &Message{
		Type:      "update",
		EventID:   v.EventID,
		DocID:     v.DocID,
		Title:     v.Title,
		Revision:  v.Revision,
		Body:      v.Lines,
		Headings:  v.Headings,
		WordCount: v.WordCount,
	}
	p.mu.Unlock()

	select {
	case p.signal <- struct{}{}:
	default:
	}
}

// Run delivers pending views until ctx is cancelled.
func (p *Publisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.signal:
		}

		p.mu.Lock()
		msg := p.pending
		p.pending = nil
		p.mu.Unlock()
		if msg == nil {
			continue
		}
		p.deliver(ctx, *msg)
	}
}

func (p *Publisher) deliver(ctx context.Context, msg Message) {
	log := p.log.With("event_id", msg.EventID, "doc_id", msg.DocID)
	var err error
	for attempt := range MaxRetries {
		err = p.client.Post(ctx, msg)
		if err == nil || !IsRetryable(err) {
			break
		}
		log.Warn("retryable panel error", "attempt", attempt, "error", err)
		select {
		case <-time.After(p.backoff(attempt)):
		case <-ctx.Done():
			return
		}
	}
	if err != nil {
		log.Error("panel update failed", "error", err)
		return
	}
	log.Debug("panel updated", "revision", msg.Revision, "headings", len(msg.Headings))
}
