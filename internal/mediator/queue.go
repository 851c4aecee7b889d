package mediator

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// PublishQueue decouples notification delivery from the command path. It
// buffers notifications in a bounded backlog and delivers them from a single
// background goroutine, preserving enqueue order. Delivery failures are
// isolated per subscriber by the Dispatcher's publish policy.
type PublishQueue struct {
	d    *Dispatcher
	log  *slog.Logger
	size int

	mu           sync.Mutex
	backlog      []Notification
	notify       chan struct{}
	shuttingDown atomic.Bool

	enqueued  atomic.Uint64
	delivered atomic.Uint64
}

// NewPublishQueue creates a PublishQueue delivering through d with at most
// size buffered notifications.
func NewPublishQueue(d *Dispatcher, size int, log *slog.Logger) *PublishQueue {
	if size <= 0 {
		size = 64
	}
	if log == nil {
		log = slog.Default()
	}
	return &PublishQueue{
		d:      d,
		log:    log,
		size:   size,
		notify: make(chan struct{}, 1),
	}
}

// Start runs the delivery loop until ctx is done.
func (q *PublishQueue) Start(ctx context.Context) {
	go q.deliver(ctx)
}

// deliver drains the backlog one notification at a time. A single goroutine
// keeps delivery ordered.
func (q *PublishQueue) deliver(ctx context.Context) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		for {
			n, ok := q.pop()
			if !ok {
				break
			}
			q.d.Publish(ctx, n)
			q.delivered.Add(1)
		}
		select {
		case <-ctx.Done():
			return
		case <-q.notify:
		case <-ticker.C:
		}
	}
}

func (q *PublishQueue) pop() (Notification, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.backlog) == 0 {
		return nil, false
	}
	n := q.backlog[0]
	q.backlog = q.backlog[1:]
	return n, true
}

// Enqueue appends a notification for background delivery. It reports false
// when intake is closed or the backlog is full; delivery is best effort and a
// rejected notification is dropped.
func (q *PublishQueue) Enqueue(n Notification) bool {
	if q.shuttingDown.Load() {
		return false
	}
	q.mu.Lock()
	if len(q.backlog) >= q.size {
		q.mu.Unlock()
		q.log.Warn("publish_queue_full", "notification", n.NotificationName(), "size", q.size)
		return false
	}
	q.backlog = append(q.backlog, n)
	q.mu.Unlock()
	q.enqueued.Add(1)
	select {
	case q.notify <- struct{}{}:
	default:
	}
	return true
}

// Publish implements Publisher by enqueueing for background delivery. The
// notification is fire-and-forget, so a rejected enqueue is dropped after
// Enqueue has logged it.
func (q *PublishQueue) Publish(_ context.Context, n Notification) {
	_ = q.Enqueue(n)
}

// BacklogSize returns the number of buffered, not yet delivered notifications.
func (q *PublishQueue) BacklogSize() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.backlog)
}

// Metrics returns delivery counters and the current backlog size.
func (q *PublishQueue) Metrics() (enq, delivered uint64, backlog int) {
	return q.enqueued.Load(), q.delivered.Load(), q.BacklogSize()
}

// CloseIntake disallows future enqueues.
func (q *PublishQueue) CloseIntake() { q.shuttingDown.Store(true) }

// DrainUntil blocks until every enqueued notification has been delivered or
// ctx is done, reporting whether the queue fully drained.
func (q *PublishQueue) DrainUntil(ctx context.Context) bool {
	for {
		enq, del, backlog := q.Metrics()
		if backlog == 0 && enq == del {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(50 * time.Millisecond):
		}
	}
}
