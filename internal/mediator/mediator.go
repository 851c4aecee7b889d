// Package mediator implements in-process request dispatch and notification
// fan-out. Each request type is bound to exactly one handler; notifications
// are broadcast to any number of subscribers after a command commits.
package mediator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Request is the marker interface implemented by every command and query.
// RequestName returns a stable name used to route the request to its handler.
type Request interface {
	RequestName() string
}

// Notification is the marker interface implemented by every event broadcast
// after a command commits.
type Notification interface {
	NotificationName() string
}

// ErrNoHandler is returned by Send when no handler is bound to the request's
// name. This is a wiring defect, not a runtime condition.
var ErrNoHandler = errors.New("no handler registered")

// Publisher delivers notifications to subscribers. Both Dispatcher
// (synchronous) and PublishQueue (buffered) satisfy it.
type Publisher interface {
	Publish(ctx context.Context, n Notification)
}

type handlerFunc func(ctx context.Context, req Request) (any, error)

type subscriberFunc func(ctx context.Context, n Notification) error

// Dispatcher routes requests to their single handler and fans notifications
// out to subscribers. Registration happens at startup; after that the
// internal maps are only read, so Send and Publish are safe for concurrent
// use.
type Dispatcher struct {
	log *slog.Logger

	mu          sync.RWMutex
	handlers    map[string]handlerFunc
	subscribers map[string][]subscriberFunc
}

// New constructs an empty Dispatcher logging through log.
func New(log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		log:         log,
		handlers:    make(map[string]handlerFunc),
		subscribers: make(map[string][]subscriberFunc),
	}
}

func (d *Dispatcher) register(name string, h handlerFunc) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, dup := d.handlers[name]; dup {
		return fmt.Errorf("handler already registered for %q", name)
	}
	d.handlers[name] = h
	return nil
}

func (d *Dispatcher) subscribe(name string, s subscriberFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers[name] = append(d.subscribers[name], s)
}

// Send resolves the handler bound to req's name and invokes it, returning the
// handler's result or error unmodified. A request with no handler yields
// ErrNoHandler.
func (d *Dispatcher) Send(ctx context.Context, req Request) (any, error) {
	d.mu.RLock()
	h, ok := d.handlers[req.RequestName()]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w for %q", ErrNoHandler, req.RequestName())
	}
	return h(ctx, req)
}

// Publish invokes every subscriber bound to n's name, sequentially and in
// registration order. Zero subscribers is a no-op. A subscriber error is
// logged and delivery continues with the next subscriber; the command that
// raised the notification has already committed and is never affected.
func (d *Dispatcher) Publish(ctx context.Context, n Notification) {
	d.mu.RLock()
	subs := d.subscribers[n.NotificationName()]
	d.mu.RUnlock()
	for _, s := range subs {
		if err := s(ctx, n); err != nil {
			d.log.Error("notification_subscriber_error",
				"notification", n.NotificationName(),
				"error", err,
			)
		}
	}
}

// RegisterHandler binds h as the single handler for requests of type R.
// Binding a second handler for the same request name is an error; callers
// treat it as fatal at startup.
func RegisterHandler[R Request, T any](d *Dispatcher, h func(ctx context.Context, req R) (T, error)) error {
	var key R
	name := key.RequestName()
	return d.register(name, func(ctx context.Context, req Request) (any, error) {
		typed, ok := req.(R)
		if !ok {
			return nil, fmt.Errorf("handler for %q received %T", name, req)
		}
		return h(ctx, typed)
	})
}

// Subscribe registers fn as a subscriber for notifications of type N.
func Subscribe[N Notification](d *Dispatcher, fn func(ctx context.Context, n N) error) {
	var key N
	name := key.NotificationName()
	d.subscribe(name, func(ctx context.Context, n Notification) error {
		typed, ok := n.(N)
		if !ok {
			return fmt.Errorf("subscriber for %q received %T", name, n)
		}
		return fn(ctx, typed)
	})
}

// Send dispatches req and asserts the result to T.
func Send[T any](ctx context.Context, d *Dispatcher, req Request) (T, error) {
	var zero T
	res, err := d.Send(ctx, req)
	if err != nil {
		return zero, err
	}
	if res == nil {
		return zero, nil
	}
	typed, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("request %q returned %T", req.RequestName(), res)
	}
	return typed, nil
}
