// Package notify implements the in-memory notification feed. Notifications
// are newest first and never persisted. Subscribers are called synchronously,
// in subscription order, after every mutation.
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/blueprint/internal/logging"
	"github.com/mesh-intelligence/blueprint/internal/metrics"
	"github.com/mesh-intelligence/blueprint/pkg/types"
)

// Listener receives the full notification list. The slice is the
// listener's own copy.
type Listener func([]types.Notification)

type subscription struct {
	token    uint64
	listener Listener
}

// Feed is an ordered observer registry over a list of notifications. It is
// safe for concurrent use, and listeners may call back into the feed.
type Feed struct {
	mu        sync.Mutex
	items     []types.Notification
	subs      []subscription
	nextToken uint64
	closed    bool

	now     func() time.Time
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

// Option configures a Feed.
type Option func(*Feed)

// WithLogger sets the logger for listener panics.
func WithLogger(l logrus.FieldLogger) Option {
	return func(f *Feed) { f.log = logging.Component(l, "feed") }
}

// WithMetrics counts added notifications.
func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Feed) { f.metrics = m }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(f *Feed) { f.now = now }
}

// New returns an empty feed.
func New(opts ...Option) *Feed {
	f := &Feed{
		now: time.Now,
		log: logging.Component(nil, "feed"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Subscribe registers listener and calls it once with the current list.
// The returned function deregisters it; calling it more than once, or after
// Close, does nothing. Subscribing to a closed feed registers nothing.
func (f *Feed) Subscribe(listener Listener) (unsubscribe func()) {
	f.mu.Lock()
	if f.closed || listener == nil {
		f.mu.Unlock()
		return func() {}
	}
	f.nextToken++
	token := f.nextToken
	f.subs = append(f.subs, subscription{token: token, listener: listener})
	snapshot := f.snapshotLocked()
	f.mu.Unlock()

	f.deliver(listener, snapshot)

	var once sync.Once
	return func() {
		once.Do(func() { f.remove(token) })
	}
}

func (f *Feed) remove(token uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, s := range f.subs {
		if s.token == token {
			f.subs = append(f.subs[:i:i], f.subs[i+1:]...)
			return
		}
	}
}

// Add prepends a new unread notification and notifies subscribers. An empty
// type means info.
func (f *Feed) Add(message string, typ types.NotificationType, actionLink string) (types.Notification, error) {
	if typ == "" {
		typ = types.NotificationInfo
	}
	if !typ.Valid() {
		return types.Notification{}, fmt.Errorf("%w: %q", types.ErrInvalidNotificationType, typ)
	}

	n := types.Notification{
		ID:         types.NewID(),
		Type:       typ,
		Message:    message,
		Timestamp:  f.now().UTC(),
		ActionLink: actionLink,
	}

	f.mu.Lock()
	f.items = append([]types.Notification{n}, f.items...)
	f.mu.Unlock()

	f.metrics.NotificationAdded(string(typ))
	f.notify()
	return n, nil
}

// MarkAsRead marks the notification with id as read. Unknown ids change
// nothing, but subscribers are still notified.
func (f *Feed) MarkAsRead(id string) {
	f.mu.Lock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Read = true
			break
		}
	}
	f.mu.Unlock()

	f.notify()
}

// ClearAll empties the feed and notifies subscribers with an empty list.
func (f *Feed) ClearAll() {
	f.mu.Lock()
	f.items = nil
	f.mu.Unlock()

	f.notify()
}

// List returns a copy of the current notifications, newest first.
func (f *Feed) List() []types.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// UnreadCount returns the number of unread notifications.
func (f *Feed) UnreadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, item := range f.items {
		if !item.Read {
			n++
		}
	}
	return n
}

// Close drops every subscriber. The list itself stays readable.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	f.subs = nil
}

// notify delivers the current list to each subscriber registered at the
// time of the call. The lock is released before any listener runs.
func (f *Feed) notify() {
	f.mu.Lock()
	subs := make([]subscription, len(f.subs))
	copy(subs, f.subs)
	snapshot := f.snapshotLocked()
	f.mu.Unlock()

	for i, s := range subs {
		list := snapshot
		if i < len(subs)-1 {
			list = cloneList(snapshot)
		}
		f.deliver(s.listener, list)
	}
}

// deliver runs one listener and contains its panic.
func (f *Feed) deliver(listener Listener, list []types.Notification) {
	defer func() {
		if r := recover(); r != nil {
			f.log.WithField("panic", r).Error("notification listener panicked")
		}
	}()
	listener(list)
}

func (f *Feed) snapshotLocked() []types.Notification {
	return cloneList(f.items)
}

// cloneList never returns nil so listeners can tell an empty feed from a
// missing value.
func cloneList(items []types.Notification) []types.Notification {
	out := make([]types.Notification, len(items))
	copy(out, items)
	return out
}
